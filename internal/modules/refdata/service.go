// README: Reference data service: search and paging over cached lists.
package refdata

import (
	"context"
	"strings"
)

// Lister is the raw list source; satisfied by Store.
type Lister interface {
	Airports(ctx context.Context) ([]Airport, error)
	Airlines(ctx context.Context) ([]Airline, error)
	MeetGreetOptions(ctx context.Context) ([]MeetGreetOption, error)
}

type Service struct {
	store Lister
}

func NewService(store Lister) *Service {
	return &Service{store: store}
}

// SearchAirports filters by substring match on code, name, or city, then pages.
func (s *Service) SearchAirports(ctx context.Context, query string, page, size int) ([]Airport, error) {
	all, err := s.store.Airports(ctx)
	if err != nil {
		return nil, err
	}
	filtered := filter(all, query, func(a Airport) string {
		return a.Code + " " + a.Name + " " + a.City
	})
	return paginate(filtered, page, size), nil
}

// SearchAirlines filters by substring match on code or name, then pages.
func (s *Service) SearchAirlines(ctx context.Context, query string, page, size int) ([]Airline, error) {
	all, err := s.store.Airlines(ctx)
	if err != nil {
		return nil, err
	}
	filtered := filter(all, query, func(a Airline) string {
		return a.Code + " " + a.Name
	})
	return paginate(filtered, page, size), nil
}

// MeetGreetOptions returns the full choice list; it is small and unpaged.
func (s *Service) MeetGreetOptions(ctx context.Context) ([]MeetGreetOption, error) {
	return s.store.MeetGreetOptions(ctx)
}

func filter[T any](items []T, query string, text func(T) string) []T {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return items
	}
	var out []T
	for _, it := range items {
		if strings.Contains(strings.ToLower(text(it)), query) {
			out = append(out, it)
		}
	}
	return out
}

func paginate[T any](items []T, page, size int) []T {
	if size < 1 {
		size = 20
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start >= len(items) {
		return nil
	}
	end := min(start+size, len(items))
	return items[start:end]
}
