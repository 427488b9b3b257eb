// README: Reference data models: airports, airlines, meet-and-greet choices.
package refdata

type Airport struct {
	Code string `json:"code"`
	Name string `json:"name"`
	City string `json:"city"`
}

type Airline struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type MeetGreetOption struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}
