package models

// Plan is a pricing plan. Only the id and name are consumed; the plan
// collection exists as an id->name join target.
type Plan struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
