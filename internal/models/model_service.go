package models

// Service is one bookable service from the services catalog.
type Service struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	CategoryID string `json:"categoryId"`
	Slug       string `json:"slug"`
	Status     string `json:"status"`
}
