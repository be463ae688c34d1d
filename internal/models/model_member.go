package models

import "time"

// Member is one entry from the site member directory. It is the identity
// join target for orders and bookings.
type Member struct {
	ID          string         `json:"id"`
	LoginEmail  string         `json:"loginEmail"`
	Profile     *MemberProfile `json:"profile,omitempty"`
	Status      string         `json:"status"`
	CreatedDate *time.Time     `json:"createdDate,omitempty"`
}

type MemberProfile struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Slug      string `json:"slug,omitempty"`
}

// FirstName tolerates a missing profile sub-object.
func (m *Member) FirstName() string {
	if m.Profile == nil {
		return ""
	}
	return m.Profile.FirstName
}

func (m *Member) LastName() string {
	if m.Profile == nil {
		return ""
	}
	return m.Profile.LastName
}

func (m *Member) Slug() string {
	if m.Profile == nil {
		return ""
	}
	return m.Profile.Slug
}
