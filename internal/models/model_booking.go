package models

import (
	"encoding/json"
	"time"
)

// ExtendedBooking is one record from the extended bookings query. Every
// sub-object may be absent; accessors below shield callers from nil chains.
type ExtendedBooking struct {
	Booking *BookingInfo    `json:"booking,omitempty"`
	Service *BookedService  `json:"service,omitempty"`
	Contact *BookingContact `json:"contact,omitempty"`
	Payment *BookingPayment `json:"payment,omitempty"`

	// Raw is the record as delivered by the provider, kept for the
	// detailed flattened export. Not part of the wire shape.
	Raw map[string]any `json:"-"`
}

type BookingInfo struct {
	ID        string     `json:"id"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	Status    string     `json:"status,omitempty"`
}

type BookedService struct {
	Name string `json:"name,omitempty"`
}

type BookingContact struct {
	ContactDetails *ContactDetails `json:"contactDetails,omitempty"`
}

type ContactDetails struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
}

type BookingPayment struct {
	Status string `json:"status,omitempty"`
	Price  *Money `json:"price,omitempty"`
}

func (b *ExtendedBooking) BookingID() string {
	if b.Booking == nil {
		return ""
	}
	return b.Booking.ID
}

func (b *ExtendedBooking) BookingStatus() string {
	if b.Booking == nil {
		return ""
	}
	return b.Booking.Status
}

func (b *ExtendedBooking) StartDate() *time.Time {
	if b.Booking == nil {
		return nil
	}
	return b.Booking.StartDate
}

func (b *ExtendedBooking) EndDate() *time.Time {
	if b.Booking == nil {
		return nil
	}
	return b.Booking.EndDate
}

func (b *ExtendedBooking) ServiceName() string {
	if b.Service == nil {
		return ""
	}
	return b.Service.Name
}

func (b *ExtendedBooking) Details() *ContactDetails {
	if b.Contact == nil {
		return nil
	}
	return b.Contact.ContactDetails
}

func (b *ExtendedBooking) PaymentStatus() string {
	if b.Payment == nil {
		return ""
	}
	return b.Payment.Status
}

func (b *ExtendedBooking) Price() *Money {
	if b.Payment == nil {
		return nil
	}
	return b.Payment.Price
}

// Nested returns the record as a nested map for flattening. The raw provider
// payload wins; a record built in memory (tests) round-trips through its
// JSON form instead.
func (b *ExtendedBooking) Nested() map[string]any {
	if b.Raw != nil {
		return b.Raw
	}
	data, err := json.Marshal(b)
	if err != nil {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return map[string]any{}
	}
	return m
}
