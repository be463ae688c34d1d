package types

type OrderStatus string

const (
	OrderStatusActive   OrderStatus = "ACTIVE"
	OrderStatusPending  OrderStatus = "PENDING"
	OrderStatusCanceled OrderStatus = "CANCELED"
	OrderStatusExpired  OrderStatus = "EXPIRED"
)

type SortOrder string

const (
	SortOrderAsc  SortOrder = "ASC"
	SortOrderDesc SortOrder = "DESC"
)

// SortField is one sort instruction understood by provider query endpoints.
type SortField struct {
	FieldName string    `json:"fieldName"`
	Order     SortOrder `json:"order"`
}

// QueryOptions carries the optional paging/sorting part of a provider query.
// A zero Limit means the provider default.
type QueryOptions struct {
	Limit int         `json:"limit,omitempty"`
	Sort  []SortField `json:"sort,omitempty"`
}
