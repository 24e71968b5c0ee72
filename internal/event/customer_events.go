package event

import "time"

// CustomerEventPayload is the projection of a customer shared by all
// customer events. The password hash never leaves the service.
type CustomerEventPayload struct {
	CustomerID     int64     `json:"customerId"`
	Guest          bool      `json:"guest"`
	Type           string    `json:"type"`
	Email          string    `json:"email"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Active         bool      `json:"active"`
	GroupIDs       []int64   `json:"groupIds"`
	DefaultGroupID int64     `json:"defaultGroupId"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type CustomerUpdatedEvent struct {
	Timestamp time.Time            `json:"timestamp"`
	Payload   CustomerEventPayload `json:"payload"`
}
