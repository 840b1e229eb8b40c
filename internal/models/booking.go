package models

import (
	"fmt"
	"strings"
	"time"
)

// Status is the closed booking lifecycle enum. The backend is authoritative;
// every status string crossing the wire is normalized through ParseStatus
// before it is stored or rendered.
type Status string

const (
	StatusInterested Status = "INTERESTED"
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusCancelled  Status = "CANCELLED"
	StatusCompleted  Status = "COMPLETED"
)

// AllStatuses lists the enum in lifecycle order.
var AllStatuses = []Status{
	StatusInterested,
	StatusPending,
	StatusConfirmed,
	StatusCancelled,
	StatusCompleted,
}

// ParseStatus normalizes a server status string into the enum.
// Matching is case-insensitive and tolerates the single-l "canceled"
// spelling some backend versions emit.
func ParseStatus(raw string) (Status, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "INTERESTED":
		return StatusInterested, nil
	case "PENDING":
		return StatusPending, nil
	case "CONFIRMED":
		return StatusConfirmed, nil
	case "CANCELLED", "CANCELED":
		return StatusCancelled, nil
	case "COMPLETED":
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("unknown booking status %q", raw)
}

// transitions is the directional allowed-transition table. Deletion is not a
// transition and is handled separately.
var transitions = map[Status][]Status{
	StatusInterested: {StatusPending},
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether from -> to is allowed.
func (s Status) CanTransition(to Status) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether the status admits no further transition.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Booking is one customer's request for one vendor service. Identity and
// status are server-assigned; the denormalized display fields are joined in
// by the backend and may be absent.
type Booking struct {
	ID         string `json:"id"`
	ServiceID  string `json:"serviceId"`
	CustomerID string `json:"customerId"`
	VendorID   string `json:"vendorId,omitempty"`

	ServiceName     string `json:"serviceName,omitempty"`
	ServiceCategory string `json:"serviceCategory,omitempty"`
	CustomerName    string `json:"customerName,omitempty"`
	CustomerEmail   string `json:"customerEmail,omitempty"`
	CustomerPhone   string `json:"customerPhone,omitempty"`
	CustomerAddress string `json:"customerAddress,omitempty"`

	Status Status `json:"status"`

	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	ConfirmedAt *time.Time `json:"confirmedAt,omitempty"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Wishlist reports whether the booking is an INTERESTED wishlist entry,
// which is excluded from vendor-facing request views and vendor stats.
func (b *Booking) Wishlist() bool {
	return b.Status == StatusInterested
}

// BookingStats is the per-status projection shown on the stats cards.
// Recomputed on every list change, never persisted.
type BookingStats struct {
	Total      int `json:"total"`
	Interested int `json:"interested"`
	Pending    int `json:"pending"`
	Confirmed  int `json:"confirmed"`
	Cancelled  int `json:"cancelled"`
	Completed  int `json:"completed"`
}

// ComputeStats counts bookings per status in a single pass.
func ComputeStats(bookings []Booking) BookingStats {
	var stats BookingStats
	stats.Total = len(bookings)
	for i := range bookings {
		switch bookings[i].Status {
		case StatusInterested:
			stats.Interested++
		case StatusPending:
			stats.Pending++
		case StatusConfirmed:
			stats.Confirmed++
		case StatusCancelled:
			stats.Cancelled++
		case StatusCompleted:
			stats.Completed++
		}
	}
	return stats
}
