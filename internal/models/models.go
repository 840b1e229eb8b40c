package models

import "time"

// Role identifies the acting side of a session.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleVendor   Role = "vendor"
	RoleCustomer Role = "customer"
)

// Session is the persisted actor identity read at the start of every
// operation. It is injected explicitly; nothing reads it from a global.
type Session struct {
	Token     string    `json:"token"`
	ActorID   string    `json:"actor_id"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Valid reports whether the session can authorize a backend call.
func (s *Session) Valid() bool {
	if s == nil || s.Token == "" || s.ActorID == "" {
		return false
	}
	if !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt) {
		return false
	}
	return true
}

// Scope selects whose bookings a list call fetches.
type Scope struct {
	Role Role
	ID   string
}

// Service is one vendor offering (photography package, catering menu, ...).
type Service struct {
	ID          string  `json:"id"`
	VendorID    string  `json:"vendorId"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Active      bool    `json:"active"`
}

// Vendor is the public profile of a service provider.
type Vendor struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Category string `json:"category,omitempty"`
	City     string `json:"city,omitempty"`
}

// Customer is the profile of a planning couple.
type Customer struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone,omitempty"`
	Address     string     `json:"address,omitempty"`
	WeddingDate *time.Time `json:"weddingDate,omitempty"`
}

// Review is a customer's rating of a completed service. Rating is 1..5.
type Review struct {
	ID         string    `json:"id"`
	ServiceID  string    `json:"serviceId"`
	CustomerID string    `json:"customerId"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Notification is a server-pushed message for one actor.
type Notification struct {
	ID        string    `json:"id"`
	ActorID   string    `json:"actorId"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// ChecklistItem is one task on a customer's planning checklist.
type ChecklistItem struct {
	ID         string     `json:"id"`
	CustomerID string     `json:"customerId"`
	Title      string     `json:"title"`
	Done       bool       `json:"done"`
	DueDate    *time.Time `json:"dueDate,omitempty"`
}

// AgendaItem is a timed slot on the wedding-day agenda. End must be after
// Start.
type AgendaItem struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customerId"`
	Title      string    `json:"title"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Location   string    `json:"location,omitempty"`
}
