package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"wedhub/internal/models"
)

// bookingDTO mirrors the wire shape of a booking; the status arrives as a
// raw string and is normalized before anything else sees it.
type bookingDTO struct {
	ID         string `json:"id"`
	ServiceID  string `json:"serviceId"`
	CustomerID string `json:"customerId"`
	VendorID   string `json:"vendorId"`

	ServiceName     string `json:"serviceName"`
	ServiceCategory string `json:"serviceCategory"`
	CustomerName    string `json:"customerName"`
	CustomerEmail   string `json:"customerEmail"`
	CustomerPhone   string `json:"customerPhone"`
	CustomerAddress string `json:"customerAddress"`

	Status string `json:"status"`

	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	ConfirmedAt *time.Time `json:"confirmedAt"`
	CancelledAt *time.Time `json:"cancelledAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

func (d *bookingDTO) toModel() (models.Booking, error) {
	status, err := models.ParseStatus(d.Status)
	if err != nil {
		return models.Booking{}, err
	}
	return models.Booking{
		ID:              d.ID,
		ServiceID:       d.ServiceID,
		CustomerID:      d.CustomerID,
		VendorID:        d.VendorID,
		ServiceName:     d.ServiceName,
		ServiceCategory: d.ServiceCategory,
		CustomerName:    d.CustomerName,
		CustomerEmail:   d.CustomerEmail,
		CustomerPhone:   d.CustomerPhone,
		CustomerAddress: d.CustomerAddress,
		Status:          status,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
		ConfirmedAt:     d.ConfirmedAt,
		CancelledAt:     d.CancelledAt,
		CompletedAt:     d.CompletedAt,
	}, nil
}

func toBookings(dtos []bookingDTO) ([]models.Booking, error) {
	bookings := make([]models.Booking, 0, len(dtos))
	for i := range dtos {
		booking, err := dtos[i].toModel()
		if err != nil {
			return nil, fmt.Errorf("%w: booking %s: %v", ErrInvalidResponse, dtos[i].ID, err)
		}
		bookings = append(bookings, booking)
	}
	return bookings, nil
}

// VendorBookings lists all bookings against the vendor's services.
func (c *Client) VendorBookings(ctx context.Context, session *models.Session, vendorID string) ([]models.Booking, error) {
	var dtos []bookingDTO
	path := "/booking/vendor/" + url.PathEscape(vendorID)
	if err := c.doGet(ctx, session, "booking_vendor", path, &dtos); err != nil {
		return nil, err
	}
	return toBookings(dtos)
}

// CustomerBookings lists a customer's own bookings, wishlist entries included.
func (c *Client) CustomerBookings(ctx context.Context, session *models.Session, customerID string) ([]models.Booking, error) {
	var dtos []bookingDTO
	path := "/booking/customer/" + url.PathEscape(customerID)
	if err := c.doGet(ctx, session, "booking_customer", path, &dtos); err != nil {
		return nil, err
	}
	return toBookings(dtos)
}

// UpdateBookingStatus issues a status-transition command. The server is
// authoritative; callers re-fetch the scope afterwards instead of trusting
// the local patch.
func (c *Client) UpdateBookingStatus(ctx context.Context, session *models.Session, bookingID string, status models.Status) error {
	body := struct {
		BookingID string `json:"bookingId"`
		Status    string `json:"status"`
	}{BookingID: bookingID, Status: string(status)}

	return c.doJSON(ctx, session, http.MethodPut, "booking_update_status", "/booking/update-status", body, nil)
}

// DeleteBooking removes a booking permanently.
func (c *Client) DeleteBooking(ctx context.Context, session *models.Session, bookingID string) error {
	path := "/booking/delete/" + url.PathEscape(bookingID)
	return c.doJSON(ctx, session, http.MethodDelete, "booking_delete", path, nil, nil)
}
