package backend

import (
	"context"
	"net/http"
	"net/url"

	"wedhub/internal/models"
)

// ServiceReviews lists the reviews left for one service.
func (c *Client) ServiceReviews(ctx context.Context, session *models.Session, serviceID string) ([]models.Review, error) {
	var reviews []models.Review
	path := "/review/service/" + url.PathEscape(serviceID)
	if err := c.doGet(ctx, session, "review_service", path, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// CreateReview submits a review for a completed service.
func (c *Client) CreateReview(ctx context.Context, session *models.Session, review *models.Review) (*models.Review, error) {
	var created models.Review
	if err := c.doJSON(ctx, session, http.MethodPost, "review_create", "/review/create", review, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Notifications lists an actor's notifications, newest first.
func (c *Client) Notifications(ctx context.Context, session *models.Session, actorID string) ([]models.Notification, error) {
	var notifications []models.Notification
	path := "/notification/" + url.PathEscape(actorID)
	if err := c.doGet(ctx, session, "notification_list", path, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkNotificationRead flags one notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, session *models.Session, notificationID string) error {
	path := "/notification/read/" + url.PathEscape(notificationID)
	return c.doJSON(ctx, session, http.MethodPut, "notification_read", path, nil, nil)
}

// Checklist lists a customer's planning checklist.
func (c *Client) Checklist(ctx context.Context, session *models.Session, customerID string) ([]models.ChecklistItem, error) {
	var items []models.ChecklistItem
	path := "/checklist/" + url.PathEscape(customerID)
	if err := c.doGet(ctx, session, "checklist_list", path, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateChecklistItem adds a checklist task.
func (c *Client) CreateChecklistItem(ctx context.Context, session *models.Session, item *models.ChecklistItem) (*models.ChecklistItem, error) {
	var created models.ChecklistItem
	if err := c.doJSON(ctx, session, http.MethodPost, "checklist_create", "/checklist/create", item, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateChecklistItem updates a checklist task (title, done flag, due date).
func (c *Client) UpdateChecklistItem(ctx context.Context, session *models.Session, item *models.ChecklistItem) error {
	return c.doJSON(ctx, session, http.MethodPut, "checklist_update", "/checklist/update", item, nil)
}

// DeleteChecklistItem removes a checklist task.
func (c *Client) DeleteChecklistItem(ctx context.Context, session *models.Session, itemID string) error {
	path := "/checklist/delete/" + url.PathEscape(itemID)
	return c.doJSON(ctx, session, http.MethodDelete, "checklist_delete", path, nil, nil)
}

// Agenda lists a customer's wedding-day agenda slots.
func (c *Client) Agenda(ctx context.Context, session *models.Session, customerID string) ([]models.AgendaItem, error) {
	var items []models.AgendaItem
	path := "/agenda/" + url.PathEscape(customerID)
	if err := c.doGet(ctx, session, "agenda_list", path, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateAgendaItem adds an agenda slot.
func (c *Client) CreateAgendaItem(ctx context.Context, session *models.Session, item *models.AgendaItem) (*models.AgendaItem, error) {
	var created models.AgendaItem
	if err := c.doJSON(ctx, session, http.MethodPost, "agenda_create", "/agenda/create", item, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteAgendaItem removes an agenda slot.
func (c *Client) DeleteAgendaItem(ctx context.Context, session *models.Session, itemID string) error {
	path := "/agenda/delete/" + url.PathEscape(itemID)
	return c.doJSON(ctx, session, http.MethodDelete, "agenda_delete", path, nil, nil)
}
