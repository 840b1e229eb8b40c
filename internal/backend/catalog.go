package backend

import (
	"context"
	"net/http"
	"net/url"

	"wedhub/internal/models"
)

// VendorServices lists a vendor's service catalog. The catalog is
// read-mostly, so results go through the Redis cache when configured.
func (c *Client) VendorServices(ctx context.Context, session *models.Session, vendorID string) ([]models.Service, error) {
	cacheKey := "services:" + vendorID
	var services []models.Service
	if c.readCache(ctx, cacheKey, &services) {
		return services, nil
	}

	path := "/service/vendor/" + url.PathEscape(vendorID)
	if err := c.doGet(ctx, session, "service_vendor", path, &services); err != nil {
		return nil, err
	}
	c.writeCache(ctx, cacheKey, services)
	return services, nil
}

// CreateService registers a new service for the session's vendor.
func (c *Client) CreateService(ctx context.Context, session *models.Session, service *models.Service) (*models.Service, error) {
	var created models.Service
	if err := c.doJSON(ctx, session, http.MethodPost, "service_create", "/service/create", service, &created); err != nil {
		return nil, err
	}
	c.dropCache(ctx, "services:"+service.VendorID)
	return &created, nil
}

// UpdateService replaces a service's mutable fields.
func (c *Client) UpdateService(ctx context.Context, session *models.Session, service *models.Service) error {
	if err := c.doJSON(ctx, session, http.MethodPut, "service_update", "/service/update", service, nil); err != nil {
		return err
	}
	c.dropCache(ctx, "services:"+service.VendorID)
	return nil
}

// DeleteService removes a service from the catalog.
func (c *Client) DeleteService(ctx context.Context, session *models.Session, vendorID, serviceID string) error {
	path := "/service/delete/" + url.PathEscape(serviceID)
	if err := c.doJSON(ctx, session, http.MethodDelete, "service_delete", path, nil, nil); err != nil {
		return err
	}
	c.dropCache(ctx, "services:"+vendorID)
	return nil
}

// VendorProfile fetches a vendor's public profile, cached when configured.
func (c *Client) VendorProfile(ctx context.Context, session *models.Session, vendorID string) (*models.Vendor, error) {
	cacheKey := "vendor:" + vendorID
	var vendor models.Vendor
	if c.readCache(ctx, cacheKey, &vendor) {
		return &vendor, nil
	}

	path := "/vendor/" + url.PathEscape(vendorID)
	if err := c.doGet(ctx, session, "vendor_profile", path, &vendor); err != nil {
		return nil, err
	}
	c.writeCache(ctx, cacheKey, vendor)
	return &vendor, nil
}

// CustomerProfile fetches a customer's profile.
func (c *Client) CustomerProfile(ctx context.Context, session *models.Session, customerID string) (*models.Customer, error) {
	var customer models.Customer
	path := "/customer/" + url.PathEscape(customerID)
	if err := c.doGet(ctx, session, "customer_profile", path, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}
