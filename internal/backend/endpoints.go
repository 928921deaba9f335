package backend

import "context"

// ChassisTypes lists the product families in server order.
func (c *Client) ChassisTypes(ctx context.Context) ([]ChassisType, error) {
	var out []ChassisType
	if err := c.Get(ctx, "/chassis-types", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Realisations lists completed projects in server order.
func (c *Client) Realisations(ctx context.Context) ([]Realisation, error) {
	var out []Realisation
	if err := c.Get(ctx, "/realisations", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Catalogues lists downloadable catalogues in server order.
func (c *Client) Catalogues(ctx context.Context) ([]Catalogue, error) {
	var out []Catalogue
	if err := c.Get(ctx, "/catalogues", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CatalogueCategories lists the catalogue categories known to the backend.
func (c *Client) CatalogueCategories(ctx context.Context) ([]string, error) {
	var out struct {
		Categories []string `json:"categories"`
	}
	if err := c.Get(ctx, "/catalogues/categories", &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

// SubmitQuote posts a quote request. key deduplicates retried deliveries.
func (c *Client) SubmitQuote(ctx context.Context, q QuoteRequest, key string) (Ack, error) {
	var ack Ack
	if err := c.Post(ctx, "/devis", q, &ack, WithIdempotencyKey(key)); err != nil {
		return nil, err
	}
	return ack, nil
}

// SubmitContact posts a contact message. key deduplicates retried deliveries.
func (c *Client) SubmitContact(ctx context.Context, m ContactMessage, key string) (Ack, error) {
	var ack Ack
	if err := c.Post(ctx, "/contact", m, &ack, WithIdempotencyKey(key)); err != nil {
		return nil, err
	}
	return ack, nil
}
