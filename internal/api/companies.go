package api

import (
	"context"
	"net/http"

	"github.com/tOgg1/riskdesk/internal/models"
)

// ListCompanies returns every tracked company.
func (c *Client) ListCompanies(ctx context.Context) ([]models.Company, error) {
	var wire []wireCompany
	if err := c.do(ctx, "list companies", http.MethodGet, "/pokemon", nil, nil, &wire); err != nil {
		return nil, err
	}
	return convertList(c.log, "company", wire, wireCompany.toModel), nil
}

// RecordCompanySelection tells the server a visitor picked the company.
func (c *Client) RecordCompanySelection(ctx context.Context, companyID string) error {
	path, err := idPath("/pokemon", companyID, "/select")
	if err != nil {
		return err
	}
	return c.do(ctx, "record company selection", http.MethodPost, path, nil, nil, nil)
}
