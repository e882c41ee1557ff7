package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/tOgg1/riskdesk/internal/models"
)

// CreateProfileInput is the payload for creating a profile.
type CreateProfileInput struct {
	Name     string
	Password string
}

// ListProfiles returns every profile.
func (c *Client) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	var wire []wireProfile
	if err := c.do(ctx, "list profiles", http.MethodGet, "/profiles", nil, nil, &wire); err != nil {
		return nil, err
	}
	return convertList(c.log, "profile", wire, wireProfile.toModel), nil
}

// CreateProfile creates a profile and returns the stored record.
func (c *Client) CreateProfile(ctx context.Context, input CreateProfileInput) (models.Profile, error) {
	if strings.TrimSpace(input.Name) == "" {
		return models.Profile{}, &models.ValidationError{Field: "name", Message: models.ErrNameRequired.Error(), Cause: models.ErrNameRequired}
	}
	var wire wireProfile
	req := createProfileRequest{Name: input.Name, Password: input.Password}
	if err := c.do(ctx, "create profile", http.MethodPost, "/profiles", nil, req, &wire); err != nil {
		return models.Profile{}, err
	}
	profile, err := wire.toModel()
	if err != nil {
		return models.Profile{}, malformed("create profile", err)
	}
	return profile, nil
}

// RecordProfileSelection tells the server a visitor picked the profile.
func (c *Client) RecordProfileSelection(ctx context.Context, profileID string) error {
	path, err := idPath("/profiles", profileID, "/select")
	if err != nil {
		return err
	}
	return c.do(ctx, "record profile selection", http.MethodPost, path, nil, nil, nil)
}

func malformed(op string, err error) error {
	return &models.RemoteRequestError{
		Op:      op,
		Message: "server returned an invalid record: " + err.Error(),
		Cause:   err,
	}
}
