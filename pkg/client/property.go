package client

import (
	"context"
	"fmt"
	"net/http"

	apperrors "ciaohost/pkg/errors"
	"ciaohost/pkg/model"
)

// PropertyClient talks to the property registry service. The booking
// service uses it to freeze pricing and check capacity at creation time.
type PropertyClient struct {
	http *HttpClient
}

func NewPropertyClient(baseURL string) *PropertyClient {
	return &PropertyClient{
		http: NewHttpClient(baseURL),
	}
}

func (c *PropertyClient) GetByID(ctx context.Context, id string) (*model.Property, error) {
	resp, err := c.http.GET(ctx, fmt.Sprintf("/api/v1/properties/id/%s", id))
	if err != nil {
		return nil, apperrors.Unavailable("property service")
	}

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusNotFound:
		return nil, apperrors.NotFoundWithID("Property", id)
	default:
		return nil, apperrors.Internal(
			fmt.Sprintf("property service returned unexpected response: %s", GetErrorMessage(resp)),
			nil,
		)
	}

	var wrapper struct {
		Data model.Property `json:"data"`
	}
	if err := resp.DecodeJSON(&wrapper); err != nil {
		return nil, apperrors.Internal("failed to decode property response", err)
	}

	return &wrapper.Data, nil
}
