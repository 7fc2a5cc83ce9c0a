package opencloud

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const universesPath = "/universes/v1/universes"

type Universe struct {
	ID          ID     `json:"id"`
	RootPlaceID ID     `json:"rootPlaceId"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
}

type CreateUniverseRequest struct {
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	Genre       string `json:"genre"`
	IsForSale   bool   `json:"isForSale"`
	Price       int    `json:"price"`
}

type listUniversesResponse struct {
	Data          []Universe `json:"data"`
	NextPageToken string     `json:"nextPageToken"`
}

// CreateUniverse provisions a new universe with a default root place.
func (c *Client) CreateUniverse(ctx context.Context, apiKey string, params CreateUniverseRequest) (*Universe, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("opencloud: encoding create universe request: %w", err)
	}

	var universe Universe
	if err := c.do(ctx, request{
		operation:   "create_universe",
		method:      http.MethodPost,
		path:        universesPath,
		apiKey:      apiKey,
		contentType: "application/json",
		body:        body,
	}, &universe); err != nil {
		return nil, err
	}

	if universe.ID.IsZero() || universe.RootPlaceID.IsZero() {
		return nil, fmt.Errorf("opencloud: create universe response is missing id or rootPlaceId")
	}
	return &universe, nil
}

// ListUniverses returns the first page (up to limit) of universes visible to the key.
func (c *Client) ListUniverses(ctx context.Context, apiKey string, limit int) ([]Universe, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var resp listUniversesResponse
	if err := c.do(ctx, request{
		operation: "list_universes",
		method:    http.MethodGet,
		path:      universesPath,
		query:     query,
		apiKey:    apiKey,
	}, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("opencloud: list universes response has no data")
	}
	return resp.Data, nil
}
