package api

import (
	"context"
	"net/url"
)

// Suggestion is one autocomplete entry, already split the way the form
// displays it.
type Suggestion struct {
	MainText      string `json:"main_text"`
	SecondaryText string `json:"secondary_text"`
}

type GeoClient struct {
	c *Client
}

func NewGeoClient(c *Client) *GeoClient {
	return &GeoClient{c: c}
}

func (g *GeoClient) Suggest(ctx context.Context, query string) ([]Suggestion, error) {
	values := url.Values{}
	values.Set("query", query)

	var suggestions []Suggestion
	if err := g.c.get(ctx, "/geo/autocomplete", values, &suggestions); err != nil {
		return nil, err
	}
	return suggestions, nil
}
