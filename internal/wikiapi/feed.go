package wikiapi

import (
	"context"
	"fmt"

	"github.com/ppiankov/geolore/internal/model"
)

type onThisDayResponse struct {
	Events []model.RawEvent `json:"events"`
}

// FetchDayEvents returns the "on this day" events feed for month/day
func (c *Client) FetchDayEvents(ctx context.Context, month, day int) ([]model.RawEvent, error) {
	rawURL := fmt.Sprintf("%s/api/rest_v1/feed/onthisday/events/%02d/%02d", c.restURL, month, day)

	var resp onThisDayResponse
	if err := c.getJSON(ctx, rawURL, &resp); err != nil {
		return nil, fmt.Errorf("events %02d/%02d: %w", month, day, err)
	}
	if resp.Events == nil {
		return []model.RawEvent{}, nil
	}
	return resp.Events, nil
}
