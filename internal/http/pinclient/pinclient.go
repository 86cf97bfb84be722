// Package pinclient is a thin Go client for the pin API. Each method mirrors
// one server operation; non-2xx responses come back as an *APIError carrying
// the server's message when one was provided.
package pinclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hkaplan/crisispin/internal/model"
)

// Client talks to one pin API server.
type Client struct {
	BaseURL string
	Client  *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

type ListParams struct {
	Page         int
	Limit        int
	MainCategory string
	SubType      string
}

func (c *Client) ListPins(ctx context.Context, params ListParams) (*model.PinList, error) {
	q := url.Values{}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.MainCategory != "" {
		q.Set("mainCategory", params.MainCategory)
	}
	if params.SubType != "" {
		q.Set("subType", params.SubType)
	}

	var list model.PinList
	if err := c.do(ctx, http.MethodGet, "/api/pins?"+q.Encode(), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) NearbyPins(ctx context.Context, lng, lat float64, maxDistance int) ([]model.Pin, error) {
	q := url.Values{}
	q.Set("lng", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	if maxDistance > 0 {
		q.Set("maxDistance", strconv.Itoa(maxDistance))
	}

	var pins []model.Pin
	if err := c.do(ctx, http.MethodGet, "/api/pins/near?"+q.Encode(), nil, &pins); err != nil {
		return nil, err
	}
	return pins, nil
}

func (c *Client) CreatePin(ctx context.Context, req model.CreatePinRequest) (*model.Pin, error) {
	var pin model.Pin
	if err := c.do(ctx, http.MethodPost, "/api/pins", req, &pin); err != nil {
		return nil, err
	}
	return &pin, nil
}

func (c *Client) Vote(ctx context.Context, id string, vote int) (*model.Pin, error) {
	var pin model.Pin
	path := fmt.Sprintf("/api/pins/%s/vote", id)
	if err := c.do(ctx, http.MethodPatch, path, model.VoteRequest{Vote: vote}, &pin); err != nil {
		return nil, err
	}
	return &pin, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/pins/"+id, nil, nil)
}

func (c *Client) Summary(ctx context.Context) (*model.Summary, error) {
	var summary model.Summary
	if err := c.do(ctx, http.MethodGet, "/api/summary", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, target interface{}) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    decodeErrorMessage(resp.Body),
		}
	}

	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeErrorMessage pulls the server's message out of an error body. Falls
// back to a generic message when the body is not decodable.
func decodeErrorMessage(body io.Reader) string {
	var decoded struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Errors  []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(body).Decode(&decoded); err == nil {
		switch {
		case decoded.Error != "":
			return decoded.Error
		case decoded.Message != "":
			return decoded.Message
		case len(decoded.Errors) > 0:
			parts := make([]string, 0, len(decoded.Errors))
			for _, fe := range decoded.Errors {
				parts = append(parts, fe.Field+" "+fe.Message)
			}
			return strings.Join(parts, "; ")
		}
	}
	return "request failed"
}
