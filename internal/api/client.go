// Package api wraps the request gateway with typed calls for the
// data-entry/display collaborators of the client core: assessments, vitals,
// and emergency contacts. No session or gating logic lives here; everything
// rides on the gateway's authenticated call path.
package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Caller is satisfied by *gateway.Gateway.
type Caller interface {
	Call(ctx context.Context, method, endpoint string, body, out any) error
}

type Client struct {
	gw Caller
}

func NewClient(gw Caller) *Client {
	return &Client{gw: gw}
}

// Assessments lists completed assessments, newest first. Zero limit means
// the server default.
func (c *Client) Assessments(ctx context.Context, limit, offset int) ([]Assessment, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	endpoint := "/assessments"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	var out []Assessment
	if err := c.gw.Call(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Assessment(ctx context.Context, id string) (*Assessment, error) {
	var out Assessment
	if err := c.gw.Call(ctx, http.MethodGet, "/assessments/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateAssessment(ctx context.Context, req CreateAssessmentRequest) (*Created, error) {
	var out Created
	if err := c.gw.Call(ctx, http.MethodPost, "/assessments", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Vitals returns one page of vitals readings.
func (c *Client) Vitals(ctx context.Context, page, size int) (*PageResponse[VitalReading], error) {
	if size <= 0 {
		size = 50
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))

	var out PageResponse[VitalReading]
	if err := c.gw.Call(ctx, http.MethodGet, "/vitals?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Vital(ctx context.Context, id string) (*VitalReading, error) {
	var out VitalReading
	if err := c.gw.Call(ctx, http.MethodGet, "/vitals/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateVital(ctx context.Context, req CreateVitalReadingRequest) (*VitalReading, error) {
	var out VitalReading
	if err := c.gw.Call(ctx, http.MethodPost, "/vitals", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Contacts(ctx context.Context) ([]Contact, error) {
	var out []Contact
	if err := c.gw.Call(ctx, http.MethodGet, "/contacts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateContact(ctx context.Context, contact Contact) (*Created, error) {
	var out Created
	if err := c.gw.Call(ctx, http.MethodPost, "/contacts", contact, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateContact(ctx context.Context, id string, update ContactUpdate) error {
	return c.gw.Call(ctx, http.MethodPatch, "/contacts/"+url.PathEscape(id), update, nil)
}

func (c *Client) DeleteContact(ctx context.Context, id string) error {
	return c.gw.Call(ctx, http.MethodDelete, "/contacts/"+url.PathEscape(id), nil, nil)
}

// SendEmergencyAlert notifies one emergency contact.
func (c *Client) SendEmergencyAlert(ctx context.Context, contactID string) error {
	endpoint := fmt.Sprintf("/contacts/%s/alert", url.PathEscape(contactID))
	return c.gw.Call(ctx, http.MethodPost, endpoint, nil, nil)
}
