// Package hubspot is a read-only client for the slice of the HubSpot CRM API
// the bridge consumes: single-object fetches with property allow-lists and
// optional inline associations, plus the v4 associations endpoint as a
// fallback when a record comes back without an expected association set.
package hubspot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/quayside/suitebridge/internal/domain"
)

// ErrMissingToken is returned when no API token is configured. This is a
// configuration error and aborts the event immediately.
var ErrMissingToken = errors.New("hubspot: missing API token")

// APIError is a non-2xx response from the CRM API. Status and body are
// carried for logging; resolution failures abort the whole event.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("hubspot: API returned %d: %s", e.StatusCode, e.Body)
}

// maxErrorBody bounds how much of an error response is kept for diagnostics.
const maxErrorBody = 4 << 10

// Client calls the HubSpot CRM API with bearer authentication.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New returns a Client for the given API base URL. The token may be empty;
// it is validated lazily on first use so a bridge pointed only at the ERP
// side still starts.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// GetOpts narrows an object fetch. Properties is an explicit allow-list —
// the API returns nothing that is not named. Associations requests inline
// association sets by target type.
type GetOpts struct {
	Properties   []string
	Associations []string
}

// record mirrors the CRM single-object response.
type record struct {
	ID           string                     `json:"id"`
	Properties   map[string]string          `json:"properties"`
	Associations map[string]associationPage `json:"associations"`
	CreatedAt    string                     `json:"createdAt"`
	UpdatedAt    string                     `json:"updatedAt"`
	Archived     bool                       `json:"archived"`
}

type associationPage struct {
	Results []associationRef `json:"results"`
}

type associationRef struct {
	ID         string `json:"id"`
	ToObjectID string `json:"toObjectId"`
	Type       string `json:"type"`
}

// GetObject fetches one CRM object by canonical type and id.
func (c *Client) GetObject(ctx context.Context, objectType, id string, opts GetOpts) (*domain.Record, error) {
	q := url.Values{}
	if len(opts.Properties) > 0 {
		q.Set("properties", strings.Join(opts.Properties, ","))
	}
	if len(opts.Associations) > 0 {
		q.Set("associations", strings.Join(opts.Associations, ","))
	}

	endpoint := fmt.Sprintf("%s/crm/v3/objects/%s/%s", c.baseURL,
		url.PathEscape(objectType), url.PathEscape(id))
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	var rec record
	if err := c.get(ctx, endpoint, &rec); err != nil {
		return nil, err
	}
	return rec.toDomain(), nil
}

// GetAssociations fetches the associations of one object toward a target
// type via the v4 endpoint.
func (c *Client) GetAssociations(ctx context.Context, fromType, fromID, toType string) (domain.AssociationSet, error) {
	endpoint := fmt.Sprintf("%s/crm/v4/objects/%s/%s/associations/%s", c.baseURL,
		url.PathEscape(fromType), url.PathEscape(fromID), url.PathEscape(toType))

	var page associationPage
	if err := c.get(ctx, endpoint, &page); err != nil {
		return domain.AssociationSet{}, err
	}

	set := domain.AssociationSet{Results: make([]domain.AssociationRef, 0, len(page.Results))}
	for _, ref := range page.Results {
		set.Results = append(set.Results, domain.AssociationRef{ID: ref.id(), Type: ref.Type})
	}
	return set, nil
}

// DealStage reads a deal's current pipeline stage.
func (c *Client) DealStage(ctx context.Context, dealID string) (string, error) {
	rec, err := c.GetObject(ctx, domain.TypeDeals, dealID, GetOpts{Properties: []string{"dealstage"}})
	if err != nil {
		return "", err
	}
	return rec.Property("dealstage"), nil
}

func (c *Client) get(ctx context.Context, endpoint string, v any) error {
	if c.token == "" {
		return ErrMissingToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("hubspot: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// id prefers the v3 inline field and falls back to the v4 spelling.
func (r associationRef) id() string {
	if r.ID != "" {
		return r.ID
	}
	return r.ToObjectID
}

func (r record) toDomain() *domain.Record {
	out := &domain.Record{
		ID:         r.ID,
		Properties: r.Properties,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
		Archived:   r.Archived,
	}
	if len(r.Associations) > 0 {
		out.Associations = make(map[string]domain.AssociationSet, len(r.Associations))
		for name, page := range r.Associations {
			set := domain.AssociationSet{Results: make([]domain.AssociationRef, 0, len(page.Results))}
			for _, ref := range page.Results {
				set.Results = append(set.Results, domain.AssociationRef{ID: ref.id(), Type: ref.Type})
			}
			out.Associations[name] = set
		}
	}
	return out
}
