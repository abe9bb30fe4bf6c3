package kinde

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-authguard"
)

// Config holds the management API connection settings.
type Config struct {
	// BaseURL is the management API root, e.g. https://example.kinde.com/api/v1.
	BaseURL string

	// Token is the Bearer token used for every request.
	Token string

	HTTPClient *http.Client
}

// Client talks to the identity-management API. It implements
// authguard.IdentityAPI.
type Client struct {
	config     Config
	httpClient *http.Client
}

var _ authguard.IdentityAPI = (*Client)(nil)

// New creates a management API client.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("kinde: base URL is required")
	}
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, fmt.Errorf("kinde: bearer token is required")
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &Client{
		config:     cfg,
		httpClient: client,
	}, nil
}

// GetUser implements authguard.IdentityAPI.
func (c *Client) GetUser(ctx context.Context, id string, expandOrganizations bool) (*authguard.UserRecord, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("kinde: user id is required")
	}

	params := url.Values{"id": {id}}
	if expandOrganizations {
		params.Set("expand", "organizations")
	}

	body, err := c.get(ctx, "user", "/user?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var resp userResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apiError("user", 0, "invalid_response", "failed to decode user response", err)
	}

	orgs, err := resp.orgCodes()
	if err != nil {
		return nil, apiError("user", 0, "invalid_response", "failed to decode organizations", err)
	}

	return &authguard.UserRecord{
		ID:             resp.ID,
		Email:          resp.Email,
		PreferredEmail: resp.PreferredEmail,
		FirstName:      resp.FirstName,
		LastName:       resp.LastName,
		Organizations:  orgs,
	}, nil
}

// GetApplicationProperties implements authguard.IdentityAPI.
func (c *Client) GetApplicationProperties(ctx context.Context, clientID string) ([]authguard.ApplicationProperty, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, fmt.Errorf("kinde: client id is required")
	}

	body, err := c.get(ctx, "application_properties", "/applications/"+url.PathEscape(clientID)+"/properties")
	if err != nil {
		return nil, err
	}

	var resp propertiesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apiError("application_properties", 0, "invalid_response", "failed to decode properties response", err)
	}

	entries := resp.Properties
	if len(entries) == 0 {
		entries = resp.AppProperties
	}

	props := make([]authguard.ApplicationProperty, 0, len(entries))
	for _, entry := range entries {
		props = append(props, authguard.ApplicationProperty{
			Key:   entry.Key,
			Value: entry.Value,
		})
	}

	return props, nil
}

func (c *Client) get(ctx context.Context, operation, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.config.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(operation, resp.StatusCode, "", strings.TrimSpace(string(body)), nil)
	}

	return body, nil
}

type userResponse struct {
	ID             string            `json:"id"`
	Email          string            `json:"email"`
	PreferredEmail string            `json:"preferred_email"`
	FirstName      string            `json:"first_name"`
	LastName       string            `json:"last_name"`
	Organizations  []json.RawMessage `json:"organizations"`
}

// orgCodes normalizes both wire shapes the API is known to return:
// ["org_a", ...] and [{"code": "org_a"}, ...].
func (r userResponse) orgCodes() ([]string, error) {
	if len(r.Organizations) == 0 {
		return nil, nil
	}

	codes := make([]string, 0, len(r.Organizations))
	for _, raw := range r.Organizations {
		var code string
		if err := json.Unmarshal(raw, &code); err == nil {
			codes = append(codes, code)
			continue
		}

		var obj struct {
			Code string `json:"code"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, err
		}
		codes = append(codes, obj.Code)
	}

	return codes, nil
}

type propertyEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type propertiesResponse struct {
	Properties    []propertyEntry `json:"properties"`
	AppProperties []propertyEntry `json:"appProperties"`
}
