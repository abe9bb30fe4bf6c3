package trustpath

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-authguard"
)

const defaultBaseURL = "https://api.trustpath.io"

// Config holds the risk service connection settings.
type Config struct {
	// BaseURL overrides the TrustPath API root. Defaults to the hosted API.
	BaseURL string

	// APIKey is the Bearer credential for the risk service.
	APIKey string

	HTTPClient *http.Client

	Logger authguard.Logger
}

// Client calls the TrustPath risk-evaluation API. It implements
// authguard.RiskEvaluator: every failure mode maps to the unknown signal and
// never to an error, keeping the fail-safe policy in the evaluator.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     authguard.Logger
}

var _ authguard.RiskEvaluator = (*Client)(nil)

// New creates a risk service client.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = nopLogger{}
	}

	return &Client{
		config:     cfg,
		httpClient: client,
		logger:     logger,
	}
}

// Evaluate implements authguard.RiskEvaluator. One call per attempt, no
// retries: re-scoring a stale impossible-travel judgment would change the
// meaning of this specific login event.
func (c *Client) Evaluate(ctx context.Context, payload authguard.RiskPayload) authguard.RiskSignal {
	body, err := json.Marshal(payload)
	if err != nil {
		c.logger.Error("risk payload marshal failed: %v", err)
		return authguard.UnknownRiskSignal()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/v1/risk/evaluate", bytes.NewReader(body))
	if err != nil {
		c.logger.Error("risk request build failed: %v", err)
		return authguard.UnknownRiskSignal()
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("risk evaluation call failed: %v", err)
		return authguard.UnknownRiskSignal()
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("risk response read failed: %v", err)
		return authguard.UnknownRiskSignal()
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("risk evaluation returned status %d", resp.StatusCode)
		return authguard.UnknownRiskSignal()
	}

	var parsed evaluateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		c.logger.Error("risk response decode failed: %v", err)
		return authguard.UnknownRiskSignal()
	}

	signal := authguard.RiskSignal{RawScore: json.RawMessage(raw)}
	switch parsed.Data.Score.State {
	case string(authguard.RiskStateApprove):
		signal.State = authguard.RiskStateApprove
	case string(authguard.RiskStateDecline):
		signal.State = authguard.RiskStateDecline
	default:
		c.logger.Error("risk response carried unexpected state %q", parsed.Data.Score.State)
		signal.State = authguard.RiskStateUnknown
	}

	return signal
}

type evaluateResponse struct {
	Data struct {
		Score struct {
			State string `json:"state"`
		} `json:"score"`
	} `json:"data"`
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
