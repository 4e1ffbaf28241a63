package trailhead

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nabondance/trailhead-banner-go/internal/domain/bannererrors"
	"github.com/nabondance/trailhead-banner-go/internal/infrastructure/observability/logging"
)

// Fetcher executes a single query against the live Trailhead API.
type Fetcher interface {
	Fetch(ctx context.Context, query Query) (json.RawMessage, error)
}

// Client is the HTTP Fetcher hitting the Trailhead GraphQL endpoints.
// Profile queries go to the main profile API; community stamps are only
// served by the mobile API.
type Client struct {
	profileEndpoint string
	mobileEndpoint  string
	httpClient      *http.Client
	logger          *logging.ChanneledLogger
}

var _ Fetcher = (*Client)(nil)

// NewClient creates a Trailhead API client for the given endpoints. An
// empty mobile endpoint falls back to the profile endpoint.
func NewClient(profileEndpoint, mobileEndpoint string, timeout time.Duration, logger *logging.ChanneledLogger) *Client {
	if mobileEndpoint == "" {
		mobileEndpoint = profileEndpoint
	}
	return &Client{
		profileEndpoint: profileEndpoint,
		mobileEndpoint:  mobileEndpoint,
		httpClient:      &http.Client{Timeout: timeout},
		logger:          logger,
	}
}

func (c *Client) endpointFor(query Query) string {
	if query.Name == QueryStamps {
		return c.mobileEndpoint
	}
	return c.profileEndpoint
}

type graphqlRequest struct {
	OperationName string         `json:"operationName"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
}

type graphqlEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Fetch posts the query document and returns the raw data payload.
// Transport and HTTP failures are classified into the error taxonomy so
// the caller can map them to distinct statuses.
func (c *Client) Fetch(ctx context.Context, query Query) (json.RawMessage, error) {
	const op = "trailhead.Fetch"

	body, err := json.Marshal(graphqlRequest{
		OperationName: query.OperationName(),
		Query:         query.Document,
		Variables:     query.Variables,
	})
	if err != nil {
		return nil, bannererrors.Wrap(bannererrors.KindInternal, op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointFor(query), bytes.NewReader(body))
	if err != nil {
		return nil, bannererrors.Wrap(bannererrors.KindInternal, op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", browserUserAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		kind := bannererrors.ClassifyTransport(err)
		if kind == bannererrors.KindInternal {
			kind = bannererrors.KindUnavailable
		}
		return nil, bannererrors.Wrap(kind, op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		kind := bannererrors.ClassifyHTTPStatus(resp.StatusCode)
		return nil, bannererrors.New(kind, op,
			fmt.Sprintf("%s returned HTTP %d", query.Name, resp.StatusCode))
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, bannererrors.Wrap(bannererrors.KindUnavailable, op, err)
	}

	var envelope graphqlEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, bannererrors.Wrap(bannererrors.KindUnavailable, op,
			fmt.Errorf("malformed response for %s: %w", query.Name, err))
	}

	if len(envelope.Errors) > 0 && len(envelope.Data) == 0 {
		return nil, bannererrors.New(bannererrors.KindNotFound, op,
			fmt.Sprintf("%s: %s", query.Name, envelope.Errors[0].Message))
	}

	if c.logger != nil {
		c.logger.Query().Debug("Live query completed",
			"query", query.Name,
			"durationMs", time.Since(start).Milliseconds(),
		)
	}
	return envelope.Data, nil
}

// browserUserAgent mirrors a real browser; the Trailhead CDN rejects
// obviously synthetic agents.
const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
