// Package youdao calls the Youdao text translation API.
package youdao

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pricofy/youdao-translate/internal/domain"
	"github.com/pricofy/youdao-translate/internal/signer"
)

// Transport selects how parameters reach the upstream.
type Transport string

// Supported transports.
const (
	// TransportForm POSTs an application/x-www-form-urlencoded body.
	TransportForm Transport = "form"
	// TransportQuery POSTs with parameters in the query string.
	TransportQuery Transport = "query"
	// TransportGet issues a GET with parameters in the query string.
	TransportGet Transport = "get"
)

// Response is the subset of the upstream payload the proxy reads.
// Raw keeps the full body.
type Response struct {
	ErrorCode   string          `json:"errorCode"`
	Query       string          `json:"query"`
	Translation []string        `json:"translation"`
	L           string          `json:"l"`
	SpeakURL    string          `json:"speakUrl"`
	TSpeakURL   string          `json:"tSpeakUrl"`
	Raw         json.RawMessage `json:"-"`
}

// Options configures a Client.
type Options struct {
	Endpoint  string
	AppKey    string
	Signer    signer.Signer
	Transport Transport
	Timeout   time.Duration
}

// Client is a stateless Youdao API client. Safe for concurrent use.
type Client struct {
	endpoint  string
	appKey    string
	signer    signer.Signer
	transport Transport
	client    *http.Client
	logger    *zap.Logger

	newSalt func() string
	now     func() time.Time
}

// NewClient creates a new Youdao client.
func NewClient(opts Options, logger *zap.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	transport := opts.Transport
	if transport == "" {
		transport = TransportForm
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		endpoint:  opts.Endpoint,
		appKey:    opts.AppKey,
		signer:    opts.Signer,
		transport: transport,
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
		newSalt:   uuid.NewString,
		now:       time.Now,
	}
}

// Translate sends q to the upstream with from=auto and the given target.
// Transport failures and non-2xx statuses come back as UpstreamUnavailable;
// upstream business errors are left in Response.ErrorCode for the caller.
func (c *Client) Translate(ctx context.Context, q, to string) (*Response, error) {
	params := c.buildParams(q, to, c.newSalt(), strconv.FormatInt(c.now().Unix(), 10))

	req, err := c.newRequest(ctx, params)
	if err != nil {
		return nil, domain.UpstreamUnavailable(fmt.Errorf("failed to create request: %w", err), nil)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		// *url.Error repeats the URL, which carries appKey and sign for query transports.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		c.logger.Warn("Youdao request failed", zap.Error(err), zap.Duration("latency", time.Since(start)))
		return nil, domain.UpstreamUnavailable(fmt.Errorf("request failed: %w", err), nil)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.UpstreamUnavailable(fmt.Errorf("failed to read response: %w", err), nil)
	}

	c.logger.Debug("Youdao responded",
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, domain.UpstreamUnavailable(fmt.Errorf("upstream returned status %d", resp.StatusCode), body)
	}

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, domain.UpstreamUnavailable(fmt.Errorf("failed to decode response: %w", err), body)
	}
	out.Raw = body

	return &out, nil
}

// buildParams assembles the signed parameter set for one request.
// salt and curtime are fresh per call and never reused.
func (c *Client) buildParams(q, to, salt, curtime string) url.Values {
	params := url.Values{}
	params.Set("q", q)
	params.Set("from", domain.AutoDetect)
	params.Set("to", to)
	params.Set("appKey", c.appKey)
	params.Set("salt", salt)
	params.Set("sign", c.signer.Sign(q, salt, curtime))

	if signType := c.signer.SignType(); signType != "" {
		params.Set("signType", signType)
	}
	if c.signer.UsesCurtime() {
		params.Set("curtime", curtime)
	}

	return params
}

func (c *Client) newRequest(ctx context.Context, params url.Values) (*http.Request, error) {
	switch c.transport {
	case TransportForm:
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(params.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	case TransportQuery:
		return http.NewRequestWithContext(ctx, http.MethodPost, withQuery(c.endpoint, params), nil)
	case TransportGet:
		return http.NewRequestWithContext(ctx, http.MethodGet, withQuery(c.endpoint, params), nil)
	default:
		return nil, fmt.Errorf("unsupported transport %q", c.transport)
	}
}

func withQuery(endpoint string, params url.Values) string {
	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	return endpoint + sep + params.Encode()
}
