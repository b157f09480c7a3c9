package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	awspkg "github.com/Tiyani-source/MindMattersProject-sub002/pkg/aws"
	apperrors "github.com/Tiyani-source/MindMattersProject-sub002/services/common/errors"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/common/logger"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/models"
)

const maxBodyBytes = 4 << 20

// TokenSource supplies the bearer token attached to every request.
type TokenSource interface {
	Token() string
}

// MetricsRecorder is satisfied by *aws.MetricsClient.
type MetricsRecorder interface {
	RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error
	RecordLatency(ctx context.Context, metricName string, duration time.Duration, dimensions map[string]string) error
}

// Enveloped is implemented by every response type embedding models.Envelope.
type Enveloped interface {
	Succeeded() bool
	Reason() string
}

// Doer is what the stores need from the client.
type Doer interface {
	Do(ctx context.Context, method, path string, body any, out Enveloped) error
}

type APIClient struct {
	baseURL string
	client  *http.Client
	tokens  TokenSource
	metrics MetricsRecorder
	log     *zap.Logger
}

type Option func(*APIClient)

func WithHTTPClient(c *http.Client) Option {
	return func(a *APIClient) { a.client = c }
}

// WithMetrics records one count and one latency point per call, inline.
func WithMetrics(m MetricsRecorder) Option {
	return func(a *APIClient) { a.metrics = m }
}

func WithLogger(l *zap.Logger) Option {
	return func(a *APIClient) { a.log = l }
}

func NewAPIClient(baseURL string, timeout time.Duration, tokens TokenSource, opts ...Option) *APIClient {
	a := &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = logger.OrNop(a.log)
	return a
}

// Do sends body as JSON and decodes the envelope into out. A nil out decodes
// into a bare envelope. Failures are returned as *errors.Error:
// 401 is Unauthorized, any other non-2xx is Upstream, an unreadable body is
// Decode and {success:false} is Rejected.
func (a *APIClient) Do(ctx context.Context, method, path string, body any, out Enveloped) error {
	start := time.Now()
	status, err := a.do(ctx, method, path, body, out)
	a.record(ctx, method, path, status, time.Since(start), err)

	log := logger.For(ctx, a.log).With(
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.Duration("latency", time.Since(start)),
	)
	if err != nil {
		log.Warn("storefront api call failed", zap.String("kind", string(apperrors.KindOf(err))), zap.Error(err))
		return err
	}
	log.Debug("storefront api call")
	return nil
}

func (a *APIClient) do(ctx context.Context, method, path string, body any, out Enveloped) (int, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, apperrors.New(apperrors.KindInternal, 0, "Failed to encode request", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return 0, apperrors.New(apperrors.KindInternal, 0, "Failed to build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.tokens != nil {
		if token := a.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return 0, apperrors.Transport(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, apperrors.Transport(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env models.Envelope
		_ = json.Unmarshal(raw, &env)
		if resp.StatusCode == http.StatusUnauthorized {
			return resp.StatusCode, apperrors.Unauthorized(env.Message)
		}
		return resp.StatusCode, apperrors.Upstream(resp.StatusCode, env.Message)
	}

	if out == nil {
		out = &models.Envelope{}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return resp.StatusCode, apperrors.Decode(fmt.Errorf("%s %s: %w", method, path, err))
	}
	if !out.Succeeded() {
		return resp.StatusCode, apperrors.Rejected(out.Reason())
	}
	return resp.StatusCode, nil
}

func (a *APIClient) record(ctx context.Context, method, path string, status int, latency time.Duration, err error) {
	if a.metrics == nil {
		return
	}
	dims := map[string]string{
		"Method":   method,
		"Resource": resourceOf(path),
		"Status":   strconv.Itoa(status),
	}
	ctx = context.WithoutCancel(ctx)
	_ = a.metrics.RecordCount(ctx, awspkg.MetricAPIRequests, dims)
	_ = a.metrics.RecordLatency(ctx, awspkg.MetricAPILatency, latency, dims)
	if err != nil {
		_ = a.metrics.RecordCount(ctx, awspkg.MetricAPIErrors, dims)
	}
	if apperrors.KindOf(err) == apperrors.KindUnauthorized {
		_ = a.metrics.RecordCount(ctx, awspkg.MetricAPIUnauthorized, dims)
	}
}

// resourceOf keeps metric dimensions low-cardinality: "/api/cart/remove/p1"
// becomes "cart".
func resourceOf(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) >= 2 && parts[0] == "api" {
		return parts[1]
	}
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "root"
}
