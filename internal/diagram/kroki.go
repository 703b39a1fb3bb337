// Package diagram renders flow diagrams to SVG through an external
// rasterization service.
package diagram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Defaults for the Kroki client.
const (
	DefaultEndpoint = "https://kroki.io/mermaid/svg"
	DefaultTimeout  = 10 * time.Second
	DefaultRPS      = 2.0

	// maxResponseBytes bounds how much of a response body is read.
	maxResponseBytes = 4 << 20
)

// Rasterizer turns Mermaid source into an image.
type Rasterizer interface {
	Rasterize(ctx context.Context, source string) ([]byte, error)
}

var _ Rasterizer = (*KrokiClient)(nil)

// KrokiClient posts Mermaid source to a Kroki-compatible endpoint and
// returns the SVG body. Outgoing calls are throttled client-side.
type KrokiClient struct {
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
	logger   *zap.Logger
}

// KrokiConfig configures a KrokiClient. Zero values take the defaults.
type KrokiConfig struct {
	Endpoint string
	Timeout  time.Duration
	RPS      float64
}

// NewKrokiClient creates a rasterizer client.
func NewKrokiClient(cfg KrokiConfig, logger *zap.Logger) *KrokiClient {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RPS <= 0 {
		cfg.RPS = DefaultRPS
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KrokiClient{
		endpoint: cfg.Endpoint,
		client:   &http.Client{Timeout: cfg.Timeout},
		limiter:  rate.NewLimiter(rate.Limit(cfg.RPS), 1),
		logger:   logger,
	}
}

// Rasterize renders source to SVG.
func (k *KrokiClient) Rasterize(ctx context.Context, source string) ([]byte, error) {
	if err := k.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("diagram: wait for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, k.endpoint, strings.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("diagram: create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	req.Header.Set("Accept", "image/svg+xml")

	start := time.Now()
	resp, err := k.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("diagram: post to %s: %w", k.endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("diagram: read response: %w", err)
	}

	k.logger.Debug("rasterized diagram",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}
	return body, nil
}

// Disabled is a Rasterizer that always returns ErrDisabled.
type Disabled struct{}

// Rasterize returns ErrDisabled.
func (Disabled) Rasterize(context.Context, string) ([]byte, error) {
	return nil, ErrDisabled
}
