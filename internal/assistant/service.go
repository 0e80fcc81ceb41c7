package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"golang.org/x/time/rate"

	"github.com/zyren-ai/zyren/internal/logging"
	"github.com/zyren-ai/zyren/internal/metrics"
)

// Options tune a Service. Zero values disable the limiter and the timeout.
type Options struct {
	RatePerMinute int
	Timeout       time.Duration
	Metrics       *metrics.Metrics
	Logger        *slog.Logger
}

// Service wraps a Backend with rate limiting, timeouts, metrics and the
// fallback rules of the chat and image features.
type Service struct {
	backend Backend
	limiter *rate.Limiter
	timeout time.Duration
	metrics *metrics.Metrics
	log     *slog.Logger
}

func NewService(b Backend, opts Options) *Service {
	s := &Service{
		backend: b,
		timeout: opts.Timeout,
		metrics: opts.Metrics,
		log:     opts.Logger,
	}
	if s.log == nil {
		s.log = logging.New("assistant")
	}
	if opts.RatePerMinute > 0 {
		burst := max(1, opts.RatePerMinute/6)
		s.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RatePerMinute)), burst)
	}
	return s
}

func (s *Service) allow() bool { return s.limiter == nil || s.limiter.Allow() }

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Service) report(kind string, err error) {
	s.log.Warn("assistant: gateway call failed", "kind", kind, "error", err)
	sentry.CaptureException(err)
}

// Reply answers prompt given the past turns. The returned text is always safe
// to show; a non-nil error means it is a fallback and must not be stored as a
// model turn.
func (s *Service) Reply(ctx context.Context, past []Message, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}
	if !s.allow() {
		s.metrics.GatewayCall("chat", "rate_limited", 0)
		return FallbackError, ErrRateLimited
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	start := time.Now()
	text, err := s.backend.Generate(ctx, past, prompt)
	elapsed := time.Since(start)
	if err != nil {
		s.metrics.GatewayCall("chat", "error", elapsed)
		s.report("chat", err)
		return FallbackError, fmt.Errorf("%w: %w", ErrGateway, err)
	}
	if strings.TrimSpace(text) == "" {
		s.metrics.GatewayCall("chat", "empty", elapsed)
		return FallbackEmpty, fmt.Errorf("%w: empty reply", ErrGateway)
	}
	s.metrics.GatewayCall("chat", "ok", elapsed)
	return text, nil
}

// Stream is Reply delivered in chunks. On success the returned text is the
// concatenated answer. On failure it is only the fallback to show, which is
// never passed to onChunk; chunks delivered before the fault stay delivered.
func (s *Service) Stream(ctx context.Context, past []Message, prompt string, onChunk func(string)) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}
	if !s.allow() {
		s.metrics.GatewayCall("stream", "rate_limited", 0)
		return FallbackError, ErrRateLimited
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	var full strings.Builder
	start := time.Now()
	err := s.backend.Stream(ctx, past, prompt, func(chunk string) {
		full.WriteString(chunk)
		onChunk(chunk)
	})
	elapsed := time.Since(start)
	switch {
	case err != nil:
		s.metrics.GatewayCall("stream", "error", elapsed)
		s.report("stream", err)
		return FallbackError, fmt.Errorf("%w: %w", ErrGateway, err)
	case strings.TrimSpace(full.String()) == "":
		s.metrics.GatewayCall("stream", "empty", elapsed)
		return FallbackEmpty, fmt.Errorf("%w: empty reply", ErrGateway)
	}
	s.metrics.GatewayCall("stream", "ok", elapsed)
	return full.String(), nil
}

// GenerateImage asks the image model for one picture. A gateway failure wraps
// ErrGateway; a reply without image data is ErrNoImage.
func (s *Service) GenerateImage(ctx context.Context, prompt string, size ImageSize) (*Image, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}
	if !s.allow() {
		s.metrics.GatewayCall("image", "rate_limited", 0)
		return nil, ErrRateLimited
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	start := time.Now()
	img, err := s.backend.Image(ctx, prompt, size)
	elapsed := time.Since(start)
	if err != nil {
		s.metrics.GatewayCall("image", "error", elapsed)
		s.report("image", err)
		return nil, fmt.Errorf("%w: %w", ErrGateway, err)
	}
	if img == nil || len(img.Data) == 0 {
		s.metrics.GatewayCall("image", "no_image", elapsed)
		return nil, ErrNoImage
	}
	s.metrics.GatewayCall("image", "ok", elapsed)
	return img, nil
}

// IsGatewayError reports whether err came from the model service.
func IsGatewayError(err error) bool { return errors.Is(err, ErrGateway) }
