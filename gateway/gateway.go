// Package gateway relays a browser conversation to the upstream chat-completion service
// and collapses every result, good or bad, into a single {content} response.
package gateway

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/miguagnxin/web-Joeyllmcahtinterface/pkg/llm"
	"github.com/miguagnxin/web-Joeyllmcahtinterface/pkg/merkle"
)

// Gateway forwards one conversation per call to a fixed upstream endpoint.
// It holds no per-request state and is safe for concurrent use.
type Gateway struct {
	config     Config
	logger     *zap.Logger
	httpClient *http.Client
}

// Option customizes a Gateway.
type Option func(*Gateway)

// WithHTTPClient sets the client used for upstream calls. Deadlines are always applied
// through the request context, so the client's own Timeout may be left unset.
func WithHTTPClient(client *http.Client) Option {
	return func(g *Gateway) {
		g.httpClient = client
	}
}

// New creates a new Gateway.
func New(config Config, logger *zap.Logger, opts ...Option) *Gateway {
	g := &Gateway{
		config:     config.withDefaults(),
		logger:     logger,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// UpstreamURL returns the endpoint conversations are forwarded to.
func (g *Gateway) UpstreamURL() string {
	return g.config.UpstreamURL
}

// Handle turns a raw chat request body into the response for the client.
// It never fails: every error is rendered as a warning line.
func (g *Gateway) Handle(ctx context.Context, raw []byte) llm.Response {
	return g.Process(ctx, raw).Response()
}

// Process runs a chat request and returns the unrendered outcome.
func (g *Gateway) Process(ctx context.Context, raw []byte) Outcome {
	startTime := time.Now()
	logger := g.logger.With(zap.String("request_id", uuid.NewString()))

	msgs, outcome := parseConversation(raw)
	if outcome.Failed() {
		logger.Warn("rejected chat request",
			zap.Stringer("kind", outcome.Kind),
			zap.Int("body_size", len(raw)),
		)
		return outcome
	}

	if ce := logger.Check(zap.DebugLevel, "forwarding conversation"); ce != nil {
		ce.Write(
			zap.Int("message_count", len(msgs)),
			zap.String("conversation", truncate(merkle.HeadHash(msgs), 16)),
		)
	}

	outcome = g.call(ctx, logger, msgs)

	logger.Debug("chat request finished",
		zap.Stringer("kind", outcome.Kind),
		zap.Duration("duration", time.Since(startTime)),
	)
	return outcome
}

// call performs the single upstream attempt under the deadline.
func (g *Gateway) call(ctx context.Context, logger *zap.Logger, msgs []llm.Message) Outcome {
	ctx, cancel := context.WithTimeout(ctx, g.config.Timeout)
	defer cancel()

	result, err := g.forward(ctx, msgs)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			logger.Error("upstream request timed out",
				zap.String("url", g.config.UpstreamURL),
				zap.Duration("timeout", g.config.Timeout),
			)
			return fail(KindUpstreamTimeout, MsgTimeout)
		}
		logger.Error("upstream request failed", zap.String("url", g.config.UpstreamURL), zap.Error(err))
		return fail(KindUpstreamNetworkFault, MsgNetworkError)
	}

	return g.mapResult(logger, result)
}

func (g *Gateway) mapResult(logger *zap.Logger, result *upstreamResult) Outcome {
	if result.decodeErr != nil {
		if !result.success() {
			logger.Error("upstream returned non-JSON error",
				zap.Int("status", result.status),
				zap.String("status_text", result.statusText),
				zap.String("body", truncate(string(result.raw), 200)),
			)
			return fail(KindUpstreamNonJSON, upstreamStatusText(result.status, result.statusText))
		}
		if errors.Is(result.decodeErr, errResponseTooLarge) {
			logger.Error("upstream response too large",
				zap.Int("status", result.status),
				zap.Int("limit", MaxResponseSize),
			)
			return fail(KindUpstreamNonJSON, MsgNonJSON)
		}
		logger.Error("upstream returned non-JSON body",
			zap.Int("status", result.status),
			zap.Error(result.decodeErr),
			zap.String("body", truncate(string(result.raw), 200)),
		)
		return fail(KindUpstreamNonJSON, MsgNonJSON)
	}

	if !result.success() {
		logger.Error("upstream returned error",
			zap.Int("status", result.status),
			zap.String("status_text", result.statusText),
			zap.String("body", truncate(string(result.raw), 200)),
		)
		if msg, found := firstOf(ErrorExtractors, result.body); found {
			return fail(KindUpstreamHTTPError, msg)
		}
		return fail(KindUpstreamHTTPError, upstreamStatusText(result.status, result.statusText))
	}

	content, found := firstOf(ReplyExtractors, result.body)
	if !found {
		logger.Warn("upstream reply had no recognizable content",
			zap.String("body", truncate(string(result.raw), 200)),
		)
		return ok(MsgNoResponse)
	}

	logger.Debug("received reply from upstream",
		zap.Int("status", result.status),
		zap.String("content_preview", truncate(content, 100)),
	)
	return ok(content)
}

func truncate(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
