// Package digest derives a short summary and suggested tags from raw note text.
//
// The engine holds no per-request state. Summaries come from an optional remote
// summarization service and fall back to a deterministic local truncation, so
// Summarize never fails. Tag suggestion is purely local.
package digest

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"smart-notes-be/internal/pkg/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultMinLength      = 30
	DefaultMaxLength      = 100
	DefaultFallbackLength = 150
	DefaultTimeout        = 10 * time.Second
	DefaultMaxTags        = 2

	ellipsis = "..."
)

// Source identifies which strategy produced a summary.
type Source string

const (
	SourceEmpty    Source = "empty"
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
)

// RemoteSummarizer is an external text-summarization service.
// Implementations report every failure as an error; the engine decides what to do with it.
type RemoteSummarizer interface {
	Summarize(ctx context.Context, text string, minLength, maxLength int) (string, error)
}

type Config struct {
	MinLength      int
	MaxLength      int
	FallbackLength int
	Timeout        time.Duration
	MaxTags        int
}

func (c Config) withDefaults() Config {
	if c.MinLength <= 0 {
		c.MinLength = DefaultMinLength
	}
	if c.MaxLength <= 0 {
		c.MaxLength = DefaultMaxLength
	}
	if c.MaxLength < c.MinLength {
		c.MaxLength = c.MinLength
	}
	if c.FallbackLength <= 0 {
		c.FallbackLength = DefaultFallbackLength
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxTags <= 0 {
		c.MaxTags = DefaultMaxTags
	}
	return c
}

type Engine struct {
	cfg    Config
	remote RemoteSummarizer
	log    logger.ILogger
}

// New builds an engine. remote may be nil, in which case every summary is a truncation.
func New(cfg Config, remote RemoteSummarizer, log logger.ILogger) *Engine {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Engine{
		cfg:    cfg.withDefaults(),
		remote: remote,
		log:    log,
	}
}

// Summarize returns a concise synopsis of content. It never fails: any problem with the
// remote service resolves to Truncate(content).
func (e *Engine) Summarize(ctx context.Context, content string) string {
	summary, _ := e.SummarizeWithSource(ctx, content)
	return summary
}

func (e *Engine) SummarizeWithSource(ctx context.Context, content string) (string, Source) {
	if strings.TrimSpace(content) == "" {
		return "", SourceEmpty
	}

	ctx, span := otel.Tracer("smart-notes-be/pkg/digest").Start(ctx, "digest.Summarize")
	defer span.End()
	span.SetAttributes(attribute.Int("digest.content_length", utf8.RuneCountInString(content)))

	if e.remote != nil {
		if summary, ok := e.summarizeRemote(ctx, content); ok {
			span.SetAttributes(attribute.String("digest.source", string(SourceRemote)))
			return summary, SourceRemote
		}
	}

	span.SetAttributes(attribute.String("digest.source", string(SourceFallback)))
	return e.Truncate(content), SourceFallback
}

func (e *Engine) summarizeRemote(ctx context.Context, content string) (summary string, ok bool) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			e.log.Warn("digest", "Remote summarizer panicked, using truncation", map[string]interface{}{
				"panic": fmt.Sprint(r),
			})
			summary, ok = "", false
		}
	}()

	summary, err := e.remote.Summarize(ctx, content, e.cfg.MinLength, e.cfg.MaxLength)
	if err != nil {
		e.log.Warn("digest", "Remote summarization failed, using truncation", map[string]interface{}{
			"error": err.Error(),
		})
		return "", false
	}

	summary = strings.TrimSpace(summary)
	if summary == "" {
		e.log.Warn("digest", "Remote summarization returned no text, using truncation", nil)
		return "", false
	}
	return summary, true
}

// Truncate clips content to FallbackLength runes, appending an ellipsis only when
// something was cut off.
func (e *Engine) Truncate(content string) string {
	return truncate(content, e.cfg.FallbackLength)
}

func truncate(content string, limit int) string {
	if utf8.RuneCountInString(content) <= limit {
		return content
	}
	runes := []rune(content)
	return string(runes[:limit]) + ellipsis
}

// SuggestTags returns up to MaxTags topical tags for content. See Tags.
func (e *Engine) SuggestTags(content string) []string {
	return Tags(content, e.cfg.MaxTags)
}
