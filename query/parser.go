package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/poiesic/glimpse/ai"
	"github.com/poiesic/glimpse/core"
	"github.com/poiesic/glimpse/indexing"
)

// DefaultAttempts is the number of chat attempts before falling back.
const DefaultAttempts = 2

const dateLayout = "2006-01-02"

// Parser parses search requests.
type Parser struct {
	chat     ai.ChatService
	now      func() time.Time
	attempts int
	logger   *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser) error

// WithChatService enables chat-based parsing.
func WithChatService(chat ai.ChatService) Option {
	return func(p *Parser) error {
		p.chat = chat
		return nil
	}
}

// WithClock sets the reference time for relative dates.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) error {
		p.now = now
		return nil
	}
}

// WithAttempts sets how many chat replies are tried before falling back.
func WithAttempts(n int) Option {
	return func(p *Parser) error {
		if n < 1 {
			return ErrInvalidAttempts
		}
		p.attempts = n
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) error {
		p.logger = logger
		return nil
	}
}

// NewParser creates a parser. Without a chat service every request is
// parsed by the keyword parser.
func NewParser(opts ...Option) (*Parser, error) {
	p := &Parser{
		now:      time.Now,
		attempts: DefaultAttempts,
		logger:   slog.Default().With("component", "query"),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Parse converts a request into a ParsedQuery. It never fails: chat errors
// are logged and the keyword parser is used instead.
func (p *Parser) Parse(ctx context.Context, text string) *core.ParsedQuery {
	text = strings.TrimSpace(text)
	if text == "" {
		return &core.ParsedQuery{MediaType: core.MediaTypeAll}
	}
	now := p.now()

	if p.chat != nil {
		var parsed *core.ParsedQuery
		err := indexing.RetryWithBackoff(ctx, func() error {
			var err error
			parsed, err = p.parseWithChat(ctx, text, now)
			return err
		}, p.attempts, 0)
		if err == nil {
			p.logger.Debug("parsed query", "query", text, "source", "chat")
			return parsed
		}
		if !errors.Is(err, core.ErrParseFailure) {
			err = fmt.Errorf("%w: %w", core.ErrParseFailure, err)
		}
		p.logger.Warn("chat query parsing failed, using keyword parser", "query", text, "err", err)
	}

	parsed := Fallback(text, now)
	p.logger.Debug("parsed query", "query", text, "source", "keywords")
	return parsed
}

// chatQuery is the JSON shape requested from the chat service.
type chatQuery struct {
	Location     *string  `json:"location"`
	LocationHint *string  `json:"location_hint"`
	StartDate    *string  `json:"start_date"`
	EndDate      *string  `json:"end_date"`
	Labels       []string `json:"labels"`
	People       []string `json:"people"`
	IsSelfPhotos *bool    `json:"is_self_photos"`
	MediaType    *string  `json:"media_type"`
	Activity     *string  `json:"activity"`
	Limit        *float64 `json:"limit"`
}

func (p *Parser) parseWithChat(ctx context.Context, text string, now time.Time) (*core.ParsedQuery, error) {
	reply, err := p.chat.Complete(ctx, ai.ChatRequest{
		System:    fmt.Sprintf(parseSystemPrompt, now.Format(dateLayout), now.Weekday()),
		Prompt:    text,
		JSON:      true,
		MaxTokens: 300,
	})
	if err != nil {
		return nil, err
	}

	var cq chatQuery
	if err := ai.DecodeJSON(reply, &cq); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrParseFailure, err)
	}
	return cq.toParsed(text, now)
}

func (cq *chatQuery) toParsed(raw string, now time.Time) (*core.ParsedQuery, error) {
	q := &core.ParsedQuery{
		Location:     deref(cq.Location),
		LocationHint: deref(cq.LocationHint),
		Labels:       cq.Labels,
		People:       cq.People,
		Activity:     deref(cq.Activity),
		MediaType:    core.ParseMediaType(strings.ToLower(strings.TrimSpace(deref(cq.MediaType)))),
		RawTerms:     raw,
	}
	if cq.IsSelfPhotos != nil {
		q.IsSelfPhotos = *cq.IsSelfPhotos
	}
	if cq.Limit != nil && *cq.Limit >= 1 && *cq.Limit <= math.MaxInt32 {
		q.Limit = int(*cq.Limit)
	}

	start, err := parseDate(cq.StartDate, now.Location())
	if err != nil {
		return nil, err
	}
	end, err := parseDate(cq.EndDate, now.Location())
	if err != nil {
		return nil, err
	}
	switch {
	case start != nil && end != nil:
		if end.Before(*start) {
			start, end = end, start
		}
		p := span(*start, end.AddDate(0, 0, 1))
		q.TimePeriod = &p
	case start != nil:
		p := span(*start, startOfDay(now).AddDate(0, 0, 1))
		q.TimePeriod = &p
	}
	return q, nil
}

// parseDate accepts YYYY-MM-DD, optionally followed by a time, or an absent value.
func parseDate(s *string, loc *time.Location) (*time.Time, error) {
	v := strings.TrimSpace(deref(s))
	if v == "" || strings.EqualFold(v, "null") {
		return nil, nil
	}
	if len(v) > len(dateLayout) {
		v = v[:len(dateLayout)]
	}
	t, err := time.ParseInLocation(dateLayout, v, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: bad date %q", core.ErrParseFailure, deref(s))
	}
	return &t, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
