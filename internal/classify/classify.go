// Package classify maps note text to a mood and a display color.
//
// A Service delegates to an optional Provider (an external LLM) and always
// answers: a missing provider, a failed call, or malformed output all resolve
// to the neutral classification.
package classify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/rcliao/arsip-kita/internal/logging"
	"github.com/rcliao/arsip-kita/internal/metrics"
	"github.com/rcliao/arsip-kita/internal/model"
)

// Result is a mood and color pair.
type Result struct {
	Mood  model.Mood `json:"mood"`
	Color string     `json:"color"`
}

// Fallback is the classification used whenever the provider cannot answer.
var Fallback = Result{Mood: model.MoodNeutral, Color: model.NeutralColor}

// Provider is an external classifier. Implementations return the raw answer;
// normalization happens in Service.
type Provider interface {
	Name() string
	Classify(ctx context.Context, text string) (Result, error)
}

// Service classifies text and never fails.
type Service struct {
	provider Provider
	breaker  *gobreaker.CircuitBreaker
	logger   *zap.Logger
	metrics  *metrics.Collector
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = logging.ForComponent(l, "classify") }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Collector) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService wraps p. A nil provider always yields Fallback.
func NewService(p Provider, opts ...Option) *Service {
	s := &Service{
		provider: p,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if p != nil {
		s.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "classifier-" + p.Name(),
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			// A caller giving up says nothing about the provider's health.
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, context.Canceled)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				s.logger.Warn("classifier breaker state changed",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()))
			},
		})
	}
	return s
}

// Enabled reports whether an external provider is configured.
func (s *Service) Enabled() bool {
	return s.provider != nil
}

// Classify returns the mood and color for text. It blocks until the provider
// answers or fails.
func (s *Service) Classify(ctx context.Context, text string) Result {
	if s.provider == nil {
		s.logger.Warn("no classifier configured, using fallback")
		s.metrics.Classified(metrics.OutcomeDisabled)
		return Fallback
	}

	out, err := s.breaker.Execute(func() (interface{}, error) {
		return s.provider.Classify(ctx, text)
	})
	if err != nil {
		s.logger.Error("classification failed, using fallback",
			zap.String("provider", s.provider.Name()),
			zap.Error(err))
		s.metrics.Classified(metrics.OutcomeFallback)
		return Fallback
	}

	res := Normalize(out.(Result))
	s.metrics.Classified(metrics.OutcomeProvider)
	return res
}

// Normalize forces r into the closed mood set and a valid hex color.
// Mood and color are repaired independently.
func Normalize(r Result) Result {
	mood, ok := model.ParseMood(string(r.Mood))
	if !ok {
		mood = model.MoodNeutral
	}
	color := strings.TrimSpace(r.Color)
	if !model.ValidColor(color) {
		color = model.NeutralColor
	}
	return Result{Mood: mood, Color: strings.ToLower(color)}
}

const instructions = `Analyze the emotional mood of the user's text.
Return only a JSON object with exactly two fields:
1. "mood": one of ["happy", "sad", "angry", "neutral", "romantic", "excited"]
2. "color": a hex color string (#rrggbb) for a soft pastel background color representing that mood.`

func prompt(text string) string {
	return fmt.Sprintf("%s\n\nText: %q", instructions, text)
}

// parseAnswer decodes a JSON answer, tolerating markdown code fences.
func parseAnswer(text string) (Result, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{}, fmt.Errorf("empty classifier response")
	}

	var raw struct {
		Mood  string `json:"mood"`
		Color string `json:"color"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return Result{}, fmt.Errorf("decode classifier response: %w", err)
	}
	return Result{Mood: model.Mood(raw.Mood), Color: raw.Color}, nil
}
