// Package description turns raw broadcaster descriptions into bounded,
// display-safe plain text.
//
// Normalization is a fixed sequence of pure steps (see DefaultSteps). The
// order is part of the contract: steps are individually idempotent but the
// sequence as a whole is not, so it must not be rearranged.
package description

import (
	"unicode/utf8"

	"github.com/glefebvre/mediathek/internal/logger"
	"github.com/glefebvre/mediathek/internal/metrics"
)

// DefaultMaxLength is the number of characters a description keeps before it
// is truncated.
const DefaultMaxLength = 400

var defaultPipeline = NewPipeline(DefaultMaxLength)

// Default returns the shared pipeline using DefaultMaxLength.
func Default() *Pipeline {
	return defaultPipeline
}

// Normalize runs raw through the default pipeline.
func Normalize(raw, title, topic string) string {
	return defaultPipeline.Normalize(raw, title, topic)
}

// Pipeline applies normalization steps in order. It holds no mutable state
// and may be shared between goroutines.
type Pipeline struct {
	steps     []Step
	maxLength int
	logger    *logger.Logger
	metrics   *metrics.Normalization
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger sets the logger used for debug output. Without it the
// application logger is used.
func WithLogger(l *logger.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// WithMetrics records every run in m.
func WithMetrics(m *metrics.Normalization) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// NewPipeline creates a pipeline truncating at maxLength characters. A
// non-positive maxLength selects DefaultMaxLength.
func NewPipeline(maxLength int, opts ...Option) *Pipeline {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}

	p := &Pipeline{
		steps:     DefaultSteps(maxLength),
		maxLength: maxLength,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// MaxLength returns the truncation limit
func (p *Pipeline) MaxLength() int {
	return p.maxLength
}

// Steps returns a copy of the ordered steps
func (p *Pipeline) Steps() []Step {
	steps := make([]Step, len(p.steps))
	copy(steps, p.steps)
	return steps
}

// Result is the outcome of a pipeline run
type Result struct {
	Text string
	// Applied lists the names of the steps that changed the text, in order.
	Applied []string
}

// Truncated reports whether the text was cut to the maximum length
func (r Result) Truncated() bool {
	return r.applied(StepTruncate)
}

// NoticeRemoved reports whether a geo-restriction notice was removed
func (r Result) NoticeRemoved() bool {
	return r.applied(StepGeoblocking)
}

func (r Result) applied(name string) bool {
	for _, n := range r.Applied {
		if n == name {
			return true
		}
	}
	return false
}

// Normalize returns the cleaned description. It never fails; the worst case
// is an empty string.
func (p *Pipeline) Normalize(raw, title, topic string) string {
	return p.Run(raw, title, topic).Text
}

// Run normalizes raw and reports which steps took effect.
func (p *Pipeline) Run(raw, title, topic string) Result {
	in := Input{Title: title, Topic: topic}
	text := raw

	var applied []string
	for _, step := range p.steps {
		next := step.Apply(text, in)
		if next != text {
			applied = append(applied, step.Name)
		}
		text = next
	}

	result := Result{Text: text, Applied: applied}
	p.observe(raw, title, result)
	return result
}

func (p *Pipeline) observe(raw, title string, result Result) {
	p.metrics.ObserveNormalized(result.Truncated(), result.NoticeRemoved())

	log := p.logger
	if log == nil {
		log = logger.AppLogger()
	}
	if !log.Enabled(logger.LevelDebug) {
		return
	}

	if result.NoticeRemoved() {
		log.WithFields(map[string]interface{}{
			"title": title,
		}).Debug("removed geo-restriction notice from description")
	}
	if result.Truncated() {
		log.WithFields(map[string]interface{}{
			"title":           title,
			"original_length": utf8.RuneCountInString(raw),
			"max_length":      p.maxLength,
		}).Debug("description truncated")
	}
}
