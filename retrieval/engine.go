// Package retrieval finds prior translations similar to a new legal text and
// renders them as few-shot context for the translation prompt.
//
// The corpus is scanned linearly: the retriever reads a bounded sample of the
// most recent eligible documents and scores each one in-process. Every failure
// degrades to "no context available"; nothing raised here interrupts the host
// translation request.
package retrieval

import (
	"time"

	"go.uber.org/zap"
)

// Tuned policy constants. They carry no empirical derivation and are kept
// as named values so behaviour stays stable across deployments.
const (
	MinTextLength    = 50
	CorpusSampleSize = 100
	SimilarityFloor  = 0.15
	DefaultLimit     = 3
	MaxLimit         = 10

	maxGenericKeywords = 15
	minTokenLength     = 4
	minBigramWord      = 3

	weightKeywords = 0.40
	weightLegal    = 0.30
	weightBigrams  = 0.20
	weightLength   = 0.10

	bigramCap = 0.9
	lengthCap = 0.7

	excerptLength = 400
	titleLength   = 100
	ellipsis      = "..."
)

// Observer receives retrieval telemetry.
type Observer interface {
	ObserveRetrieval(outcome string, scored int, elapsed time.Duration)
	ObserveFailure(kind ErrorKind)
}

type nopObserver struct{}

func (nopObserver) ObserveRetrieval(string, int, time.Duration) {}
func (nopObserver) ObserveFailure(ErrorKind)                    {}

// Engine bundles keyword extraction, scoring, retrieval and formatting over
// one immutable Lexicon. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	lexicon   Lexicon
	stopWords map[string]struct{}
	logger    *zap.Logger
	observer  Observer
}

// Option is a functional option for Engine
type Option func(*Engine)

// WithLexicon sets the dictionaries used for extraction and scoring
func WithLexicon(lex Lexicon) Option {
	return func(e *Engine) {
		e.lexicon = lex
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithObserver sets the telemetry sink
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// NewEngine creates a new engine. Without WithLexicon it uses DefaultLexicon.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		lexicon:  DefaultLexicon(),
		logger:   zap.NewNop(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(e)
	}

	e.lexicon = e.lexicon.normalized()
	e.stopWords = make(map[string]struct{}, len(e.lexicon.StopWords))
	for _, w := range e.lexicon.StopWords {
		e.stopWords[w] = struct{}{}
	}
	return e
}

// Lexicon returns the dictionaries the engine was built with.
func (e *Engine) Lexicon() Lexicon {
	return e.lexicon
}
