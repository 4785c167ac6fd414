package retrieval

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures inside the engine. None of them reach callers
// of the public Engine methods; they are logged, counted and collapsed to an
// empty or neutral value.
type ErrorKind string

const (
	KindInputTooShort ErrorKind = "input_too_short"
	KindExtraction    ErrorKind = "extraction"
	KindScoring       ErrorKind = "scoring"
	KindCorpusRead    ErrorKind = "corpus_read"
	KindFormatting    ErrorKind = "formatting"
)

var (
	ErrInputTooShort = errors.New("text below minimum length")
	ErrNoKeywords    = errors.New("no keywords extracted")
	ErrNilCorpus     = errors.New("corpus not set")
)

// Error wraps an underlying failure with its kind.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("retrieval %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// recovered converts a recovered panic value into a typed error.
func recovered(kind ErrorKind, r any) *Error {
	if err, ok := r.(error); ok {
		return newError(kind, fmt.Errorf("panic: %w", err))
	}
	return newError(kind, fmt.Errorf("panic: %v", r))
}

// kindOf reports the kind of err, defaulting to KindCorpusRead for foreign
// errors surfacing from the retriever.
func kindOf(err error) ErrorKind {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr.Kind
	}
	return KindCorpusRead
}
