package retrieval

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Document is a stored translation pair as seen by the retriever.
type Document struct {
	ID             string
	Title          *string
	OriginalText   string
	TranslatedText string
	CreatedAt      time.Time
}

// Eligible reports whether both texts meet the minimum length.
func (d Document) Eligible() bool {
	return utf8.RuneCountInString(d.OriginalText) >= MinTextLength &&
		utf8.RuneCountInString(d.TranslatedText) >= MinTextLength
}

// Candidate is a retrieved document with its similarity to the query,
// rounded to three decimals.
type Candidate struct {
	ID             string  `json:"id"`
	Title          *string `json:"title"`
	OriginalText   string  `json:"original_text"`
	TranslatedText string  `json:"translated_text"`
	Similarity     float64 `json:"similarity"`
}

// Corpus is the read-only capability the retriever consumes. Implementations
// return at most maxCount documents, newest first; pre-filtering on
// minTextLength is optional since the retriever re-checks eligibility.
type Corpus interface {
	QueryRecentEligibleDocuments(ctx context.Context, maxCount, minTextLength int) ([]Document, error)
}

// CorpusFunc adapts a function to the Corpus interface.
type CorpusFunc func(ctx context.Context, maxCount, minTextLength int) ([]Document, error)

// QueryRecentEligibleDocuments calls f.
func (f CorpusFunc) QueryRecentEligibleDocuments(ctx context.Context, maxCount, minTextLength int) ([]Document, error) {
	return f(ctx, maxCount, minTextLength)
}

// ClampLimit maps non-positive limits to DefaultLimit and caps at MaxLimit.
func ClampLimit(limit int) int {
	if limit < 1 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Retrieval outcomes reported to the Observer.
const (
	OutcomeMatched = "matched"
	OutcomeEmpty   = "empty"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

// FindSimilarTranslations returns up to limit corpus documents whose
// similarity to queryText is at least SimilarityFloor, best first. Short
// queries, empty corpora and every internal failure yield an empty slice.
func (e *Engine) FindSimilarTranslations(ctx context.Context, corpus Corpus, queryText string, limit int) []Candidate {
	start := time.Now()
	results, scored, err := e.findSimilar(ctx, corpus, queryText, ClampLimit(limit))
	elapsed := time.Since(start)

	if err != nil {
		kind := kindOf(err)
		if kind == KindInputTooShort {
			e.logger.Debug("similar translation lookup skipped", zap.Error(err))
			e.observer.ObserveRetrieval(OutcomeSkipped, scored, elapsed)
			return []Candidate{}
		}
		e.logger.Warn("similar translation lookup failed, continuing without context",
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		e.observer.ObserveFailure(kind)
		e.observer.ObserveRetrieval(OutcomeFailed, scored, elapsed)
		return []Candidate{}
	}

	outcome := OutcomeMatched
	if len(results) == 0 {
		outcome = OutcomeEmpty
	}
	e.logger.Debug("similar translation lookup finished",
		zap.Int("scored", scored),
		zap.Int("matched", len(results)),
		zap.Duration("elapsed", elapsed),
	)
	e.observer.ObserveRetrieval(outcome, scored, elapsed)
	return results
}

func (e *Engine) findSimilar(ctx context.Context, corpus Corpus, queryText string, limit int) (results []Candidate, scored int, err error) {
	defer func() {
		if r := recover(); r != nil {
			results = nil
			err = recovered(KindCorpusRead, r)
		}
	}()

	if utf8.RuneCountInString(strings.TrimSpace(queryText)) < MinTextLength {
		return nil, 0, newError(KindInputTooShort, ErrInputTooShort)
	}

	queryKeywords, err := e.extractKeywords(queryText)
	if err != nil {
		return nil, 0, err
	}
	if len(queryKeywords) == 0 {
		return nil, 0, newError(KindInputTooShort, ErrNoKeywords)
	}

	if corpus == nil {
		return nil, 0, newError(KindCorpusRead, ErrNilCorpus)
	}
	docs, err := corpus.QueryRecentEligibleDocuments(ctx, CorpusSampleSize, MinTextLength)
	if err != nil {
		return nil, 0, newError(KindCorpusRead, err)
	}

	matches := make([]Candidate, 0)
	for _, doc := range docs {
		if !doc.Eligible() {
			continue
		}

		docKeywords, err := e.extractKeywords(doc.OriginalText)
		if err != nil {
			e.logger.Debug("skipping candidate, keyword extraction failed",
				zap.String("id", doc.ID), zap.Error(err))
			e.observer.ObserveFailure(KindExtraction)
			continue
		}
		if len(docKeywords) == 0 {
			continue
		}

		similarity, err := e.calculateSimilarity(queryKeywords, docKeywords, queryText, doc.OriginalText)
		scored++
		if err != nil {
			e.logger.Debug("candidate scored as zero",
				zap.String("id", doc.ID), zap.Error(err))
			e.observer.ObserveFailure(KindScoring)
			continue
		}
		if similarity < SimilarityFloor || similarity > 1 {
			continue
		}

		matches = append(matches, Candidate{
			ID:             doc.ID,
			Title:          doc.Title,
			OriginalText:   doc.OriginalText,
			TranslatedText: doc.TranslatedText,
			Similarity:     similarity,
		})
	}

	// Stable so that equal scores keep the corpus' newest-first order.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	for i := range matches {
		matches[i].Similarity = round3(matches[i].Similarity)
	}

	return matches, scored, nil
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

