package retrieval

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateSimilarity_EmptyText(t *testing.T) {
	e := NewEngine()
	kw := []string{"stf", "coisa julgada"}

	assert.Equal(t, 0.0, e.CalculateSimilarity(kw, kw, "", queryRuling))
	assert.Equal(t, 0.0, e.CalculateSimilarity(kw, kw, queryRuling, ""))
	assert.Equal(t, 0.0, e.CalculateSimilarity(kw, kw, "   ", queryRuling))
}

func TestCalculateSimilarity_IdenticalTexts(t *testing.T) {
	e := NewEngine()
	kw := e.ExtractKeywords(queryRuling)

	// Jaccard 1, bigrams 1 capped to 0.9, length 1 capped to 0.7; the ruling
	// mentions "stf", "súmula" and "recurso" from the 11 legal markers.
	legal := 3.0 / 11.0
	want := 0.4*1 + 0.3*legal + 0.2*0.9 + 0.1*0.7

	got := e.CalculateSimilarity(kw, kw, queryRuling, queryRuling)

	assert.InDelta(t, want, got, 1e-9)
	assert.InDelta(t, 0.7318, got, 1e-4)
}

func TestCalculateSimilarity_IdenticalTextsNoMarkers(t *testing.T) {
	e := NewEngine()
	text := "Empregada doméstica recebeu verbas rescisórias depois de longa espera pela empregadora."
	kw := e.ExtractKeywords(text)

	assert.InDelta(t, 0.65, e.CalculateSimilarity(kw, kw, text, text), 1e-9)
}

func TestCalculateSimilarity_Bounded(t *testing.T) {
	e := NewEngine()
	texts := []string{queryRuling, resJudicataRuling, consumerRuling, laborRuling, plainSummary, "stf"}

	for _, a := range texts {
		for _, b := range texts {
			got := e.CalculateSimilarity(e.ExtractKeywords(a), e.ExtractKeywords(b), a, b)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		}
	}
}

func TestCalculateSimilarity_Symmetric(t *testing.T) {
	e := NewEngine()
	kwA := e.ExtractKeywords(queryRuling)
	kwB := e.ExtractKeywords(resJudicataRuling)

	ab := e.CalculateSimilarity(kwA, kwB, queryRuling, resJudicataRuling)
	ba := e.CalculateSimilarity(kwB, kwA, resJudicataRuling, queryRuling)

	assert.InDelta(t, ab, ba, 1e-12)
}

func TestCalculateSimilarity_RelatedBeatsUnrelated(t *testing.T) {
	e := NewEngine()
	q := e.ExtractKeywords(queryRuling)

	related := e.CalculateSimilarity(q, e.ExtractKeywords(resJudicataRuling), queryRuling, resJudicataRuling)
	unrelated := e.CalculateSimilarity(q, e.ExtractKeywords(consumerRuling), queryRuling, consumerRuling)

	assert.Greater(t, related, unrelated)
	assert.GreaterOrEqual(t, related, SimilarityFloor)
	assert.Less(t, unrelated, SimilarityFloor)
}

func TestCalculateSimilarity_KeywordCaseInsensitive(t *testing.T) {
	e := NewEngine(WithLexicon(Lexicon{}))
	text := "alfa beta gama"

	upper := e.CalculateSimilarity([]string{"ALFA"}, []string{"alfa"}, text, text)
	lower := e.CalculateSimilarity([]string{"alfa"}, []string{"alfa"}, text, text)

	assert.InDelta(t, lower, upper, 1e-12)
}

func TestCalculateSimilarity_LengthPenalty(t *testing.T) {
	short := strings.Repeat("a", 100)
	long := strings.Repeat("a", 200)

	assert.InDelta(t, 1.0, lengthSimilarity(short, short), 1e-12)
	assert.InDelta(t, 0.0, lengthSimilarity(short, long), 1e-12)
	assert.InDelta(t, 0.5, lengthSimilarity(strings.Repeat("a", 150), long), 1e-12)
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want float64
	}{
		{"both empty", nil, nil, 0},
		{"disjoint", []string{"a"}, []string{"b"}, 0},
		{"identical", []string{"a", "b"}, []string{"b", "a"}, 1},
		{"half", []string{"a", "b"}, []string{"b", "c", "a", "d"}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, jaccard(tt.a, tt.b), 1e-12)
		})
	}
}

func TestBigramOverlap(t *testing.T) {
	assert.Equal(t, 0.0, bigramOverlap("um de", "em os"))
	assert.InDelta(t, 1.0, bigramOverlap("coisa julgada material", "coisa julgada material"), 1e-12)
	// {coisa julgada, julgada material} vs {coisa julgada, julgada formal}
	assert.InDelta(t, 0.5, bigramOverlap("coisa julgada material", "coisa julgada formal"), 1e-12)
}

func TestLegalOverlap_CustomMarkers(t *testing.T) {
	e := NewEngine(WithLexicon(Lexicon{LegalMarkers: []string{"STF", "stj"}}))

	assert.InDelta(t, 0.5, e.legalOverlap("decisão do stf", "stf e stj"), 1e-12)
	assert.InDelta(t, 0.0, NewEngine(WithLexicon(Lexicon{})).legalOverlap("stf", "stf"), 1e-12)
}
