package retrieval

import (
	"math"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// CalculateSimilarity blends four signals into a score in [0, 1]:
//
//	0.40 keyword Jaccard
//	0.30 legal-marker overlap
//	0.20 bigram overlap (capped at 0.9)
//	0.10 length similarity (capped at 0.7)
//
// It returns exactly 0 when either text is empty and on any internal fault.
func (e *Engine) CalculateSimilarity(keywordsA, keywordsB []string, textA, textB string) float64 {
	score, err := e.calculateSimilarity(keywordsA, keywordsB, textA, textB)
	if err != nil {
		e.logger.Warn("similarity scoring failed", zap.Error(err))
		e.observer.ObserveFailure(KindScoring)
		return 0
	}
	return score
}

func (e *Engine) calculateSimilarity(keywordsA, keywordsB []string, textA, textB string) (score float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			score = 0
			err = recovered(KindScoring, r)
		}
	}()

	if strings.TrimSpace(textA) == "" || strings.TrimSpace(textB) == "" {
		return 0, nil
	}

	lowerA, lowerB := toLower(textA), toLower(textB)

	score = weightKeywords*jaccard(keywordsA, keywordsB) +
		weightLegal*e.legalOverlap(lowerA, lowerB) +
		weightBigrams*math.Min(bigramCap, bigramOverlap(lowerA, lowerB)) +
		weightLength*math.Min(lengthCap, lengthSimilarity(textA, textB))

	return clamp01(score), nil
}

func jaccard(a, b []string) float64 {
	setA := lowerSet(a)
	setB := lowerSet(b)

	union := len(setA)
	intersection := 0
	for k := range setB {
		if _, ok := setA[k]; ok {
			intersection++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// legalOverlap is the fraction of legal markers present in both texts.
func (e *Engine) legalOverlap(lowerA, lowerB string) float64 {
	markers := e.lexicon.LegalMarkers
	if len(markers) == 0 {
		return 0
	}
	shared := 0
	for _, m := range markers {
		if strings.Contains(lowerA, m) && strings.Contains(lowerB, m) {
			shared++
		}
	}
	return float64(shared) / float64(len(markers))
}

// bigramOverlap is the Dice coefficient over word-bigram sets.
func bigramOverlap(lowerA, lowerB string) float64 {
	bigramsA := bigrams(lowerA)
	bigramsB := bigrams(lowerB)
	total := len(bigramsA) + len(bigramsB)
	if total == 0 {
		return 0
	}
	common := 0
	for bg := range bigramsA {
		if _, ok := bigramsB[bg]; ok {
			common++
		}
	}
	return 2 * float64(common) / float64(total)
}

func bigrams(lower string) map[string]struct{} {
	words := make([]string, 0)
	for _, w := range tokenize(lower) {
		if utf8.RuneCountInString(w) >= minBigramWord {
			words = append(words, w)
		}
	}
	set := make(map[string]struct{}, len(words))
	for i := 0; i+1 < len(words); i++ {
		set[words[i]+" "+words[i+1]] = struct{}{}
	}
	return set
}

// lengthSimilarity falls to zero once one text is twice as long as the other.
func lengthSimilarity(textA, textB string) float64 {
	lenA := float64(utf8.RuneCountInString(textA))
	lenB := float64(utf8.RuneCountInString(textB))
	longest := math.Max(math.Max(lenA, lenB), 1)
	return math.Max(0, 1-2*math.Abs(lenA-lenB)/longest)
}

func lowerSet(terms []string) map[string]struct{} {
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		set[strings.ToLower(t)] = struct{}{}
	}
	return set
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
