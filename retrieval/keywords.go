package retrieval

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ExtractKeywords returns the salient terms of text: every lexicon domain term
// found in it, followed by the most frequent generic tokens. Blank input and
// internal faults both yield an empty slice.
func (e *Engine) ExtractKeywords(text string) []string {
	keywords, err := e.extractKeywords(text)
	if err != nil {
		e.logger.Warn("keyword extraction failed", zap.Error(err))
		e.observer.ObserveFailure(KindExtraction)
		return []string{}
	}
	return keywords
}

func (e *Engine) extractKeywords(text string) (keywords []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			keywords = nil
			err = recovered(KindExtraction, r)
		}
	}()

	if strings.TrimSpace(text) == "" {
		return []string{}, nil
	}

	lower := toLower(text)
	seen := make(map[string]struct{})
	keywords = make([]string, 0, len(e.lexicon.DomainTerms)+maxGenericKeywords)
	add := func(term string) {
		if _, ok := seen[term]; ok {
			return
		}
		seen[term] = struct{}{}
		keywords = append(keywords, term)
	}

	for _, term := range e.lexicon.DomainTerms {
		if strings.Contains(lower, term) {
			add(term)
		}
	}
	for _, term := range e.frequentTerms(lower) {
		add(term)
	}

	return keywords, nil
}

// frequentTerms counts tokens longer than three characters that are not stop
// words and returns the most frequent ones. Ties keep first-occurrence order.
func (e *Engine) frequentTerms(lower string) []string {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, tok := range tokenize(lower) {
		if utf8.RuneCountInString(tok) < minTokenLength {
			continue
		}
		if _, stop := e.stopWords[tok]; stop {
			continue
		}
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > maxGenericKeywords {
		order = order[:maxGenericKeywords]
	}
	return order
}

// toLower lowercases with Portuguese casing rules. A Caser is stateful, so a
// fresh one is built per call.
func toLower(text string) string {
	return cases.Lower(language.BrazilianPortuguese).String(text)
}

// tokenize splits on whitespace after treating punctuation and symbols as
// separators.
func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
}
