package retrieval

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lexicon holds the fixed dictionaries used by keyword extraction and scoring.
// A Lexicon is treated as immutable once handed to an Engine.
type Lexicon struct {
	// DomainTerms are matched as case-insensitive substrings of the input.
	DomainTerms []string `yaml:"domain_terms"`
	// StopWords are discarded during generic term counting.
	StopWords []string `yaml:"stop_words"`
	// LegalMarkers drive the legal-term overlap signal of the scorer.
	LegalMarkers []string `yaml:"legal_markers"`
}

var defaultDomainTerms = []string{
	"stf", "stj", "tst", "tse", "trf", "tjsp",
	"súmula", "art.", "artigo", "lei nº", "inciso", "parágrafo",
	"constituição federal", "cf/88", "cpc", "cpp", "clt", "cdc", "código civil",
	"recurso especial", "recurso extraordinário", "apelação", "agravo", "embargos",
	"habeas corpus", "mandado de segurança", "ação civil pública",
	"acórdão", "sentença", "liminar", "tutela", "jurisprudência",
	"coisa julgada", "trânsito em julgado", "prescrição",
}

var defaultStopWords = []string{
	"para", "como", "mais", "pela", "pelo", "pelas", "pelos",
	"este", "esta", "esse", "essa", "isso", "isto", "aquele", "aquela",
	"sobre", "entre", "quando", "onde", "qual", "quais", "porque", "pois",
	"também", "ainda", "seus", "suas", "sido", "será", "foram", "deve", "pode",
}

var defaultLegalMarkers = []string{
	"stf", "stj", "tst", "súmula", "art.", "lei",
	"cpc", "código", "recurso", "acórdão", "constituição",
}

// DefaultLexicon returns the built-in Brazilian legal dictionaries.
func DefaultLexicon() Lexicon {
	return Lexicon{
		DomainTerms:  append([]string(nil), defaultDomainTerms...),
		StopWords:    append([]string(nil), defaultStopWords...),
		LegalMarkers: append([]string(nil), defaultLegalMarkers...),
	}
}

// LoadLexicon reads a lexicon from a YAML file. Sections left empty in the
// file fall back to the defaults.
func LoadLexicon(path string) (Lexicon, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Lexicon{}, fmt.Errorf("failed to read lexicon %s: %w", path, err)
	}

	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return Lexicon{}, fmt.Errorf("failed to parse lexicon: %w", err)
	}

	defaults := DefaultLexicon()
	if len(lex.DomainTerms) == 0 {
		lex.DomainTerms = defaults.DomainTerms
	}
	if len(lex.StopWords) == 0 {
		lex.StopWords = defaults.StopWords
	}
	if len(lex.LegalMarkers) == 0 {
		lex.LegalMarkers = defaults.LegalMarkers
	}

	return lex.normalized(), nil
}

// normalized lowercases and trims every entry and drops blanks and duplicates.
func (l Lexicon) normalized() Lexicon {
	return Lexicon{
		DomainTerms:  normalizeTerms(l.DomainTerms),
		StopWords:    normalizeTerms(l.StopWords),
		LegalMarkers: normalizeTerms(l.LegalMarkers),
	}
}

func normalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	seen := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
