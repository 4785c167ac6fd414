package retrieval

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	examplesHeader = "EXEMPLOS DE TRADUÇÕES ANTERIORES SEMELHANTES:\n\n"
	examplesFooter = "IMPORTANTE: os exemplos acima servem apenas como referência de estilo, " +
		"tom e terminologia. Nunca copie trechos literalmente; traduza o novo texto " +
		"com base exclusivamente no seu próprio conteúdo.\n"
	blockSeparator = "---\n\n"
)

// FormatSimilarExamples renders candidates, in rank order, as a text block for
// prompt injection. Candidates with missing or too-short texts are skipped.
// It returns "" when nothing could be rendered.
func (e *Engine) FormatSimilarExamples(candidates []Candidate) string {
	out, err := e.formatExamples(candidates)
	if err != nil {
		e.logger.Warn("formatting similar examples failed", zap.Error(err))
		e.observer.ObserveFailure(KindFormatting)
		return ""
	}
	return out
}

func (e *Engine) formatExamples(candidates []Candidate) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = ""
			err = recovered(KindFormatting, r)
		}
	}()

	if len(candidates) == 0 {
		return "", nil
	}

	var blocks strings.Builder
	emitted := 0
	for _, c := range candidates {
		block, ok, err := formatCandidate(emitted+1, c)
		if err != nil {
			e.logger.Debug("skipping example, formatting failed",
				zap.String("id", c.ID), zap.Error(err))
			e.observer.ObserveFailure(KindFormatting)
			continue
		}
		if !ok {
			continue
		}
		blocks.WriteString(block)
		emitted++
	}

	if emitted == 0 {
		return "", nil
	}

	return examplesHeader + blocks.String() + examplesFooter, nil
}

// formatCandidate renders one example block. ok is false when the candidate
// carries too little text to be useful.
func formatCandidate(index int, c Candidate) (block string, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			block, ok = "", false
			err = recovered(KindFormatting, r)
		}
	}()

	if c.OriginalText == "" || c.TranslatedText == "" {
		return "", false, nil
	}

	original := truncate(c.OriginalText, excerptLength)
	translated := truncate(c.TranslatedText, excerptLength)
	if utf8.RuneCountInString(original) < MinTextLength || utf8.RuneCountInString(translated) < MinTextLength {
		return "", false, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Exemplo %d (similaridade: %d%%)\n", index, int(math.Round(c.Similarity*100)))
	if c.Title != nil && strings.TrimSpace(*c.Title) != "" {
		fmt.Fprintf(&b, "Título: %s\n", cut(strings.TrimSpace(*c.Title), titleLength))
	}
	fmt.Fprintf(&b, "Texto original:\n%s\n\n", original)
	fmt.Fprintf(&b, "Tradução em linguagem simples:\n%s\n", translated)
	b.WriteString(blockSeparator)

	return b.String(), true, nil
}

// truncate keeps the first n characters of s and marks the cut with an ellipsis.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return cut(s, n) + ellipsis
}

func cut(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
