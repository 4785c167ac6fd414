package retrieval

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

const (
	queryRuling = "O Supremo Tribunal Federal (STF) reafirmou que a coisa julgada protege a decisão definitiva " +
		"contra novas discussões entre as mesmas partes. A Súmula 5 foi citada pelo relator para lembrar que " +
		"a simples interpretação de cláusula contratual não autoriza a reabertura do processo. O tribunal " +
		"concluiu que o contribuinte não pode rediscutir o débito tributário já decidido, porque a coisa julgada " +
		"garante segurança jurídica e estabilidade às relações entre cidadãos e Estado. O recurso foi negado " +
		"por unanimidade e a decisão anterior foi mantida integralmente pelos ministros da turma julgadora."

	resJudicataRuling = "O tribunal decidiu que a coisa julgada impede que as mesmas partes voltem a discutir uma decisão " +
		"definitiva. O relator explicou que a reabertura do processo não é permitida quando o débito tributário " +
		"já foi decidido, porque a coisa julgada garante segurança jurídica e estabilidade às relações entre " +
		"cidadãos e Estado. Os ministros negaram o recurso por unanimidade e mantiveram integralmente a decisão " +
		"anterior, reforçando a proteção das decisões definitivas contra novas discussões judiciais entre partes."

	consumerRuling = "Consumidora comprou geladeira defeituosa em loja virtual e pediu troca do produto. A empresa recusou " +
		"atendimento. Juizado condenou fornecedora a devolver valor pago, com correção monetária."

	laborRuling = "Empregado doméstico trabalhou durante cinco anos sem registro em carteira. Testemunhas confirmaram " +
		"jornada diária extensa, inclusive finais de semana. Empregadora deverá pagar férias vencidas, " +
		"décimo terceiro salário, horas extras acumuladas e depósitos atrasados do fundo de garantia, " +
		"além de multa rescisória prevista na legislação trabalhista aplicável ao caso concreto analisado."

	plainSummary = "Em linguagem simples: a decisão explica, de forma clara, o que foi decidido e quais são as consequências para as partes."
)

func strPtr(s string) *string { return &s }

func doc(id, original string) Document {
	return Document{
		ID:             id,
		Title:          strPtr("Documento " + id),
		OriginalText:   original,
		TranslatedText: plainSummary,
		CreatedAt:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// staticCorpus serves a fixed document list and records the calls it receives.
type staticCorpus struct {
	mu       sync.Mutex
	docs     []Document
	err      error
	calls    int
	maxCount int
	minLen   int
}

func (c *staticCorpus) QueryRecentEligibleDocuments(_ context.Context, maxCount, minTextLength int) ([]Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.maxCount = maxCount
	c.minLen = minTextLength
	if c.err != nil {
		return nil, c.err
	}
	if len(c.docs) > maxCount {
		return c.docs[:maxCount], nil
	}
	return c.docs, nil
}

// recordingObserver keeps every telemetry event for assertions.
type recordingObserver struct {
	mu       sync.Mutex
	outcomes []string
	failures []ErrorKind
}

func (o *recordingObserver) ObserveRetrieval(outcome string, _ int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func (o *recordingObserver) ObserveFailure(kind ErrorKind) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failures = append(o.failures, kind)
}

var errDatabaseDown = errors.New("connection refused")

// variantRuling produces distinct but related rulings sharing the query's
// vocabulary to a varying degree.
func variantRuling(i int) string {
	base := strings.Fields(resJudicataRuling)
	keep := len(base) - i*3
	if keep < 20 {
		keep = 20
	}
	return fmt.Sprintf("Processo %d. %s", i, strings.Join(base[:keep], " "))
}
