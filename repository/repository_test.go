package repository

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"plainlaw-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestNotFound(t *testing.T) {
	assert.ErrorIs(t, notFound(pgx.ErrNoRows), ErrNotFound)
	assert.ErrorIs(t, notFound(fmt.Errorf("scan: %w", pgx.ErrNoRows)), ErrNotFound)

	other := errors.New("connection reset")
	assert.Equal(t, other, notFound(other))
}

func TestToDocument(t *testing.T) {
	title := "Coisa julgada"
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tr := models.Translation{
		ID:             uuid.MustParse("6f1c2b1e-8f3a-4c1d-9a55-0c2e4b7d9f10"),
		Title:          &title,
		OriginalText:   "original",
		TranslatedText: "tradução",
		Keywords:       []string{"stf"},
		CreatedAt:      created,
	}

	doc := ToDocument(tr)

	assert.Equal(t, "6f1c2b1e-8f3a-4c1d-9a55-0c2e4b7d9f10", doc.ID)
	assert.Equal(t, &title, doc.Title)
	assert.Equal(t, "original", doc.OriginalText)
	assert.Equal(t, "tradução", doc.TranslatedText)
	assert.Equal(t, created, doc.CreatedAt)
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "a b c", excerpt("  a\n b\t\tc ", 10))
	assert.Equal(t, "ççç...", excerpt(strings.Repeat("ç", 5), 3))
	assert.Equal(t, "abc", excerpt("abc", 3))
}
