package repository

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"plainlaw-backend/models"
	"plainlaw-backend/retrieval"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const excerptLength = 160

// TranslationRepository handles database operations for translations
type TranslationRepository struct {
	db *pgxpool.Pool
}

// NewTranslationRepository creates a new translation repository
func NewTranslationRepository(db *pgxpool.Pool) *TranslationRepository {
	return &TranslationRepository{db: db}
}

// Create inserts a translation and fills in its id and created_at
func (r *TranslationRepository) Create(ctx context.Context, t *models.Translation) error {
	query := `
		INSERT INTO translations (
			user_id, title, original_text, translated_text, keywords, source_file_id
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	keywords := t.Keywords
	if keywords == nil {
		keywords = []string{}
	}

	err := r.db.QueryRow(
		ctx, query,
		t.UserID,
		t.Title,
		t.OriginalText,
		t.TranslatedText,
		keywords,
		t.SourceFileID,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert translation: %w", err)
	}

	return nil
}

// GetByID retrieves a translation by ID
func (r *TranslationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Translation, error) {
	t := &models.Translation{}
	query := `
		SELECT id, user_id, title, original_text, translated_text, keywords, source_file_id, created_at
		FROM translations
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&t.OriginalText,
		&t.TranslatedText,
		&t.Keywords,
		&t.SourceFileID,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}

	return t, nil
}

// ListByUserID returns a page of the user's translations, newest first
func (r *TranslationRepository) ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.TranslationSummary, error) {
	query := `
		SELECT id, title, original_text, created_at
		FROM translations
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list translations: %w", err)
	}
	defer rows.Close()

	summaries := []models.TranslationSummary{}
	for rows.Next() {
		var s models.TranslationSummary
		var original string
		if err := rows.Scan(&s.ID, &s.Title, &original, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan translation: %w", err)
		}
		s.Excerpt = excerpt(original, excerptLength)
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating translations: %w", err)
	}

	return summaries, nil
}

// UpdateKeywords replaces the stored keywords of a translation
func (r *TranslationRepository) UpdateKeywords(ctx context.Context, id uuid.UUID, keywords []string) error {
	if keywords == nil {
		keywords = []string{}
	}

	tag, err := r.db.Exec(ctx, `UPDATE translations SET keywords = $2 WHERE id = $1`, id, keywords)
	if err != nil {
		return fmt.Errorf("failed to update keywords: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ListMissingKeywords returns up to limit translations whose keywords were never computed
func (r *TranslationRepository) ListMissingKeywords(ctx context.Context, limit int) ([]models.Translation, error) {
	query := `
		SELECT id, original_text
		FROM translations
		WHERE keywords IS NULL OR cardinality(keywords) = 0
		ORDER BY created_at ASC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query translations without keywords: %w", err)
	}

	translations, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Translation, error) {
		var t models.Translation
		err := row.Scan(&t.ID, &t.OriginalText)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan translation: %w", err)
	}

	return translations, nil
}

// QueryRecentEligibleDocuments reads the newest maxCount translations whose
// original and translated texts both have at least minTextLength characters.
func (r *TranslationRepository) QueryRecentEligibleDocuments(ctx context.Context, maxCount, minTextLength int) ([]retrieval.Document, error) {
	query := `
		SELECT id, title, original_text, translated_text, created_at
		FROM translations
		WHERE char_length(original_text) >= $2
			AND char_length(translated_text) >= $2
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, maxCount, minTextLength)
	if err != nil {
		return nil, fmt.Errorf("failed to query corpus: %w", err)
	}
	defer rows.Close()

	docs := make([]retrieval.Document, 0, maxCount)
	for rows.Next() {
		var t models.Translation
		if err := rows.Scan(&t.ID, &t.Title, &t.OriginalText, &t.TranslatedText, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan corpus document: %w", err)
		}
		docs = append(docs, ToDocument(t))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating corpus: %w", err)
	}

	return docs, nil
}

var _ retrieval.Corpus = (*TranslationRepository)(nil)

// ToDocument converts a stored translation to the retriever's view of it
func ToDocument(t models.Translation) retrieval.Document {
	return retrieval.Document{
		ID:             t.ID.String(),
		Title:          t.Title,
		OriginalText:   t.OriginalText,
		TranslatedText: t.TranslatedText,
		CreatedAt:      t.CreatedAt,
	}
}

func excerpt(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	return string([]rune(text)[:n]) + "..."
}
