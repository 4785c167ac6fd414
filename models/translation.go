package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxTitleLength bounds the optional translation title.
const MaxTitleLength = 200

// Translation is a stored legal-text / plain-language pair
type Translation struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	Title          *string    `json:"title,omitempty"`
	OriginalText   string     `json:"original_text"`
	TranslatedText string     `json:"translated_text"`
	Keywords       []string   `json:"keywords"`
	SourceFileID   *uuid.UUID `json:"source_file_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// TranslationSummary is the list view of a translation
type TranslationSummary struct {
	ID        uuid.UUID `json:"id"`
	Title     *string   `json:"title,omitempty"`
	Excerpt   string    `json:"excerpt"`
	CreatedAt time.Time `json:"created_at"`
}
