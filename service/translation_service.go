package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"plainlaw-backend/models"
	"plainlaw-backend/pdftext"
	"plainlaw-backend/repository"
	"plainlaw-backend/retrieval"
	"plainlaw-backend/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrTextTooShort      = errors.New("text is too short to translate")
	ErrTextTooLong       = errors.New("text exceeds the maximum length")
	ErrNotFound          = errors.New("resource not found")
	ErrForbidden         = errors.New("resource belongs to another user")
	ErrExtractionFailed  = errors.New("failed to extract text from file")
	ErrTranslationFailed = errors.New("failed to generate translation")
)

const (
	defaultMaxTextChars = 50000
	defaultListLimit    = 20
	maxListLimit        = 100
)

// TranslationStore persists translations and serves as the retrieval corpus
type TranslationStore interface {
	retrieval.Corpus
	Create(ctx context.Context, t *models.Translation) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Translation, error)
	ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.TranslationSummary, error)
}

// FileStore persists uploaded file records
type FileStore interface {
	Create(ctx context.Context, file *models.File) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.File, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.File, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Translator turns a prompt into plain-language text
type Translator interface {
	Translate(ctx context.Context, prompt string) (string, error)
}

// TextExtractor returns the text content of an uploaded document
type TextExtractor func(mimeType string, data []byte) (string, error)

// TranslationService handles plain-language translation of legal texts
type TranslationService struct {
	store        TranslationStore
	files        FileStore
	storage      storage.Storage
	translator   Translator
	engine       *retrieval.Engine
	extract      TextExtractor
	maxTextChars int
	examples     int
	logger       *zap.Logger
}

// TranslationServiceOption is a functional option for TranslationService
type TranslationServiceOption func(*TranslationService)

// TranslationWithStore sets the translation store
func TranslationWithStore(store TranslationStore) TranslationServiceOption {
	return func(s *TranslationService) {
		s.store = store
	}
}

// TranslationWithFileStore sets the file record store
func TranslationWithFileStore(files FileStore) TranslationServiceOption {
	return func(s *TranslationService) {
		s.files = files
	}
}

// TranslationWithStorage sets the file storage backend
func TranslationWithStorage(st storage.Storage) TranslationServiceOption {
	return func(s *TranslationService) {
		s.storage = st
	}
}

// TranslationWithTranslator sets the LLM translator
func TranslationWithTranslator(t Translator) TranslationServiceOption {
	return func(s *TranslationService) {
		s.translator = t
	}
}

// TranslationWithEngine sets the retrieval engine
func TranslationWithEngine(e *retrieval.Engine) TranslationServiceOption {
	return func(s *TranslationService) {
		s.engine = e
	}
}

// TranslationWithExtractor overrides pdftext.Extract
func TranslationWithExtractor(fn TextExtractor) TranslationServiceOption {
	return func(s *TranslationService) {
		s.extract = fn
	}
}

// TranslationWithMaxTextChars bounds the accepted input length
func TranslationWithMaxTextChars(n int) TranslationServiceOption {
	return func(s *TranslationService) {
		if n > 0 {
			s.maxTextChars = n
		}
	}
}

// TranslationWithExamples sets how many similar translations are injected per prompt
func TranslationWithExamples(n int) TranslationServiceOption {
	return func(s *TranslationService) {
		s.examples = retrieval.ClampLimit(n)
	}
}

// TranslationWithLogger sets the logger
func TranslationWithLogger(l *zap.Logger) TranslationServiceOption {
	return func(s *TranslationService) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewTranslationService creates a new translation service
func NewTranslationService(opts ...TranslationServiceOption) *TranslationService {
	s := &TranslationService{
		engine:       retrieval.NewEngine(),
		extract:      pdftext.Extract,
		maxTextChars: defaultMaxTextChars,
		examples:     retrieval.DefaultLimit,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TranslateRequest represents a request to translate a legal text
type TranslateRequest struct {
	UserID       uuid.UUID
	Title        *string
	Text         string
	SourceFileID *uuid.UUID
}

// TranslateResult represents a stored translation
type TranslateResult struct {
	Translation     *models.Translation
	SimilarExamples int
}

// Translate validates the text, gathers similar past translations as
// context, asks the model for a plain-language version and stores the pair.
func (s *TranslationService) Translate(ctx context.Context, req TranslateRequest) (*TranslateResult, error) {
	if s.store == nil {
		return nil, errors.New("translation store not set")
	}
	if s.translator == nil {
		return nil, errors.New("translator not set")
	}

	text, err := s.validateText(req.Text)
	if err != nil {
		return nil, err
	}

	candidates := s.engine.FindSimilarTranslations(ctx, s.store, text, s.examples)
	examples := s.engine.FormatSimilarExamples(candidates)

	translated, err := s.translator.Translate(ctx, BuildPrompt(text, examples))
	if err != nil {
		s.logger.Error("translation failed", zap.Int("text_chars", utf8.RuneCountInString(text)), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrTranslationFailed, err)
	}

	t := &models.Translation{
		UserID:         req.UserID,
		Title:          normalizeTitle(req.Title),
		OriginalText:   text,
		TranslatedText: translated,
		Keywords:       s.engine.ExtractKeywords(text),
		SourceFileID:   req.SourceFileID,
	}
	if err := s.store.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to save translation: %w", err)
	}

	s.logger.Info("translation created",
		zap.String("translation_id", t.ID.String()),
		zap.Int("similar_examples", len(candidates)),
	)

	return &TranslateResult{Translation: t, SimilarExamples: len(candidates)}, nil
}

// TranslateFileRequest represents a request to translate an uploaded file
type TranslateFileRequest struct {
	UserID uuid.UUID
	FileID uuid.UUID
	Title  *string
}

// TranslateFile extracts the text of one of the caller's uploads and translates it
func (s *TranslationService) TranslateFile(ctx context.Context, req TranslateFileRequest) (*TranslateResult, error) {
	if s.files == nil || s.storage == nil {
		return nil, errors.New("file storage not set")
	}

	file, err := s.files.GetByID(ctx, req.FileID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if file.UserID != req.UserID {
		return nil, ErrForbidden
	}

	rc, err := s.storage.Download(ctx, file.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read stored file: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read stored file: %w", err)
	}

	text, err := s.extract(file.MimeType, data)
	if err != nil {
		s.logger.Warn("text extraction failed", zap.String("file_id", file.ID.String()), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	title := req.Title
	if normalizeTitle(title) == nil {
		name := strings.TrimSuffix(file.Filename, filepath.Ext(file.Filename))
		title = &name
	}

	return s.Translate(ctx, TranslateRequest{
		UserID:       req.UserID,
		Title:        title,
		Text:         text,
		SourceFileID: &file.ID,
	})
}

// GetTranslationRequest represents a request to read one translation
type GetTranslationRequest struct {
	UserID        uuid.UUID
	TranslationID uuid.UUID
}

// GetTranslation returns one of the caller's translations
func (s *TranslationService) GetTranslation(ctx context.Context, req GetTranslationRequest) (*models.Translation, error) {
	if s.store == nil {
		return nil, errors.New("translation store not set")
	}

	t, err := s.store.GetByID(ctx, req.TranslationID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if t.UserID != req.UserID {
		return nil, ErrForbidden
	}
	return t, nil
}

// ListTranslationsRequest represents a page request over the caller's translations
type ListTranslationsRequest struct {
	UserID uuid.UUID
	Limit  int
	Offset int
}

// ListTranslations returns the caller's translations, newest first
func (s *TranslationService) ListTranslations(ctx context.Context, req ListTranslationsRequest) ([]models.TranslationSummary, error) {
	if s.store == nil {
		return nil, errors.New("translation store not set")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := max(req.Offset, 0)

	return s.store.ListByUserID(ctx, req.UserID, limit, offset)
}

// FindSimilarRequest represents a retrieval preview request
type FindSimilarRequest struct {
	Text  string
	Limit int
}

// FindSimilarResult holds the ranked candidates and the prompt context they render to
type FindSimilarResult struct {
	Candidates []retrieval.Candidate
	Context    string
}

// FindSimilar runs retrieval without calling the model
func (s *TranslationService) FindSimilar(ctx context.Context, req FindSimilarRequest) (*FindSimilarResult, error) {
	if s.store == nil {
		return nil, errors.New("translation store not set")
	}

	text, err := s.validateText(req.Text)
	if err != nil {
		return nil, err
	}

	candidates := s.engine.FindSimilarTranslations(ctx, s.store, text, req.Limit)
	return &FindSimilarResult{
		Candidates: candidates,
		Context:    s.engine.FormatSimilarExamples(candidates),
	}, nil
}

func (s *TranslationService) validateText(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(text)
	if n < retrieval.MinTextLength {
		return "", ErrTextTooShort
	}
	if n > s.maxTextChars {
		return "", ErrTextTooLong
	}
	return text, nil
}

func normalizeTitle(title *string) *string {
	if title == nil {
		return nil
	}
	t := strings.TrimSpace(*title)
	if t == "" {
		return nil
	}
	if utf8.RuneCountInString(t) > models.MaxTitleLength {
		t = strings.TrimSpace(string([]rune(t)[:models.MaxTitleLength]))
	}
	return &t
}

func mapNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
