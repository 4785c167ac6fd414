package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"plainlaw-backend/models"
	"plainlaw-backend/repository"
	"plainlaw-backend/retrieval"
	"plainlaw-backend/storage"

	"github.com/google/uuid"
)

const (
	rulingText = "O Supremo Tribunal Federal (STF) negou provimento ao recurso extraordinário, " +
		"mantendo o acórdão que reconheceu a coisa julgada material sobre a cobrança do tributo. " +
		"A Súmula 279 impede o reexame de provas nesta instância."
	priorRuling = "O STF reconheceu a coisa julgada material em recurso extraordinário sobre cobrança " +
		"de tributo estadual e negou provimento ao recurso do contribuinte, aplicando a Súmula 279."
	priorSummary = "O tribunal decidiu que a questão do imposto já tinha sido julgada de forma definitiva " +
		"e por isso não pode ser discutida de novo."
)

var errBoom = errors.New("boom")

type memoryTranslations struct {
	mu        sync.Mutex
	items     []*models.Translation
	createErr error
	corpusErr error
}

func (m *memoryTranslations) Create(_ context.Context, t *models.Translation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	m.items = append(m.items, t)
	return nil
}

func (m *memoryTranslations) GetByID(_ context.Context, id uuid.UUID) (*models.Translation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.items {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryTranslations) ListByUserID(_ context.Context, userID uuid.UUID, limit, offset int) ([]models.TranslationSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.TranslationSummary{}
	for _, t := range m.items {
		if t.UserID == userID {
			out = append(out, models.TranslationSummary{ID: t.ID, Title: t.Title, CreatedAt: t.CreatedAt})
		}
	}
	if offset >= len(out) {
		return []models.TranslationSummary{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryTranslations) QueryRecentEligibleDocuments(_ context.Context, maxCount, _ int) ([]retrieval.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.corpusErr != nil {
		return nil, m.corpusErr
	}
	docs := make([]retrieval.Document, 0, len(m.items))
	for i := len(m.items) - 1; i >= 0 && len(docs) < maxCount; i-- {
		docs = append(docs, repository.ToDocument(*m.items[i]))
	}
	return docs, nil
}

// seed stores a finished translation owned by userID.
func (m *memoryTranslations) seed(userID uuid.UUID, original, translated string) *models.Translation {
	t := &models.Translation{UserID: userID, OriginalText: original, TranslatedText: translated}
	_ = m.Create(context.Background(), t)
	return t
}

type memoryFiles struct {
	mu        sync.Mutex
	items     map[uuid.UUID]*models.File
	createErr error
}

func newMemoryFiles() *memoryFiles {
	return &memoryFiles{items: map[uuid.UUID]*models.File{}}
}

func (m *memoryFiles) Create(_ context.Context, f *models.File) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	f.CreatedAt = time.Now()
	m.items[f.ID] = f
	return nil
}

func (m *memoryFiles) GetByID(_ context.Context, id uuid.UUID) (*models.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return f, nil
}

func (m *memoryFiles) ListByUserID(_ context.Context, userID uuid.UUID) ([]*models.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.File
	for _, f := range m.items {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Filename < out[j].Filename })
	return out, nil
}

func (m *memoryFiles) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: map[string][]byte{}}
}

func (m *memoryStorage) Upload(_ context.Context, fileID uuid.UUID, filename string, data io.Reader) (string, error) {
	b, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := fmt.Sprintf("%s/%s", fileID, filename)
	m.objects[key] = b
	return key, nil
}

func (m *memoryStorage) Download(_ context.Context, path string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objects[path]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m *memoryStorage) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, path)
	return nil
}

type recordingTranslator struct {
	prompts []string
	reply   string
	err     error
}

func (r *recordingTranslator) Translate(_ context.Context, prompt string) (string, error) {
	r.prompts = append(r.prompts, prompt)
	if r.err != nil {
		return "", r.err
	}
	return r.reply, nil
}
