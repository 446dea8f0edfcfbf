package crypto

import (
	"context"
	"time"

	"worklog/models"
	"worklog/ports"

	"github.com/google/uuid"
)

// LogRepository encrypts log titles and contents on the way into the
// wrapped repository and decrypts them on the way out.
type LogRepository struct {
	inner  ports.LogRepository
	cipher ports.FieldCipher
}

var _ ports.LogRepository = (*LogRepository)(nil)

// NewLogRepository wraps inner with field encryption
func NewLogRepository(inner ports.LogRepository, cipher ports.FieldCipher) *LogRepository {
	return &LogRepository{inner: inner, cipher: cipher}
}

func (r *LogRepository) Create(ctx context.Context, entry *models.LogEntry) error {
	sealed, err := r.seal(entry)
	if err != nil {
		return err
	}
	if err := r.inner.Create(ctx, sealed); err != nil {
		return err
	}
	entry.ID = sealed.ID
	entry.CreatedAt = sealed.CreatedAt
	return nil
}

func (r *LogRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.LogEntry, error) {
	entry, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.open(entry)
	return entry, nil
}

func (r *LogRepository) Update(ctx context.Context, entry *models.LogEntry) error {
	sealed, err := r.seal(entry)
	if err != nil {
		return err
	}
	return r.inner.Update(ctx, sealed)
}

func (r *LogRepository) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	return r.inner.Delete(ctx, ownerID, id)
}

func (r *LogRepository) ListInRange(ctx context.Context, ownerID string, start, end time.Time) ([]models.LogEntry, error) {
	entries, err := r.inner.ListInRange(ctx, ownerID, start, end)
	if err != nil {
		return nil, err
	}
	r.openAll(entries)
	return entries, nil
}

func (r *LogRepository) ListRecent(ctx context.Context, ownerID string, limit int) ([]models.LogEntry, error) {
	entries, err := r.inner.ListRecent(ctx, ownerID, limit)
	if err != nil {
		return nil, err
	}
	r.openAll(entries)
	return entries, nil
}

func (r *LogRepository) Count(ctx context.Context, ownerID string, category *models.Category) (int, error) {
	return r.inner.Count(ctx, ownerID, category)
}

// seal returns an encrypted copy; the caller's entry keeps its plaintext
func (r *LogRepository) seal(entry *models.LogEntry) (*models.LogEntry, error) {
	sealed := *entry
	var err error
	if sealed.Title, err = r.cipher.Encrypt(entry.Title); err != nil {
		return nil, err
	}
	if sealed.Content, err = r.cipher.Encrypt(entry.Content); err != nil {
		return nil, err
	}
	return &sealed, nil
}

func (r *LogRepository) open(entry *models.LogEntry) {
	entry.Title = r.cipher.Decrypt(entry.Title)
	entry.Content = r.cipher.Decrypt(entry.Content)
}

func (r *LogRepository) openAll(entries []models.LogEntry) {
	for i := range entries {
		r.open(&entries[i])
	}
}
