package brain

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aithena-labs/aithena/errors"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLiteStore persists memory records in a local SQLite database.
type SQLiteStore struct {
	db *gorm.DB
}

type memoryRow struct {
	ID        uint   `gorm:"primarykey"`
	Text      string `gorm:"not null"`
	Embedding datatypes.JSONSlice[float32]
	Source    string
	CreatedAt time.Time
}

func (memoryRow) TableName() string {
	return "memories"
}

type metadataRow struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

func (metadataRow) TableName() string {
	return "metadata"
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (creating if needed) the memory database at dbPath.
// Any failure to open or migrate surfaces as errors.ErrStoreUnavailable,
// which the engine treats as fatal.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, errors.Wrapf(errors.ErrStoreUnavailable, "failed to create store directory for %s: %v", dbPath, err)
		}
	}

	db, err := gorm.Open(
		sqlite.Open(fmt.Sprintf("file:%s?cache=shared&mode=rwc&_journal_mode=WAL", dbPath)),
		&gorm.Config{Logger: logger.Discard},
	)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrStoreUnavailable, "failed to open sqlite database at %s: %v", dbPath, err)
	}

	if err := db.AutoMigrate(&memoryRow{}, &metadataRow{}); err != nil {
		return nil, errors.Wrapf(errors.ErrStoreUnavailable, "failed to migrate memory schema: %v", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) GetAll(ctx context.Context) ([]MemoryRecord, error) {
	var rows []memoryRow
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, errors.Wrapf(err, "failed to load memory records")
	}

	records := make([]MemoryRecord, len(rows))
	for i, row := range rows {
		records[i] = row.toRecord()
	}
	return records, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id uint) (*MemoryRecord, error) {
	var row memoryRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrapf(errors.ErrNotFound, "memory %d", id)
		}
		return nil, errors.Wrapf(err, "failed to fetch memory %d", id)
	}

	record := row.toRecord()
	return &record, nil
}

func (s *SQLiteStore) Add(ctx context.Context, record *MemoryRecord) error {
	row := memoryRow{
		ID:        record.ID,
		Text:      record.Text,
		Embedding: datatypes.NewJSONSlice(record.Embedding),
		Source:    record.Source,
		CreatedAt: record.CreatedAt,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return errors.Wrapf(err, "failed to persist memory %d", record.ID)
	}
	return nil
}

func (s *SQLiteStore) UpdateEmbedding(ctx context.Context, id uint, embedding []float32) error {
	tx := s.db.WithContext(ctx).
		Model(&memoryRow{}).
		Where("id = ?", id).
		Update("embedding", datatypes.NewJSONSlice(embedding))
	if tx.Error != nil {
		return errors.Wrapf(tx.Error, "failed to update embedding of memory %d", id)
	}
	if tx.RowsAffected == 0 {
		return errors.Wrapf(errors.ErrNotFound, "memory %d", id)
	}
	return nil
}

func (s *SQLiteStore) ClearAll(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Exec("DELETE FROM memories").Error; err != nil {
		return errors.Wrapf(err, "failed to clear memories")
	}
	return nil
}

func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&memoryRow{}).Count(&count).Error; err != nil {
		return 0, errors.Wrapf(err, "failed to count memories")
	}
	return count, nil
}

func (s *SQLiteStore) GetMetadata(ctx context.Context, key string) (string, error) {
	var row metadataRow
	if err := s.db.WithContext(ctx).First(&row, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errors.Wrapf(errors.ErrNotFound, "metadata %q", key)
		}
		return "", errors.Wrapf(err, "failed to fetch metadata %q", key)
	}
	return row.Value, nil
}

func (s *SQLiteStore) PutMetadata(ctx context.Context, key, value string) error {
	if err := s.db.WithContext(ctx).Save(&metadataRow{Key: key, Value: value}).Error; err != nil {
		return errors.Wrapf(err, "failed to persist metadata %q", key)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Wrapf(err, "failed to get database handle")
	}
	return sqlDB.Close()
}

func (r memoryRow) toRecord() MemoryRecord {
	return MemoryRecord{
		ID:        r.ID,
		Text:      r.Text,
		Embedding: r.Embedding,
		Source:    r.Source,
		CreatedAt: r.CreatedAt,
	}
}
