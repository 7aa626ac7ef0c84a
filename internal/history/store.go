package history

import (
	"context"
	"errors"

	"github.com/mengfanShi/MiniCPM-V/internal/shared"
	"gorm.io/gorm"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&Caption{})
}

func (s *Store) Create(ctx context.Context, c *Caption) error {
	if c.ID == "" {
		c.ID = shared.NewID("cap_")
	}
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *Store) GetByID(ctx context.Context, id string) (*Caption, error) {
	var c Caption
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

type ListFilter struct {
	Model string
	Limit int
}

// List returns captions newest first.
func (s *Store) List(ctx context.Context, f ListFilter) ([]*Caption, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	q := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if f.Model != "" {
		q = q.Where("model = ?", f.Model)
	}

	var captions []*Caption
	err := q.Find(&captions).Error
	return captions, err
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
