package transcript

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Append inserts one turn. The timestamp is stamped here (UTC) unless the
// caller already set one.
func (s *Store) Append(ctx context.Context, t *Turn) error {
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now().UTC()
	}
	return s.db.WithContext(ctx).Create(t).Error
}

// ListAll returns every turn ordered by timestamp ascending. The insert id
// breaks ties so turns written within the same clock tick keep submission
// order.
func (s *Store) ListAll(ctx context.Context) ([]Turn, error) {
	var turns []Turn
	if err := s.db.WithContext(ctx).
		Order("timestamp ASC, id ASC").
		Find(&turns).Error; err != nil {
		return nil, err
	}
	return turns, nil
}

// ListByEmail filters by exact, case-sensitive email equality.
func (s *Store) ListByEmail(ctx context.Context, email string) ([]Turn, error) {
	var turns []Turn
	if err := s.db.WithContext(ctx).
		Where("email = ?", email).
		Order("timestamp ASC, id ASC").
		Find(&turns).Error; err != nil {
		return nil, err
	}
	return turns, nil
}

// DeleteByEmail removes every row for the email and reports how many went.
// Deleting an unknown email is a no-op, not an error.
func (s *Store) DeleteByEmail(ctx context.Context, email string) (int64, error) {
	res := s.db.WithContext(ctx).Where("email = ?", email).Delete(&Turn{})
	return res.RowsAffected, res.Error
}
