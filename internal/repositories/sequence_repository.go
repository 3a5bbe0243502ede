package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tienda/internal/models"
)

// SequenceRepository hands out monotonic values per named sequence.
type SequenceRepository interface {
	// Next increments the sequence and returns the new value, starting at 1.
	Next(ctx context.Context, name string) (int64, error)
}

// GORMSequenceRepository is a GORM implementation of SequenceRepository.
type GORMSequenceRepository struct {
	db *gorm.DB
}

// NewGORMSequenceRepository creates a new instance of GORMSequenceRepository.
func NewGORMSequenceRepository(db *gorm.DB) *GORMSequenceRepository {
	return &GORMSequenceRepository{db: db}
}

// Next upserts the counter row; the row lock taken by the upsert serialises concurrent callers.
func (r *GORMSequenceRepository) Next(ctx context.Context, name string) (int64, error) {
	seq := models.Sequence{Name: name, Value: 1}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.Assignments(map[string]any{
			"value": gorm.Expr("sequences.value + 1"),
		}),
	}).Create(&seq).Error
	if err != nil {
		return 0, translate(err, "failed to advance sequence %s", name)
	}

	if err := r.db.WithContext(ctx).First(&seq, "name = ?", name).Error; err != nil {
		return 0, translate(err, "sequence %s", name)
	}
	return seq.Value, nil
}
