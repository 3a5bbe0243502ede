package models

// Sequence is a named monotonic counter.
type Sequence struct {
	Name  string `gorm:"primaryKey;type:varchar(50)"`
	Value int64  `gorm:"not null"`
}
