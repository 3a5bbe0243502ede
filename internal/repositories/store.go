package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Store groups the repositories taking part in one unit of work.
type Store interface {
	Users() UserRepository
	Products() ProductRepository
	Addresses() AddressRepository
	Orders() OrderRepository
	History() OrderHistoryRepository
	Carts() CartRepository
	Sequences() SequenceRepository

	// Transaction runs fn against a Store bound to a single database transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	Transaction(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error
}

// GORMStore is the gorm-backed Store.
type GORMStore struct {
	db *gorm.DB
}

// NewGORMStore creates a Store on top of db. db may itself be a transaction.
func NewGORMStore(db *gorm.DB) *GORMStore {
	return &GORMStore{db: db}
}

func (s *GORMStore) Users() UserRepository           { return NewGORMUserRepository(s.db) }
func (s *GORMStore) Products() ProductRepository     { return NewGORMProductRepository(s.db) }
func (s *GORMStore) Addresses() AddressRepository    { return NewGORMAddressRepository(s.db) }
func (s *GORMStore) Orders() OrderRepository         { return NewGORMOrderRepository(s.db) }
func (s *GORMStore) History() OrderHistoryRepository { return NewGORMOrderHistoryRepository(s.db) }
func (s *GORMStore) Carts() CartRepository           { return NewGORMCartRepository(s.db) }
func (s *GORMStore) Sequences() SequenceRepository   { return NewGORMSequenceRepository(s.db) }

// Transaction opens a transaction, or a savepoint when the store is already transactional.
func (s *GORMStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGORMStore(tx))
	})
}

// Ping checks the database connection.
func (s *GORMStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB handle: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
