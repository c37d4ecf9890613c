package repository

import (
	"database/sql"
	"fmt"

	custom_error "github.com/sangphomma/Siriwong-Inventory-App/pkg/errors"

	"github.com/doug-martin/goqu/v9"
)

const maxTxRetries = 3

type Repository struct {
	DB            *sql.DB
	GoquDBWrapper *goqu.Database
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		DB:            db,
		GoquDBWrapper: goqu.New("postgres", db),
	}
}

// WithTransaction runs fn inside one transaction so a batch of stock
// adjustments commits or rolls back as a unit.
func (r *Repository) WithTransaction(fn func(tx *goqu.TxDatabase) error) error {
	return WithTransaction(r.GoquDBWrapper, fn)
}

// WithTransactionRetry retries fn on transient serialization failures a
// bounded number of times before surfacing ErrConcurrencyConflict.
func (r *Repository) WithTransactionRetry(fn func(tx *goqu.TxDatabase) error) error {
	var err error
	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err = WithTransaction(r.GoquDBWrapper, fn)
		if err == nil || !custom_error.IsSerializationFailure(err) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", custom_error.ErrConcurrencyConflict, err)
}

func WithTransaction(db *goqu.Database, fn func(tx *goqu.TxDatabase) error) (err error) {
	rawTx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	tx := goqu.NewTx("postgres", rawTx)
	defer func() {
		if p := recover(); p != nil {
			rawTx.Rollback()
			panic(p)
		} else if err != nil {
			rawTx.Rollback()
		} else {
			err = rawTx.Commit()
		}
	}()

	err = fn(tx)
	return
}
