package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"interviewdesk-backend/internal/repository"
)

func TestStore_WithTx(t *testing.T) {
	ctx := context.Background()

	t.Run("CommitsOnSuccess", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectCommit()

		store := NewStore(db)
		err = store.WithTx(ctx, func(txStore repository.Store) error {
			return nil
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RollsBackOnError", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		store := NewStore(db)
		boom := errors.New("boom")
		err = store.WithTx(ctx, func(txStore repository.Store) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NestedCallReusesTransaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()

		// a single begin/commit pair for both levels
		mock.ExpectBegin()
		mock.ExpectCommit()

		store := NewStore(db)
		var innerRan bool
		err = store.WithTx(ctx, func(txStore repository.Store) error {
			return txStore.WithTx(ctx, func(repository.Store) error {
				innerRan = true
				return nil
			})
		})
		assert.NoError(t, err)
		assert.True(t, innerRan)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
