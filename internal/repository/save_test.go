package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rocketscienceinc/connect-four/internal/apperror"
	"github.com/rocketscienceinc/connect-four/internal/repository/storage"
	"github.com/rocketscienceinc/connect-four/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSaveName(t *testing.T) {
	for _, name := range []string{"abc", "game1", "12345678", "жёлтый"} {
		assert.NoError(t, ValidateSaveName(name), name)
	}

	for _, name := range []string{"", "ab", "123456789", "a long name"} {
		assert.ErrorIs(t, ValidateSaveName(name), ErrInvalidSaveName, name)
	}
}

// exerciseSaveRepository runs the behaviour every SaveRepository shares.
func exerciseSaveRepository(ctx context.Context, t *testing.T, repo SaveRepository) {
	t.Helper()

	t.Run("List is empty on a fresh store", func(t *testing.T) {
		names, err := repo.List(ctx)

		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("Write then Read", func(t *testing.T) {
		// Given: a blob written under a name
		blob := []byte(`{"ties":1}`)
		require.NoError(t, repo.Write(ctx, "game1", blob))

		// When: reading it back
		got, err := repo.Read(ctx, "game1")

		// Then: the bytes are identical
		require.NoError(t, err)
		assert.Equal(t, blob, got)
	})

	t.Run("Write overwrites an existing save", func(t *testing.T) {
		require.NoError(t, repo.Write(ctx, "game2", []byte(`{"ties":1}`)))
		require.NoError(t, repo.Write(ctx, "game2", []byte(`{"ties":2}`)))

		got, err := repo.Read(ctx, "game2")
		require.NoError(t, err)
		assert.JSONEq(t, `{"ties":2}`, string(got))
	})

	t.Run("List is sorted by name without duplicates", func(t *testing.T) {
		require.NoError(t, repo.Write(ctx, "alpha", []byte(`{}`)))

		names, err := repo.List(ctx)

		require.NoError(t, err)
		assert.Equal(t, []string{"alpha", "game1", "game2"}, names)
	})

	t.Run("Read of an unknown save is a not found IO error", func(t *testing.T) {
		got, err := repo.Read(ctx, "missing")

		require.ErrorIs(t, err, ErrSaveNotFound)
		require.ErrorIs(t, err, apperror.ErrIO)
		assert.Nil(t, got)
	})

	t.Run("Write rejects invalid names", func(t *testing.T) {
		err := repo.Write(ctx, "x", []byte(`{}`))

		require.ErrorIs(t, err, ErrInvalidSaveName)
	})
}

func TestSQLiteSaveRepository(t *testing.T) {
	ctx := context.Background()

	st, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "save", "connect4.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	require.NoError(t, st.Init(ctx))

	exerciseSaveRepository(ctx, t, NewSQLiteSaveRepository(st.Connection))
}

func TestSQLiteSaveRepository_ClosedConnection(t *testing.T) {
	ctx := context.Background()

	st, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "connect4.db"))
	require.NoError(t, err)
	require.NoError(t, st.Init(ctx))
	require.NoError(t, st.Close())

	repo := NewSQLiteSaveRepository(st.Connection)

	_, err = repo.List(ctx)
	require.ErrorIs(t, err, apperror.ErrIO)

	err = repo.Write(ctx, "game1", []byte(`{}`))
	require.ErrorIs(t, err, apperror.ErrIO)

	_, err = repo.Read(ctx, "game1")
	require.ErrorIs(t, err, apperror.ErrIO)
	assert.NotErrorIs(t, err, ErrSaveNotFound)
}

func TestRedisSaveRepository(t *testing.T) {
	ctx, st := suite.New(t)

	exerciseSaveRepository(ctx, t, NewRedisSaveRepository(st.Storage))
}

func TestPostgresSaveRepository(t *testing.T) {
	ctx, st := suite.NewPostgres(t)

	require.NoError(t, (&storage.Storage{Connection: st.Postgres}).Init(ctx))

	exerciseSaveRepository(ctx, t, NewPostgresSaveRepository(st.Postgres))
}
