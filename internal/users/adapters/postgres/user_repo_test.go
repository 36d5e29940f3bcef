package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userboard/internal/users/adapters/postgres"
	"userboard/internal/users/domain/entities"
	"userboard/pkg/logger"
)

var userColumns = []string{"id", "name", "email", "password", "created_at"}

func testContext(t *testing.T) context.Context {
	t.Helper()
	testLogger, err := logger.NewLogger(logger.Development, "debug")
	require.NoError(t, err)
	return logger.NewContext(context.Background(), testLogger)
}

func TestUserRepository_Create(t *testing.T) {
	ctx := testContext(t)

	createdAt := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("Успешное создание пользователя", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("INSERT INTO users .+").
			WithArgs("Alice", "alice@example.com", "Str0ng!pass").
			WillReturnRows(
				pgxmock.NewRows(userColumns).
					AddRow(int64(1), "Alice", "alice@example.com", "Str0ng!pass", createdAt),
			)

		repo := postgres.NewUserRepository(mock)
		created, err := repo.Create(ctx, "Alice", "alice@example.com", "Str0ng!pass")

		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, int64(1), created.ID)
		assert.Equal(t, "Alice", created.Name)
		assert.Equal(t, "alice@example.com", created.Email)
		assert.Equal(t, "Str0ng!pass", created.Password)
		assert.Equal(t, createdAt, created.CreatedAt)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Дублирующийся email дает ErrEmailTaken", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("INSERT INTO users .+").
			WithArgs("Bob", "alice@example.com", "Str0ng!pass").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		repo := postgres.NewUserRepository(mock)
		created, err := repo.Create(ctx, "Bob", "alice@example.com", "Str0ng!pass")

		assert.Nil(t, created)
		assert.ErrorIs(t, err, entities.ErrEmailTaken)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Прочие ошибки хранилища дают ErrStoreUnavailable", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("INSERT INTO users .+").
			WithArgs("Alice", "alice@example.com", "Str0ng!pass").
			WillReturnError(errors.New("connection refused"))

		repo := postgres.NewUserRepository(mock)
		created, err := repo.Create(ctx, "Alice", "alice@example.com", "Str0ng!pass")

		assert.Nil(t, created)
		assert.ErrorIs(t, err, entities.ErrStoreUnavailable)
		assert.NotErrorIs(t, err, entities.ErrEmailTaken)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_List(t *testing.T) {
	ctx := testContext(t)
	createdAt := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("Страница с общим количеством записей", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(9))

		mock.ExpectQuery("SELECT id, name, email, password, created_at FROM users ORDER BY id ASC").
			WillReturnRows(
				pgxmock.NewRows(userColumns).
					AddRow(int64(5), "Alice", "alice@example.com", "pw", createdAt).
					AddRow(int64(6), "Bob", "bob@example.com", "pw", createdAt),
			)

		repo := postgres.NewUserRepository(mock)
		users, total, err := repo.List(ctx, 2, 4)

		require.NoError(t, err)
		assert.Equal(t, 9, total)
		require.Len(t, users, 2)
		assert.Equal(t, int64(5), users[0].ID)
		assert.Equal(t, int64(6), users[1].ID)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Страница за пределами диапазона - пустой срез без ошибки", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))

		mock.ExpectQuery("SELECT id, name, email, password, created_at FROM users ORDER BY id ASC").
			WillReturnRows(pgxmock.NewRows(userColumns))

		repo := postgres.NewUserRepository(mock)
		users, total, err := repo.List(ctx, 10, 1000)

		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Empty(t, users)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Ошибка подсчета записей", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
			WillReturnError(errors.New("connection reset"))

		repo := postgres.NewUserRepository(mock)
		users, total, err := repo.List(ctx, 10, 0)

		assert.Nil(t, users)
		assert.Zero(t, total)
		assert.ErrorIs(t, err, entities.ErrStoreUnavailable)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_GetByID(t *testing.T) {
	ctx := testContext(t)
	createdAt := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("Пользователь найден", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT id, name, email, password, created_at FROM users WHERE id = .+").
			WithArgs(int64(7)).
			WillReturnRows(
				pgxmock.NewRows(userColumns).
					AddRow(int64(7), "Alice", "alice@example.com", "pw", createdAt),
			)

		repo := postgres.NewUserRepository(mock)
		user, err := repo.GetByID(ctx, 7)

		require.NoError(t, err)
		assert.Equal(t, int64(7), user.ID)
		assert.Equal(t, "Alice", user.Name)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Пользователь не найден", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT id, name, email, password, created_at FROM users WHERE id = .+").
			WithArgs(int64(999999)).
			WillReturnError(pgx.ErrNoRows)

		repo := postgres.NewUserRepository(mock)
		user, err := repo.GetByID(ctx, 999999)

		assert.Nil(t, user)
		assert.ErrorIs(t, err, entities.ErrUserNotFound)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_Update(t *testing.T) {
	ctx := testContext(t)
	createdAt := time.Now().UTC().Truncate(time.Microsecond)

	name := "Alice Cooper"
	email := "alice.cooper@example.com"

	t.Run("Обновление имени и email", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("UPDATE users SET name = .+, email = .+ WHERE id = .+ RETURNING .+").
			WithArgs(name, email, int64(7)).
			WillReturnRows(
				pgxmock.NewRows(userColumns).
					AddRow(int64(7), name, email, "pw", createdAt),
			)

		repo := postgres.NewUserRepository(mock)
		updated, err := repo.Update(ctx, 7, &name, &email)

		require.NoError(t, err)
		assert.Equal(t, name, updated.Name)
		assert.Equal(t, email, updated.Email)
		assert.Equal(t, "pw", updated.Password)
		assert.Equal(t, createdAt, updated.CreatedAt)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Частичное обновление только имени", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("UPDATE users SET name = .+ WHERE id = .+ RETURNING .+").
			WithArgs(name, int64(7)).
			WillReturnRows(
				pgxmock.NewRows(userColumns).
					AddRow(int64(7), name, "alice@example.com", "pw", createdAt),
			)

		repo := postgres.NewUserRepository(mock)
		updated, err := repo.Update(ctx, 7, &name, nil)

		require.NoError(t, err)
		assert.Equal(t, name, updated.Name)
		assert.Equal(t, "alice@example.com", updated.Email)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Обновление несуществующего пользователя", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("UPDATE users SET name = .+ WHERE id = .+ RETURNING .+").
			WithArgs(name, int64(999999)).
			WillReturnError(pgx.ErrNoRows)

		repo := postgres.NewUserRepository(mock)
		updated, err := repo.Update(ctx, 999999, &name, nil)

		assert.Nil(t, updated)
		assert.ErrorIs(t, err, entities.ErrUserNotFound)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Обновление на занятый email дает ErrEmailTaken", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("UPDATE users SET email = .+ WHERE id = .+ RETURNING .+").
			WithArgs(email, int64(7)).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		repo := postgres.NewUserRepository(mock)
		updated, err := repo.Update(ctx, 7, nil, &email)

		assert.Nil(t, updated)
		assert.ErrorIs(t, err, entities.ErrEmailTaken)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_Delete(t *testing.T) {
	ctx := testContext(t)

	t.Run("Удаление существующего пользователя", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec("DELETE FROM users .+").
			WithArgs(int64(7)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		repo := postgres.NewUserRepository(mock)
		require.NoError(t, repo.Delete(ctx, 7))

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Удаление несуществующего пользователя идемпотентно", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec("DELETE FROM users .+").
			WithArgs(int64(999999)).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mock.ExpectExec("DELETE FROM users .+").
			WithArgs(int64(999999)).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		repo := postgres.NewUserRepository(mock)
		require.NoError(t, repo.Delete(ctx, 999999))
		require.NoError(t, repo.Delete(ctx, 999999))

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Ошибка хранилища при удалении", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec("DELETE FROM users .+").
			WithArgs(int64(7)).
			WillReturnError(errors.New("connection refused"))

		repo := postgres.NewUserRepository(mock)
		err = repo.Delete(ctx, 7)

		assert.ErrorIs(t, err, entities.ErrStoreUnavailable)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}
