// Package postgres содержит реализацию репозитория пользователей поверх Postgres.
package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"userboard/internal/users/domain/entities"
	"userboard/internal/users/ports/repositories"
	"userboard/pkg/logger"
)

// PgxPoolInterface описывает используемое подмножество pgxpool.Pool.
type PgxPoolInterface interface {
	QueryRow(ctx context.Context, query string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, query string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...interface{}) (pgx.Rows, error)
}

// Код Postgres для нарушения уникального ограничения.
const uniqueViolationCode = "23505"

const userColumns = "id, name, email, password, created_at"

// UserRepository реализует интерфейс repositories.UserRepository для работы с Postgres.
type UserRepository struct {
	pool PgxPoolInterface
}

// NewUserRepository создает новый экземпляр репозитория пользователей.
func NewUserRepository(pool PgxPoolInterface) repositories.UserRepository {
	return &UserRepository{pool: pool}
}

// wrapStoreError классифицирует низкоуровневую ошибку хранилища:
// нарушение уникальности email становится entities.ErrEmailTaken,
// все остальные ошибки заворачиваются в entities.ErrStoreUnavailable.
func wrapStoreError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return entities.ErrEmailTaken
	}
	return fmt.Errorf("%w: %w", entities.ErrStoreUnavailable, err)
}

// Create создает нового пользователя и возвращает запись с присвоенными
// хранилищем id и created_at.
func (r *UserRepository) Create(ctx context.Context, name, email, password string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "Create"))

	query := `
        INSERT INTO users (name, email, password)
        VALUES ($1, $2, $3)
        RETURNING ` + userColumns

	var created entities.User
	err := r.pool.QueryRow(ctx, query, name, email, password).Scan(
		&created.ID,
		&created.Name,
		&created.Email,
		&created.Password,
		&created.CreatedAt,
	)

	if err != nil {
		wrapped := wrapStoreError(err)
		if errors.Is(wrapped, entities.ErrEmailTaken) {
			log.Debug(ctx, "duplicate email on create", zap.String("email", email))
			return nil, wrapped
		}
		log.Error(ctx, "error creating user", zap.Error(err))
		return nil, wrapped
	}

	return &created, nil
}

// List возвращает одну страницу пользователей и общее количество записей.
// Срез упорядочен по id; запрос за пределами диапазона возвращает пустой срез.
func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*entities.User, int, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "List"))
	log.Debug(ctx, "listing users", zap.Int("limit", limit), zap.Int("offset", offset))

	var totalCount int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&totalCount); err != nil {
		log.Error(ctx, "error counting users", zap.Error(err))
		return nil, 0, wrapStoreError(err)
	}

	query, args, err := sq.Select("id", "name", "email", "password", "created_at").
		From("users").
		OrderBy("id ASC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		log.Error(ctx, "error building list query", zap.Error(err))
		return nil, 0, fmt.Errorf("%w: %w", entities.ErrStoreUnavailable, err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		log.Error(ctx, "error listing users", zap.Error(err))
		return nil, 0, wrapStoreError(err)
	}
	defer rows.Close()

	users := make([]*entities.User, 0)
	for rows.Next() {
		var user entities.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.Password, &user.CreatedAt); err != nil {
			log.Error(ctx, "error scanning user row", zap.Error(err))
			return nil, 0, wrapStoreError(err)
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		log.Error(ctx, "error iterating user rows", zap.Error(err))
		return nil, 0, wrapStoreError(err)
	}

	return users, totalCount, nil
}

// GetByID находит пользователя по ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "GetByID"))

	query := `
        SELECT ` + userColumns + `
        FROM users
        WHERE id = $1
    `

	var user entities.User
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Password,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "user not found", zap.Int64("id", id))
			return nil, entities.ErrUserNotFound
		}
		log.Error(ctx, "error finding user by id", zap.Error(err))
		return nil, wrapStoreError(err)
	}

	return &user, nil
}

// Update применяет частичное обновление name/email и возвращает запись после
// обновления. Пароль и created_at этим путем не изменяются.
func (r *UserRepository) Update(ctx context.Context, id int64, name, email *string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "Update"))

	builder := sq.Update("users").
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + userColumns).
		PlaceholderFormat(sq.Dollar)

	if name != nil {
		builder = builder.Set("name", *name)
	}
	if email != nil {
		builder = builder.Set("email", *email)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		log.Error(ctx, "error building update query", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", entities.ErrStoreUnavailable, err)
	}

	var updated entities.User
	err = r.pool.QueryRow(ctx, query, args...).Scan(
		&updated.ID,
		&updated.Name,
		&updated.Email,
		&updated.Password,
		&updated.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "user not found for update", zap.Int64("id", id))
			return nil, entities.ErrUserNotFound
		}
		wrapped := wrapStoreError(err)
		if errors.Is(wrapped, entities.ErrEmailTaken) {
			log.Debug(ctx, "duplicate email on update", zap.Int64("id", id))
			return nil, wrapped
		}
		log.Error(ctx, "error updating user", zap.Error(err))
		return nil, wrapped
	}

	return &updated, nil
}

// Delete удаляет пользователя по ID. Удаление идемпотентно: отсутствие
// записи не считается ошибкой.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "Delete"))

	query := `
        DELETE FROM users
        WHERE id = $1
    `

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		log.Error(ctx, "error deleting user", zap.Error(err))
		return wrapStoreError(err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, "no user to delete", zap.Int64("id", id))
	}

	return nil
}
