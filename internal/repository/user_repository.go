package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vaibavdk-pieq/agent-management-template-main/internal/domain"
)

// UserRepository defines persistence access for user rows. Lookup misses
// surface as pgx.ErrNoRows; every other error propagates unclassified.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) (bool, error)
	FindAll(ctx context.Context, limit, offset int) ([]domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, username, email, first_name, last_name, active, created_at, updated_at`

func (r *userRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username=$1`
	return r.fetchSingle(ctx, query, username)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

// Save upserts by id: an existing row gets its mutable columns updated, a
// missing row is inserted with both timestamps. This is a read-check-then-
// write sequence, not an atomic upsert; two concurrent saves to the same id
// race and the last write wins. Acceptable for low-contention admin data.
// The persisted row is re-read so store-set values are authoritative.
func (r *userRepository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	existing, err := r.FindByID(ctx, user.ID)
	if err != nil && err != pgx.ErrNoRows {
		return nil, err
	}

	if existing != nil {
		const update = `
            UPDATE users SET email=$1, first_name=$2, last_name=$3, active=$4, updated_at=$5
            WHERE id=$6`
		if _, err := r.pool.Exec(ctx, update,
			user.Email,
			user.FirstName,
			user.LastName,
			user.Active,
			user.UpdatedAt,
			user.ID,
		); err != nil {
			return nil, err
		}
	} else {
		const insert = `
            INSERT INTO users (id, username, email, first_name, last_name, active, created_at, updated_at)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
		if _, err := r.pool.Exec(ctx, insert,
			user.ID,
			user.Username,
			user.Email,
			user.FirstName,
			user.LastName,
			user.Active,
			user.CreatedAt,
			user.UpdatedAt,
		); err != nil {
			return nil, err
		}
	}

	return r.FindByID(ctx, user.ID)
}

func (r *userRepository) Delete(ctx context.Context, id string) (bool, error) {
	const query = `DELETE FROM users WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *userRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Active,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func scanUsers(rows pgx.Rows) ([]domain.User, error) {
	var result []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.FirstName,
			&user.LastName,
			&user.Active,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}
