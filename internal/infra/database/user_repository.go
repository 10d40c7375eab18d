package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/gauravmindaptix26/leaado-backend/internal/entity"
)

const userColumns = `id, full_name, email, password_hash, mobile, country, created_at, updated_at`

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func scanUser(row rowScanner) (*entity.User, error) {
	var u entity.User
	var mobile, country sql.NullString

	err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &mobile, &country, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.Mobile = mobile.String
	u.Country = country.String
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	query := `INSERT INTO users (` + userColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.DB.ExecContext(ctx, query,
		u.ID, u.FullName, u.Email, u.PasswordHash,
		nullString(u.Mobile), nullString(u.Country),
		u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrEmailAlreadyExists
		}
		zap.L().Error("users: insert failed", zap.Error(err))
		return eris.Wrap(err, "users: insert")
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrUserNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "users: find by id")
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrUserNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "users: find by email")
	}
	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE users
		SET full_name = $1, email = $2, password_hash = $3, mobile = $4, country = $5, updated_at = $6
		WHERE id = $7
	`
	res, err := r.DB.ExecContext(ctx, query,
		u.FullName, u.Email, u.PasswordHash, nullString(u.Mobile), nullString(u.Country), u.UpdatedAt, u.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrEmailAlreadyExists
		}
		return eris.Wrap(err, "users: update")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "users: rows affected")
	}
	if n == 0 {
		return entity.ErrUserNotFound
	}
	return nil
}
