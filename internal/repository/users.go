package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"petshop_back_end/internal/database"
	"petshop_back_end/internal/models"
)

// UserRepo stores accounts.
type UserRepo struct {
	db *database.DB
}

// NewUserRepo returns a UserRepo backed by db.
func NewUserRepo(db *database.DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, email, username, password, COALESCE(phone, ''), COALESCE(profile_image_url, ''), role`

func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Phone, &u.ProfileImageURL, &u.Role)
	return u, err
}

// Create inserts u and returns it with its id. A taken email yields
// ErrDuplicateEmail.
func (r *UserRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	if u.Role == "" {
		u.Role = models.RoleCustomer
	}
	err := r.db.Q().QueryRowContext(ctx,
		`INSERT INTO users (email, username, password, phone, profile_image_url, role, created_at) VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		u.Email, u.Username, u.PasswordHash, nullable(u.Phone), nullable(u.ProfileImageURL), u.Role, now(),
	).Scan(&u.ID)
	if database.IsUniqueViolation(err) {
		return models.User{}, ErrDuplicateEmail
	}
	if err != nil {
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// GetByEmail expects an already normalized address.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	u, err := scanUser(r.db.Q().QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("select user by email: %w", err)
	}
	return u, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (models.User, error) {
	u, err := scanUser(r.db.Q().QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("select user %d: %w", id, err)
	}
	return u, nil
}

// UpdateProfile changes the editable profile fields. Role and password are
// not touched here.
func (r *UserRepo) UpdateProfile(ctx context.Context, u models.User) (models.User, error) {
	res, err := r.db.Q().ExecContext(ctx,
		`UPDATE users SET username = ?, email = ?, phone = ? WHERE id = ?`,
		u.Username, u.Email, nullable(u.Phone), u.ID)
	if database.IsUniqueViolation(err) {
		return models.User{}, ErrDuplicateEmail
	}
	if err != nil {
		return models.User{}, fmt.Errorf("update user %d: %w", u.ID, err)
	}
	if err := expectOneRow(res); err != nil {
		return models.User{}, err
	}
	return r.GetByID(ctx, u.ID)
}

// Delete removes the account. Its orders and their items go with it through
// ON DELETE CASCADE.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Q().ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return expectOneRow(res)
}

// SetPasswordHash replaces the stored hash, used when upgrading legacy
// bcrypt hashes.
func (r *UserRepo) SetPasswordHash(ctx context.Context, id int64, hash string) error {
	res, err := r.db.Q().ExecContext(ctx, `UPDATE users SET password = ? WHERE id = ?`, hash, id)
	if err != nil {
		return fmt.Errorf("update password of user %d: %w", id, err)
	}
	return expectOneRow(res)
}

// Exists reports whether an account with id is still present.
func (r *UserRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var n int
	if err := r.db.Q().QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE id = ?`, id).Scan(&n); err != nil {
		return false, fmt.Errorf("check user %d: %w", id, err)
	}
	return n > 0, nil
}
