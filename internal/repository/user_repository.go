package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/todo-list-api/internal/utils"
)

// User mirrors the 'users' table. The password hash is never serialized.
type User struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create hashes the password with bcrypt and inserts the user, returning
// the stored record. A duplicate email surfaces as KindDuplicate.
func (r *UserRepo) Create(ctx context.Context, email, password, name string, cost int) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return nil, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, name) VALUES (?,?,?)",
		email, hash, name)
	if err != nil {
		return nil, classify("user.create", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, classify("user.create", err)
	}

	// Follow-up SELECT so callers receive the DB-populated timestamps.
	u := User{ID: uint64(id)}
	err = r.DB.QueryRowContext(ctx,
		"SELECT email,name,created_at,updated_at FROM users WHERE id=?",
		u.ID).Scan(&u.Email, &u.Name, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, classify("user.create", err)
	}
	return &u, nil
}

// GetByEmail fetches a user by normalized email. A missing user surfaces
// as KindNotFound.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,name,created_at,updated_at FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, classify("user.get_by_email", err)
	}
	return &u, nil
}
