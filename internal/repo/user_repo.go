package repo

import (
	"context"
	"database/sql"
	"errors"

	"facegateway/internal/models"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `id::text, name, email, nik, COALESCE(phone_number, ''), password, created_at, updated_at`

func (r *UserRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	q := `INSERT INTO users (name, email, nik, phone_number, password)
	      VALUES ($1, $2, $3, NULLIF($4, ''), $5)
	      RETURNING ` + userColumns + `;`
	out, err := scanUser(r.DB.QueryRowContext(ctx, q, u.Name, u.Email, u.NIK, u.PhoneNumber, u.PasswordHash))
	if err != nil {
		return models.User{}, asDuplicate(err)
	}
	return out, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id::text = $1;`, id)
}

func (r *UserRepo) GetByNIK(ctx context.Context, nik string) (models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE nik = $1;`, nik)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1;`, email)
}

func (r *UserRepo) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UserRepo) getOne(ctx context.Context, q, arg string) (models.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, q, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	return u, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (models.User, error) {
	var u models.User
	err := s.Scan(&u.ID, &u.Name, &u.Email, &u.NIK, &u.PhoneNumber, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
