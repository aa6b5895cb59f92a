package repo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"facegateway/internal/models"
)

// MemoryUserRepo nyimpen user di map; aturan unik email/nik sama dengan tabel users.
type MemoryUserRepo struct {
	mu    sync.RWMutex
	users []models.User
	now   func() time.Time
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{now: time.Now}
}

func (r *MemoryUserRepo) Create(_ context.Context, u models.User) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == u.Email {
			return models.User{}, &DuplicateError{Field: "email"}
		}
		if existing.NIK == u.NIK {
			return models.User{}, &DuplicateError{Field: "nik"}
		}
	}

	now := r.now().UTC()
	u.ID = uuid.NewString()
	u.CreatedAt = now
	u.UpdatedAt = now
	r.users = append(r.users, u)
	return u, nil
}

func (r *MemoryUserRepo) GetByID(_ context.Context, id string) (models.User, error) {
	return r.find(func(u models.User) bool { return u.ID == id })
}

func (r *MemoryUserRepo) GetByNIK(_ context.Context, nik string) (models.User, error) {
	return r.find(func(u models.User) bool { return u.NIK == nik })
}

func (r *MemoryUserRepo) GetByEmail(_ context.Context, email string) (models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email })
}

func (r *MemoryUserRepo) List(_ context.Context) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.User, len(r.users))
	copy(out, r.users)
	return out, nil
}

func (r *MemoryUserRepo) find(match func(models.User) bool) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if match(u) {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}
