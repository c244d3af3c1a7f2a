package memory

import (
	"context"
	"strings"

	"campusbooking/internal/domain"
)

type userRepository struct {
	s *Store
}

func NewUserRepository(s *Store) domain.UserRepository {
	return &userRepository{s: s}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	email := strings.ToLower(strings.TrimSpace(u.Email))
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, taken := r.s.emails[email]; taken {
		return domain.ErrDuplicateEmail
	}
	if _, taken := r.s.users[u.ID]; taken {
		return domain.ErrConflict
	}
	c := copyUser(u)
	c.Email = email
	r.s.users[u.ID] = c
	r.s.emails[email] = u.ID
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyUser(u), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.emails[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyUser(r.s.users[id]), nil
}

func (r *userRepository) MaxID(ctx context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return maxKey(r.s.users), nil
}
