package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/gauravkatara53/Topic-Backend/internal/models"
	"github.com/gauravkatara53/Topic-Backend/internal/storage"
)

// UserService manages local accounts and Google sign-in users.
type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	FindOrCreateGoogleUser(ctx context.Context, email, name, googleID string) (*models.User, error)
}

// MemoryUserService is the in-memory UserService used in tests and
// local runs. Optionally persists through a JSONStore.
type MemoryUserService struct {
	mu      sync.RWMutex
	users   map[string]*models.User
	byEmail map[string]string // email -> userID
	store   *storage.JSONStore
}

type userSnapshot struct {
	Users   map[string]*models.User `json:"users"`
	ByEmail map[string]string       `json:"by_email"`
}

func NewMemoryUserService(store *storage.JSONStore) *MemoryUserService {
	s := &MemoryUserService{
		users:   make(map[string]*models.User),
		byEmail: make(map[string]string),
		store:   store,
	}
	if store != nil {
		var snap userSnapshot
		if err := store.Load(&snap); err == nil {
			if snap.Users != nil {
				s.users = snap.Users
			}
			if snap.ByEmail != nil {
				s.byEmail = snap.ByEmail
			}
		}
	}
	return s
}

func (s *MemoryUserService) persist() {
	if s.store == nil {
		return
	}
	_ = s.store.Save(userSnapshot{Users: s.users, ByEmail: s.byEmail})
}

func (s *MemoryUserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[req.Email]; exists {
		return nil, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Name:         req.Name,
		Number:       req.Number,
		CreatedAt:    time.Now().UTC(),
	}

	s.users[user.ID] = user
	s.byEmail[user.Email] = user.ID
	s.persist()

	return user, nil
}

func (s *MemoryUserService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, exists := s.byEmail[req.Email]
	if !exists {
		return nil, ErrUserNotFound
	}

	user := s.users[userID]
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidPassword
	}

	return user, nil
}

func (s *MemoryUserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[id]
	if !exists {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// FindOrCreateGoogleUser resolves a verified Google identity to a local
// account, creating one on first sign-in.
func (s *MemoryUserService) FindOrCreateGoogleUser(ctx context.Context, email, name, googleID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if userID, exists := s.byEmail[email]; exists {
		user := s.users[userID]
		if user.GoogleID == "" {
			user.GoogleID = googleID
			s.persist()
		}
		return user, nil
	}

	user := &models.User{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      name,
		GoogleID:  googleID,
		CreatedAt: time.Now().UTC(),
	}
	s.users[user.ID] = user
	s.byEmail[user.Email] = user.ID
	s.persist()

	return user, nil
}
