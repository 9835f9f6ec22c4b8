package services

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/usf-app/usf-backend/internal/models"
)

// AuthStore abstracts credential persistence for AuthService.
type AuthStore interface {
	FindUser(id string) (*models.User, error)
	AddUser(u *models.User) error
}

type TokenSigner func(uid string, ttl time.Duration) (string, error)

type AuthService struct {
	store     AuthStore
	signToken TokenSigner
	tokenTTL  time.Duration
}

type AuthResult struct {
	Token  string
	UserID string
}

func NewAuthService(store AuthStore, signer TokenSigner, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{store: store, signToken: signer, tokenTTL: tokenTTL}
}

// NormalizeUserID maps an identifier to its canonical stored form.
func NormalizeUserID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

func (s *AuthService) Register(id, password, email string) error {
	id = NormalizeUserID(id)
	if id == "" || password == "" {
		return NewMissingError("missing credentials")
	}
	existing, err := s.store.FindUser(id)
	if err != nil {
		return err
	}
	if existing != nil {
		return NewConflictError("user already exists")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.store.AddUser(&models.User{ID: id, PassHash: hash, Email: strings.TrimSpace(email)})
}

func (s *AuthService) Login(id, password string) (*AuthResult, error) {
	id = NormalizeUserID(id)
	u, err := s.store.FindUser(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, NewInvalidCredentialsError("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(u.PassHash, []byte(password)); err != nil {
		return nil, NewInvalidCredentialsError("invalid credentials")
	}
	if s.signToken == nil {
		return nil, NewInvalidInputError("token signer not configured")
	}
	token, err := s.signToken(u.ID, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, UserID: u.ID}, nil
}

func (s *AuthService) TokenTTL() time.Duration {
	return s.tokenTTL
}
