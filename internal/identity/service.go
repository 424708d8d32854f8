package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// Service resolves chat sender addresses to users and manages signup.
type Service struct {
	repo        Repository
	countryCode string
}

// NewService creates a new identity service.
func NewService(repo Repository, countryCode string) *Service {
	return &Service{repo: repo, countryCode: countryCode}
}

// Resolve maps a raw sender address to a durable user, creating a phone-only
// record on first contact. Creation is committed before returning so concurrent
// readers observe the user. When two resolutions race on a never-seen phone the
// storage uniqueness constraint picks a winner; the loser re-fetches that row.
func (s *Service) Resolve(ctx context.Context, senderAddress string) (User, error) {
	phone, err := NormalizePhone(senderAddress, s.countryCode)
	if err != nil {
		return User{}, err
	}

	user, err := s.repo.FindByPhone(ctx, phone)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	user = User{
		ID:        uuid.New().String(),
		Phone:     phone,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrPhoneTaken) {
			return s.repo.FindByPhone(ctx, phone)
		}
		return User{}, err
	}
	return user, nil
}

// LookupByPhone finds an existing user by a raw phone string without creating one.
func (s *Service) LookupByPhone(ctx context.Context, raw string) (User, error) {
	phone, err := NormalizePhone(raw, s.countryCode)
	if err != nil {
		return User{}, err
	}
	return s.repo.FindByPhone(ctx, phone)
}

// Register creates a fully populated user from signup data.
func (s *Service) Register(ctx context.Context, profile Profile) (User, error) {
	if len(profile.Password) < minPasswordLength {
		return User{}, fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	if profile.Email == "" {
		return User{}, fmt.Errorf("email is required")
	}
	phone, err := NormalizePhone(profile.Phone, s.countryCode)
	if err != nil {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(profile.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:           uuid.New().String(),
		Name:         profile.Name,
		Phone:        phone,
		Email:        profile.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Authenticate verifies email/password credentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return User{}, errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return User{}, errors.New("invalid credentials")
	}
	return user, nil
}
