package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/frescolabs/storefront-api/internal/model"
	"github.com/frescolabs/storefront-api/internal/notify"
	"github.com/frescolabs/storefront-api/internal/repository"
)

// Token prefixes keep the two credential kinds distinguishable so a reset
// token can never be replayed as a verification token or vice versa.
const (
	verifyTokenPrefix = "VER-"
	resetTokenPrefix  = "RST-"
)

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^\d{6,15}$`)
)

// AuthService owns registration, login and the token lifecycles. It is the
// only component that compares passwords or unique-checks emails.
type AuthService struct {
	userRepo    repository.UserRepository
	notifier    notify.Notifier
	jwtSecret   []byte
	jwtExpiry   time.Duration
	phonePrefix string
}

func NewAuthService(userRepo repository.UserRepository, notifier notify.Notifier, jwtSecret string, jwtExpiry time.Duration, phonePrefix string) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		notifier:    notifier,
		jwtSecret:   []byte(jwtSecret),
		jwtExpiry:   jwtExpiry,
		phonePrefix: phonePrefix,
	}
}

// Register creates an unverified account and emits a verification mail
// intent. The verification token travels only through the notifier, never in
// the returned user.
func (s *AuthService) Register(ctx context.Context, name, email, password, phone string) (*model.User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", ErrValidation)
	}
	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("%w: correo electrónico inválido", ErrValidation)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: la contraseña debe tener al menos 8 caracteres", ErrValidation)
	}
	if !phonePattern.MatchString(phone) {
		return nil, fmt.Errorf("%w: teléfono inválido", ErrValidation)
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	token := verifyTokenPrefix + uuid.NewString()
	user := &model.User{
		Name:              name,
		Email:             email,
		Phone:             s.phonePrefix + " " + phone,
		PasswordHash:      string(hashed),
		Verified:          false,
		VerificationToken: token,
		Addresses:         []model.Address{},
		PaymentMethods:    []model.PaymentMethod{},
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	_ = s.notifier.Send(ctx, notify.Message{
		Kind: notify.KindVerification, Recipient: email, Name: name, Token: token,
	})
	return user.Sanitized(), nil
}

// Login checks credentials and verification state. On success it returns the
// sanitized user and a signed session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if !user.Verified {
		return nil, "", ErrNotVerified
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return user.Sanitized(), token, nil
}

// VerifyEmail flips the account to verified when the single-use token
// matches, then clears the token and emits the welcome mail.
func (s *AuthService) VerifyEmail(ctx context.Context, token, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if user == nil || user.VerificationToken == "" || user.VerificationToken != token {
		return ErrInvalidToken
	}

	user.Verified = true
	user.VerificationToken = ""
	if err := s.userRepo.Update(ctx, email, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	_ = s.notifier.Send(ctx, notify.Message{
		Kind: notify.KindWelcome, Recipient: email, Name: user.Name,
	})
	return nil
}

// ResendVerification reports generic success regardless of whether the
// account exists, to avoid leaking which emails are registered. A fresh token
// invalidates any previous one.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if user == nil || user.Verified {
		return nil
	}

	token := verifyTokenPrefix + uuid.NewString()
	user.VerificationToken = token
	if err := s.userRepo.Update(ctx, email, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	_ = s.notifier.Send(ctx, notify.Message{
		Kind: notify.KindResend, Recipient: email, Name: user.Name, Token: token,
	})
	return nil
}

// RequestPasswordReset reports generic success; a reset token is issued and
// mailed only when the account exists.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil
	}

	token := resetTokenPrefix + uuid.NewString()
	user.ResetToken = token
	if err := s.userRepo.Update(ctx, email, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	_ = s.notifier.Send(ctx, notify.Message{
		Kind: notify.KindPasswordReset, Recipient: email, Name: user.Name, Token: token,
	})
	return nil
}

// ResetPassword overwrites the password when the currently-issued reset token
// matches. Tokens are single-use: a successful reset clears it.
func (s *AuthService) ResetPassword(ctx context.Context, email, token, newPassword string) error {
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: la contraseña debe tener al menos 8 caracteres", ErrValidation)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if user == nil || !strings.HasPrefix(token, resetTokenPrefix) ||
		user.ResetToken == "" || user.ResetToken != token {
		return ErrInvalidToken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hashed)
	user.ResetToken = ""
	if err := s.userRepo.Update(ctx, email, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (s *AuthService) generateToken(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"sub": user.Email,
		"exp": time.Now().Add(s.jwtExpiry).Unix(),
		"iat": time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}
