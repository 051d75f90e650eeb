package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/frescolabs/storefront-api/internal/model"
	"github.com/frescolabs/storefront-api/internal/repository"
)

var (
	cardNumberPattern = regexp.MustCompile(`^\d{16}$`)
	cardExpiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cardCVVPattern    = regexp.MustCompile(`^\d{3,4}$`)
)

// CardInput is the transient card data used for validation only. The full
// number and CVV are discarded after deriving the stored PaymentMethod.
type CardInput struct {
	Number string
	Expiry string
	CVV    string
}

// ValidateCard checks the raw card data and derives the storable payment
// method: brand from the leading digit (4 visa, 5 mastercard), last four
// digits, expiry. Anything else fails with ErrValidation.
func ValidateCard(in CardInput) (model.PaymentMethod, error) {
	number := strings.ReplaceAll(in.Number, " ", "")
	if !cardNumberPattern.MatchString(number) {
		return model.PaymentMethod{}, fmt.Errorf("%w: el número de tarjeta debe tener 16 dígitos", ErrValidation)
	}
	if !cardExpiryPattern.MatchString(in.Expiry) {
		return model.PaymentMethod{}, fmt.Errorf("%w: la fecha de vencimiento debe estar en formato MM/AA", ErrValidation)
	}
	if !cardCVVPattern.MatchString(in.CVV) {
		return model.PaymentMethod{}, fmt.Errorf("%w: el CVV debe tener 3 o 4 dígitos", ErrValidation)
	}

	var cardType model.CardType
	switch number[0] {
	case '4':
		cardType = model.CardVisa
	case '5':
		cardType = model.CardMastercard
	default:
		return model.PaymentMethod{}, fmt.Errorf("%w: solo se aceptan tarjetas Visa o Mastercard", ErrValidation)
	}

	return model.PaymentMethod{
		CardType:   cardType,
		Last4:      number[len(number)-4:],
		ExpiryDate: in.Expiry,
	}, nil
}

// AccountService owns profile mutations and the address/payment collections.
type AccountService struct {
	userRepo  repository.UserRepository
	orderRepo repository.OrderRepository
}

func NewAccountService(userRepo repository.UserRepository, orderRepo repository.OrderRepository) *AccountService {
	return &AccountService{userRepo: userRepo, orderRepo: orderRepo}
}

// Get returns the sanitized user, or ErrUserNotFound.
func (s *AccountService) Get(ctx context.Context, email string) (*model.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user.Sanitized(), nil
}

// UpdateProfile applies name/email/phone changes atomically. A password
// change additionally requires the current password; an email change must not
// collide with another account and re-keys the order history.
func (s *AccountService) UpdateProfile(ctx context.Context, currentEmail, newName, newEmail, newPhone, currentPassword, newPassword string) (*model.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, currentEmail)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if newPassword != "" {
		if len(newPassword) < 8 {
			return nil, fmt.Errorf("%w: la contraseña debe tener al menos 8 caracteres", ErrValidation)
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
			return nil, ErrInvalidCredentials
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hashed)
	}

	if newEmail != currentEmail {
		if !emailPattern.MatchString(newEmail) {
			return nil, fmt.Errorf("%w: correo electrónico inválido", ErrValidation)
		}
		other, err := s.userRepo.GetByEmail(ctx, newEmail)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if other != nil {
			return nil, ErrEmailInUse
		}
	}

	user.Name = newName
	user.Email = newEmail
	user.Phone = newPhone
	if err := s.userRepo.Update(ctx, currentEmail, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if newEmail != currentEmail {
		if err := s.orderRepo.Rekey(ctx, currentEmail, newEmail); err != nil {
			return nil, fmt.Errorf("rekey order history: %w", err)
		}
	}
	return user.Sanitized(), nil
}

// DeleteAccount removes the user record and purges the email's order history.
// Reports false when no such user exists.
func (s *AccountService) DeleteAccount(ctx context.Context, email string) (bool, error) {
	deleted, err := s.userRepo.Delete(ctx, email)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	if !deleted {
		return false, nil
	}
	if err := s.orderRepo.PurgeByEmail(ctx, email); err != nil {
		return true, fmt.Errorf("purge order history: %w", err)
	}
	return true, nil
}

// AddAddress appends an address with a fresh id. A missing user is a silent
// no-op returning nil, matching the store contract.
func (s *AccountService) AddAddress(ctx context.Context, email string, addr model.Address) (*model.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, nil
	}

	addr.ID = model.NextEntityID(model.MaxAddressID(user.Addresses))
	user.Addresses = append(user.Addresses, addr)
	if err := s.userRepo.Update(ctx, email, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user.Sanitized(), nil
}

func (s *AccountService) UpdateAddress(ctx context.Context, email string, addr model.Address) (*model.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, nil
	}

	for i := range user.Addresses {
		if user.Addresses[i].ID == addr.ID {
			user.Addresses[i] = addr
		}
	}
	if err := s.userRepo.Update(ctx, email, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user.Sanitized(), nil
}

func (s *AccountService) DeleteAddress(ctx context.Context, email string, addressID int64) (*model.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, nil
	}

	kept := user.Addresses[:0]
	for _, a := range user.Addresses {
		if a.ID != addressID {
			kept = append(kept, a)
		}
	}
	user.Addresses = kept
	if err := s.userRepo.Update(ctx, email, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user.Sanitized(), nil
}

// AddPaymentMethod validates the raw card data, stores only the derived
// method and discards the number and CVV.
func (s *AccountService) AddPaymentMethod(ctx context.Context, email string, card CardInput) (*model.User, error) {
	pm, err := ValidateCard(card)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, nil
	}

	pm.ID = model.NextEntityID(model.MaxPaymentMethodID(user.PaymentMethods))
	user.PaymentMethods = append(user.PaymentMethods, pm)
	if err := s.userRepo.Update(ctx, email, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user.Sanitized(), nil
}

func (s *AccountService) DeletePaymentMethod(ctx context.Context, email string, paymentMethodID int64) (*model.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, nil
	}

	kept := user.PaymentMethods[:0]
	for _, p := range user.PaymentMethods {
		if p.ID != paymentMethodID {
			kept = append(kept, p)
		}
	}
	user.PaymentMethods = kept
	if err := s.userRepo.Update(ctx, email, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user.Sanitized(), nil
}
