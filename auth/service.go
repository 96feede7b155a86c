package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jocoker/cse340/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRegistrationFailed = errors.New("registration failed")
	ErrHashFailed         = errors.New("password hashing failed")
)

// AccountStore is the subset of the credential store the account flows use.
type AccountStore interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateAccount(ctx context.Context, acct *models.Account) error
	AccountByEmail(ctx context.Context, email string) (models.Account, error)
	AccountByID(ctx context.Context, id uint) (models.Account, error)
	UpdateAccount(ctx context.Context, id uint, firstName, lastName, email string) (models.Account, error)
	UpdatePassword(ctx context.Context, id uint, digest string) error
}

type Service struct {
	accounts AccountStore
	hasher   Hasher
	tokens   *TokenIssuer
}

func NewService(accounts AccountStore, hasher Hasher, tokens *TokenIssuer) (*Service, error) {
	if accounts == nil {
		return nil, fmt.Errorf("account store is required")
	}
	if hasher == nil {
		return nil, fmt.Errorf("password hasher is required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token issuer is required")
	}
	return &Service{accounts: accounts, hasher: hasher, tokens: tokens}, nil
}

func (s *Service) Tokens() *TokenIssuer { return s.tokens }

type Registration struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Register creates a Client account. Input shape is validated by the caller;
// Register checks email uniqueness before any hashing work is done.
//
// Errors: *models.ValidationError for a taken email, ErrHashFailed when the
// hasher fails, ErrRegistrationFailed for any store failure.
func (s *Service) Register(ctx context.Context, in Registration) (models.Account, error) {
	email := NormalizeEmail(in.Email)
	exists, err := s.accounts.EmailExists(ctx, email)
	if err != nil {
		return models.Account{}, fmt.Errorf("%w: %v", ErrRegistrationFailed, err)
	}
	if exists {
		return models.Account{}, models.NewValidationError("account_email", "Email exists. Please log in or use different email")
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return models.Account{}, fmt.Errorf("%w: %v", ErrHashFailed, err)
	}

	acct := models.Account{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     email,
		Password:  digest,
		Type:      models.RoleClient,
	}
	if err := s.accounts.CreateAccount(ctx, &acct); err != nil {
		// includes losing a concurrent race on the email unique index
		return models.Account{}, fmt.Errorf("%w: %v", ErrRegistrationFailed, err)
	}
	acct.Password = ""
	return acct, nil
}

// Login verifies credentials and returns a signed session token together
// with the account (password cleared). Every credential problem, including
// a stored record without a usable hash, is ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (string, models.Account, error) {
	acct, err := s.accounts.AccountByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", models.Account{}, ErrInvalidCredentials
		}
		return "", models.Account{}, err
	}
	if !acct.HasPassword() {
		return "", models.Account{}, ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(password, acct.Password)
	if err != nil {
		log.Printf("login: account %d has an unusable password hash: %v", acct.ID, err)
		return "", models.Account{}, ErrInvalidCredentials
	}
	if !ok {
		return "", models.Account{}, ErrInvalidCredentials
	}

	acct.Password = ""
	token, err := s.tokens.Issue(NewClaims(acct))
	if err != nil {
		return "", models.Account{}, err
	}
	return token, acct, nil
}

type ProfileUpdate struct {
	FirstName string
	LastName  string
	Email     string
}

// UpdateProfile changes names and email of the account and returns a fresh
// token so the claims carry the new email.
func (s *Service) UpdateProfile(ctx context.Context, accountID uint, in ProfileUpdate) (string, models.Account, error) {
	current, err := s.accounts.AccountByID(ctx, accountID)
	if err != nil {
		return "", models.Account{}, err
	}

	email := NormalizeEmail(in.Email)
	if email != current.Email {
		exists, err := s.accounts.EmailExists(ctx, email)
		if err != nil {
			return "", models.Account{}, err
		}
		if exists {
			return "", models.Account{}, models.NewValidationError("account_email", "Email exists. Please use a different email")
		}
	}

	updated, err := s.accounts.UpdateAccount(ctx, accountID, in.FirstName, in.LastName, email)
	if err != nil {
		return "", models.Account{}, err
	}
	updated.Password = ""
	token, err := s.tokens.Issue(NewClaims(updated))
	if err != nil {
		return "", models.Account{}, err
	}
	return token, updated, nil
}

// ChangePassword stores a new hash for the account. Weak passwords are
// rejected with a *models.ValidationError.
func (s *Service) ChangePassword(ctx context.Context, accountID uint, password string) error {
	if err := CheckPasswordStrength(password); err != nil {
		return models.NewValidationError("account_password", passwordPolicyMessage)
	}
	digest, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrHashFailed, err)
	}
	return s.accounts.UpdatePassword(ctx, accountID, digest)
}

const passwordPolicyMessage = "Password must be at least 12 characters long and include an uppercase letter, a lowercase letter, a number, and a symbol."

// NormalizeEmail trims and lower-cases an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
