package user

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"hash/fnv"
	"math/big"
	"net/mail"
	"strings"

	"github.com/claimdesk/claimdesk/internal/platform/auth"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotActivated       = errors.New("account not activated")
	ErrInvalidCode        = errors.New("invalid verification code")
)

const minPasswordLen = 8

type Service struct {
	repo   Repository
	tokens *auth.TokenIssuer
	idp    *auth.FederatedVerifier
}

// NewService wires the account service. idp may be nil when federated login
// is not configured; FederatedLogin then fails with ErrInvalidCredentials.
func NewService(repo Repository, tokens *auth.TokenIssuer, idp *auth.FederatedVerifier) *Service {
	return &Service{repo: repo, tokens: tokens, idp: idp}
}

// Register creates a deactivated account and returns it together with the
// one-time verification code. The code is handed to the caller for
// out-of-band delivery; only its hash is stored.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, string, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if in.Name == "" {
		return nil, "", fmt.Errorf("name is required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, "", fmt.Errorf("invalid email address")
	}
	if len(in.Password) < minPasswordLen {
		return nil, "", fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}

	u := &User{Name: in.Name, Email: in.Email}

	if in.PhoneNumber != "" {
		phone, err := NormalizePhone(in.PhoneNumber)
		if err != nil {
			return nil, "", err
		}
		u.PhoneNumber = &phone
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hashing password: %w", err)
	}
	u.PasswordHash = &hash

	code, err := newVerificationCode()
	if err != nil {
		return nil, "", fmt.Errorf("generating verification code: %w", err)
	}
	hashed := hashCode(code)
	u.HashedVerificationCode = &hashed

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, "", err
	}
	return u, code, nil
}

// Verify activates the account when the submitted code matches. Verifying
// an already-active account is a no-op.
func (s *Service) Verify(ctx context.Context, in VerifyInput) error {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return err
	}
	if u.Activated {
		return nil
	}
	if u.HashedVerificationCode == nil || hashCode(in.Code) != *u.HashedVerificationCode {
		return ErrInvalidCode
	}
	return s.repo.Activate(ctx, u.ID)
}

// Login checks the password and returns a signed access token. Deactivated
// accounts cannot log in.
func (s *Service) Login(ctx context.Context, in LoginInput) (*TokenResponse, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if u.PasswordHash == nil || !auth.VerifyPassword(*u.PasswordHash, in.Password) {
		return nil, ErrInvalidCredentials
	}
	if !u.Activated {
		return nil, ErrNotActivated
	}
	return s.issueToken(u.ID)
}

// FederatedLogin verifies an external ID token against the provider's JWKS
// and returns a local access token, provisioning the account on first login.
// The provider's verified email is trusted, so federated accounts skip the
// verification-code step.
func (s *Service) FederatedLogin(ctx context.Context, in FederatedInput) (*TokenResponse, error) {
	if s.idp == nil {
		return nil, ErrInvalidCredentials
	}
	claims, err := s.idp.VerifyIDToken(in.IDToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, err)
	}
	if claims.Email == "" || !claims.EmailVerified {
		return nil, fmt.Errorf("%w: unverified email", ErrInvalidCredentials)
	}

	email := strings.ToLower(claims.Email)
	u, err := s.repo.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrNotFound):
		u = &User{Name: claims.Name, Email: email, Activated: true}
		if u.Name == "" {
			u.Name = email
		}
		if claims.Picture != "" {
			pic := claims.Picture
			u.ProfilePicture = &pic
		}
		if err := s.repo.Create(ctx, u); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	case !u.Activated:
		if err := s.repo.Activate(ctx, u.ID); err != nil {
			return nil, err
		}
	}
	return s.issueToken(u.ID)
}

// IsActiveUser satisfies auth.ActiveUserChecker for the bearer middleware:
// a token is only honored while its account is live and activated.
func (s *Service) IsActiveUser(ctx context.Context, userID int64) (bool, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return u.Activated, nil
}

func (s *Service) issueToken(userID int64) (*TokenResponse, error) {
	token, err := s.tokens.Issue(userID)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}
	return &TokenResponse{Token: token, ExpiresIn: int64(s.tokens.TTL().Seconds())}, nil
}

// newVerificationCode returns a random six-digit code, zero-padded.
func newVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// hashCode reduces a verification code to the int32 form stored in the
// hashed_verification_code column.
func hashCode(code string) int32 {
	h := fnv.New32a()
	h.Write([]byte(strings.TrimSpace(code)))
	return int32(h.Sum32())
}
