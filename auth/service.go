// Package auth implements the account workflows: registration, email
// verification, login, password resets and profile updates. Handlers
// translate the sentinel errors returned here into HTTP responses.
package auth

import (
	"context"
	"fmt"
	"time"

	"iqra/quran-api/model"
	"iqra/quran-api/pkg/security"
	"iqra/quran-api/store"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// CodeTTL is how long verification and reset codes stay valid.
const CodeTTL = time.Hour

const idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Store is the persistence the workflows need. *store.Users implements
// it; tests substitute an in-memory fake.
type Store interface {
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByIDWithActiveReset(ctx context.Context, id string, now time.Time) (*model.User, error)
	Update(ctx context.Context, u *model.User) error
}

// Mailer delivers codes out-of-band. Send failures surface to the
// caller as dependency errors, never retried here.
type Mailer interface {
	SendVerificationCode(to, code string) error
	SendNewVerificationCode(to, code string) error
	SendResetCode(to, code string) error
}

type Service struct {
	store    Store
	hasher   *security.ArgonHash
	codes    *security.CodeIssuer
	tokens   *security.TokenIssuer
	mailer   Mailer
	attempts *attemptLimiter

	now func() time.Time
}

func NewService(s Store, hasher *security.ArgonHash, codes *security.CodeIssuer, tokens *security.TokenIssuer, mailer Mailer, maxCodeAttempts int) *Service {
	return &Service{
		store:    s,
		hasher:   hasher,
		codes:    codes,
		tokens:   tokens,
		mailer:   mailer,
		attempts: newAttemptLimiter(maxCodeAttempts, CodeTTL),
		now:      time.Now,
	}
}

// Register creates an unverified account and mails the verification
// code. Duplicate emails fail with store.ErrDuplicateEmail straight
// from the unique index, there is no pre-check to race against.
func (s *Service) Register(ctx context.Context, name, email, password string) (string, error) {
	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password, %w", err)
	}

	code, codeHash, err := s.codes.Issue()
	if err != nil {
		return "", fmt.Errorf("failed to issue verification code, %w", err)
	}

	id, err := gonanoid.Generate(idCharset, 16)
	if err != nil {
		return "", fmt.Errorf("failed to generate user ID, %w", err)
	}

	expiry := s.now().Add(CodeTTL)

	u := &model.User{
		ID:                     id,
		Name:                   name,
		Email:                  email,
		PasswordHash:           passwordHash,
		Verified:               false,
		VerificationCodeHash:   &codeHash,
		VerificationCodeExpiry: &expiry,
	}

	if err := s.store.Create(ctx, u); err != nil {
		return "", err
	}

	if err := s.mailer.SendVerificationCode(email, code); err != nil {
		// The account exists but the code never arrived. The resend
		// endpoint recovers from this.
		return "", fmt.Errorf("failed to send verification email, %w", err)
	}

	return id, nil
}

// VerifyEmail consumes a verification code. Success flips the account
// to verified for good, clears the code fields and returns a fresh
// session token.
func (s *Service) VerifyEmail(ctx context.Context, userID, code string) (string, *model.User, error) {
	if !s.attempts.allow("verify:" + userID) {
		return "", nil, ErrTooManyAttempts
	}

	u, err := s.store.FindByID(ctx, userID)
	if err != nil {
		if err == store.ErrNotFound {
			return "", nil, ErrNoPendingCode
		}
		return "", nil, err
	}

	if u.VerificationCodeHash == nil || u.VerificationCodeExpiry == nil {
		return "", nil, ErrNoPendingCode
	}

	if !s.now().Before(*u.VerificationCodeExpiry) {
		return "", nil, ErrCodeExpired
	}

	ok, err := s.codes.Matches(code, *u.VerificationCodeHash)
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return "", nil, ErrInvalidCode
	}

	u.Verified = true
	u.VerificationCodeHash = nil
	u.VerificationCodeExpiry = nil

	if err := s.store.Update(ctx, u); err != nil {
		return "", nil, err
	}

	s.attempts.reset("verify:" + userID)

	token, err := s.tokens.Mint(u.ID)
	if err != nil {
		return "", nil, err
	}

	return token, u, nil
}

// ResendCode replaces any pending verification code with a fresh one
// and mails it. The previous code stops validating immediately.
func (s *Service) ResendCode(ctx context.Context, userID string) error {
	u, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if u.Verified {
		return ErrAlreadyVerified
	}

	code, codeHash, err := s.codes.Issue()
	if err != nil {
		return fmt.Errorf("failed to issue verification code, %w", err)
	}

	expiry := s.now().Add(CodeTTL)
	u.VerificationCodeHash = &codeHash
	u.VerificationCodeExpiry = &expiry

	if err := s.store.Update(ctx, u); err != nil {
		return err
	}

	return s.mailer.SendNewVerificationCode(u.Email, code)
}

// Login checks credentials and mints a session token. A pending reset
// does not block logging in with the correct password.
func (s *Service) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	u, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	if !u.Verified {
		// The caller gets the user ID back so the client can jump
		// straight to the verification screen
		return "", u, ErrNotVerified
	}

	ok, err := s.hasher.Verify(password, u.PasswordHash)
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return "", nil, ErrInvalidPassword
	}

	token, err := s.tokens.Mint(u.ID)
	if err != nil {
		return "", nil, err
	}

	return token, u, nil
}

// RequestReset issues a reset code for the account behind email and
// mails it. Requesting again overwrites the previous code.
func (s *Service) RequestReset(ctx context.Context, email string) (string, error) {
	u, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	code, codeHash, err := s.codes.Issue()
	if err != nil {
		return "", fmt.Errorf("failed to issue reset code, %w", err)
	}

	expiry := s.now().Add(CodeTTL)
	u.ResetCodeHash = &codeHash
	u.ResetCodeExpiry = &expiry

	if err := s.store.Update(ctx, u); err != nil {
		return "", err
	}

	if err := s.mailer.SendResetCode(u.Email, code); err != nil {
		return "", fmt.Errorf("failed to send reset email, %w", err)
	}

	return u.ID, nil
}

// ResetPassword consumes a reset code and replaces the password hash.
// The store query already filters out absent or expired codes.
func (s *Service) ResetPassword(ctx context.Context, userID, code, newPassword string) error {
	if !s.attempts.allow("reset:" + userID) {
		return ErrTooManyAttempts
	}

	u, err := s.store.FindByIDWithActiveReset(ctx, userID, s.now())
	if err != nil {
		if err == store.ErrNotFound {
			return ErrResetInvalid
		}
		return err
	}

	ok, err := s.codes.Matches(code, *u.ResetCodeHash)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCode
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password, %w", err)
	}

	u.PasswordHash = passwordHash
	u.ResetCodeHash = nil
	u.ResetCodeExpiry = nil

	if err := s.store.Update(ctx, u); err != nil {
		return err
	}

	s.attempts.reset("reset:" + userID)
	return nil
}

// Profile returns the user behind an authenticated session.
func (s *Service) Profile(ctx context.Context, userID string) (*model.User, error) {
	return s.store.FindByID(ctx, userID)
}

// UpdateReciter replaces the favorite reciter on the user's profile.
func (s *Service) UpdateReciter(ctx context.Context, userID string, r model.Reciter) (*model.User, error) {
	u, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	u.FavoriteReciter = &r

	if err := s.store.Update(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}
