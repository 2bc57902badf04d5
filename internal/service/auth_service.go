package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"rpg_tracker/internal/domain"
	"rpg_tracker/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinAccountNameLen = 3
	MaxAccountNameLen = 32
	MinPasswordLen    = 6
	// bcrypt ignores everything past 72 bytes
	MaxPasswordLen = 72
)

var accountNameRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Session is the result of a successful login.
type Session struct {
	Token   string
	Claims  *Claims
	Account *domain.Account
}

// AuthService is the local identity layer: accounts, passwords and tokens.
type AuthService struct {
	accounts   AccountStore
	tokens     *TokenManager
	audit      *AuditService
	bcryptCost int
}

// NewAuthService creates an auth service
func NewAuthService(accounts AccountStore, tokens *TokenManager, audit *AuditService) *AuthService {
	return &AuthService{
		accounts:   accounts,
		tokens:     tokens,
		audit:      audit,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// WithBcryptCost overrides the password hashing cost.
func (s *AuthService) WithBcryptCost(cost int) *AuthService {
	s.bcryptCost = cost
	return s
}

// Tokens exposes the token manager used by the middleware.
func (s *AuthService) Tokens() *TokenManager {
	return s.tokens
}

func validateAccountName(name string) error {
	if len(name) < MinAccountNameLen {
		return fmt.Errorf("%w: name too short", domain.ErrValidation)
	}
	if len(name) > MaxAccountNameLen {
		return fmt.Errorf("%w: name too long", domain.ErrValidation)
	}
	if !accountNameRe.MatchString(name) {
		return fmt.Errorf("%w: name may contain only letters, digits and underscores", domain.ErrValidation)
	}
	return nil
}

// Register creates a local account and logs it in.
func (s *AuthService) Register(ctx context.Context, name, password string) (*Session, error) {
	name = strings.TrimSpace(name)
	if err := validateAccountName(name); err != nil {
		return nil, err
	}
	if len(password) < MinPasswordLen {
		return nil, fmt.Errorf("%w: password too short", domain.ErrValidation)
	}
	if len(password) > MaxPasswordLen {
		return nil, fmt.Errorf("%w: password too long", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, err
	}
	hashStr := string(hash)

	acc := &domain.Account{Name: name, PasswordHash: &hashStr}
	if err := s.accounts.CreateAccount(ctx, acc); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("%w: account name %q is taken", domain.ErrConflict, name)
		}
		return nil, err
	}

	logger.WithContext(ctx).Info("account registered", "account_id", acc.ID)
	s.audit.LogAuth(ctx, acc.ID, domain.AuditActionRegister)
	return s.newSession(acc)
}

// Login checks a local password.
func (s *AuthService) Login(ctx context.Context, name, password string) (*Session, error) {
	acc, err := s.accounts.GetAccountByName(ctx, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if !acc.HasPassword() {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*acc.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	s.audit.LogAuth(ctx, acc.ID, domain.AuditActionLogin)
	return s.newSession(acc)
}

// LoginDiscord resolves a Discord profile to an account, creating one on
// first sign-in.
func (s *AuthService) LoginDiscord(ctx context.Context, profile *DiscordProfile) (*Session, error) {
	if profile == nil || profile.ID == "" {
		return nil, fmt.Errorf("%w: empty discord profile", domain.ErrUpstream)
	}

	acc, err := s.accounts.GetAccountByDiscordID(ctx, profile.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if acc == nil {
		acc, err = s.createDiscordAccount(ctx, profile)
		if err != nil {
			return nil, err
		}
	}

	s.audit.LogAuth(ctx, acc.ID, domain.AuditActionDiscordLogin)
	return s.newSession(acc)
}

func (s *AuthService) createDiscordAccount(ctx context.Context, profile *DiscordProfile) (*domain.Account, error) {
	base := discordAccountName(profile)
	discordID := profile.ID
	candidates := []string{base, base + "_" + lastN(discordID, 4), base + "_" + lastN(discordID, 8)}

	for _, name := range candidates {
		acc := &domain.Account{Name: name, DiscordID: &discordID}
		err := s.accounts.CreateAccount(ctx, acc)
		if err == nil {
			logger.WithContext(ctx).Info("discord account created", "account_id", acc.ID)
			s.audit.LogAuth(ctx, acc.ID, domain.AuditActionRegister)
			return acc, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		// concurrent first sign-in with the same discord id
		if existing, getErr := s.accounts.GetAccountByDiscordID(ctx, discordID); getErr == nil {
			return existing, nil
		}
	}
	return nil, fmt.Errorf("%w: no free account name for discord user", domain.ErrConflict)
}

// Account returns the account behind a token.
func (s *AuthService) Account(ctx context.Context, accountID int64) (*domain.Account, error) {
	return s.accounts.GetAccountByID(ctx, accountID)
}

// Logout revokes the token behind claims.
func (s *AuthService) Logout(ctx context.Context, claims *Claims) error {
	if err := s.tokens.Revoke(ctx, claims); err != nil {
		return err
	}
	s.audit.LogAuth(ctx, claims.AccountID, domain.AuditActionLogout)
	return nil
}

func (s *AuthService) newSession(acc *domain.Account) (*Session, error) {
	token, claims, err := s.tokens.Issue(acc.ID, acc.Name)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, Claims: claims, Account: acc}, nil
}

func discordAccountName(profile *DiscordProfile) string {
	var b strings.Builder
	for _, r := range profile.Username {
		if r < 128 && accountNameRe.MatchString(string(r)) {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if len(name) > MaxAccountNameLen-9 {
		name = name[:MaxAccountNameLen-9]
	}
	if len(name) < MinAccountNameLen {
		name = "discord_" + lastN(profile.ID, 6)
	}
	return name
}

func lastN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
