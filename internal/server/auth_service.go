package server

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	internalauth "filedrop/internal/auth"
	"filedrop/internal/store"
)

const sessionCookieName = "filedrop_session"

// AuthService encapsulates access-code login backed by the store.
// An unknown code registers a fresh account on first login; once a
// passphrase is set it is required on every later login.
type AuthService struct {
	store      store.AuthStore
	sessionTTL time.Duration
}

type loginResult struct {
	OwnerID   string
	Token     string
	ExpiresAt time.Time
	Created   bool
}

func NewAuthService(authStore store.AuthStore, sessionTTL time.Duration) *AuthService {
	if authStore == nil {
		return nil
	}
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthService{store: authStore, sessionTTL: sessionTTL}
}

// Login authenticates or registers the access code and opens a session.
func (a *AuthService) Login(ctx context.Context, accessCode, passphrase string, now time.Time) (*loginResult, error) {
	if a == nil || a.store == nil {
		return nil, internalError(fmt.Errorf("auth service is not configured"))
	}

	code, err := internalauth.NormalizeAccessCode(accessCode)
	if err != nil {
		return nil, badRequestCode(err, ErrCodeInvalidCode)
	}

	account, err := a.store.GetAccountByCode(ctx, code)
	if err != nil {
		return nil, storeFailure(err)
	}

	created := false
	if account == nil {
		passphraseHash := ""
		if strings.TrimSpace(passphrase) != "" {
			passphraseHash, err = internalauth.HashPassphrase(passphrase)
			if err != nil {
				return nil, badRequest(err)
			}
		}
		account, err = a.store.CreateAccount(ctx, code, passphraseHash, now)
		if err != nil {
			if isUniqueConstraint(err) {
				// Lost a registration race; the other request won.
				account, err = a.store.GetAccountByCode(ctx, code)
				if err != nil || account == nil {
					return nil, storeFailure(fmt.Errorf("resolve account after race: %w", err))
				}
			} else {
				return nil, storeFailure(err)
			}
		} else {
			created = true
		}
	}

	if !created && account.PassphraseHash != "" {
		if !internalauth.VerifyPassphrase(account.PassphraseHash, passphrase) {
			return nil, unauthorized(fmt.Errorf("invalid credentials"))
		}
	}

	token, err := generateSessionToken()
	if err != nil {
		return nil, internalError(err)
	}
	expiresAt := now.Add(a.sessionTTL)
	if err := a.store.CreateSession(ctx, account.ID, hashSessionToken(token), expiresAt, now); err != nil {
		return nil, storeFailure(err)
	}

	return &loginResult{
		OwnerID:   account.AccessCode,
		Token:     token,
		ExpiresAt: expiresAt,
		Created:   created,
	}, nil
}

// Authenticate resolves a session token to its owner id. An unknown,
// expired, or revoked token yields empty without error.
func (a *AuthService) Authenticate(ctx context.Context, token string, now time.Time) (string, error) {
	if a == nil || a.store == nil {
		return "", nil
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", nil
	}
	account, err := a.store.GetAccountBySessionTokenHash(ctx, hashSessionToken(token), now)
	if err != nil {
		return "", err
	}
	if account == nil {
		return "", nil
	}
	return account.AccessCode, nil
}

// PurgeExpired removes sessions past their expiry.
func (a *AuthService) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	if a == nil || a.store == nil {
		return 0, nil
	}
	return a.store.PurgeExpiredSessions(ctx, now)
}

// Logout revokes a session token.
func (a *AuthService) Logout(ctx context.Context, token string, now time.Time) error {
	if a == nil || a.store == nil {
		return nil
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return a.store.RevokeSessionByTokenHash(ctx, hashSessionToken(token), now)
}

func hashSessionToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func generateSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
