package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Account is one access-code account.
type Account struct {
	ID             string
	AccessCode     string
	PassphraseHash string
	CreatedAt      time.Time
}

// GetAccountByCode returns an account by access code, or nil.
func (s *Store) GetAccountByCode(ctx context.Context, code string) (*Account, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}
	row := s.db.QueryRowContext(ctx, `
		SELECT id, access_code, passphrase_hash, created_at
		FROM accounts
		WHERE access_code = ?
		LIMIT 1
	`, code)
	return scanAccount(row)
}

// CreateAccount creates one account for an access code. The
// passphrase hash may be empty.
func (s *Store) CreateAccount(ctx context.Context, code, passphraseHash string, now time.Time) (*Account, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("access code is required")
	}

	id, err := GenerateID("ac", func(candidate string) (bool, error) {
		var exists int
		err := s.db.QueryRowContext(ctx, "SELECT 1 FROM accounts WHERE id = ? LIMIT 1", candidate).Scan(&exists)
		if err == sql.ErrNoRows {
			return false, nil
		}
		return err == nil, err
	})
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, access_code, passphrase_hash, created_at)
		VALUES (?, ?, ?, ?)
	`, id, code, nullableString(passphraseHash), formatTime(now))
	if err != nil {
		return nil, err
	}

	return &Account{
		ID:             id,
		AccessCode:     code,
		PassphraseHash: passphraseHash,
		CreatedAt:      now.UTC(),
	}, nil
}

// CreateSession records a new session token hash.
func (s *Store) CreateSession(ctx context.Context, accountID, tokenHash string, expiresAt, now time.Time) error {
	if strings.TrimSpace(accountID) == "" || strings.TrimSpace(tokenHash) == "" {
		return fmt.Errorf("account id and token hash are required")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (token_hash, account_id, created_at, expires_at)
		VALUES (?, ?, ?, ?)
	`, tokenHash, accountID, formatTime(now), formatTime(expiresAt))
	return err
}

// GetAccountBySessionTokenHash resolves a live session to its account.
// Expired or revoked sessions yield nil.
func (s *Store) GetAccountBySessionTokenHash(ctx context.Context, tokenHash string, now time.Time) (*Account, error) {
	if strings.TrimSpace(tokenHash) == "" {
		return nil, nil
	}
	row := s.db.QueryRowContext(ctx, `
		SELECT a.id, a.access_code, a.passphrase_hash, a.created_at
		FROM sessions s
		JOIN accounts a ON a.id = s.account_id
		WHERE s.token_hash = ?
		  AND s.revoked_at IS NULL
		  AND s.expires_at > ?
		LIMIT 1
	`, tokenHash, formatTime(now))
	return scanAccount(row)
}

// RevokeSessionByTokenHash marks a session revoked. Unknown tokens are
// a no-op.
func (s *Store) RevokeSessionByTokenHash(ctx context.Context, tokenHash string, now time.Time) error {
	if strings.TrimSpace(tokenHash) == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET revoked_at = ?
		WHERE token_hash = ? AND revoked_at IS NULL
	`, formatTime(now), tokenHash)
	return err
}

// PurgeExpiredSessions removes sessions past their expiry.
func (s *Store) PurgeExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at <= ?", formatTime(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanAccount(scanner rowScanner) (*Account, error) {
	var (
		account        Account
		passphraseHash sql.NullString
		createdAt      string
	)
	err := scanner.Scan(&account.ID, &account.AccessCode, &passphraseHash, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	account.PassphraseHash = passphraseHash.String
	if account.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &account, nil
}
