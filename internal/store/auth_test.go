package store

import (
	"context"
	"testing"
	"time"
)

func TestAccountRoundTrip(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	created, err := st.CreateAccount(ctx, "123456", "", now)
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	if created.ID == "" || created.AccessCode != "123456" {
		t.Fatalf("unexpected account: %+v", created)
	}

	got, err := st.GetAccountByCode(ctx, "123456")
	if err != nil {
		t.Fatalf("get by code: %v", err)
	}
	if got == nil || got.ID != created.ID {
		t.Fatalf("lookup mismatch: %+v", got)
	}

	missing, err := st.GetAccountByCode(ctx, "999999")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown code, got %+v", missing)
	}
}

func TestCreateAccountRejectsDuplicateCode(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if _, err := st.CreateAccount(ctx, "123456", "", now); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := st.CreateAccount(ctx, "123456", "", now); err == nil {
		t.Fatal("expected unique constraint error")
	}
}

func TestSessionLifecycle(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	account, err := st.CreateAccount(ctx, "123456", "", now)
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	tokenHash := "deadbeefdeadbeef"
	if err := st.CreateSession(ctx, account.ID, tokenHash, now.Add(time.Hour), now); err != nil {
		t.Fatalf("create session: %v", err)
	}

	got, err := st.GetAccountBySessionTokenHash(ctx, tokenHash, now)
	if err != nil {
		t.Fatalf("resolve session: %v", err)
	}
	if got == nil || got.ID != account.ID {
		t.Fatalf("session did not resolve: %+v", got)
	}

	// Expired session resolves to nothing.
	got, err = st.GetAccountBySessionTokenHash(ctx, tokenHash, now.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("resolve expired: %v", err)
	}
	if got != nil {
		t.Fatal("expired session still resolves")
	}

	if err := st.RevokeSessionByTokenHash(ctx, tokenHash, now); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	got, err = st.GetAccountBySessionTokenHash(ctx, tokenHash, now)
	if err != nil {
		t.Fatalf("resolve revoked: %v", err)
	}
	if got != nil {
		t.Fatal("revoked session still resolves")
	}
}

func TestPurgeExpiredSessions(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	account, err := st.CreateAccount(ctx, "123456", "", now)
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	if err := st.CreateSession(ctx, account.ID, "hash-old", now.Add(-time.Hour), now.Add(-2*time.Hour)); err != nil {
		t.Fatalf("create old session: %v", err)
	}
	if err := st.CreateSession(ctx, account.ID, "hash-live", now.Add(time.Hour), now); err != nil {
		t.Fatalf("create live session: %v", err)
	}

	purged, err := st.PurgeExpiredSessions(ctx, now)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if purged != 1 {
		t.Fatalf("expected 1 purged, got %d", purged)
	}

	got, err := st.GetAccountBySessionTokenHash(ctx, "hash-live", now)
	if err != nil || got == nil {
		t.Fatalf("live session lost: %v (%v)", got, err)
	}
}
