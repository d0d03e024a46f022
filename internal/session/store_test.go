package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/barqchain/walletctl/internal/api"
	"github.com/barqchain/walletctl/internal/logging"
)

type fakeAuthGateway struct {
	loginErr    error
	registerErr error
	result      api.AuthResult
	loginCalls  int
}

func (f *fakeAuthGateway) Login(_ context.Context, email, _ string) (api.AuthResult, error) {
	f.loginCalls++
	if f.loginErr != nil {
		return api.AuthResult{}, f.loginErr
	}
	res := f.result
	res.User.Email = email
	return res, nil
}

func (f *fakeAuthGateway) Register(_ context.Context, req api.RegisterRequest) (api.AuthResult, error) {
	if f.registerErr != nil {
		return api.AuthResult{}, f.registerErr
	}
	res := f.result
	res.User.Email = req.Email
	res.User.FullName = req.FullName
	return res, nil
}

func newResult() api.AuthResult {
	return api.AuthResult{
		User: api.User{
			ID:        "u-1",
			WalletID:  "wallet-0001234567",
			PublicKey: "pk",
		},
		Token: "tok-abc",
	}
}

func openStore(t *testing.T, path string, gw AuthGateway) *Store {
	t.Helper()
	s, err := Open(path, gw, logging.Discard())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSignInInstallsSession(t *testing.T) {
	gw := &fakeAuthGateway{result: newResult()}
	s := openStore(t, filepath.Join(t.TempDir(), "session.db"), gw)

	sess, err := s.SignIn(context.Background(), "a@b.com", "pw")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if sess.WalletID != "wallet-0001234567" || sess.Token != "tok-abc" {
		t.Fatalf("unexpected session: %+v", sess)
	}

	got, ok := s.Current()
	if !ok || got.Email != "a@b.com" {
		t.Fatalf("current session missing: %+v ok=%v", got, ok)
	}
	if tok, ok := s.Token(); !ok || tok != "tok-abc" {
		t.Fatalf("token not exposed: %q ok=%v", tok, ok)
	}
}

func TestRehydrationAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")
	gw := &fakeAuthGateway{result: newResult()}

	s1 := openStore(t, path, gw)
	if _, err := s1.SignIn(context.Background(), "a@b.com", "pw"); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if err := s1.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s2 := openStore(t, path, gw)
	sess, ok := s2.Current()
	if !ok {
		t.Fatal("expected rehydrated session")
	}
	if sess.Token != "tok-abc" || sess.Email != "a@b.com" {
		t.Fatalf("unexpected rehydrated session: %+v", sess)
	}
	if gw.loginCalls != 1 {
		t.Fatalf("rehydration must not re-authenticate, login calls = %d", gw.loginCalls)
	}
}

func TestSignOutClearsMemoryAndDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")
	gw := &fakeAuthGateway{result: newResult()}

	s1 := openStore(t, path, gw)
	if _, err := s1.SignIn(context.Background(), "a@b.com", "pw"); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if err := s1.SignOut(); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if _, ok := s1.Current(); ok {
		t.Fatal("session should be cleared")
	}
	if _, ok := s1.Token(); ok {
		t.Fatal("token should be cleared")
	}
	if err := s1.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s2 := openStore(t, path, gw)
	if _, ok := s2.Current(); ok {
		t.Fatal("durable snapshot should be cleared")
	}
}

func TestFailedSignInSurfacesAuthError(t *testing.T) {
	rejection := &api.RemoteError{Status: 401, Message: "invalid credentials"}
	gw := &fakeAuthGateway{loginErr: rejection}
	s := openStore(t, filepath.Join(t.TempDir(), "session.db"), gw)

	_, err := s.SignIn(context.Background(), "a@b.com", "wrong")
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if !errors.Is(err, rejection) {
		t.Fatal("AuthError should wrap the remote rejection")
	}
	if _, ok := s.Current(); ok {
		t.Fatal("no session may be installed on failure")
	}
}

func TestFailedEnrollSurfacesAuthError(t *testing.T) {
	gw := &fakeAuthGateway{registerErr: &api.RemoteError{Status: 409, Message: "email already registered"}}
	s := openStore(t, filepath.Join(t.TempDir(), "session.db"), gw)

	_, err := s.Enroll(context.Background(), EnrollmentProfile{Email: "a@b.com"})
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
}
