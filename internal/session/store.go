package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/barqchain/walletctl/internal/api"
)

var (
	bucketSession = []byte("session")
	keyCurrent    = []byte("current")
)

// Session is the authenticated identity and its bearer credential. The
// in-memory copy held by Store is the single source of truth; the durable
// snapshot only seeds rehydration on the next start.
type Session struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	WalletID  string `json:"wallet_id"`
	PublicKey string `json:"public_key"`
	Token     string `json:"token"`
}

// EnrollmentProfile carries the registration fields collected by the
// enrollment flow.
type EnrollmentProfile struct {
	Email      string
	FullName   string
	NationalID string
	Password   string
}

// AuthGateway is the slice of the remote gateway the store needs.
type AuthGateway interface {
	Login(ctx context.Context, email, password string) (api.AuthResult, error)
	Register(ctx context.Context, req api.RegisterRequest) (api.AuthResult, error)
}

// AuthError reports a sign-in or enrollment rejection. A credential the
// service rejects surfaces through this type; the caller is expected to
// force re-authentication rather than retry.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Store owns the session lifecycle. Only SignIn, Enroll and SignOut mutate
// session state; everything else reads through Current and Token.
type Store struct {
	mu      sync.RWMutex
	db      *bolt.DB
	gateway AuthGateway
	logger  *slog.Logger
	current *Session
}

// Open opens (creating if needed) the durable session file at path and
// rehydrates any stored session into memory.
func Open(path string, gateway AuthGateway, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	s := &Store{db: db, gateway: gateway, logger: logger}

	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketSession)
		if err != nil {
			return err
		}
		raw := b.Get(keyCurrent)
		if len(raw) == 0 {
			return nil
		}
		var sess Session
		if err := json.Unmarshal(raw, &sess); err != nil {
			// A corrupt snapshot is discarded, not fatal; the user
			// re-authenticates.
			logger.Warn("discarding unreadable session snapshot", "error", err)
			return b.Delete(keyCurrent)
		}
		s.current = &sess
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("rehydrate session: %w", err)
	}

	return s, nil
}

// Close releases the durable store.
func (s *Store) Close() error {
	return s.db.Close()
}

// SignIn authenticates and installs the resulting session.
func (s *Store) SignIn(ctx context.Context, email, password string) (Session, error) {
	res, err := s.gateway.Login(ctx, email, password)
	if err != nil {
		return Session{}, &AuthError{Err: err}
	}
	return s.install(res)
}

// Enroll registers a new identity and installs the resulting session.
func (s *Store) Enroll(ctx context.Context, profile EnrollmentProfile) (Session, error) {
	res, err := s.gateway.Register(ctx, api.RegisterRequest{
		Email:      profile.Email,
		FullName:   profile.FullName,
		NationalID: profile.NationalID,
		Password:   profile.Password,
	})
	if err != nil {
		return Session{}, &AuthError{Err: err}
	}
	return s.install(res)
}

// SignOut clears the in-memory session and its durable snapshot.
func (s *Store) SignOut() error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSession)
		if b == nil {
			return nil
		}
		return b.Delete(keyCurrent)
	})
}

// Current returns the active session, if any.
func (s *Store) Current() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

// Token implements api.TokenSource.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return "", false
	}
	return s.current.Token, true
}

func (s *Store) install(res api.AuthResult) (Session, error) {
	sess := Session{
		UserID:    res.User.ID,
		Email:     res.User.Email,
		FullName:  res.User.FullName,
		WalletID:  res.User.WalletID,
		PublicKey: res.User.PublicKey,
		Token:     res.Token,
	}

	s.mu.Lock()
	s.current = &sess
	s.mu.Unlock()

	raw, err := json.Marshal(sess)
	if err != nil {
		return Session{}, fmt.Errorf("encode session: %w", err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSession).Put(keyCurrent, raw)
	})
	if err != nil {
		// The in-memory session stays valid; only reload survival is lost.
		s.logger.Warn("persist session snapshot", "error", err)
	}

	return sess, nil
}
