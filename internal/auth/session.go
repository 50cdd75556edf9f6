// Package auth persists the signed-in session. The token material lives in
// the system keyring when one is available; headless systems fall back to an
// encrypted file in the state directory.
package auth

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/zalando/go-keyring"

	"github.com/jjalhub/jjal-cli/internal/catalog"
	"github.com/jjalhub/jjal-cli/internal/models"
)

const (
	keyringService = "jjal-cli"
	keyringUser    = "session"
	fallbackFile   = ".session"
)

// Session is the locally cached identity of the signed-in user.
type Session struct {
	AccessToken string      `json:"access_token"`
	UserID      string      `json:"user_id"`
	Email       string      `json:"email"`
	Nickname    string      `json:"nickname,omitempty"`
	Role        models.Role `json:"role"`
}

// IsAdmin reports whether the session carries the admin role.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == models.RoleAdmin
}

// Identity converts the session into the identity shape the catalog's
// authorization checks consume. A nil session yields the anonymous identity.
func (s *Session) Identity() catalog.Identity {
	if s == nil {
		return catalog.Identity{}
	}
	return catalog.Identity{UserID: s.UserID, IsAdmin: s.IsAdmin()}
}

// Store saves and loads sessions for one state directory.
type Store struct {
	dir    string
	secret string // key material for the fallback file

	mu              sync.Mutex
	fallbackMode    bool
	fallbackChecked bool
}

// NewStore creates a session store. secret seasons the fallback-file key so a
// copied state directory alone does not yield a usable token.
func NewStore(dir, secret string) *Store {
	return &Store{dir: dir, secret: secret}
}

// keyringAvailable probes the system keyring once with a throwaway entry.
func (st *Store) keyringAvailable() bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.fallbackChecked {
		return !st.fallbackMode
	}
	st.fallbackChecked = true

	testKey := "jjal-keyring-test"
	if err := keyring.Set(keyringService, testKey, "test"); err != nil {
		st.fallbackMode = true
		return false
	}
	_ = keyring.Delete(keyringService, testKey)
	return true
}

// Save persists the session.
func (st *Store) Save(session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if st.keyringAvailable() {
		if err := keyring.Set(keyringService, keyringUser, string(data)); err != nil {
			return fmt.Errorf("failed to store session in keyring: %w", err)
		}
		return nil
	}
	return st.saveFallback(data)
}

// Load returns the persisted session, or nil when none exists.
func (st *Store) Load() (*Session, error) {
	var data []byte

	if st.keyringAvailable() {
		raw, err := keyring.Get(keyringService, keyringUser)
		if err == nil {
			data = []byte(raw)
		}
	}
	if data == nil {
		raw, err := st.loadFallback()
		if err != nil {
			return nil, nil
		}
		data = raw
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("stored session is corrupt: %w", err)
	}
	if session.AccessToken == "" {
		return nil, nil
	}
	if session.Role == "" {
		session.Role = models.RoleUser
	}
	return &session, nil
}

// Clear removes the persisted session from both locations.
func (st *Store) Clear() error {
	var keyringErr error
	if st.keyringAvailable() {
		keyringErr = keyring.Delete(keyringService, keyringUser)
	}
	fallbackErr := os.Remove(st.fallbackPath())
	if fallbackErr != nil && os.IsNotExist(fallbackErr) {
		fallbackErr = nil
	}
	if keyringErr != nil && fallbackErr != nil {
		return fmt.Errorf("failed to clear stored session")
	}
	return nil
}

func (st *Store) fallbackPath() string {
	return filepath.Join(st.dir, fallbackFile)
}

type fallbackEnvelope struct {
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	Ciphertext string `json:"ciphertext"`
}

func (st *Store) saveFallback(data []byte) error {
	salt, err := generateRandomBytes(saltLength)
	if err != nil {
		return err
	}
	key := deriveKey(st.secret, salt)
	ciphertext, nonce, err := encrypt(data, key)
	if err != nil {
		return err
	}

	envelope, err := json.Marshal(fallbackEnvelope{
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(st.dir, 0700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := os.WriteFile(st.fallbackPath(), envelope, 0600); err != nil {
		return fmt.Errorf("failed to write fallback session: %w", err)
	}
	return nil
}

func (st *Store) loadFallback() ([]byte, error) {
	raw, err := os.ReadFile(st.fallbackPath())
	if err != nil {
		return nil, err
	}

	var envelope fallbackEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("fallback session is corrupt: %w", err)
	}

	salt, err := base64.StdEncoding.DecodeString(envelope.Salt)
	if err != nil {
		return nil, fmt.Errorf("invalid salt: %w", err)
	}
	nonce, err := base64.StdEncoding.DecodeString(envelope.Nonce)
	if err != nil {
		return nil, fmt.Errorf("invalid nonce: %w", err)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(envelope.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("invalid ciphertext: %w", err)
	}

	key := deriveKey(st.secret, salt)
	return decrypt(ciphertext, nonce, key)
}
