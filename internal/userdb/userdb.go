// Package userdb loads the JSON user database described in SPEC_FULL.md
// §6 and exposes it as an auth.Store. Grounded on original_source's
// user/mod.rs load_users, including its write-back-a-2-user-example
// behavior when the configured path is missing.
package userdb

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"maildirsrv/auth"
)

type record struct {
	Email struct {
		LocalPart  string `json:"local_part"`
		DomainPart string `json:"domain_part"`
	} `json:"email"`
	AuthData struct {
		Salt []byte `json:"salt"`
		Out  []byte `json:"out"`
	} `json:"auth_data"`
	Maildir string `json:"maildir"`
}

// Store is a JSON-file-backed auth.Store, keyed in memory by email.
type Store struct {
	mu    sync.RWMutex
	path  string
	users map[string]*auth.User
}

// Load reads the user database at path. If the file is missing, it is
// replaced with a 2-user example and written back, matching §6's
// "A missing file is replaced with a 2-user example and written back."
// A present-but-unparseable file is a startup error (§7 ParseError).
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if werr := writeExample(path); werr != nil {
			return nil, fmt.Errorf("userdb: no database at %s and could not write example: %w", path, werr)
		}
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("userdb: reading %s: %w", path, err)
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("userdb: parsing %s: %w", path, err)
	}

	users := make(map[string]*auth.User, len(records))
	for _, r := range records {
		email := auth.Email{Local: r.Email.LocalPart, Domain: r.Email.DomainPart}
		users[email.String()] = &auth.User{
			Email:       email,
			AuthData:    auth.AuthData{Salt: r.AuthData.Salt, Hash: r.AuthData.Out},
			MaildirRoot: r.Maildir,
		}
	}

	return &Store{path: path, users: users}, nil
}

func writeExample(path string) error {
	salt1 := []byte("0123456789abcdef")
	salt2 := []byte("fedcba9876543210")
	example := []record{
		{Maildir: "./maildir/alice"},
		{Maildir: "./maildir/bob"},
	}
	example[0].Email.LocalPart, example[0].Email.DomainPart = "alice", "example.test"
	example[1].Email.LocalPart, example[1].Email.DomainPart = "bob", "example.test"
	a1 := auth.NewAuthData("changeme", salt1)
	a2 := auth.NewAuthData("changeme", salt2)
	example[0].AuthData.Salt, example[0].AuthData.Out = a1.Salt, a1.Hash
	example[1].AuthData.Salt, example[1].AuthData.Out = a2.Salt, a2.Hash

	data, err := json.MarshalIndent(example, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Lookup implements auth.Store.
func (s *Store) Lookup(email string) (*auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[email]
	if !ok {
		return nil, auth.ErrNotFound
	}
	return u, nil
}

// Authenticate implements auth.Store using the PBKDF2 AuthData verifier.
func (s *Store) Authenticate(email, password string) (*auth.User, error) {
	u, err := s.Lookup(email)
	if err != nil {
		return nil, err
	}
	if !auth.VerifyAuthData(u.AuthData, password) {
		return nil, auth.ErrInvalidCredentials
	}
	return u, nil
}
