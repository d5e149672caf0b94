// Package boltstore is an auth.Store backed by a BoltDB file, kept as an
// alternative to the JSON user database for deployments that want a
// single embedded-database file instead of internal/userdb's JSON file.
package boltstore

import (
	"encoding/json"
	"os"

	"maildirsrv/auth"

	"github.com/boltdb/bolt"
)

var usersBucket = []byte("users")

// Store is an auth.Store backed by BoltDB.
type Store struct {
	db     *bolt.DB
	hasher auth.PasswordHasher
}

type record struct {
	Hash    string `json:"hash"`
	Maildir string `json:"maildir"`
}

// Open opens (creating if necessary) a BoltDB file at filename and
// ensures the users bucket exists.
func Open(filename string) (*Store, error) {
	db, err := bolt.Open(filename, os.FileMode(0600), nil)
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(usersBucket)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &Store{db: db, hasher: auth.BcryptHasher{}}, nil
}

// Lookup implements auth.Store.
func (s *Store) Lookup(email string) (*auth.User, error) {
	e, err := auth.ParseEmail(email)
	if err != nil {
		return nil, err
	}

	var raw []byte
	err = s.db.View(func(tx *bolt.Tx) error {
		raw = tx.Bucket(usersBucket).Get([]byte(email))
		return nil
	})
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, auth.ErrNotFound
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}

	return &auth.User{Email: e, MaildirRoot: rec.Maildir}, nil
}

// Authenticate implements auth.Store, verifying via bcrypt since this
// store keeps a single salted hash column rather than split AuthData.
func (s *Store) Authenticate(email, password string) (*auth.User, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		raw = tx.Bucket(usersBucket).Get([]byte(email))
		return nil
	})
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, auth.ErrNotFound
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	if !s.hasher.Check(rec.Hash, password) {
		return nil, auth.ErrInvalidCredentials
	}

	e, err := auth.ParseEmail(email)
	if err != nil {
		return nil, err
	}
	return &auth.User{Email: e, MaildirRoot: rec.Maildir}, nil
}

// CreateUser adds or replaces a user record.
func (s *Store) CreateUser(email, password, maildir string) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(record{Hash: hash, Maildir: maildir})
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(usersBucket).Put([]byte(email), raw)
	})
}

// DeleteUser removes a user record entirely.
func (s *Store) DeleteUser(email string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(usersBucket).Delete([]byte(email))
	})
}

// Close releases the underlying BoltDB file handle.
func (s *Store) Close() error {
	return s.db.Close()
}
