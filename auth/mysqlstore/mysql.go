// Package mysqlstore is an auth.Store backed by MySQL, implemented
// for real against the driver the teacher's auth/mysql.go only stubbed
// intentions for: github.com/go-sql-driver/mysql.
package mysqlstore

import (
	"database/sql"
	"errors"

	"maildirsrv/auth"

	_ "github.com/go-sql-driver/mysql"
)

// Store is an auth.Store backed by a MySQL "users" table:
//
//	CREATE TABLE users (
//	  email    VARCHAR(320) PRIMARY KEY,
//	  hash     VARCHAR(255) NOT NULL,
//	  maildir  VARCHAR(1024) NOT NULL
//	);
type Store struct {
	db     *sql.DB
	hasher auth.PasswordHasher
}

// Open connects to MySQL using a standard go-sql-driver DSN
// ("user:pass@tcp(host:port)/dbname").
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
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

	var maildir string
	err = s.db.QueryRow("SELECT maildir FROM users WHERE email = ?", email).Scan(&maildir)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &auth.User{Email: e, MaildirRoot: maildir}, nil
}

// Authenticate implements auth.Store.
func (s *Store) Authenticate(email, password string) (*auth.User, error) {
	e, err := auth.ParseEmail(email)
	if err != nil {
		return nil, err
	}

	var hash, maildir string
	err = s.db.QueryRow("SELECT hash, maildir FROM users WHERE email = ?", email).Scan(&hash, &maildir)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if !s.hasher.Check(hash, password) {
		return nil, auth.ErrInvalidCredentials
	}

	return &auth.User{Email: e, MaildirRoot: maildir}, nil
}

// CreateUser inserts or replaces a user row.
func (s *Store) CreateUser(email, password, maildir string) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		"INSERT INTO users (email, hash, maildir) VALUES (?, ?, ?) "+
			"ON DUPLICATE KEY UPDATE hash = VALUES(hash), maildir = VALUES(maildir)",
		email, hash, maildir)
	return err
}

// DeleteUser removes a user row entirely.
func (s *Store) DeleteUser(email string) error {
	_, err := s.db.Exec("DELETE FROM users WHERE email = ?", email)
	return err
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
