// Package auth verifies IMAP/LMTP credentials and maps an authenticated
// address to its Maildir root. The core session never sees a raw
// password hash: it calls Store.Authenticate and gets back a *User or
// an error.
package auth

import (
	"errors"
	"fmt"
	"strings"
)

// Email is a parsed address, split into its local and domain parts so
// it can be used as a map key and compared field-by-field.
type Email struct {
	Local  string
	Domain string
}

// ParseEmail splits "local@domain" into an Email. It is permissive: it
// requires exactly one '@' with a non-empty local part and domain.
func ParseEmail(s string) (Email, error) {
	at := strings.IndexByte(s, '@')
	if at < 1 || at == len(s)-1 || strings.IndexByte(s[at+1:], '@') != -1 {
		return Email{}, fmt.Errorf("invalid email address: %q", s)
	}
	return Email{Local: s[:at], Domain: s[at+1:]}, nil
}

// String renders the address as "local@domain".
func (e Email) String() string {
	return e.Local + "@" + e.Domain
}

// AuthData is the opaque credential payload verified by VerifyAuthData.
// It deliberately does not say which KDF produced it; that's a property
// of the Store that loaded it.
type AuthData struct {
	Salt []byte
	Hash []byte
}

// User is one entry in the user map: an address, its credential, and
// the filesystem root of its Maildir.
type User struct {
	Email       Email
	AuthData    AuthData
	MaildirRoot string
}

// ErrNotFound is returned by a Store when an email has no matching user.
var ErrNotFound = errors.New("auth: user not found")

// ErrInvalidCredentials is returned by Authenticate on a wrong password.
var ErrInvalidCredentials = errors.New("auth: invalid username or password")

// Store looks users up by email and verifies passwords against their
// stored credentials. Concrete implementations back this with a JSON file
// (internal/userdb), BoltDB (auth/boltstore), or MySQL (auth/mysqlstore).
type Store interface {
	// Lookup returns the User for an email, or ErrNotFound.
	Lookup(email string) (*User, error)
	// Authenticate verifies a password for an email and returns the
	// User on success, or ErrNotFound / ErrInvalidCredentials.
	Authenticate(email, password string) (*User, error)
}
