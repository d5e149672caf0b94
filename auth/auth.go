package auth

import (
	"crypto/sha256"
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

// pbkdf2Rounds mirrors the round count the original implementation used
// for its bcrypt_pbkdf-style verifier (see DESIGN.md, "Auth / User Map").
const pbkdf2Rounds = 10

// VerifyAuthData checks a plaintext password against the externally
// supplied (salt, hash) pair described in §3's AuthData. This is the
// verifier LOGIN uses: it is independent of bcrypt because AuthData
// carries its own salt rather than one embedded bcrypt-style in the hash.
func VerifyAuthData(data AuthData, password string) bool {
	derived := pbkdf2.Key([]byte(password), data.Salt, pbkdf2Rounds, len(data.Hash), sha256.New)
	return subtle.ConstantTimeCompare(derived, data.Hash) == 1
}

// NewAuthData derives an AuthData pair for a freshly chosen password and
// salt, for use by tooling that provisions new users.
func NewAuthData(password string, salt []byte) AuthData {
	hash := pbkdf2.Key([]byte(password), salt, pbkdf2Rounds, sha256.Size, sha256.New)
	return AuthData{Salt: salt, Hash: hash}
}

// PasswordHasher is the bcrypt-backed verifier used by the BoltDB and
// MySQL stores, which keep a single salted hash column rather than
// AuthData's split salt/hash pair.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Check(hash, password string) bool
}

// BcryptHasher is the default PasswordHasher, grounded on the teacher's
// bcrypt-based CheckPassword/HashPassword pair.
type BcryptHasher struct{}

func (BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (BcryptHasher) Check(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
