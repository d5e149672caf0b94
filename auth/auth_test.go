package auth

import "testing"

func TestParseEmail(t *testing.T) {

	e, err := ParseEmail("alice@example.test")
	if err != nil {
		t.Fatalf("ParseEmail: %v", err)
	}
	if e.Local != "alice" || e.Domain != "example.test" {
		t.Errorf("got %+v", e)
	}
	if e.String() != "alice@example.test" {
		t.Errorf("String() = %q", e.String())
	}
}

func TestParseEmailRejectsMalformed(t *testing.T) {

	cases := []string{"", "noatsign", "@example.test", "alice@", "a@b@c"}
	for _, c := range cases {
		if _, err := ParseEmail(c); err == nil {
			t.Errorf("ParseEmail(%q) succeeded, want error", c)
		}
	}
}

func TestVerifyAuthDataRoundTrip(t *testing.T) {

	salt := []byte("fixedsaltvalue12")
	data := NewAuthData("correct horse", salt)

	if !VerifyAuthData(data, "correct horse") {
		t.Error("VerifyAuthData rejected the correct password")
	}
	if VerifyAuthData(data, "wrong password") {
		t.Error("VerifyAuthData accepted the wrong password")
	}
}

func TestBcryptHasher(t *testing.T) {

	var h BcryptHasher
	hash, err := h.Hash("hunter2")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !h.Check(hash, "hunter2") {
		t.Error("Check rejected the correct password")
	}
	if h.Check(hash, "hunter3") {
		t.Error("Check accepted the wrong password")
	}
}
