package maildir

import (
	"os"
	"path/filepath"
	"testing"
)

func writeMessageFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestLoadMessageParsesFilenameAndFlags(t *testing.T) {

	dir := t.TempDir()
	path := writeMessageFile(t, dir, "42:2,FS", "Subject: hi\n\nbody\n")

	msg, err := LoadMessage(path)
	if err != nil {
		t.Fatalf("LoadMessage: %v", err)
	}

	if msg.UID != 42 {
		t.Errorf("UID = %d, want 42", msg.UID)
	}
	if !msg.Flags.Has(FlagFlagged) || !msg.Flags.Has(FlagSeen) {
		t.Errorf("Flags = %b, missing F or S", msg.Flags)
	}
	if msg.Headers["SUBJECT"] != "hi" {
		t.Errorf("Headers[SUBJECT] = %q, want %q", msg.Headers["SUBJECT"], "hi")
	}
}

func TestLoadMessageNoFlagSuffix(t *testing.T) {

	dir := t.TempDir()
	path := writeMessageFile(t, dir, "7", "Subject: none\n\nbody\n")

	msg, err := LoadMessage(path)
	if err != nil {
		t.Fatalf("LoadMessage: %v", err)
	}
	if msg.UID != 7 {
		t.Errorf("UID = %d, want 7", msg.UID)
	}
	if msg.Flags != 0 {
		t.Errorf("Flags = %b, want 0", msg.Flags)
	}
}

func TestUnfoldHeadersJoinsContinuations(t *testing.T) {

	headers := unfoldHeaders("Subject: long\n subject line\nFrom: a@b.test")

	if headers["SUBJECT"] != "long subject line" {
		t.Errorf("SUBJECT = %q, want %q", headers["SUBJECT"], "long subject line")
	}
	if headers["FROM"] != "a@b.test" {
		t.Errorf("FROM = %q, want %q", headers["FROM"], "a@b.test")
	}
}

func TestSplitMultipart(t *testing.T) {

	headers := map[string]string{"CONTENT-TYPE": `multipart/mixed; boundary="XYZ"`}
	body := "--XYZ--\npart one\n--XYZ--\npart two\n--XYZ--\n"

	parts := splitMultipart(body, headers)
	if len(parts) != 2 {
		t.Fatalf("len(parts) = %d, want 2", len(parts))
	}
	if parts[0].Raw != "part one\n" {
		t.Errorf("parts[0].Raw = %q", parts[0].Raw)
	}
	if parts[1].Raw != "part two\n" {
		t.Errorf("parts[1].Raw = %q", parts[1].Raw)
	}
}

func TestSplitMultipartNonMultipart(t *testing.T) {

	headers := map[string]string{"CONTENT-TYPE": "text/plain"}
	parts := splitMultipart("just text\n", headers)
	if parts != nil {
		t.Errorf("parts = %v, want nil", parts)
	}
}

func TestNewFilenameRoundTrip(t *testing.T) {

	flags := FlagSet(FlagSeen).With(FlagAnswered)
	name := NewFilename(99, flags)

	uid, gotFlags, err := parseFilename(name)
	if err != nil {
		t.Fatalf("parseFilename(%q): %v", name, err)
	}
	if uid != 99 {
		t.Errorf("uid = %d, want 99", uid)
	}
	if gotFlags != flags {
		t.Errorf("flags = %b, want %b", gotFlags, flags)
	}
}
