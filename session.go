package imapsrv

import (
	"net"
	"os"
	"path/filepath"
	"strings"

	"maildirsrv/auth"
	"maildirsrv/internal/imaperrors"
	"maildirsrv/internal/logging"
	"maildirsrv/maildir"
)

// state is the session's position in §4.4's state machine.
type state int

const (
	notAuthenticated state = iota
	authenticatedState
	selectedState
)

// encryptionLevel records whether a session's transport is plaintext or
// TLS (implicit, via an *S listener, or negotiated via STARTTLS).
type encryptionLevel int

const (
	unencryptedLevel encryptionLevel = iota
	tlsLevel
)

// session is one IMAP connection's state (§3/§4.4): the connection
// itself, which user (if any) has authenticated, and which folder (if
// any) is currently SELECTed or EXAMINEd.
type session struct {
	id     int
	server *Server
	conn   net.Conn
	log    *logging.Logger

	st         state
	encryption encryptionLevel

	user   *auth.User
	folder *maildir.Folder
}

func createSession(id int, server *Server, conn net.Conn, level encryptionLevel) *session {
	return &session{
		id:         id,
		server:     server,
		conn:       conn,
		log:        logging.New("IMAP", id),
		st:         notAuthenticated,
		encryption: level,
	}
}

// selectFolder opens the named mailbox under the authenticated user's
// Maildir root. mailbox is the raw SELECT/EXAMINE argument; "INBOX" (any
// case) maps to "." per §6.
func (s *session) selectFolder(mailbox string, examine bool) (*maildir.Folder, error) {
	path := mailboxPath(s.user.MaildirRoot, mailbox)
	if !isDir(path) {
		return nil, imaperrors.Mailboxf("no such mailbox", nil)
	}
	folder, err := maildir.Open(path, examine)
	if err != nil {
		return nil, imaperrors.Mailboxf("could not open mailbox", err)
	}
	return folder, nil
}

// mailboxPath joins a Maildir root with a mailbox name, replacing any
// "INBOX" substring (case-insensitively) with "." per §6. The original
// (src/session.rs) replaces the substring wherever it occurs, not just
// when it is the whole name, so a Maildir++-style "INBOX.Sent" maps to
// "..Sent" the same way it would there.
func mailboxPath(root string, mailbox string) string {
	return filepath.Join(root, replaceFold(mailbox, "INBOX", "."))
}

// replaceFold replaces every case-insensitive occurrence of old in s
// with new.
func replaceFold(s, old, new string) string {
	var b strings.Builder
	lower := strings.ToLower(s)
	oldLower := strings.ToLower(old)
	for {
		idx := strings.Index(lower, oldLower)
		if idx == -1 {
			b.WriteString(s)
			break
		}
		b.WriteString(s[:idx])
		b.WriteString(new)
		s = s[idx+len(old):]
		lower = lower[idx+len(old):]
	}
	return b.String()
}

// closeFolder runs the CLOSE command's effect (§4.4): expunge, check,
// then drop the current folder and fall back to Authenticated.
func (s *session) closeFolder() {
	if s.folder == nil {
		return
	}
	s.folder.Expunge()
	s.folder.Check()
	s.folder = nil
	s.st = authenticatedState
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
