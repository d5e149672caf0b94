package imapsrv

import (
	"os"
	"path/filepath"
)

// delete is a DELETE command
type delete struct {
	tag     string
	mailbox string
}

// createDelete creates a DELETE command
func createDelete(p *parser, tag string) command {
	mailbox := p.expectString(p.lexer.astring)

	return &delete{tag: tag, mailbox: mailbox}
}

// execute handles the DELETE command (§4.4): unlink every file under
// cur/ and new/, then rmdir both.
func (c *delete) execute(sess *session, out chan response) {
	defer close(out)

	if sess.st == notAuthenticated {
		out <- bad(c.tag, "Invalid command")
		return
	}

	path := mailboxPath(sess.user.MaildirRoot, c.mailbox)
	if !isDir(path) {
		out <- no(c.tag, "delete failure: can't delete mailbox with that name")
		return
	}

	for _, sub := range []string{"cur", "new"} {
		dir := filepath.Join(path, sub)
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			os.Remove(filepath.Join(dir, e.Name()))
		}
		os.Remove(dir)
	}

	out <- ok(c.tag, "DELETE successful.")
}

func init() {
	registerCommand("delete", createDelete)
}
