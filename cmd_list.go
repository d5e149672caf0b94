package imapsrv

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const pathDelimiter = '/'

// list is a LIST command
type list struct {
	tag         string
	reference   string // Context of mailbox name
	mboxPattern string // The mailbox name pattern
}

// createList creates a LIST command
//
//	list            = "LIST" SP mailbox SP list-mailbox
func createList(p *parser, tag string) command {
	reference := p.expectString(p.lexer.astring)

	if strings.EqualFold(reference, "inbox") {
		reference = "INBOX"
	}
	mailbox := p.expectString(p.lexer.listMailbox)

	return &list{tag: tag, reference: reference, mboxPattern: mailbox}
}

// execute a LIST command
func (c *list) execute(sess *session, out chan response) {
	defer close(out)

	if sess.st == notAuthenticated {
		out <- bad(c.tag, "Invalid command")
		return
	}

	// An empty mailbox pattern asks only for the hierarchy delimiter and
	// the root name of the reference.
	if c.mboxPattern == "" {
		ref := c.reference
		if ref == "" {
			ref = `""`
		}
		res := ok(c.tag, "LIST completed")
		res.putLine(fmt.Sprintf(`LIST () "%c" %s`, pathDelimiter, ref))
		out <- res
		return
	}

	mailboxes, err := sess.listMailboxes(c.reference, c.mboxPattern)
	if err != nil {
		out <- no(c.tag, "LIST failed")
		return
	}

	res := ok(c.tag, "LIST completed")
	for _, m := range mailboxes {
		res.putLine(fmt.Sprintf(`LIST (%s) "%c" "%s"`, m.flags, pathDelimiter, m.name))
	}
	out <- res
}

// listedMailbox is one LIST result line's worth of data.
type listedMailbox struct {
	name  string // IMAP-visible name ("INBOX" for the root, else a relative path)
	flags string // e.g. \Noselect, currently always empty
}

// listMailboxes walks the user's Maildir root looking for directories
// that look like mailboxes (a sibling cur/ and new/), matching each
// candidate's name against the reference+pattern wildcard expression
// (§4.4: "walk maildir, match regex").
func (s *session) listMailboxes(reference, pattern string) ([]listedMailbox, error) {
	re, err := wildcardToRegexp(reference + pattern)
	if err != nil {
		return nil, err
	}

	var out []listedMailbox
	root := s.user.MaildirRoot

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries rather than aborting the walk
		}
		if !d.IsDir() {
			return nil
		}
		if !isMaildir(path) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		name := "INBOX"
		if rel != "." {
			name = filepath.ToSlash(rel)
		}

		if re.MatchString(name) {
			out = append(out, listedMailbox{name: name})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// isMaildir reports whether path looks like a Maildir directory: it has
// both a cur/ and a new/ subdirectory.
func isMaildir(path string) bool {
	cur, err := fileIsDir(filepath.Join(path, "cur"))
	if err != nil || !cur {
		return false
	}
	newd, err := fileIsDir(filepath.Join(path, "new"))
	return err == nil && newd
}

func fileIsDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

// wildcardToRegexp translates an IMAP list-mailbox pattern ('%' matches
// any run of characters except the hierarchy delimiter, '*' matches any
// run including the delimiter) into an anchored regular expression.
func wildcardToRegexp(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("^")
	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteString("[^" + regexp.QuoteMeta(string(pathDelimiter)) + "]*")
		case '*':
			b.WriteString(".*")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}

func init() {
	registerCommand("list", createList)
}
