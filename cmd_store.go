package imapsrv

import (
	"fmt"
	"strings"

	"maildirsrv/maildir"
)

// store is a STORE command (§4.3's STORE operation).
type store struct {
	tag         string
	sequenceSet []sequenceRange
	op          maildir.StoreOp
	silent      bool
	flags       maildir.FlagSet
}

// createStore creates a STORE command.
//
//	store           = "STORE" SP sequence-set SP store-att-flags
//	store-att-flags = (["+" / "-"] "FLAGS" [".SILENT"]) SP
//	                  ("(" flag *(SP flag) ")" / flag)
func createStore(p *parser, tag string) command {
	p.lexer.skipSpace()
	seqSet := p.expectSequenceSet()

	p.lexer.skipSpace()
	name := strings.ToUpper(p.expectString(p.lexer.astring))

	op := maildir.StoreReplace
	switch {
	case strings.HasPrefix(name, "+"):
		op = maildir.StoreAdd
		name = name[1:]
	case strings.HasPrefix(name, "-"):
		op = maildir.StoreSub
		name = name[1:]
	}
	silent := strings.HasSuffix(name, ".SILENT")

	p.lexer.skipSpace()
	isMultiple := p.lexer.leftParen()
	flags := p.expectFlagList(isMultiple)

	return &store{tag: tag, sequenceSet: seqSet, op: op, silent: silent, flags: flags}
}

// execute a STORE command
func (c *store) execute(sess *session, out chan response) {
	defer close(out)

	if sess.st != selectedState {
		out <- bad(c.tag, "Invalid command")
		return
	}

	runStore(sess, out, c.tag, "STORE", c.sequenceSet, c.op, c.flags, c.silent, sequenceMode)
}

// runStore resolves the sequence-set in the given mode, applies the flag
// algebra via Folder.Store, and renders the per-message FETCH responses
// (unless silent) followed by the tagged completion line. Shared by
// STORE and UID STORE (cmd_uid.go).
func runStore(sess *session, out chan response, tag string, verb string, seqSet []sequenceRange, op maildir.StoreOp, flags maildir.FlagSet, silent bool, mode resolveMode) {
	n := len(sess.folder.Messages)
	ids := resolveSequenceSet(seqSet, n, mode)

	results := sess.folder.Store(ids, op, flags, silent, mode == uidMode)

	for _, r := range results {
		resp := partial()
		resp.putLine(renderStoreLine(r, mode == uidMode))
		out <- resp
	}

	out <- ok(tag, verb+" complete")
}

// renderStoreLine renders one STORE FETCH response line. §9's design
// notes call out that the original emits a trailing space before the
// closing paren ("FLAGS (...) )"); that quirk is preserved here rather
// than fixed.
func renderStoreLine(r maildir.StoreResult, includeUID bool) string {
	line := fmt.Sprintf("%d FETCH (FLAGS %s", r.Seqnum, renderFlagList(r.Flags))
	if includeUID {
		line += fmt.Sprintf(" UID %d", r.UID)
	}
	return line + " )"
}

func init() {
	registerCommand("store", createStore)
}
