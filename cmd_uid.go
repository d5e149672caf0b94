package imapsrv

import "strings"

// uid wraps a FETCH or STORE command to run in UID mode (§4.4): sequence
// items are UIDs rather than sequence numbers, and every rendered FETCH
// line carries a UID attribute.
type uid struct {
	tag        string
	subcommand string
	inner      command
}

// createUid creates a UID command. Only FETCH and STORE are in scope
// (§1's Non-goals exclude SEARCH/COPY); the wrapped command's own
// creator parses everything after the subcommand word, since "UID FETCH
// ..."/"UID STORE ..." share their remaining grammar with plain FETCH/
// STORE.
func createUid(p *parser, tag string) command {
	sub := strings.ToLower(p.expectString(p.lexer.astring))

	switch sub {
	case "fetch":
		return &uid{tag: tag, subcommand: sub, inner: createFetch(p, tag)}
	case "store":
		return &uid{tag: tag, subcommand: sub, inner: createStore(p, tag)}
	default:
		// COPY/SEARCH and anything else are out of scope.
		p.lexer.rawLine()
		return &unknown{tag: tag, cmd: "Invalid command"}
	}
}

// execute a UID command
func (c *uid) execute(sess *session, out chan response) {
	defer close(out)

	if sess.st != selectedState {
		out <- bad(c.tag, "Invalid command")
		return
	}

	switch inner := c.inner.(type) {
	case *fetch:
		inner.expandMacro()
		if len(sess.folder.Messages) == 0 {
			out <- bad(c.tag, "Invalid command")
			return
		}
		if begin, special, ok := uidFetchWildcardStart(sess, inner.sequenceSet); special {
			if !ok {
				out <- bad(c.tag, "Invalid UID FETCH range")
				return
			}
			n := int32(len(sess.folder.Messages))
			seqSet := []sequenceRange{{start: int32(begin), end: &n}}
			runFetch(sess, out, c.tag, "UID FETCH", seqSet, inner.attachments, sequenceMode, true)
			return
		}
		runFetch(sess, out, c.tag, "UID FETCH", inner.sequenceSet, inner.attachments, uidMode, true)
	case *store:
		runStore(sess, out, c.tag, "STORE", inner.sequenceSet, inner.op, inner.flags, inner.silent, uidMode)
	case *unknown:
		out <- bad(c.tag, "Invalid command")
	}
}

// uidFetchWildcardStart implements §4.4's "UID FETCH n:*" special case:
// when the sequence-set's sole item is the range Number(n):Wildcard,
// resolve the 1-based sequence number at which the emitted FETCH range
// should begin (inclusive of n's own message) and report that the
// special case applies. special is false for any other shape of
// sequence-set, in which case the ordinary UID-mode resolver applies
// instead.
//
// The original's uid_to_seqnum maps a UID to its 0-based array index i,
// and then walks range(i, count) reporting seqnum index+1 — so the
// emitted range starts at seqnum i+1, which is exactly n's own 1-based
// sequence number. Folder.UIDToSeqnum here is already 1-based, so a
// found UID's looked-up seqnum is returned unchanged (no extra +1).
// When n==1 is not found, the original defaults its 0-based start to 0,
// which is range(0, count) — i.e. a 1-based begin of 1 (every message).
func uidFetchWildcardStart(sess *session, seqSet []sequenceRange) (begin int, special bool, ok bool) {
	if len(seqSet) != 1 {
		return 0, false, false
	}
	item := seqSet[0]
	if item.end == nil || *item.end != largestSequenceNumber || item.start == largestSequenceNumber {
		return 0, false, false
	}

	n := uint64(item.start)
	seq, found := sess.folder.UIDToSeqnum[n]
	if found {
		return seq, true, true
	}
	if n == 1 {
		return 1, true, true
	}
	return 0, true, false
}

func init() {
	registerCommand("uid", createUid)
}
