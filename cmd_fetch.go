package imapsrv

// A FETCH command
type fetch struct {
	tag         string
	macro       fetchCommandMacro
	sequenceSet []sequenceRange
	attachments []fetchAttachment
}

// Fetch macros
type fetchCommandMacro int

const (
	noFetchMacro fetchCommandMacro = iota
	allFetchMacro
	fullFetchMacro
	fastFetchMacro
)

// createFetch creates a FETCH command
//
//	fetch           = "FETCH" SP sequence-set SP ("ALL" / "FULL" / "FAST" /
//	                  fetch-att / "(" fetch-att *(SP fetch-att) ")")
func createFetch(p *parser, tag string) command {
	ret := &fetch{
		tag:         tag,
		macro:       noFetchMacro,
		sequenceSet: make([]sequenceRange, 0, 4),
		attachments: make([]fetchAttachment, 0, 4),
	}

	// The first argument is always a sequence set
	p.lexer.skipSpace()
	ret.sequenceSet = p.expectSequenceSet()

	// The next token can be a fetch macro, a fetch attachment or an open bracket
	ok, macro := p.lexer.fetchMacro()
	if ok {
		ret.macro = macro
		return ret
	}

	// A word that fetchMacro peeked but did not take is still pending and
	// is a single fetch-att; otherwise a list opens with '('.
	isMultiple := !p.lexer.havePending && p.lexer.leftParen()
	ret.attachments = p.expectFetchAttachments(isMultiple)

	return ret
}

// expandMacro converts ALL/FULL/FAST into their constituent fetch
// attributes (§4.1).
func (c *fetch) expandMacro() {
	switch c.macro {
	case allFetchMacro:
		c.attachments = []fetchAttachment{flagsFetchAtt{}, internalDateFetchAtt{}, rfc822SizeFetchAtt{}, envelopeFetchAtt{}}
	case fastFetchMacro:
		c.attachments = []fetchAttachment{flagsFetchAtt{}, internalDateFetchAtt{}, rfc822SizeFetchAtt{}}
	case fullFetchMacro:
		c.attachments = []fetchAttachment{flagsFetchAtt{}, internalDateFetchAtt{}, rfc822SizeFetchAtt{}, envelopeFetchAtt{}, bodyFetchAtt{}}
	}
}

// Fetch command
func (c *fetch) execute(sess *session, out chan response) {
	defer close(out)

	if sess.st == notAuthenticated {
		out <- bad(c.tag, "Invalid command")
		return
	}
	if sess.st != selectedState {
		out <- bad(c.tag, "Invalid command")
		return
	}

	c.expandMacro()
	runFetch(sess, out, c.tag, "FETCH", c.sequenceSet, c.attachments, sequenceMode, false)
}

// runFetch resolves a sequence-set (in the given mode), renders a FETCH
// line per identified message and emits the tagged completion. Shared by
// FETCH and UID FETCH (cmd_uid.go); includeUID forces a UID attribute
// into every line even when the client did not ask for one, matching
// UID FETCH's contract.
func runFetch(sess *session, out chan response, tag string, verb string, seqSet []sequenceRange, attachments []fetchAttachment, mode resolveMode, includeUID bool) {
	if includeUID {
		attachments = ensureUIDAttachment(attachments)
	}

	n := len(sess.folder.Messages)
	ids := resolveSequenceSet(seqSet, n, mode)

	for _, id := range ids {
		seq := int(id)
		if mode == uidMode {
			var ok bool
			seq, ok = sess.folder.UIDToSeqnum[id]
			if !ok {
				continue
			}
		}

		msg := sess.folder.Message(seq)
		if msg == nil {
			continue
		}

		resp := partial()
		resp.putLine(renderFetchLine(seq, msg, attachments))
		out <- resp
	}

	out <- ok(tag, verb+" completed")
}

// ensureUIDAttachment appends a UID fetch attribute if one is not
// already present.
func ensureUIDAttachment(attachments []fetchAttachment) []fetchAttachment {
	for _, a := range attachments {
		if _, ok := a.(uidFetchAtt); ok {
			return attachments
		}
	}
	return append(attachments, uidFetchAtt{})
}

func init() {
	registerCommand("fetch", createFetch)
}
