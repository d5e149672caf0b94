package imapsrv

import (
	"fmt"
	"strings"
	"time"

	"maildirsrv/maildir"
)

// envelopeFields names, in emission order, the headers §4.6's ENVELOPE
// contract packs into the envelope structure.
var envelopeFields = []string{
	"DATE", "SUBJECT", "FROM", "SENDER", "REPLY-TO",
	"TO", "CC", "BCC", "IN-REPLY-TO", "MESSAGE-ID",
}

// renderFetchLine renders one complete "<seq> FETCH (...)" untagged
// line body (without the leading "* " that writeLine adds).
func renderFetchLine(seq int, msg *maildir.Message, attachments []fetchAttachment) string {
	parts := make([]string, 0, len(attachments))
	for _, att := range attachments {
		parts = append(parts, renderFetchAttr(msg, att))
	}
	return fmt.Sprintf("%d FETCH (%s)", seq, strings.Join(parts, " "))
}

// renderFetchAttr renders a single FETCH attribute per §4.6.
func renderFetchAttr(msg *maildir.Message, att fetchAttachment) string {
	switch a := att.(type) {
	case envelopeFetchAtt:
		return renderEnvelope(msg)
	case flagsFetchAtt:
		return "FLAGS " + renderFlagList(msg.Flags)
	case internalDateFetchAtt:
		return `INTERNALDATE "` + renderInternalDate(msg.UID) + `"`
	case rfc822SizeFetchAtt:
		return fmt.Sprintf("RFC822.SIZE %d", msg.Size)
	case rfc822HeaderFetchAtt:
		header := msg.RawContents[:msg.HeaderBoundary]
		return fmt.Sprintf("RFC822.HEADER {%d}\r\n%s", len(header), header)
	case rfc822FetchAtt:
		return "RFC822 {0}\r\n"
	case rfc822TextFetchAtt:
		// §4.6: body omitted for RFC822/RFC822.TEXT; rendered as an empty
		// literal rather than the message body.
		return "RFC822.TEXT {0}\r\n"
	case uidFetchAtt:
		return fmt.Sprintf("UID %d", msg.UID)
	case bodyStructureFetchAtt:
		return "BODYSTRUCTURE NIL"
	case bodyFetchAtt:
		return "BODY"
	case *bodyFetchAtt:
		return "BODY"
	case *bodySectionFetchAtt:
		return renderBodySection(msg, a.fetchSection)
	case *bodyPeekFetchAtt:
		return renderBodySection(msg, a.fetchSection)
	default:
		return ""
	}
}

// renderEnvelope renders the ENVELOPE attribute: each field is the raw
// header value quoted with '"', or NIL if the header is absent.
func renderEnvelope(msg *maildir.Message) string {
	rendered := make([]string, 0, len(envelopeFields))
	for _, name := range envelopeFields {
		if v, ok := msg.Headers[name]; ok {
			rendered = append(rendered, `"`+v+`"`)
		} else {
			rendered = append(rendered, "NIL")
		}
	}
	return "ENVELOPE (" + strings.Join(rendered, " ") + ")"
}

func renderFlagList(fs maildir.FlagSet) string {
	return "(" + strings.Join(fs.Names(), " ") + ")"
}

// renderInternalDate treats UID as Unix seconds and formats it in the
// IMAP date-time style, always as a UTC "-0000" offset.
func renderInternalDate(uid uint64) string {
	t := time.Unix(int64(uid), 0).UTC()
	return t.Format("02-Jan-2006 15:04:05") + " -0000"
}

// renderBodySection dispatches a BODY[...]/BODY.PEEK[...] section to its
// §4.6 contract: the whole-message AllSection case, the HEADER.FIELDS
// case, or the documented placeholder for every other section variant
// (HEADER, HEADER.FIELDS.NOT, TEXT, part-paths, MIME).
func renderBodySection(msg *maildir.Message, sec fetchSection) string {
	switch {
	case sec.isAllSection():
		return fmt.Sprintf("BODY[] {%d}\r\n%s", msg.Size, msg.RawContents)
	case sec.isHeaderFields():
		return renderHeaderFields(msg, sec.fields)
	default:
		return "BODY[?] "
	}
}

// renderHeaderFields renders BODY[HEADER.FIELDS (...)]: only the
// requested headers that are present, in request order, each as
// "NAME: value\r\n"; length is the byte count of that block.
func renderHeaderFields(msg *maildir.Message, fields []string) string {
	var block strings.Builder
	for _, f := range fields {
		name := strings.ToUpper(f)
		if v, ok := msg.Headers[name]; ok {
			block.WriteString(name)
			block.WriteString(": ")
			block.WriteString(v)
			block.WriteString("\r\n")
		}
	}
	bracket := "HEADER.FIELDS (" + strings.Join(upperAll(fields), " ") + ")"
	return fmt.Sprintf("BODY[%s] {%d}\r\n%s", bracket, block.Len(), block.String())
}

func upperAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.ToUpper(s)
	}
	return out
}
