package maildir

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// MIMEPart is one segment of a multipart body, split on the boundary
// marker found in a MULTIPART Content-Type header.
type MIMEPart struct {
	ContentType string
	Raw         string
}

// Message is one Maildir file, loaded and parsed eagerly: headers
// unfolded into a map, multipart boundary (if any) split out, flags
// decoded from the filename.
type Message struct {
	UID     uint64
	Path    string
	Headers map[string]string
	Parts   []MIMEPart
	Flags   FlagSet
	Deleted bool

	Size           uint32
	RawContents    string
	HeaderBoundary int
}

// LoadMessage reads a single Maildir file and parses it per the header
// unfolding and multipart boundary extraction contract.
func LoadMessage(path string) (*Message, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	uid, flags, err := parseFilename(filepath.Base(path))
	if err != nil {
		return nil, err
	}

	raw := string(data) // treated as UTF-8, not validated: invalid sequences pass through as-is

	m := &Message{
		UID:         uid,
		Path:        path,
		Flags:       flags,
		Deleted:     flags.Has(FlagDeleted),
		Size:        uint32(len(data)),
		RawContents: raw,
	}

	headerPortion, boundary := splitHeaderBlock(raw)
	m.HeaderBoundary = boundary
	m.Headers = unfoldHeaders(headerPortion)
	m.Parts = splitMultipart(raw[boundaryBodyStart(raw, boundary):], m.Headers)

	return m, nil
}

// parseFilename extracts the uid prefix (before the first ':') and the
// trailing ":2,<letters>" flag suffix from a Maildir basename.
func parseFilename(name string) (uint64, FlagSet, error) {
	colon := strings.IndexByte(name, ':')
	uidPart := name
	var flags FlagSet
	if colon != -1 {
		uidPart = name[:colon]
		flags = ParseFlags(name[colon+1:])
	}
	uid, err := strconv.ParseUint(uidPart, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("maildir: invalid message filename %q: %w", name, err)
	}
	return uid, flags, nil
}

// NewFilename computes the canonical Maildir filename for a uid and flag
// set, per the D,F,R,S encoding (§4.6).
func NewFilename(uid uint64, flags FlagSet) string {
	return strconv.FormatUint(uid, 10) + flags.Encode()
}

// splitHeaderBlock finds the blank line that ends the header block and
// returns the header text plus the byte offset of the first '\n' after
// it (header_boundary = index of "\n\n" + 1).
func splitHeaderBlock(raw string) (header string, boundary int) {
	idx := strings.Index(raw, "\n\n")
	if idx == -1 {
		return raw, len(raw)
	}
	return raw[:idx], idx + 1
}

// boundaryBodyStart returns the byte offset where the message body
// begins, immediately after the blank line separating it from headers.
func boundaryBodyStart(raw string, boundary int) int {
	start := boundary + 1
	if start > len(raw) {
		return len(raw)
	}
	return start
}

// unfoldHeaders joins folded continuation lines (lines starting with
// space or tab) onto the preceding logical header line with a single
// space, then splits each logical line on the first ':'. Keys are
// uppercased. Processing in forward source order yields the same
// logical lines as processing backward and prepending, since folding
// only ever continues the line immediately above it.
func unfoldHeaders(headerPortion string) map[string]string {
	headers := make(map[string]string)

	lines := strings.Split(headerPortion, "\n")
	var logical []string
	for _, line := range lines {
		trimmed := strings.TrimRight(line, "\r")
		if len(trimmed) > 0 && (trimmed[0] == ' ' || trimmed[0] == '\t') && len(logical) > 0 {
			logical[len(logical)-1] += " " + strings.TrimSpace(trimmed)
			continue
		}
		logical = append(logical, trimmed)
	}

	for _, line := range logical {
		if line == "" {
			continue
		}
		colon := strings.IndexByte(line, ':')
		if colon == -1 {
			continue
		}
		key := strings.ToUpper(strings.TrimSpace(line[:colon]))
		value := strings.TrimSpace(line[colon+1:])
		headers[key] = value
	}

	return headers
}

// splitMultipart extracts the boundary token from a MULTIPART
// Content-Type header and splits the body into parts on
// "--<boundary>--\n". Non-multipart messages produce no parts.
func splitMultipart(body string, headers map[string]string) []MIMEPart {
	ct, ok := headers["CONTENT-TYPE"]
	if !ok || !strings.Contains(strings.ToUpper(ct), "MULTIPART") {
		return nil
	}

	boundary, ok := extractBoundary(ct)
	if !ok {
		return nil
	}

	marker := "--" + boundary + "--\n"
	segments := strings.Split(body, marker)

	parts := make([]MIMEPart, 0, len(segments))
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		parts = append(parts, MIMEPart{ContentType: ct, Raw: seg})
	}
	return parts
}

// extractBoundary pulls the literal between `BOUNDARY="` and the next
// `"`, matched case-insensitively.
func extractBoundary(contentType string) (string, bool) {
	upper := strings.ToUpper(contentType)
	marker := `BOUNDARY="`
	idx := strings.Index(upper, marker)
	if idx == -1 {
		return "", false
	}
	start := idx + len(marker)
	end := strings.IndexByte(contentType[start:], '"')
	if end == -1 {
		return "", false
	}
	return contentType[start : start+end], true
}
