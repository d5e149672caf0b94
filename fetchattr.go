package imapsrv

// fetchAttachment is a single parsed FETCH attribute request (§4.1's
// fetch-att). Most variants carry no data; BODY/BODY.PEEK additionally
// carry an optional or mandatory section.
type fetchAttachment interface{}

type envelopeFetchAtt struct{}
type flagsFetchAtt struct{}
type internalDateFetchAtt struct{}
type uidFetchAtt struct{}
type rfc822FetchAtt struct{}
type rfc822HeaderFetchAtt struct{}
type rfc822SizeFetchAtt struct{}
type rfc822TextFetchAtt struct{}
type bodyStructureFetchAtt struct{}

// bodyFetchAtt is bare BODY; the parser promotes it to
// bodySectionFetchAtt when a section follows.
type bodyFetchAtt struct{}

// bodyPeekFetchAtt is BODY.PEEK, which always requires a section.
type bodyPeekFetchAtt struct {
	fetchSection fetchSection
}

// bodySectionFetchAtt is BODY[section].
type bodySectionFetchAtt struct {
	fetchSection fetchSection
}

// partSpecifier names which portion of a section-msgtext a fetchSection
// selects.
type partSpecifier int

const (
	noPartSpecifier partSpecifier = iota
	headerPart
	headerFieldsPart
	headerFieldsNotPart
	textPart
	mimePart
)

// fetchSection is a parsed BODY[...] section-spec (§4.1): either empty
// (AllSection), a msgtext variant (HEADER, HEADER.FIELDS (list),
// HEADER.FIELDS.NOT (list), TEXT), or a dotted part-path optionally
// followed by a trailing msgtext or MIME.
type fetchSection struct {
	part    partSpecifier
	fields  []string // HEADER.FIELDS / HEADER.FIELDS.NOT field names, uppercased
	section []uint32 // dotted part-path, e.g. [1, 2, 3] for "1.2.3"
	partial *fetchPartial
}

// fetchPartial is the optional "<start.length>" octet range on a
// BODY[...] fetch attribute.
type fetchPartial struct {
	fromOctet uint32
	length    uint64
}

// isAllSection reports whether a fetchSection selects the whole message
// with no msgtext restriction and no part-path (the AllSection case of
// §4.6's BODY[] contract).
func (s fetchSection) isAllSection() bool {
	return s.part == noPartSpecifier && len(s.section) == 0
}

// isHeaderFields reports whether a fetchSection is HEADER.FIELDS (list)
// with no part-path, the only msgtext variant §4.6 gives a full
// rendering contract.
func (s fetchSection) isHeaderFields() bool {
	return s.part == headerFieldsPart && len(s.section) == 0
}
