package imapsrv

import (
	"bufio"
	"bytes"
	"fmt"
	"net"
)

// Anything longer than this is considered long and MIGHT be split
// into a literal
const longLineLength = 80

// An IMAP response
type response interface {
	// Put a string into the response (no newline)
	put(s string) response
	// Put a text line or lines into the response
	putLine(s string) response
	// Put a field into the response (no newline)
	putField(name string, value string) response
	// Output the response
	writeTo(w *bufio.Writer) error
	// Should the connection be closed?
	isClose() bool
	// replaceConn returns a new net.Conn the session should switch to
	// after this response is written (used by STARTTLS), or nil.
	replaceConn() net.Conn
}

// A final response that is sent when a command completes
type finalResponse struct {
	// The tag of the command that this is the response for
	tag string
	// The machine readable condition
	condition string
	// A human readable message
	message string
	// Should the connection be closed after the response has been sent?
	closeConnection bool
	// The connection to switch to after writing, if any (STARTTLS)
	newConn net.Conn
	// Untagged output
	partialResponse
}

// An partial response that can be sent before a command completes
type partialResponse struct {
	// The current entry being built
	current *bytes.Buffer
	// Was the last call a putField?
	fields bool
	// The previous entries
	entries []string
	// The connection to switch to after writing, if any (STARTTLS)
	replaceWith net.Conn
}

// Create a final response
func createFinalResponse(tag string, condition string, message string) *finalResponse {
	return &finalResponse{
		tag:             tag,
		condition:       condition,
		message:         message,
		partialResponse: createPartialResponse(),
	}
}

// Create a partial response
func createPartialResponse() partialResponse {
	return partialResponse{
		current: new(bytes.Buffer),
		entries: make([]string, 0, 4),
	}
}

// Create a pointer to a partial response
func partial() *partialResponse {
	ret := createPartialResponse()
	return &ret
}

// Create an untagged response with no tagged trailer (an empty partial
// response).
func empty() *partialResponse {
	return partial()
}

// Create a OK response
func ok(tag string, message string) *finalResponse {
	return createFinalResponse(tag, "OK", message)
}

// Create an BAD response
func bad(tag string, message string) *finalResponse {
	return createFinalResponse(tag, "BAD", message)
}

// Create a NO response
func no(tag string, message string) *finalResponse {
	return createFinalResponse(tag, "NO", message)
}

// Create an untagged fatal response
func fatalResponse(err error) *finalResponse {
	resp := createFinalResponse("*", "BYE", err.Error())
	resp.closeConnection = true
	return resp
}

// Add a string to a final response
func (r *finalResponse) put(s string) response {
	r.partialResponse.put(s)
	return r
}

// Add an untagged string to a final response
func (r *finalResponse) putLine(s string) response {
	r.partialResponse.putLine(s)
	return r
}

// Add a field to a final response
func (r *finalResponse) putField(name string, value string) response {
	r.partialResponse.putField(name, value)
	return r
}

// Add a string to a partial response
func (r *partialResponse) put(s string) response {
	if r.current.Len() == 0 {
		r.current = bytes.NewBufferString(s)
	} else {
		r.current.WriteString(s)
	}
	r.fields = false
	return r
}

// Add an untagged line to a partial response
func (r *partialResponse) putLine(s string) response {
	if r.current.Len() > 0 {
		r.entries = append(r.entries, r.current.String())
	}
	r.current = bytes.NewBufferString(s)
	r.fields = false
	return r
}

// Add a field to a partial response
func (r *partialResponse) putField(name string, value string) response {
	if r.current.Len() == 0 {
		r.current = bytes.NewBufferString(name)
	} else {
		if r.fields {
			r.current.WriteString(" ")
		}
		r.current.WriteString(name)
	}

	if len(value) > longLineLength {
		appendLiteral(r.current, value)
	} else {
		r.current.WriteString(" ")
		r.current.WriteString(value)
	}

	r.fields = true
	return r
}

// Mark that a response should close the connection
func (r *finalResponse) shouldClose() *finalResponse {
	r.closeConnection = true
	return r
}

// shouldReplaceBuffers marks that, once this response has been written,
// the session must switch to reading/writing on conn instead (the
// STARTTLS upgrade).
func (r *partialResponse) shouldReplaceBuffers(conn net.Conn) *partialResponse {
	r.replaceWith = conn
	return r
}

// Should a final response close the connection?
func (r *finalResponse) isClose() bool {
	return r.closeConnection
}

// Should a partial response close the connection?
func (r *partialResponse) isClose() bool {
	return false
}

func (r *finalResponse) replaceConn() net.Conn {
	return r.newConn
}

func (r *partialResponse) replaceConn() net.Conn {
	return r.replaceWith
}

// shouldReplaceBuffers on finalResponse, for symmetry.
func (r *finalResponse) shouldReplaceBuffers(conn net.Conn) *finalResponse {
	r.newConn = conn
	return r
}

// Write a final response to the given writer
func (r *finalResponse) writeTo(w *bufio.Writer) error {
	err := r.partialResponse.writeTo(w)
	if err != nil {
		return err
	}

	_, err = w.WriteString(r.tag + " " + r.condition + " " + r.message + "\r\n")
	if err != nil {
		return err
	}

	return w.Flush()
}

// Write a partial response to the given writer
func (r *partialResponse) writeTo(w *bufio.Writer) error {
	for _, line := range r.entries {
		if err := writeLine(w, line); err != nil {
			return err
		}
	}

	if r.current.Len() > 0 {
		if err := writeLine(w, r.current.String()); err != nil {
			return err
		}
	}

	return w.Flush()
}

//---- Helper functions --------------------------------------------------------

// Append a string to a buffer as a literal
func appendLiteral(b *bytes.Buffer, s string) {
	b.WriteString(fmt.Sprint("{", len(s), "}\r\n"))
	b.WriteString(s)
	b.WriteString("\r\n")
}

// Write a line of partial response
func writeLine(w *bufio.Writer, s string) error {
	_, err := w.WriteString("* ")
	if err != nil {
		return err
	}
	_, err = w.WriteString(s)
	if err != nil {
		return err
	}
	_, err = w.WriteString("\r\n")
	return err
}
