// Package logging wraps the standard library logger with a connection
// prefix, matching the teacher's stdlib log.Printf/log.Println style
// (lmtpClient.logError, client.logError in the original server.go/lmtp.go)
// rather than adopting a structured logging library the corpus never
// reaches for.
package logging

import (
	"fmt"
	"log"
)

// Logger prefixes every line with a connection id.
type Logger struct {
	prefix string
}

// New creates a Logger for the given connection kind and id, e.g.
// New("IMAP", 7) or New("LMTP", "3/1").
func New(kind string, id interface{}) *Logger {
	return &Logger{prefix: fmt.Sprintf("%s (%v) ", kind, id)}
}

func (l *Logger) Printf(format string, args ...interface{}) {
	log.Printf(l.prefix+format, args...)
}

func (l *Logger) Println(args ...interface{}) {
	log.Println(append([]interface{}{l.prefix}, args...)...)
}
