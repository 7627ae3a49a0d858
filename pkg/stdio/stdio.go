// Package stdio provides a cancelable line reader over standard input.
// Cancelation unblocks a pending read, which lets an interactive loop stop
// promptly when the peer goes away instead of hanging on stdin.
package stdio

import (
	"bufio"
	"fmt"
	"os"

	"github.com/muesli/cancelreader"
)

// LineReader reads newline-terminated lines from stdin until canceled.
type LineReader struct {
	cr      cancelreader.CancelReader
	scanner *bufio.Scanner
}

// NewLineReader wraps os.Stdin in a cancelable line reader.
func NewLineReader() (*LineReader, error) {
	cr, err := cancelreader.NewReader(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("cancelreader.NewReader(stdin): %w", err)
	}

	return &LineReader{
		cr:      cr,
		scanner: bufio.NewScanner(cr),
	}, nil
}

// ReadLine blocks for the next line. It returns false on EOF, cancelation,
// or a read error.
func (r *LineReader) ReadLine() (string, bool) {
	if !r.scanner.Scan() {
		return "", false
	}
	return r.scanner.Text(), true
}

// Cancel unblocks a pending ReadLine. Safe to call from another goroutine.
func (r *LineReader) Cancel() {
	r.cr.Cancel()
}

// Close releases the reader.
func (r *LineReader) Close() error {
	return r.cr.Close()
}
