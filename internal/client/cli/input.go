package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/dmitrijs2005/gophvote/internal/shared"
)

// Test seams for terminal access.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// GetSimpleText prints prompt to w and reads one trimmed line. A final line
// without a newline is accepted.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	fmt.Fprintln(w, prompt)
	text, err := reader.ReadString('\n')
	if err != nil && (err != io.EOF || text == "") {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// GetPassword reads a password without echo when stdin is a terminal and
// falls back to a plain line from reader otherwise.
func GetPassword(reader *bufio.Reader, w io.Writer) (string, error) {
	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		return GetSimpleText(reader, "-Enter password", w)
	}

	fmt.Fprintln(w, "-Enter password")
	b, err := readPassword(fd)
	if err != nil {
		return "", err
	}
	defer shared.WipeByteArray(b)
	return string(b), nil
}
