package listen

import (
	"bufio"
	"context"
	"io"
	"strings"
)

// Stdin reads typed lines as utterances, the fallback when no microphone
// capture tool is installed.
type Stdin struct {
	scanner *bufio.Scanner
}

// NewStdin creates a listener over r, normally os.Stdin.
func NewStdin(r io.Reader) *Stdin {
	return &Stdin{scanner: bufio.NewScanner(r)}
}

// Listen returns the next non-empty line. io.EOF ends the conversation.
func (s *Stdin) Listen(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		line := strings.TrimSpace(s.scanner.Text())
		if line != "" {
			return line, nil
		}
	}
}
