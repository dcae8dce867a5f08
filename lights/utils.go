package lights

import (
	"fmt"
	"io"
	"strings"
)

// sendCommand writes one newline-terminated command line to the strip.
func sendCommand(w io.Writer, args ...interface{}) error {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprint(a)
	}
	_, err := io.WriteString(w, strings.Join(parts, " ")+"\n")
	if err != nil {
		return fmt.Errorf("failed to send command: %w", err)
	}
	return nil
}
