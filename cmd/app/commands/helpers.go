// Package commands implements the envkeys subcommands. Each Run function takes
// its dependencies explicitly so it can be tested without a container.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
)

const (
	formatText = "text"
	formatJSON = "json"
)

// checkFormat runs before any side effect so a typo never half-completes a command.
func checkFormat(format string) error {
	switch format {
	case formatText, formatJSON:
		return nil
	default:
		return fmt.Errorf("invalid format: %s (valid options: text, json)", format)
	}
}

// writeResult prints value as indented JSON, or hands w to text.
func writeResult(w io.Writer, format string, value any, text func(w io.Writer)) error {
	if format != formatJSON {
		text(w)
		return nil
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
