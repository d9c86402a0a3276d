// Package outwriter has output and writer logic.
package outwriter

import (
	"os"

	"github.com/patchgate/patchgate/internal/contract"
	"golang.org/x/term"
)

// getMaxTableNoteWidth calculates the maximum width for the free-form note
// column in table output based on terminal width.
func getMaxTableNoteWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Conservative default for narrow terminals and CI
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Fixed columns: firmware, four metric columns, tier, borders/padding.
	const baseWidth = 70
	available := termWidth - baseWidth
	if available < 12 {
		return 12
	}
	if available > 60 {
		return 60
	}
	return available
}

// truncate shortens a string to at most width runes, with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 || len(s) <= width {
		return s
	}
	if width <= 3 {
		return s[:width]
	}
	return s[:width-3] + "..."
}
