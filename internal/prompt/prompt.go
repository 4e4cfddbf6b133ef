// Package prompt implements the buyer's single-keypress approve/deny
// gate, read directly from the controlling terminal in raw mode so an
// operator doesn't have to press Enter to respond before a charge is
// signed and broadcast.
package prompt

import (
	"fmt"

	"github.com/pkg/term"
)

// Confirm prints question and blocks for a single 'y' or 'n' keypress
// (case-insensitive), returning true for 'y'. Any other key is treated
// as "no" after being echoed back, matching the fail-closed posture a
// payment approval prompt needs.
func Confirm(question string) (bool, error) {
	fmt.Printf("%s [y/n] ", question)

	tty, err := term.Open("/dev/tty", term.RawMode)
	if err != nil {
		return false, fmt.Errorf("prompt: opening controlling terminal: %w", err)
	}
	defer tty.Close()
	defer tty.Restore()

	buf := make([]byte, 1)
	if _, err := tty.Read(buf); err != nil {
		return false, fmt.Errorf("prompt: reading keypress: %w", err)
	}

	answer := buf[0]
	fmt.Println(string(answer))
	return isApproval(answer), nil
}

func isApproval(key byte) bool {
	return key == 'y' || key == 'Y'
}
