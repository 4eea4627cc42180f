package publish

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirm prints prompt to w and reads lines from r until the operator
// answers y or n (case-insensitive). It returns true on an affirmative
// answer and false on a negative one or when input ends.
func Confirm(r io.Reader, w io.Writer, prompt string) (bool, error) {
	scanner := bufio.NewScanner(r)
	for {
		fmt.Fprintf(w, "%s (Y/N): ", prompt)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return false, fmt.Errorf("reading confirmation: %w", err)
			}
			// EOF counts as a decline: never publish without an explicit yes.
			return false, nil
		}
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(w, "Please enter 'Y' or 'N'.")
	}
}
