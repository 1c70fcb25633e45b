package accountctl

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// promptPassword reads a password twice from the terminal without echo and
// returns it when both entries match.
func promptPassword(w io.Writer) ([]byte, error) {
	first, err := readSecret(w, "Password: ")
	if err != nil {
		return nil, err
	}
	if len(first) == 0 {
		return nil, errors.New("password must not be empty")
	}

	second, err := readSecret(w, "Confirm password: ")
	if err != nil {
		return nil, err
	}
	defer wipe(second)

	if !bytes.Equal(first, second) {
		wipe(first)
		return nil, errors.New("passwords do not match")
	}
	return first, nil
}

func readSecret(w io.Writer, prompt string) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	return pw, nil
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
