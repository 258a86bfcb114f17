package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// PasswordReader returns one password typed by the operator.
type PasswordReader func(prompt string) (string, error)

// TerminalPasswordReader reads from stdin with echo disabled when stdin is a
// terminal, and reads a plain line otherwise so scripts can pipe a password.
func TerminalPasswordReader(stdin *os.File, prompts io.Writer) PasswordReader {
	return func(prompt string) (string, error) {
		if stdin == nil {
			return "", errors.New("stdin unavailable")
		}
		fmt.Fprint(prompts, prompt)

		fd := int(stdin.Fd())
		if term.IsTerminal(fd) {
			value, err := term.ReadPassword(fd)
			fmt.Fprintln(prompts)
			if err != nil {
				return "", err
			}
			return string(value), nil
		}

		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
}
