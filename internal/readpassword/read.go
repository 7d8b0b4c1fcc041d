// Package readpassword reads a password from the terminal, stdin, a
// password file or an external program.
package readpassword

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/crypto/ssh/terminal"

	"github.com/rfjakob/gcmsiv/internal/exitcodes"
	"github.com/rfjakob/gcmsiv/internal/tlog"
)

// Once tries to get a password from the user, in this order: external
// program "extpass", password file "passfile", the terminal, stdin.
// "prompt" is used when asking on the terminal, the default is
// "Password".
func Once(extpass string, passfile string, prompt string) []byte {
	if extpass != "" {
		return readPasswordExtpass(extpass)
	}
	if passfile != "" {
		return readPasswordFile(passfile)
	}
	if prompt == "" {
		prompt = "Password"
	}
	if !terminal.IsTerminal(int(os.Stdin.Fd())) {
		return readPasswordStdin(prompt)
	}
	return readPasswordTerminal(prompt + ": ")
}

// Twice is the same as Once but will prompt twice if we get the
// password from the terminal.
func Twice(extpass string, passfile string) []byte {
	if extpass != "" {
		return readPasswordExtpass(extpass)
	}
	if passfile != "" {
		return readPasswordFile(passfile)
	}
	if !terminal.IsTerminal(int(os.Stdin.Fd())) {
		return readPasswordStdin("Password")
	}
	p1 := readPasswordTerminal("Password: ")
	p2 := readPasswordTerminal("Repeat: ")
	if !bytes.Equal(p1, p2) {
		tlog.Fatal.Println("Passwords do not match")
		os.Exit(exitcodes.ReadPassword)
	}
	// Wipe the password duplicate from memory
	for i := range p2 {
		p2[i] = 0
	}
	return p1
}

// readPasswordTerminal reads a line from the terminal.
// Exits on read error or empty result.
func readPasswordTerminal(prompt string) []byte {
	fd := int(os.Stdin.Fd())
	fmt.Fprintf(os.Stderr, "%s", prompt)
	// terminal.ReadPassword removes the trailing newline
	p, err := terminal.ReadPassword(fd)
	if err != nil {
		tlog.Fatal.Printf("Could not read password from terminal: %v\n", err)
		os.Exit(exitcodes.ReadPassword)
	}
	fmt.Fprintf(os.Stderr, "\n")
	if len(p) == 0 {
		tlog.Fatal.Println("Password is empty")
		os.Exit(exitcodes.PasswordEmpty)
	}
	return p
}

// readPasswordStdin reads a line from stdin.
// It exits with a fatal error on read error or empty result.
func readPasswordStdin(prompt string) []byte {
	tlog.Info.Printf("Reading %s from stdin", prompt)
	p := readLineUnbuffered(os.Stdin)
	if len(p) == 0 {
		tlog.Fatal.Printf("Got empty %s from stdin", prompt)
		os.Exit(exitcodes.PasswordEmpty)
	}
	return p
}

// readPasswordFile reads the first line from the file at "path".
func readPasswordFile(path string) []byte {
	f, err := os.Open(path)
	if err != nil {
		tlog.Fatal.Printf("Could not open password file: %v", err)
		os.Exit(exitcodes.ReadPassword)
	}
	defer f.Close()
	p := readLineUnbuffered(f)
	if len(p) == 0 {
		tlog.Fatal.Printf("Password file %q is empty", path)
		os.Exit(exitcodes.PasswordEmpty)
	}
	return p
}

// readPasswordExtpass executes the "extpass" program and returns the
// first output line.
// Exits on read error or empty result.
func readPasswordExtpass(extpass string) []byte {
	parts := strings.Split(extpass, " ")
	cmd := exec.Command(parts[0], parts[1:]...)
	cmd.Stderr = os.Stderr
	pipe, err := cmd.StdoutPipe()
	if err != nil {
		tlog.Fatal.Printf("extpass pipe setup failed: %v", err)
		os.Exit(exitcodes.ReadPassword)
	}
	err = cmd.Start()
	if err != nil {
		tlog.Fatal.Printf("extpass cmd start failed: %v", err)
		os.Exit(exitcodes.ReadPassword)
	}
	p := readLineUnbuffered(pipe)
	pipe.Close()
	cmd.Wait()
	if len(p) == 0 {
		tlog.Fatal.Println("extpass: password is empty")
		os.Exit(exitcodes.PasswordEmpty)
	}
	return p
}

// readLineUnbuffered reads a line from "r" and strips the trailing
// newline.
func readLineUnbuffered(r io.Reader) []byte {
	br := bufio.NewReader(io.LimitReader(r, 2048))
	line, err := br.ReadBytes('\n')
	if err != nil && err != io.EOF {
		tlog.Fatal.Printf("readLineUnbuffered: %v", err)
		os.Exit(exitcodes.ReadPassword)
	}
	return bytes.TrimRight(line, "\r\n")
}

// CheckTrailingGarbage checks that there is no unexpected extra data
// on stdin after the password was read.
func CheckTrailingGarbage() {
	if terminal.IsTerminal(int(os.Stdin.Fd())) {
		// Be lenient when the user types interactively.
		return
	}
	b, _ := ioutil.ReadAll(io.LimitReader(os.Stdin, 1))
	if len(b) > 0 {
		tlog.Warn.Println("Ignoring trailing garbage after the password on stdin")
	}
}
