// Package exitcodes contains all well-defined exit codes that gcmsiv
// can return.
package exitcodes

import (
	"fmt"
	"os"
)

const (
	// Usage - usage error like wrong cli syntax, wrong number of parameters.
	Usage = 1
	// 2 is reserved because it is used by Go panic

	// Init is an error during key file creation
	Init = 7
	// LoadConf is an error while loading the key file
	LoadConf = 8
	// ReadPassword means something went wrong reading the password
	ReadPassword = 9
	// Other error - please inspect the message
	Other = 11
	// PasswordIncorrect - the entered password was wrong
	PasswordIncorrect = 12
	// ScryptParams means that scrypt was called with invalid parameters
	ScryptParams = 13
	// PasswordEmpty - we received an empty password
	PasswordEmpty = 22
	// OpenConf - there was an error opening the key file for reading
	OpenConf = 23
	// WriteConf - could not write the key file
	WriteConf = 24
	// CryptFile - reading, writing, encrypting or decrypting a data
	// file failed
	CryptFile = 25
)

// Err wraps an error with an associated numeric exit code
type Err struct {
	error
	code int
}

// NewErr returns an error containing "msg" and the exit code "code".
func NewErr(msg string, code int) Err {
	return Err{
		error: fmt.Errorf("%s", msg),
		code:  code,
	}
}

// Exit extracts the numeric exit code from "err" (if available) and
// exits the application.
func Exit(err error) {
	err2, ok := err.(Err)
	if !ok {
		os.Exit(Other)
	}
	os.Exit(err2.code)
}
