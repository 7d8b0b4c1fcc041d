package configfile

import (
	"fmt"
	"log"
	"math"
	"os"

	"golang.org/x/crypto/scrypt"

	"github.com/rfjakob/gcmsiv/internal/cryptocore"
	"github.com/rfjakob/gcmsiv/internal/exitcodes"
	"github.com/rfjakob/gcmsiv/internal/tlog"
)

const (
	// ScryptDefaultLogN is the default scrypt logN.
	ScryptDefaultLogN = 16
	// From RFC 7914, "Recommended values for r and p are r=8 and p=1."
	scryptDefaultR = 8
	scryptDefaultP = 1
)

// ScryptKDF is an instance of the scrypt key deriviation function.
type ScryptKDF struct {
	// Salt is the random salt that is passed to scrypt
	Salt []byte
	// N: scrypt CPU/Memory cost parameter
	N int
	// R: scrypt block size parameter
	R int
	// P: scrypt parallelization parameter
	P int
	// KeyLen is the output data length
	KeyLen int
}

// NewScryptKDF returns a new instance of ScryptKDF.
func NewScryptKDF(logN int) ScryptKDF {
	var s ScryptKDF
	s.Salt = cryptocore.RandBytes(cryptocore.KeyLen)
	if logN <= 0 {
		s.N = 1 << ScryptDefaultLogN
	} else {
		s.N = 1 << uint32(logN)
	}
	s.R = scryptDefaultR
	s.P = scryptDefaultP
	s.KeyLen = cryptocore.KeyLen
	return s
}

// DeriveKey returns a new key from a supplied password.
func (s *ScryptKDF) DeriveKey(pw []byte) []byte {
	s.validateParams()
	k, err := scrypt.Key(pw, s.Salt, s.N, s.R, s.P, s.KeyLen)
	if err != nil {
		log.Panicf("DeriveKey failed: %v", err)
	}
	return k
}

// LogN - N is saved as 2^LogN, but LogN is much easier to work with.
// This function gives you LogN = Log2(N).
func (s *ScryptKDF) LogN() int {
	return int(math.Log2(float64(s.N)) + 0.5)
}

// validateParams checks that the scrypt parameters look sane. Against
// attacker-controlled key files, weak parameters would make password
// brute-force cheap.
func (s *ScryptKDF) validateParams() {
	minN := 1 << scryptMinLogN
	if s.N < minN {
		tlog.Fatal.Println("Fatal: scryptn below 10 is too low to make sense")
		os.Exit(exitcodes.ScryptParams)
	}
	if s.R < 1 {
		tlog.Fatal.Printf("Fatal: scrypt parameter R below minimum: value=%d, min=1", s.R)
		os.Exit(exitcodes.ScryptParams)
	}
	if s.P < 1 {
		tlog.Fatal.Printf("Fatal: scrypt parameter P below minimum: value=%d, min=1", s.P)
		os.Exit(exitcodes.ScryptParams)
	}
	if s.KeyLen < cryptocore.KeyLen {
		tlog.Fatal.Printf("Fatal: scrypt parameter KeyLen below minimum: value=%d, min=%d",
			s.KeyLen, cryptocore.KeyLen)
		os.Exit(exitcodes.ScryptParams)
	}
	if len(s.Salt) < cryptocore.KeyLen {
		tlog.Fatal.Printf("Fatal: scrypt salt too short: value=%d, min=%d",
			len(s.Salt), cryptocore.KeyLen)
		os.Exit(exitcodes.ScryptParams)
	}
}

// scryptMinLogN is the minimum we accept when loading a key file.
const scryptMinLogN = 10

// ValidateScryptN exits with a usage error if the -scryptn value from
// the command line is unusable.
func ValidateScryptN(logN int) {
	if logN == 0 || (logN >= scryptMinLogN && logN <= 28) {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: scryptn must be between %d and 28\n", scryptMinLogN)
	os.Exit(exitcodes.Usage)
}
