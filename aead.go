package gcmsiv

import (
	"crypto/cipher"
	"log"
)

// sivAead wraps Cipher in the cipher.AEAD interface. The tag is
// appended to the ciphertext, as every cipher.AEAD does.
type sivAead struct {
	c *Cipher
}

var _ cipher.AEAD = (*sivAead)(nil)

// NewAEAD returns an AES-GCM-SIV instance implementing the cipher.AEAD
// interface. The key must be 16 or 32 bytes long.
//
// Per the cipher.AEAD contract, Seal panics on malformed inputs (these
// are caller bugs), while Open returns ErrAuth for anything that could
// come from a corrupt or forged ciphertext.
func NewAEAD(key []byte) (cipher.AEAD, error) {
	c, err := New(key)
	if err != nil {
		return nil, err
	}
	return &sivAead{c: c}, nil
}

// NonceSize returns the required nonce length, 12 bytes.
func (s *sivAead) NonceSize() int {
	return NonceSize
}

// Overhead returns the number of bytes added for authentication, 16.
func (s *sivAead) Overhead() int {
	return TagSize
}

// Seal encrypts "plaintext" using "nonce" and "authData" and appends
// ciphertext plus tag to "dst".
func (s *sivAead) Seal(dst, nonce, plaintext, authData []byte) []byte {
	ciphertext, tag, err := s.c.Seal(nonce, plaintext, authData)
	if err != nil {
		log.Panic(err)
	}
	ret, out := sliceForAppend(dst, len(ciphertext)+TagSize)
	copy(out, ciphertext)
	copy(out[len(ciphertext):], tag)
	return ret
}

// Open decrypts "in" using "nonce" and "authData" and appends the
// plaintext to "dst".
func (s *sivAead) Open(dst, nonce, in, authData []byte) ([]byte, error) {
	if len(nonce) != NonceSize {
		log.Panic(ErrNonceLength)
	}
	if len(in) < TagSize {
		// Too short to even contain a tag. Report it like any other
		// corruption, a truncated ciphertext is not a caller bug.
		return nil, ErrAuth
	}
	plaintext, err := s.c.Open(nonce, in[:len(in)-TagSize], in[len(in)-TagSize:], authData)
	if err != nil {
		return nil, err
	}
	return append(dst, plaintext...), nil
}

// Wipe wipes the underlying key, see Cipher.Wipe.
func (s *sivAead) Wipe() {
	s.c.Wipe()
}

// sliceForAppend extends "in" by "n" bytes, reusing its capacity if
// possible, and returns the whole slice plus the newly added tail.
func sliceForAppend(in []byte, n int) (head, tail []byte) {
	if total := len(in) + n; cap(in) >= total {
		head = in[:total]
	} else {
		head = make([]byte, total)
		copy(head, in)
	}
	tail = head[len(in):]
	return
}
