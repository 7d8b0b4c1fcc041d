package cryptocore

import (
	"crypto/cipher"
	"log"

	"github.com/jacobsa/crypto/siv"
)

// sivNonceSize is the nonce length we use with AES-SIV. SIV accepts
// any length, 16 matches the tag size.
const sivNonceSize = 16

// sivAead wraps github.com/jacobsa/crypto/siv in the cipher.AEAD
// interface. As per RFC 5297 section 3, nonce-based operation means
// passing the nonce as the last associated data element.
type sivAead struct {
	key []byte
}

var _ cipher.AEAD = (*sivAead)(nil)

func newSivAead(key []byte) cipher.AEAD {
	if len(key) != 64 {
		// SIV supports 32, 48 or 64-byte keys, but we exclusively
		// use 64.
		log.Panicf("AES-SIV key must be 64 bytes long (you passed %d)", len(key))
	}
	return &sivAead{key: key}
}

func (s *sivAead) NonceSize() int {
	return sivNonceSize
}

func (s *sivAead) Overhead() int {
	return AuthTagLen
}

// Seal encrypts "plaintext" using "nonce" and "authData" and appends
// the result to "dst". Note that SIV prepends the tag instead of
// appending it internally; jacobsa/crypto handles the layout.
func (s *sivAead) Seal(dst, nonce, plaintext, authData []byte) []byte {
	if len(nonce) != sivNonceSize {
		log.Panicf("nonce must be %d bytes long", sivNonceSize)
	}
	associated := [][]byte{authData, nonce}
	out, err := siv.Encrypt(dst, s.key, plaintext, associated)
	if err != nil {
		log.Panic(err)
	}
	return out
}

// Open decrypts "ciphertext" using "nonce" and "authData" and appends
// the result to "dst".
func (s *sivAead) Open(dst, nonce, ciphertext, authData []byte) ([]byte, error) {
	if len(nonce) != sivNonceSize {
		log.Panicf("nonce must be %d bytes long", sivNonceSize)
	}
	associated := [][]byte{authData, nonce}
	dec, err := siv.Decrypt(s.key, ciphertext, associated)
	return append(dst, dec...), err
}
