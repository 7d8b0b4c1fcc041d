package gcmsiv

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/subtle"
	"encoding/binary"
	"errors"
	"log"

	"github.com/rfjakob/gcmsiv/internal/polyval"
)

const (
	// NonceSize is the required nonce length in bytes. RFC 8452 defines
	// AES-GCM-SIV for 96-bit nonces only.
	NonceSize = 12
	// TagSize is the length of the authentication tag in bytes.
	TagSize = 16
	// MaxDataSize is the largest plaintext or additional data length in
	// bytes that RFC 8452 allows (2^36).
	MaxDataSize = 1 << 36

	blockSize = aes.BlockSize
)

var (
	// ErrKeyLength is returned when the key is not 16 or 32 bytes long.
	ErrKeyLength = errors.New("gcmsiv: key must be 16 or 32 bytes long")
	// ErrNonceLength is returned when the nonce is not 12 bytes long.
	ErrNonceLength = errors.New("gcmsiv: nonce must be 12 bytes long")
	// ErrTagLength is returned when the tag passed to Open is not 16
	// bytes long.
	ErrTagLength = errors.New("gcmsiv: tag must be 16 bytes long")
	// ErrDataTooLarge is returned when the plaintext, ciphertext or
	// additional data is longer than MaxDataSize.
	ErrDataTooLarge = errors.New("gcmsiv: input exceeds the RFC 8452 length limit")
	// ErrAuth is returned when decryption fails. No plaintext is
	// returned in that case.
	ErrAuth = errors.New("gcmsiv: message authentication failed")
)

// Cipher encrypts and decrypts messages with AES-GCM-SIV under a fixed
// key. It holds no per-message state, so a single Cipher is safe for
// concurrent use.
type Cipher struct {
	// Key-generating key. Private copy, immutable until Wipe.
	key []byte
}

// New returns a Cipher for the given key. The key must be 16 bytes for
// AES-128-GCM-SIV or 32 bytes for AES-256-GCM-SIV.
func New(key []byte) (*Cipher, error) {
	if len(key) != 16 && len(key) != 32 {
		return nil, ErrKeyLength
	}
	// Create a private copy so the caller can zero their own copy
	return &Cipher{key: append([]byte{}, key...)}, nil
}

// KeySize returns the length of the key in bytes, 16 or 32.
func (c *Cipher) KeySize() int {
	return len(c.key)
}

// Seal encrypts and authenticates plaintext and authenticates aad.
// It returns the ciphertext (same length as the plaintext) and the
// 16-byte authentication tag as separate values.
//
// Seal is deterministic: identical (key, nonce, aad, plaintext) always
// produces identical output.
func (c *Cipher) Seal(nonce, plaintext, aad []byte) (ciphertext, tag []byte, err error) {
	if len(nonce) != NonceSize {
		return nil, nil, ErrNonceLength
	}
	if uint64(len(plaintext)) > MaxDataSize || uint64(len(aad)) > MaxDataSize {
		return nil, nil, ErrDataTooLarge
	}
	ks := c.deriveKeys(nonce)
	defer ks.wipe()

	var t [TagSize]byte
	computeTag(&t, ks.encBlock, ks.authKey[:], nonce, plaintext, aad)

	ciphertext = make([]byte, len(plaintext))
	ctrCrypt(ks.encBlock, &t, ciphertext, plaintext)

	tag = make([]byte, TagSize)
	copy(tag, t[:])
	return ciphertext, tag, nil
}

// Open decrypts ciphertext and verifies the tag over ciphertext and
// aad. On success it returns the plaintext; on authentication failure
// it returns ErrAuth and wipes the candidate plaintext, so no partial
// plaintext ever reaches the caller.
func (c *Cipher) Open(nonce, ciphertext, tag, aad []byte) ([]byte, error) {
	if len(nonce) != NonceSize {
		return nil, ErrNonceLength
	}
	if len(tag) != TagSize {
		return nil, ErrTagLength
	}
	if uint64(len(ciphertext)) > MaxDataSize || uint64(len(aad)) > MaxDataSize {
		return nil, ErrDataTooLarge
	}
	ks := c.deriveKeys(nonce)
	defer ks.wipe()

	var seed [TagSize]byte
	copy(seed[:], tag)
	plaintext := make([]byte, len(ciphertext))
	ctrCrypt(ks.encBlock, &seed, plaintext, ciphertext)

	var want [TagSize]byte
	computeTag(&want, ks.encBlock, ks.authKey[:], nonce, plaintext, aad)

	// XOR-accumulate over all 16 bytes, no early exit.
	if subtle.ConstantTimeCompare(tag, want[:]) != 1 {
		wipe(plaintext)
		return nil, ErrAuth
	}
	return plaintext, nil
}

// Wipe tries to wipe the key from memory by overwriting it with zeros
// and setting the reference to nil.
//
// This is not bulletproof due to possible GC copies, but still raises
// the bar for extracting the key. The Cipher is unusable afterwards.
func (c *Cipher) Wipe() {
	wipe(c.key)
	c.key = nil
}

// computeTag computes the synthetic IV / authentication tag:
// POLYVAL over zero-padded aad, zero-padded plaintext and the length
// block, the low 12 bytes XORed with the nonce, bit 127 cleared, then
// one AES encryption under the message encryption key.
func computeTag(tag *[TagSize]byte, encBlock cipher.Block, authKey, nonce, plaintext, aad []byte) {
	var length [blockSize]byte
	binary.LittleEndian.PutUint64(length[0:8], uint64(len(aad))*8)
	binary.LittleEndian.PutUint64(length[8:16], uint64(len(plaintext))*8)

	p := polyval.New(authKey)
	updatePadded(p, aad)
	updatePadded(p, plaintext)
	p.Update(length[:])
	p.Sum(tag[:0])

	for i := 0; i < NonceSize; i++ {
		tag[i] ^= nonce[i]
	}
	tag[TagSize-1] &= 0x7f
	encBlock.Encrypt(tag[:], tag[:])
}

// updatePadded feeds src into the hash, zero-padding the trailing
// partial block to 16 bytes.
func updatePadded(p *polyval.Hash, src []byte) {
	if n := len(src) &^ (blockSize - 1); n > 0 {
		p.Update(src[:n])
		src = src[n:]
	}
	if len(src) > 0 {
		var block [blockSize]byte
		copy(block[:], src)
		p.Update(block[:])
	}
}

func (c *Cipher) keyOrPanic() []byte {
	if len(c.key) == 0 {
		log.Panic("gcmsiv: key has been wiped")
	}
	return c.key
}
