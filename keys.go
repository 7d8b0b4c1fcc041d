package gcmsiv

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
)

// subKeys holds the per-(key, nonce) subkeys from the RFC 8452 key
// derivation. They live only for the duration of one Seal or Open call
// and are wiped on every exit path.
type subKeys struct {
	authKey   [16]byte
	encKey    [32]byte
	encKeyLen int
	// AES under the message encryption key
	encBlock cipher.Block
}

// deriveKeys runs the RFC 8452, Section 4 key derivation: each 8-byte
// half of the subkeys is the low half of one AES encryption of
// little_endian_uint32(counter) ++ nonce under the key-generating key.
//
// This runs on every call and is never cached: the encryption key
// depends on the nonce, which is what makes nonce reuse survivable.
func (c *Cipher) deriveKeys(nonce []byte) *subKeys {
	key := c.keyOrPanic()
	// Key length was validated in New.
	kgk, _ := aes.NewCipher(key)

	var src, dst [blockSize]byte
	copy(src[4:], nonce)
	kdf := func(counter uint32, out []byte) {
		binary.LittleEndian.PutUint32(src[0:4], counter)
		kgk.Encrypt(dst[:], src[:])
		copy(out, dst[:8])
	}

	ks := &subKeys{encKeyLen: len(key)}
	kdf(0, ks.authKey[0:8])
	kdf(1, ks.authKey[8:16])
	kdf(2, ks.encKey[0:8])
	kdf(3, ks.encKey[8:16])
	if len(key) == 32 {
		kdf(4, ks.encKey[16:24])
		kdf(5, ks.encKey[24:32])
	}
	wipe(dst[:])

	// Cannot fail, encKeyLen is 16 or 32.
	ks.encBlock, _ = aes.NewCipher(ks.encKey[:ks.encKeyLen])
	return ks
}

// wipe overwrites the subkeys with zeros. The expanded AES round keys
// inside encBlock are out of our reach, dropping the reference is the
// best we can do there.
func (ks *subKeys) wipe() {
	wipe(ks.authKey[:])
	wipe(ks.encKey[:])
	ks.encBlock = nil
}
