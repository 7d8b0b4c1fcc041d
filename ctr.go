package gcmsiv

import (
	"crypto/cipher"
	"encoding/binary"
)

// ctrCrypt XORs src with the AES-CTR keystream into dst. dst and src
// must have the same length and may be the same slice.
//
// The initial counter block is the tag with the most significant bit of
// the last byte set, and the increment wraps only the low 32 bits
// (little-endian). Both quirks are inherited from GCM via RFC 8452 and
// must not be "fixed" - crypto/cipher.NewCTR increments the full block
// and would produce a different keystream.
func ctrCrypt(encBlock cipher.Block, tag *[TagSize]byte, dst, src []byte) {
	var counter [blockSize]byte
	copy(counter[:], tag[:])
	counter[blockSize-1] |= 0x80
	ctr := binary.LittleEndian.Uint32(counter[0:4])

	var ks [blockSize]byte
	for len(src) >= blockSize {
		encBlock.Encrypt(ks[:], counter[:])
		ctr++
		binary.LittleEndian.PutUint32(counter[0:4], ctr)
		for i := 0; i < blockSize; i++ {
			dst[i] = src[i] ^ ks[i]
		}
		dst = dst[blockSize:]
		src = src[blockSize:]
	}
	if len(src) > 0 {
		// Final partial block: use only as many keystream bytes as remain.
		encBlock.Encrypt(ks[:], counter[:])
		for i := range src {
			dst[i] = src[i] ^ ks[i]
		}
	}
	wipe(ks[:])
}
