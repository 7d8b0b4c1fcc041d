// Package contentenc encrypts and decrypts file content in fixed-size
// blocks.
//
// Each block is sealed with a fresh random nonce. With AES-GCM-SIV this
// is safe even against random-number-generator hiccups: a repeated
// nonce only reveals whether two blocks were identical. The additional
// data binds every block to its file (via the header's random ID) and
// to its position, so blocks cannot be swapped or transplanted between
// files.
package contentenc

import (
	"bytes"
	"encoding/binary"
	"errors"

	"github.com/rfjakob/gcmsiv/internal/cryptocore"
)

// DefaultBS is the default plaintext block size.
const DefaultBS = 4096

// ContentEnc encrypts and decrypts file blocks.
type ContentEnc struct {
	// Cryptographic primitives
	cryptoCore *cryptocore.CryptoCore
	// Plaintext block size
	plainBS uint64
	// Ciphertext block size
	cipherBS uint64
}

// New returns a new ContentEnc instance.
func New(cc *cryptocore.CryptoCore, plainBS uint64) *ContentEnc {
	cipherBS := plainBS + uint64(cc.IVLen) + cryptocore.AuthTagLen
	return &ContentEnc{
		cryptoCore: cc,
		plainBS:    plainBS,
		cipherBS:   cipherBS,
	}
}

// PlainBS returns the plaintext block size.
func (be *ContentEnc) PlainBS() uint64 {
	return be.plainBS
}

// CipherBS returns the ciphertext block size.
func (be *ContentEnc) CipherBS() uint64 {
	return be.cipherBS
}

// EncryptBlock - encrypt one plaintext block:
// out = nonce || AEAD.Seal(plaintext, AD = blockNo || fileID)
func (be *ContentEnc) EncryptBlock(plaintext []byte, blockNo uint64, fileID []byte) []byte {
	if uint64(len(plaintext)) > be.plainBS {
		panic("EncryptBlock: oversized plaintext block")
	}
	nonce := cryptocore.RandBytes(be.cryptoCore.IVLen)
	aData := concatAD(blockNo, fileID)
	return be.cryptoCore.AEADCipher.Seal(nonce, nonce, plaintext, aData)
}

// DecryptBlock - decrypt one ciphertext block, verifying that it
// belongs to file "fileID" at position "blockNo".
func (be *ContentEnc) DecryptBlock(ciphertext []byte, blockNo uint64, fileID []byte) ([]byte, error) {
	if len(ciphertext) == 0 {
		return nil, nil
	}
	if len(ciphertext) < be.cryptoCore.IVLen+cryptocore.AuthTagLen {
		return nil, errors.New("block is too short")
	}
	nonce := ciphertext[:be.cryptoCore.IVLen]
	if bytes.Equal(nonce, make([]byte, len(nonce))) {
		// An all-zero nonce smells like a hole in the ciphertext file
		// or a buggy writer. Refuse early with a clear error.
		return nil, errors.New("all-zero nonce")
	}
	aData := concatAD(blockNo, fileID)
	return be.cryptoCore.AEADCipher.Open(nil, nonce, ciphertext[len(nonce):], aData)
}

// concatAD returns the additional data for one block:
// blockNo as big-endian uint64, followed by the file ID.
func concatAD(blockNo uint64, fileID []byte) []byte {
	ad := make([]byte, 8+len(fileID))
	binary.BigEndian.PutUint64(ad[:8], blockNo)
	copy(ad[8:], fileID)
	return ad
}
