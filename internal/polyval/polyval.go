// Package polyval implements the POLYVAL universal hash function as
// defined in RFC 8452, Section 3.
//
// POLYVAL is a close relative of GHASH, but works in GF(2^128) defined
// by the irreducible polynomial
//
//	x^128 + x^127 + x^126 + x^121 + 1
//
// with a little-endian bit and byte order. Adapting a GHASH routine by
// just swapping byte order gives wrong results, which is why this is a
// from-scratch implementation of the multiplication from the RFC.
//
// The multiplication is constant-time: it is built from masked
// math/bits.Mul64 calls and XORs, with no table lookups or branches
// that depend on the key or the accumulator.
package polyval

import (
	"encoding/binary"
	"log"
)

// BlockSize is the POLYVAL block size in bytes. POLYVAL only accepts
// full blocks; the caller zero-pads partial input.
const BlockSize = 16

// Hash holds the hash key H and the running accumulator. The zero value
// is not usable, call New.
type Hash struct {
	h fieldElement
	y fieldElement
}

// New returns a Hash keyed with the 16-byte hash key H.
// Panics if the key length is wrong - this is a caller bug, not a
// runtime condition.
func New(key []byte) *Hash {
	if len(key) != BlockSize {
		log.Panicf("polyval: key must be %d bytes long (you passed %d)", BlockSize, len(key))
	}
	p := new(Hash)
	p.h.setBytes(key)
	return p
}

// Size returns the size of the POLYVAL result in bytes.
func (p *Hash) Size() int {
	return BlockSize
}

// BlockSize returns the POLYVAL block size in bytes.
func (p *Hash) BlockSize() int {
	return BlockSize
}

// Reset clears the accumulator and keeps the key, so the Hash can be
// reused for another message.
func (p *Hash) Reset() {
	p.y = fieldElement{}
}

// Update absorbs one or more full 16-byte blocks:
// for each block X, accumulator = (accumulator XOR X) * H.
// Panics if len(blocks) is not a multiple of BlockSize.
func (p *Hash) Update(blocks []byte) {
	if len(blocks)%BlockSize != 0 {
		log.Panicf("polyval: data length %d is not a multiple of %d", len(blocks), BlockSize)
	}
	for len(blocks) > 0 {
		var x fieldElement
		x.setBytes(blocks[:BlockSize])
		p.y = mul(xor(p.y, x), p.h)
		blocks = blocks[BlockSize:]
	}
}

// Sum appends the current 16-byte hash value to dst and returns the
// result. The accumulator is not changed.
func (p *Hash) Sum(dst []byte) []byte {
	var buf [BlockSize]byte
	binary.LittleEndian.PutUint64(buf[0:8], p.y.lo)
	binary.LittleEndian.PutUint64(buf[8:16], p.y.hi)
	return append(dst, buf[:]...)
}
