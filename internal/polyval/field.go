package polyval

import (
	"encoding/binary"
	"math/bits"
)

// fieldElement is an element of GF(2^128) in POLYVAL's little-endian
// convention: lo holds the low 64 coefficients, hi the high 64.
type fieldElement struct {
	lo, hi uint64
}

func (z *fieldElement) setBytes(p []byte) {
	z.lo = binary.LittleEndian.Uint64(p[0:8])
	z.hi = binary.LittleEndian.Uint64(p[8:16])
}

// Addition in a binary field is XOR.
func xor(x, y fieldElement) fieldElement {
	return fieldElement{lo: x.lo ^ y.lo, hi: x.hi ^ y.hi}
}

// mul returns x*y reduced modulo x^128 + x^127 + x^126 + x^121 + 1.
//
// The 256-bit carry-less product is computed with schoolbook
// multiplication plus Karatsuba for the middle term, then reduced with
// Shay Gueron's Montgomery-style reduction by the constant
// 0xc200000000000000 (the high half of the reduction polynomial).
func mul(x, y fieldElement) fieldElement {
	h1, h0 := ctmul(x.hi, y.hi)           // H = x1*y1
	l1, l0 := ctmul(x.lo, y.lo)           // L = x0*y0
	m1, m0 := ctmul(x.hi^x.lo, y.hi^y.lo) // M = (x1+x0)*(y1+y0)

	// X = [x3:x2:x1:x0], the unreduced 256-bit product.
	x0 := l0
	x1 := l1 ^ m0 ^ h0 ^ l0
	x2 := h0 ^ m1 ^ h1 ^ l1
	x3 := h1

	const poly = 0xc200000000000000

	a1, a0 := ctmul(x0, poly)
	b1 := x0 ^ a1
	b0 := x1 ^ a0

	c1, c0 := ctmul(b0, poly)
	d1 := b0 ^ c1
	d0 := b1 ^ c0

	return fieldElement{lo: d0 ^ x2, hi: d1 ^ x3}
}

// ctmul returns the 128-bit carry-less product of x and y.
//
// Integer multiplication is not carry-less, but splitting both operands
// into four interleaved limbs (every 4th bit) leaves enough zero bits
// between the coefficients that no carry can cross a limb boundary.
// bits.Mul64 compiles to a single constant-time multiply on all
// supported architectures.
func ctmul(x, y uint64) (hi, lo uint64) {
	x0 := x & 0x1111111111111111
	x1 := x & 0x2222222222222222
	x2 := x & 0x4444444444444444
	x3 := x & 0x8888888888888888
	y0 := y & 0x1111111111111111
	y1 := y & 0x2222222222222222
	y2 := y & 0x4444444444444444
	y3 := y & 0x8888888888888888

	h0, l0 := bits.Mul64(x0, y0)
	h1, l1 := bits.Mul64(x1, y3)
	h2, l2 := bits.Mul64(x2, y2)
	h3, l3 := bits.Mul64(x3, y1)
	z0h := h0 ^ h1 ^ h2 ^ h3
	z0l := l0 ^ l1 ^ l2 ^ l3

	h0, l0 = bits.Mul64(x0, y1)
	h1, l1 = bits.Mul64(x1, y0)
	h2, l2 = bits.Mul64(x2, y3)
	h3, l3 = bits.Mul64(x3, y2)
	z1h := h0 ^ h1 ^ h2 ^ h3
	z1l := l0 ^ l1 ^ l2 ^ l3

	h0, l0 = bits.Mul64(x0, y2)
	h1, l1 = bits.Mul64(x1, y1)
	h2, l2 = bits.Mul64(x2, y0)
	h3, l3 = bits.Mul64(x3, y3)
	z2h := h0 ^ h1 ^ h2 ^ h3
	z2l := l0 ^ l1 ^ l2 ^ l3

	h0, l0 = bits.Mul64(x0, y3)
	h1, l1 = bits.Mul64(x1, y2)
	h2, l2 = bits.Mul64(x2, y1)
	h3, l3 = bits.Mul64(x3, y0)
	z3h := h0 ^ h1 ^ h2 ^ h3
	z3l := l0 ^ l1 ^ l2 ^ l3

	// Everything outside a limb's own bit positions is carry noise.
	z0h &= 0x1111111111111111
	z0l &= 0x1111111111111111
	z1h &= 0x2222222222222222
	z1l &= 0x2222222222222222
	z2h &= 0x4444444444444444
	z2l &= 0x4444444444444444
	z3h &= 0x8888888888888888
	z3l &= 0x8888888888888888

	hi = z0h | z1h | z2h | z3h
	lo = z0l | z1l | z2l | z3l
	return
}
