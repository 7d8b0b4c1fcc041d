package gcmsiv

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func randBytes(t *testing.T, n int) []byte {
	t.Helper()
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		t.Fatal(err)
	}
	return b
}

func TestNewKeyLength(t *testing.T) {
	for _, n := range []int{0, 1, 15, 17, 24, 31, 33, 64} {
		if _, err := New(make([]byte, n)); err != ErrKeyLength {
			t.Errorf("key length %d: got %v, want ErrKeyLength", n, err)
		}
	}
	for _, n := range []int{16, 32} {
		if _, err := New(make([]byte, n)); err != nil {
			t.Errorf("key length %d: %v", n, err)
		}
	}
}

func TestSealOpenRoundTrip(t *testing.T) {
	for _, keyLen := range []int{16, 32} {
		c, err := New(randBytes(t, keyLen))
		if err != nil {
			t.Fatal(err)
		}
		nonce := randBytes(t, NonceSize)
		aad := randBytes(t, 24)
		// Cover empty, partial, full and multi-block plaintexts,
		// including both sides of the 16-byte boundaries.
		for _, n := range []int{0, 1, 15, 16, 17, 31, 32, 33, 255, 256, 1000, 4096} {
			plaintext := randBytes(t, n)
			ciphertext, tag, err := c.Seal(nonce, plaintext, aad)
			if err != nil {
				t.Fatal(err)
			}
			if len(ciphertext) != n {
				t.Errorf("size %d: ciphertext has length %d", n, len(ciphertext))
			}
			if len(tag) != TagSize {
				t.Errorf("size %d: tag has length %d", n, len(tag))
			}
			plaintext2, err := c.Open(nonce, ciphertext, tag, aad)
			if err != nil {
				t.Fatalf("size %d: %v", n, err)
			}
			if !bytes.Equal(plaintext, plaintext2) {
				t.Errorf("size %d: round trip mismatch", n)
			}
		}
	}
}

func TestDeterminism(t *testing.T) {
	c, err := New(randBytes(t, 32))
	if err != nil {
		t.Fatal(err)
	}
	nonce := randBytes(t, NonceSize)
	aad := randBytes(t, 7)
	plaintext := randBytes(t, 100)

	ct1, tag1, err := c.Seal(nonce, plaintext, aad)
	if err != nil {
		t.Fatal(err)
	}
	ct2, tag2, err := c.Seal(nonce, plaintext, aad)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(ct1, ct2) || !bytes.Equal(tag1, tag2) {
		t.Error("identical inputs produced different outputs")
	}
}

// Flipping any single bit in ciphertext or tag must make Open fail.
func TestTamperDetection(t *testing.T) {
	c, err := New(randBytes(t, 32))
	if err != nil {
		t.Fatal(err)
	}
	nonce := randBytes(t, NonceSize)
	aad := randBytes(t, 5)
	plaintext := randBytes(t, 33)

	ciphertext, tag, err := c.Seal(nonce, plaintext, aad)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < len(ciphertext)*8; i++ {
		corrupt := append([]byte{}, ciphertext...)
		corrupt[i/8] ^= 1 << uint(i%8)
		if _, err := c.Open(nonce, corrupt, tag, aad); err != ErrAuth {
			t.Fatalf("ciphertext bit %d: got %v, want ErrAuth", i, err)
		}
	}
	for i := 0; i < len(tag)*8; i++ {
		corrupt := append([]byte{}, tag...)
		corrupt[i/8] ^= 1 << uint(i%8)
		if _, err := c.Open(nonce, ciphertext, corrupt, aad); err != ErrAuth {
			t.Fatalf("tag bit %d: got %v, want ErrAuth", i, err)
		}
	}
}

func TestAadBinding(t *testing.T) {
	c, err := New(randBytes(t, 32))
	if err != nil {
		t.Fatal(err)
	}
	nonce := randBytes(t, NonceSize)
	plaintext := randBytes(t, 20)

	ciphertext, tag, err := c.Seal(nonce, plaintext, []byte("right"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Open(nonce, ciphertext, tag, []byte("wrong")); err != ErrAuth {
		t.Errorf("got %v, want ErrAuth", err)
	}
	if _, err := c.Open(nonce, ciphertext, tag, nil); err != ErrAuth {
		t.Errorf("missing aad: got %v, want ErrAuth", err)
	}
}

// nil and zero-length additional data are the same thing.
func TestNilVsEmptyAad(t *testing.T) {
	c, err := New(randBytes(t, 32))
	if err != nil {
		t.Fatal(err)
	}
	nonce := randBytes(t, NonceSize)
	plaintext := randBytes(t, 20)

	ct1, tag1, err := c.Seal(nonce, plaintext, nil)
	if err != nil {
		t.Fatal(err)
	}
	ct2, tag2, err := c.Seal(nonce, plaintext, []byte{})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(ct1, ct2) || !bytes.Equal(tag1, tag2) {
		t.Error("nil and empty aad produced different outputs")
	}
	if _, err := c.Open(nonce, ct1, tag1, []byte{}); err != nil {
		t.Error(err)
	}
}

// Encrypting two different plaintexts under the same (key, nonce) must
// give unrelated outputs. This is the misuse-resistance property, the
// reason to use GCM-SIV at all.
func TestNonceReuse(t *testing.T) {
	c, err := New(randBytes(t, 32))
	if err != nil {
		t.Fatal(err)
	}
	nonce := randBytes(t, NonceSize)
	p1 := randBytes(t, 64)
	p2 := randBytes(t, 64)

	ct1, tag1, err := c.Seal(nonce, p1, nil)
	if err != nil {
		t.Fatal(err)
	}
	ct2, tag2, err := c.Seal(nonce, p2, nil)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(tag1, tag2) {
		t.Error("different plaintexts produced the same tag")
	}
	// With a stream cipher under a reused nonce, ct1 XOR ct2 would
	// equal p1 XOR p2. Here the keystream depends on the tag, so it
	// must not.
	xorCt := make([]byte, len(ct1))
	xorPt := make([]byte, len(p1))
	for i := range xorCt {
		xorCt[i] = ct1[i] ^ ct2[i]
		xorPt[i] = p1[i] ^ p2[i]
	}
	if bytes.Equal(xorCt, xorPt) {
		t.Error("keystream was reused across plaintexts")
	}
}

func TestBoundaryCases(t *testing.T) {
	c, err := New(randBytes(t, 16))
	if err != nil {
		t.Fatal(err)
	}
	nonce := randBytes(t, NonceSize)

	// Empty plaintext, non-empty aad.
	ciphertext, tag, err := c.Seal(nonce, nil, []byte("header"))
	if err != nil {
		t.Fatal(err)
	}
	if len(ciphertext) != 0 || len(tag) != TagSize {
		t.Errorf("got %d-byte ciphertext, %d-byte tag", len(ciphertext), len(tag))
	}
	if _, err := c.Open(nonce, ciphertext, tag, []byte("header")); err != nil {
		t.Error(err)
	}

	// Non-empty plaintext, empty aad covered by round-trip tests.
	// Both empty:
	ciphertext, tag, err = c.Seal(nonce, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Open(nonce, ciphertext, tag, nil); err != nil {
		t.Error(err)
	}
}

func TestValidationErrors(t *testing.T) {
	c, err := New(randBytes(t, 32))
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := c.Seal(make([]byte, 11), nil, nil); err != ErrNonceLength {
		t.Errorf("short nonce: got %v", err)
	}
	if _, _, err := c.Seal(make([]byte, 16), nil, nil); err != ErrNonceLength {
		t.Errorf("long nonce: got %v", err)
	}
	nonce := make([]byte, NonceSize)
	if _, err := c.Open(nonce, nil, make([]byte, 15), nil); err != ErrTagLength {
		t.Errorf("short tag: got %v", err)
	}
	if _, err := c.Open(nonce, nil, make([]byte, 17), nil); err != ErrTagLength {
		t.Errorf("long tag: got %v", err)
	}
	if _, err := c.Open(make([]byte, 13), nil, make([]byte, 16), nil); err != ErrNonceLength {
		t.Errorf("bad nonce on open: got %v", err)
	}
}

// Seal must reuse dst capacity like other cipher.AEAD implementations.
func TestAeadInplaceSeal(t *testing.T) {
	a, err := NewAEAD(randBytes(t, 32))
	if err != nil {
		t.Fatal(err)
	}
	nonce := randBytes(t, NonceSize)
	plaintext := randBytes(t, 100)

	dst := make([]byte, NonceSize, NonceSize+len(plaintext)+TagSize)
	copy(dst, nonce)
	out := a.Seal(dst, nonce, plaintext, nil)
	if !bytes.Equal(out[:NonceSize], nonce) {
		t.Error("Seal clobbered the dst prefix")
	}
	if &out[0] != &dst[0] {
		t.Error("Seal did not reuse dst capacity")
	}

	plaintext2, err := a.Open(nil, nonce, out[NonceSize:], nil)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(plaintext, plaintext2) {
		t.Error("round trip mismatch")
	}
}

func TestAeadOpenAppends(t *testing.T) {
	a, err := NewAEAD(randBytes(t, 32))
	if err != nil {
		t.Fatal(err)
	}
	nonce := randBytes(t, NonceSize)
	plaintext := randBytes(t, 9)
	sealed := a.Seal(nil, nonce, plaintext, nil)

	prefix := []byte{0xaa, 0xbb, 0xcc}
	out, err := a.Open(prefix, nonce, sealed, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := append(append([]byte{}, prefix...), plaintext...)
	if !bytes.Equal(out, want) {
		t.Errorf("got %x, want %x", out, want)
	}
}

func TestAeadTruncatedCiphertext(t *testing.T) {
	a, err := NewAEAD(randBytes(t, 32))
	if err != nil {
		t.Fatal(err)
	}
	nonce := randBytes(t, NonceSize)
	if _, err := a.Open(nil, nonce, make([]byte, TagSize-1), nil); err != ErrAuth {
		t.Errorf("got %v, want ErrAuth", err)
	}
}

func TestWipe(t *testing.T) {
	key := randBytes(t, 32)
	c, err := New(key)
	if err != nil {
		t.Fatal(err)
	}
	c.Wipe()
	defer func() {
		if recover() == nil {
			t.Error("Seal after Wipe should panic")
		}
	}()
	c.Seal(make([]byte, NonceSize), []byte("x"), nil)
}

// The Cipher must not share state with the caller's key slice.
func TestKeyIsCopied(t *testing.T) {
	key := randBytes(t, 32)
	c, err := New(key)
	if err != nil {
		t.Fatal(err)
	}
	nonce := randBytes(t, NonceSize)
	ct1, tag1, _ := c.Seal(nonce, []byte("hello"), nil)
	for i := range key {
		key[i] = 0
	}
	ct2, tag2, _ := c.Seal(nonce, []byte("hello"), nil)
	if !bytes.Equal(ct1, ct2) || !bytes.Equal(tag1, tag2) {
		t.Error("zeroing the caller's key changed the cipher")
	}
}

func BenchmarkSeal4K(b *testing.B) {
	a, err := NewAEAD(make([]byte, 32))
	if err != nil {
		b.Fatal(err)
	}
	nonce := make([]byte, NonceSize)
	in := make([]byte, 4096)
	dst := make([]byte, 0, len(in)+TagSize)
	b.SetBytes(int64(len(in)))
	for i := 0; i < b.N; i++ {
		a.Seal(dst, nonce, in, nil)
	}
}

func BenchmarkOpen4K(b *testing.B) {
	a, err := NewAEAD(make([]byte, 32))
	if err != nil {
		b.Fatal(err)
	}
	nonce := make([]byte, NonceSize)
	sealed := a.Seal(nil, nonce, make([]byte, 4096), nil)
	dst := make([]byte, 0, 4096)
	b.SetBytes(4096)
	for i := 0; i < b.N; i++ {
		if _, err := a.Open(dst, nonce, sealed, nil); err != nil {
			b.Fatal(err)
		}
	}
}
