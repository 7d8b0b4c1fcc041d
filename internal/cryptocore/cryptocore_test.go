package cryptocore

import (
	"bytes"
	"testing"
)

func TestCryptoCoreNew(t *testing.T) {
	key := make([]byte, KeyLen)
	for _, backend := range []BackendTypeEnum{BackendGCMSIV, BackendAESSIV, BackendGoGCM} {
		cc := New(key, backend)
		if cc.AEADBackend != backend {
			t.Errorf("%v: wrong backend", backend)
		}
		if cc.IVLen != cc.AEADCipher.NonceSize() {
			t.Errorf("%v: IVLen %d does not match NonceSize %d",
				backend, cc.IVLen, cc.AEADCipher.NonceSize())
		}
		if cc.AEADCipher.Overhead() != AuthTagLen {
			t.Errorf("%v: unexpected overhead %d", backend, cc.AEADCipher.Overhead())
		}
	}
}

// Every backend must round-trip and reject corrupt ciphertext.
func TestBackendsRoundTrip(t *testing.T) {
	key := RandBytes(KeyLen)
	plaintext := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9}
	authData := make([]byte, 24)

	for _, backend := range []BackendTypeEnum{BackendGCMSIV, BackendAESSIV, BackendGoGCM} {
		cc := New(key, backend)
		nonce := RandBytes(cc.IVLen)

		sealed := cc.AEADCipher.Seal(nil, nonce, plaintext, authData)
		if len(sealed) != len(plaintext)+AuthTagLen {
			t.Errorf("%v: unexpected sealed length %d", backend, len(sealed))
		}
		out, err := cc.AEADCipher.Open(nil, nonce, sealed, authData)
		if err != nil {
			t.Fatalf("%v: %v", backend, err)
		}
		if !bytes.Equal(out, plaintext) {
			t.Errorf("%v: wrong plaintext", backend)
		}

		sealed[3] ^= 0x40
		if _, err := cc.AEADCipher.Open(nil, nonce, sealed, authData); err == nil {
			t.Errorf("%v: corrupt ciphertext accepted", backend)
		}
	}
}

func TestWrongKeyLengthPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("should have panicked")
		}
	}()
	New(make([]byte, 16), BackendGCMSIV)
}

func TestHkdfDerive(t *testing.T) {
	key := make([]byte, KeyLen)
	out1 := hkdfDerive(key, hkdfInfoSIVContent, 64)
	out2 := hkdfDerive(key, hkdfInfoSIVContent, 64)
	if len(out1) != 64 {
		t.Errorf("wrong length %d", len(out1))
	}
	if !bytes.Equal(out1, out2) {
		t.Error("hkdfDerive is not deterministic")
	}
	other := hkdfDerive(key, "some other context", 64)
	if bytes.Equal(out1, other) {
		t.Error("different info strings gave the same key")
	}
}

func TestRandBytes(t *testing.T) {
	b1 := RandBytes(32)
	b2 := RandBytes(32)
	if bytes.Equal(b1, b2) {
		t.Error("random bytes repeat")
	}
}
