// Package speed implements the "-speed" command-line option,
// similar to "openssl speed".
// It benchmarks AES-GCM-SIV against the other AEADs we can
// construct from our dependencies.
package speed

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"log"
	"testing"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/rfjakob/gcmsiv"
	"github.com/rfjakob/gcmsiv/internal/cryptocore"
)

// 128-bit file ID + 64 bit block number = 192 bits = 24 bytes
const adLen = 24

// The file encryption commands use fixed-size 4 kiB blocks
const blockSize = 4096

// Run - run the speed test and print the results.
func Run() {
	cpu := cpuModelName()
	if cpu == "" {
		cpu = "unknown"
	}
	aesAccel := "no"
	if CpuHasAES() {
		aesAccel = "yes"
	}
	fmt.Printf("cpu: %s; with AES acceleration: %s\n", cpu, aesAccel)

	bTable := []struct {
		name      string
		f         func(*testing.B)
		preferred bool
	}{
		{name: "AES-GCM-SIV-256-Go", f: bGCMSIV, preferred: true},
		{name: "AES-GCM-256-Go", f: bGoGCM, preferred: false},
		{name: "AES-SIV-512-Go", f: bAESSIV, preferred: false},
		{name: "XChaCha20-Poly1305-Go", f: bChacha20poly1305, preferred: false},
	}
	for _, b := range bTable {
		fmt.Printf("%-21s\t", b.name)
		mbs := mbPerSec(testing.Benchmark(b.f))
		if mbs > 0 {
			fmt.Printf("%7.2f MB/s", mbs)
		} else {
			fmt.Printf("    N/A")
		}
		if b.preferred {
			fmt.Printf("\t(used for file encryption)\n")
		} else {
			fmt.Printf("\t\n")
		}
	}
}

func mbPerSec(r testing.BenchmarkResult) float64 {
	if r.Bytes <= 0 || r.T <= 0 || r.N <= 0 {
		return 0
	}
	return (float64(r.Bytes) * float64(r.N) / 1e6) / r.T.Seconds()
}

// Get "n" random bytes from /dev/urandom or panic
func randBytes(n int) []byte {
	b := make([]byte, n)
	_, err := rand.Read(b)
	if err != nil {
		log.Panic("Failed to read random bytes: " + err.Error())
	}
	return b
}

// bEncrypt benchmarks the Seal direction of an AEAD
func bEncrypt(b *testing.B, c cipher.AEAD) {
	authData := randBytes(adLen)
	iv := randBytes(c.NonceSize())
	in := make([]byte, blockSize)
	b.SetBytes(int64(len(in)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// Encrypt and append to nonce
		c.Seal(iv, iv, in, authData)
	}
}

// bGCMSIV benchmarks our own AES-GCM-SIV
func bGCMSIV(b *testing.B) {
	c, err := gcmsiv.NewAEAD(randBytes(32))
	if err != nil {
		b.Fatal(err)
	}
	bEncrypt(b, c)
}

// bGoGCM benchmarks Go stdlib GCM
func bGoGCM(b *testing.B) {
	gAES, err := aes.NewCipher(randBytes(32))
	if err != nil {
		b.Fatal(err)
	}
	gGCM, err := cipher.NewGCM(gAES)
	if err != nil {
		b.Fatal(err)
	}
	bEncrypt(b, gGCM)
}

// bAESSIV benchmarks AES-SIV from github.com/jacobsa/crypto/siv
func bAESSIV(b *testing.B) {
	cc := cryptocore.New(randBytes(32), cryptocore.BackendAESSIV)
	bEncrypt(b, cc.AEADCipher)
}

// bChacha20poly1305 benchmarks XChaCha20 from golang.org/x/crypto/chacha20poly1305
func bChacha20poly1305(b *testing.B) {
	c, err := chacha20poly1305.NewX(randBytes(32))
	if err != nil {
		b.Fatal(err)
	}
	bEncrypt(b, c)
}
