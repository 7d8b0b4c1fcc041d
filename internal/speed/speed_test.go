package speed

import (
	"testing"
	"time"
)

/*
Make the "-speed" benchmarks also accessible to the standard test system.
Example run:

$ go test -bench .
BenchmarkGCMSIV-4     	   20000	     78520 ns/op	  52.16 MB/s
BenchmarkGoGCM-4      	  100000	     22552 ns/op	 181.62 MB/s
BenchmarkAESSIV-4     	   10000	    104623 ns/op	  39.15 MB/s
BenchmarkXchacha-4    	   50000	     38821 ns/op	 105.51 MB/s
PASS
*/

func BenchmarkGCMSIV(b *testing.B) {
	bGCMSIV(b)
}

func BenchmarkGoGCM(b *testing.B) {
	bGoGCM(b)
}

func BenchmarkAESSIV(b *testing.B) {
	bAESSIV(b)
}

func BenchmarkXchacha(b *testing.B) {
	bChacha20poly1305(b)
}

func TestMbPerSec(t *testing.T) {
	testcases := []struct {
		n     int
		t     time.Duration
		bytes int64
		want  float64
	}{
		{1000, time.Second, 1000, 1},
		{0, time.Second, 1000, 0},
		{1000, 0, 1000, 0},
		{1000, time.Second, 0, 0},
	}
	for _, tc := range testcases {
		r := testing.BenchmarkResult{N: tc.n, T: tc.t, Bytes: tc.bytes}
		if got := mbPerSec(r); got != tc.want {
			t.Errorf("n=%d t=%v bytes=%d: got %v, want %v",
				tc.n, tc.t, tc.bytes, got, tc.want)
		}
	}
}
