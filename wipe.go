package gcmsiv

import "runtime"

// wipe overwrites b with zeros. noinline plus KeepAlive keeps the
// compiler from optimizing the stores away as dead.
//
//go:noinline
func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}
