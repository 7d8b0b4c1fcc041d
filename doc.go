// Package gcmsiv implements AES-GCM-SIV, the nonce-misuse-resistant
// authenticated encryption mode defined in RFC 8452.
//
// Unlike AES-GCM, where a repeated nonce is catastrophic, AES-GCM-SIV
// derives the initialization vector from the whole message: repeating a
// (key, nonce) pair only reveals whether the same plaintext was
// encrypted twice, nothing more. The price is a second pass over the
// plaintext, making it roughly half as fast as AES-GCM.
//
// Supported parameters, per RFC 8452: 16- or 32-byte keys (AES-128 /
// AES-256), 12-byte nonces, 16-byte tags. Plaintext and additional data
// are each limited to 2^36 bytes.
//
// Cipher is the core API and keeps ciphertext and authentication tag as
// separate outputs. NewAEAD wraps it in the standard cipher.AEAD
// interface with the tag appended to the ciphertext.
//
// A nil additional-data slice and an empty one mean the same thing, as
// in RFC 8452: zero bytes of additional data are authenticated either
// way.
//
// Corrupt ciphertexts never cause a panic. Instead, ErrAuth is returned
// on decryption and the partially recovered plaintext is wiped.
package gcmsiv
