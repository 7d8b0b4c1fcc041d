// Package configfile reads and writes the gcmsiv key file.
//
// The key file stores a random 256-bit master key, sealed with
// AES-GCM-SIV under a key derived from the user's password via scrypt.
// The JSON layout follows the gocryptfs.conf tradition: KDF parameters
// in the clear, the encrypted key as nonce || ciphertext || tag.
package configfile

import (
	"encoding/json"
	"fmt"
	"io/ioutil"

	"github.com/rfjakob/gcmsiv"
	"github.com/rfjakob/gcmsiv/internal/cryptocore"
	"github.com/rfjakob/gcmsiv/internal/tlog"
)

// CurrentVersion is the version of the key file format.
const CurrentVersion = 1

// ConfFile is the content of a key file.
type ConfFile struct {
	// Creator is the gcmsiv version string that created this file.
	// This only documents the config file and is not actually used.
	Creator string
	// EncryptedKey holds nonce || ciphertext || tag of the master key,
	// sealed with AES-GCM-SIV under the scrypt-derived key.
	EncryptedKey []byte
	// ScryptObject holds the parameters for the password KDF.
	ScryptObject ScryptKDF
	// Version is the on-disk format version.
	Version uint16
	// filename is the location this file was read from / will be
	// written to. Not exported to JSON.
	filename string
}

// Create - create a new master key, encrypt it with the password and
// write a key file to "filename". Returns the masterkey so the caller
// can use it right away.
func Create(filename string, password []byte, logN int, creator string) ([]byte, error) {
	cf := ConfFile{
		filename: filename,
		Creator:  creator,
		Version:  CurrentVersion,
	}
	key := cryptocore.RandBytes(cryptocore.KeyLen)
	cf.EncryptKey(key, password, logN)
	if err := cf.WriteFile(); err != nil {
		return nil, err
	}
	return key, nil
}

// Load loads the key file at "filename" without decrypting the key.
func Load(filename string) (*ConfFile, error) {
	var cf ConfFile
	cf.filename = filename

	js, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	if err = json.Unmarshal(js, &cf); err != nil {
		tlog.Warn.Printf("Failed to unmarshal key file %q", filename)
		return nil, err
	}
	if cf.Version != CurrentVersion {
		return nil, fmt.Errorf("unsupported key file version %d", cf.Version)
	}
	if len(cf.EncryptedKey) < gcmsiv.NonceSize+cryptocore.KeyLen+gcmsiv.TagSize {
		return nil, fmt.Errorf("truncated EncryptedKey, %d bytes", len(cf.EncryptedKey))
	}
	return &cf, nil
}

// LoadAndDecrypt loads the key file and decrypts the master key with
// "password".
func LoadAndDecrypt(filename string, password []byte) ([]byte, *ConfFile, error) {
	cf, err := Load(filename)
	if err != nil {
		return nil, nil, err
	}
	key, err := cf.DecryptMasterKey(password)
	if err != nil {
		return nil, nil, err
	}
	return key, cf, nil
}

// EncryptKey - encrypt "key" with "password" and store the result in
// cf.EncryptedKey.
func (cf *ConfFile) EncryptKey(key, password []byte, logN int) {
	cf.ScryptObject = NewScryptKDF(logN)
	kek := cf.ScryptObject.DeriveKey(password)
	defer wipeBytes(kek)

	aead, err := gcmsiv.NewAEAD(kek)
	if err != nil {
		// kek length comes from our own KDF parameters.
		panic(err)
	}
	nonce := cryptocore.RandBytes(gcmsiv.NonceSize)
	cf.EncryptedKey = aead.Seal(nonce, nonce, key, nil)
}

// DecryptMasterKey - decrypt the master key with "password". Returns
// gcmsiv.ErrAuth if the password is wrong.
func (cf *ConfFile) DecryptMasterKey(password []byte) ([]byte, error) {
	kek := cf.ScryptObject.DeriveKey(password)
	defer wipeBytes(kek)

	aead, err := gcmsiv.NewAEAD(kek)
	if err != nil {
		return nil, err
	}
	nonce := cf.EncryptedKey[:gcmsiv.NonceSize]
	sealed := cf.EncryptedKey[gcmsiv.NonceSize:]
	key, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		tlog.Warn.Printf("DecryptMasterKey: %v", err)
		return nil, err
	}
	return key, nil
}

// WriteFile - write out the key file to cf.filename.
func (cf *ConfFile) WriteFile() error {
	js, err := json.MarshalIndent(cf, "", "\t")
	if err != nil {
		return err
	}
	// A trailing newline makes the file friendly to cat & diff.
	js = append(js, '\n')
	// 0400 - the file contains key material, even if password-wrapped.
	return ioutil.WriteFile(cf.filename, js, 0400)
}

func wipeBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
