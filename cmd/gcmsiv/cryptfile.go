package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rfjakob/gcmsiv/internal/contentenc"
	"github.com/rfjakob/gcmsiv/internal/cryptocore"
	"github.com/rfjakob/gcmsiv/internal/tlog"
)

// newContentEnc sets up block encryption with the master key.
func newContentEnc(key []byte) *contentenc.ContentEnc {
	cc := cryptocore.New(key, cryptocore.BackendGCMSIV)
	return contentenc.New(cc, contentenc.DefaultBS)
}

// encryptFile encrypts "inPath" to "outPath". The output starts with a
// file header carrying a random file ID, followed by fixed-size
// encrypted blocks. The last block is usually shorter.
func encryptFile(key []byte, inPath string, outPath string) error {
	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return err
	}
	defer out.Close()

	be := newContentEnc(key)
	header := contentenc.RandomHeader()
	if _, err = out.Write(header.Pack()); err != nil {
		return err
	}

	buf := make([]byte, be.PlainBS())
	var blockNo uint64
	for {
		n, err := io.ReadFull(in, buf)
		if n > 0 {
			block := be.EncryptBlock(buf[:n], blockNo, header.ID)
			if _, werr := out.Write(block); werr != nil {
				return werr
			}
			blockNo++
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return err
		}
	}
	tlog.Debug.Printf("encryptFile: %d blocks written", blockNo)
	return nil
}

// decryptFile decrypts "inPath" to "outPath". Returns an error when
// the header is damaged or any block fails authentication.
func decryptFile(key []byte, inPath string, outPath string) error {
	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return err
	}
	defer out.Close()

	be := newContentEnc(key)
	headerBuf := make([]byte, contentenc.HeaderLen)
	if _, err = io.ReadFull(in, headerBuf); err != nil {
		return fmt.Errorf("reading file header: %v", err)
	}
	header, err := contentenc.ParseHeader(headerBuf)
	if err != nil {
		return err
	}

	buf := make([]byte, be.CipherBS())
	var blockNo uint64
	for {
		n, err := io.ReadFull(in, buf)
		if n > 0 {
			block, derr := be.DecryptBlock(buf[:n], blockNo, header.ID)
			if derr != nil {
				return fmt.Errorf("block %d: %v", blockNo, derr)
			}
			if _, werr := out.Write(block); werr != nil {
				return werr
			}
			blockNo++
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return err
		}
	}
	tlog.Debug.Printf("decryptFile: %d blocks written", blockNo)
	return nil
}
