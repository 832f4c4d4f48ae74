package cipher

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"io"

	"github.com/go-pdfkit/pdfcore/pdferr"
)

// aesCBCDecrypt implements 7.6.2's AES handling: the first 16 bytes of
// the payload are the initialisation vector, the remainder is
// PKCS#7-padded ciphertext.
func aesCBCDecrypt(key, data []byte) ([]byte, error) {
	if err := validateAESKey(key); err != nil {
		return nil, err
	}
	if len(data) < aes.BlockSize {
		return nil, pdferr.New(pdferr.DecryptError, "AES payload shorter than one block")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, pdferr.Wrap(pdferr.DecryptError, err, "building AES cipher")
	}
	iv := data[:aes.BlockSize]
	ciphertext := data[aes.BlockSize:]
	if len(ciphertext)%aes.BlockSize != 0 {
		return nil, pdferr.New(pdferr.DecryptError, "AES ciphertext not a multiple of the block size")
	}
	if len(ciphertext) == 0 {
		return nil, nil
	}
	out := make([]byte, len(ciphertext))
	mode := cipher.NewCBCDecrypter(block, iv)
	mode.CryptBlocks(out, ciphertext)
	return unpad(out)
}

func aesCBCEncrypt(key, data []byte) ([]byte, error) {
	if err := validateAESKey(key); err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, pdferr.Wrap(pdferr.DecryptError, err, "building AES cipher")
	}
	padded := pad(data, aes.BlockSize)
	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, pdferr.Wrap(pdferr.DecryptError, err, "generating IV")
	}
	out := make([]byte, aes.BlockSize+len(padded))
	copy(out, iv)
	mode := cipher.NewCBCEncrypter(block, iv)
	mode.CryptBlocks(out[aes.BlockSize:], padded)
	return out, nil
}

// pad applies PKCS#7 padding.
func pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	out := make([]byte, len(data)+n)
	copy(out, data)
	for i := len(data); i < len(out); i++ {
		out[i] = byte(n)
	}
	return out
}

func unpad(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}
	n := int(data[len(data)-1])
	if n == 0 || n > len(data) {
		return nil, pdferr.New(pdferr.DecryptError, "invalid PKCS#7 padding")
	}
	return data[:len(data)-n], nil
}
