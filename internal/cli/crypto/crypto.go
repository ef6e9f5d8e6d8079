package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"
	"os"
	"path/filepath"
)

// keyLen — длина ключа для AES‑256 (в байтах).
const keyLen = 32

// keyFilePath возвращает путь к файлу ключа профиля рядом с БД каталога.
func keyFilePath(base, profile string) (string, error) {
	if profile == "" {
		return "", errors.New("empty profile for key path")
	}
	if base == "" {
		cfgDir, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(cfgDir, "ConnKeeper", "profiles")
	}
	dir := filepath.Join(base, profile)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(dir, "key.bin"), nil
}

// LoadOrCreateKey загружает существующий ключ профиля или создаёт новый случайный.
func LoadOrCreateKey(base, profile string) ([]byte, error) {
	path, err := keyFilePath(base, profile)
	if err != nil {
		return nil, err
	}
	if b, err := os.ReadFile(path); err == nil {
		if len(b) != keyLen {
			return nil, errors.New("invalid key length")
		}
		return b, nil
	}
	// создаём новый ключ
	key := make([]byte, keyLen)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, err
	}
	// записываем с ограниченными правами доступа
	if err := os.WriteFile(path, key, 0o600); err != nil {
		return nil, err
	}
	return key, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Encrypt шифрует данные plain с помощью AES‑GCM и заданного ключа; ad
// привязывает шифртекст к записи (например, к ID узла).
// Возвращает шифртекст и nonce.
func Encrypt(plain, key, ad []byte) ([]byte, []byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, nil, err
	}
	out := gcm.Seal(nil, nonce, plain, ad)
	return out, nonce, nil
}

// Decrypt расшифровывает шифртекст с использованием AES‑GCM, ключа, nonce и ad.
func Decrypt(ciphertext, nonce, key, ad []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != gcm.NonceSize() {
		return nil, errors.New("invalid nonce size")
	}
	return gcm.Open(nil, nonce, ciphertext, ad)
}
