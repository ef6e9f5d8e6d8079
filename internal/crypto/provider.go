package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrDecrypt — шифртекст не удалось расшифровать или проверить.
var ErrDecrypt = errors.New("decrypt failed")

// Provider шифрует и расшифровывает строковые значения паролем.
// Формат шифртекста — base64.
type Provider interface {
	Encrypt(plain, passphrase string) (string, error)
	Decrypt(cipherText, passphrase string) (string, error)
}

// AeadProvider — современный формат: PBKDF2 + AEAD.
// Шифртекст: base64(salt ‖ nonce ‖ ciphertext ‖ tag), salt служит associated data.
type AeadProvider struct {
	Engine        Engine
	Mode          Mode
	KdfIterations int
}

var _ Provider = (*AeadProvider)(nil)

// NewAeadProvider проверяет параметры и возвращает провайдер.
func NewAeadProvider(engine Engine, mode Mode, iterations int) (*AeadProvider, error) {
	if _, ok := engineNames[engine]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCipher, engine)
	}
	if _, ok := modeNames[mode]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCipher, mode)
	}
	if iterations <= 0 {
		return nil, fmt.Errorf("invalid kdf iteration count %d", iterations)
	}
	return &AeadProvider{Engine: engine, Mode: mode, KdfIterations: iterations}, nil
}

func (p *AeadProvider) aead(passphrase string, salt []byte) (cipher.AEAD, error) {
	key := DeriveKey(passphrase, salt, p.KdfIterations)
	defer clear(key)
	block, err := NewBlock(p.Engine, key)
	if err != nil {
		return nil, err
	}
	return NewAEAD(p.Mode, block)
}

// Encrypt шифрует plain со свежими salt и nonce.
func (p *AeadProvider) Encrypt(plain, passphrase string) (string, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}
	a, err := p.aead(passphrase, salt)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, a.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	out := make([]byte, 0, len(salt)+len(nonce)+len(plain)+a.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	out = a.Seal(out, nonce, []byte(plain), salt)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt проверяет тег и возвращает открытый текст.
func (p *AeadProvider) Decrypt(cipherText, passphrase string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(cipherText))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	nonceSize := p.Mode.NonceSize()
	if len(raw) < SaltSize+nonceSize+TagSize {
		return "", fmt.Errorf("%w: ciphertext too short", ErrDecrypt)
	}
	salt := raw[:SaltSize]
	nonce := raw[SaltSize : SaltSize+nonceSize]
	a, err := p.aead(passphrase, salt)
	if err != nil {
		return "", err
	}
	plain, err := a.Open(nil, nonce, raw[SaltSize+nonceSize:], salt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	return string(plain), nil
}

// LegacyProvider — формат старых файлов: AES-CBC, ключ = MD5(пароль),
// шифртекст base64(iv ‖ ciphertext) с PKCS#7.
type LegacyProvider struct{}

// LegacyModeName — имя режима LegacyProvider в выводе.
const LegacyModeName = "CBC"

var _ Provider = LegacyProvider{}

func legacyBlock(passphrase string) (cipher.Block, error) {
	key := md5.Sum([]byte(passphrase))
	return aes.NewCipher(key[:])
}

// Encrypt шифрует plain со случайным IV.
func (LegacyProvider) Encrypt(plain, passphrase string) (string, error) {
	block, err := legacyBlock(passphrase)
	if err != nil {
		return "", err
	}
	bs := block.BlockSize()
	pad := bs - len(plain)%bs
	data := append([]byte(plain), bytes.Repeat([]byte{byte(pad)}, pad)...)

	out := make([]byte, bs+len(data))
	if _, err := io.ReadFull(rand.Reader, out[:bs]); err != nil {
		return "", err
	}
	cipher.NewCBCEncrypter(block, out[:bs]).CryptBlocks(out[bs:], data)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt расшифровывает и снимает PKCS#7.
func (LegacyProvider) Decrypt(cipherText, passphrase string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(cipherText))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	block, err := legacyBlock(passphrase)
	if err != nil {
		return "", err
	}
	bs := block.BlockSize()
	if len(raw) < 2*bs || len(raw)%bs != 0 {
		return "", fmt.Errorf("%w: bad ciphertext length %d", ErrDecrypt, len(raw))
	}
	plain := make([]byte, len(raw)-bs)
	cipher.NewCBCDecrypter(block, raw[:bs]).CryptBlocks(plain, raw[bs:])

	pad := int(plain[len(plain)-1])
	if pad == 0 || pad > bs {
		return "", fmt.Errorf("%w: bad padding", ErrDecrypt)
	}
	for _, b := range plain[len(plain)-pad:] {
		if int(b) != pad {
			return "", fmt.Errorf("%w: bad padding", ErrDecrypt)
		}
	}
	return string(plain[:len(plain)-pad]), nil
}
