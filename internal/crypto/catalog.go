package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha1"
	"errors"
	"fmt"
	"strings"

	"github.com/pion/dtls/v3/pkg/crypto/ccm"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/twofish"
)

// Engine — блочный шифр, которым зашифрован файл подключений.
type Engine int

const (
	EngineAES Engine = iota
	EngineTwofish
)

// Mode — AEAD-режим блочного шифра.
type Mode int

const (
	ModeGCM Mode = iota
	ModeCCM
	ModeEAX
)

const (
	// DefaultPassphrase используется, когда файл не защищён собственным паролем.
	DefaultPassphrase = "mR3m"
	// DefaultKdfIterations — число итераций PBKDF2 для файлов, где оно не объявлено.
	DefaultKdfIterations = 1000

	KeySize  = 32
	SaltSize = 16
	TagSize  = 16
)

// ErrUnsupportedCipher returned for engine or mode names outside the catalog.
var ErrUnsupportedCipher = errors.New("unsupported cipher")

var engineNames = map[Engine]string{
	EngineAES:     "AES",
	EngineTwofish: "Twofish",
}

var modeNames = map[Mode]string{
	ModeGCM: "GCM",
	ModeCCM: "CCM",
	ModeEAX: "EAX",
}

func (e Engine) String() string {
	if n, ok := engineNames[e]; ok {
		return n
	}
	return fmt.Sprintf("Engine(%d)", int(e))
}

func (m Mode) String() string {
	if n, ok := modeNames[m]; ok {
		return n
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Engines returns every supported engine.
func Engines() []Engine { return []Engine{EngineAES, EngineTwofish} }

// Modes returns every supported mode.
func Modes() []Mode { return []Mode{ModeGCM, ModeCCM, ModeEAX} }

// ParseEngine разбирает имя движка без учёта регистра.
func ParseEngine(s string) (Engine, error) {
	s = strings.TrimSpace(s)
	for e, n := range engineNames {
		if strings.EqualFold(n, s) {
			return e, nil
		}
	}
	return 0, fmt.Errorf("%w: engine %q", ErrUnsupportedCipher, s)
}

// ParseMode разбирает имя режима без учёта регистра.
func ParseMode(s string) (Mode, error) {
	s = strings.TrimSpace(s)
	for m, n := range modeNames {
		if strings.EqualFold(n, s) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: mode %q", ErrUnsupportedCipher, s)
}

// NonceSize returns the nonce length written in front of the ciphertext.
// CCM is limited to 7..13 bytes; 12 leaves room for 16 MiB messages.
func (m Mode) NonceSize() int {
	if m == ModeCCM {
		return 12
	}
	return 16
}

// NewBlock создаёт блочный шифр выбранного движка.
func NewBlock(e Engine, key []byte) (cipher.Block, error) {
	switch e {
	case EngineAES:
		return aes.NewCipher(key)
	case EngineTwofish:
		return twofish.NewCipher(key)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCipher, e)
	}
}

// NewAEAD оборачивает блочный шифр в выбранный режим.
func NewAEAD(m Mode, b cipher.Block) (cipher.AEAD, error) {
	switch m {
	case ModeGCM:
		return cipher.NewGCMWithNonceSize(b, m.NonceSize())
	case ModeCCM:
		return ccm.NewCCM(b, TagSize, m.NonceSize())
	case ModeEAX:
		return NewEAX(b, m.NonceSize(), TagSize)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCipher, m)
	}
}

// DeriveKey выводит 256-битный ключ из пароля (PBKDF2-HMAC-SHA1).
func DeriveKey(passphrase string, salt []byte, iterations int) []byte {
	return pbkdf2.Key([]byte(passphrase), salt, iterations, KeySize, sha1.New)
}
