package crypto

import (
	"crypto/cipher"
	"crypto/subtle"
	"errors"
)

var errOpen = errors.New("crypto: message authentication failed")

// eax implements the EAX mode of Bellare, Rogaway and Wagner over a 128-bit
// block cipher: CTR encryption authenticated with OMAC (CMAC).
type eax struct {
	b         cipher.Block
	nonceSize int
	tagSize   int
	k1, k2    []byte
}

// NewEAX returns EAX with the given nonce and tag sizes.
func NewEAX(b cipher.Block, nonceSize, tagSize int) (cipher.AEAD, error) {
	if b.BlockSize() != 16 {
		return nil, errors.New("crypto: EAX requires a 128-bit block cipher")
	}
	if nonceSize <= 0 {
		return nil, errors.New("crypto: invalid EAX nonce size")
	}
	if tagSize <= 0 || tagSize > 16 {
		return nil, errors.New("crypto: invalid EAX tag size")
	}
	l := make([]byte, 16)
	b.Encrypt(l, l)
	k1 := double(l)
	return &eax{b: b, nonceSize: nonceSize, tagSize: tagSize, k1: k1, k2: double(k1)}, nil
}

// double multiplies by x in GF(2^128).
func double(in []byte) []byte {
	out := make([]byte, 16)
	var carry byte
	for i := 15; i >= 0; i-- {
		out[i] = in[i]<<1 | carry
		carry = in[i] >> 7
	}
	if carry != 0 {
		out[15] ^= 0x87
	}
	return out
}

// omac computes CMAC([t]_16 || data).
func (e *eax) omac(t byte, data []byte) []byte {
	msg := make([]byte, 16, 16+len(data)+16)
	msg[15] = t
	msg = append(msg, data...)

	last := len(msg) - 16
	if len(msg)%16 == 0 {
		subtle.XORBytes(msg[last:], msg[last:], e.k1)
	} else {
		last = len(msg) - len(msg)%16
		msg = append(msg, 0x80)
		for len(msg)%16 != 0 {
			msg = append(msg, 0)
		}
		subtle.XORBytes(msg[last:], msg[last:], e.k2)
	}

	x := make([]byte, 16)
	for i := 0; i < len(msg); i += 16 {
		subtle.XORBytes(x, x, msg[i:i+16])
		e.b.Encrypt(x, x)
	}
	return x
}

func (e *eax) NonceSize() int { return e.nonceSize }
func (e *eax) Overhead() int  { return e.tagSize }

func (e *eax) tag(n, h, c []byte) []byte {
	t := e.omac(2, c)
	subtle.XORBytes(t, t, n)
	subtle.XORBytes(t, t, h)
	return t[:e.tagSize]
}

func (e *eax) Seal(dst, nonce, plaintext, additionalData []byte) []byte {
	if len(nonce) != e.nonceSize {
		panic("crypto: incorrect nonce length given to EAX")
	}
	n := e.omac(0, nonce)
	h := e.omac(1, additionalData)

	out := make([]byte, len(plaintext), len(plaintext)+e.tagSize)
	cipher.NewCTR(e.b, n).XORKeyStream(out, plaintext)
	out = append(out, e.tag(n, h, out)...)
	return append(dst, out...)
}

func (e *eax) Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error) {
	if len(nonce) != e.nonceSize {
		return nil, errors.New("crypto: incorrect nonce length given to EAX")
	}
	if len(ciphertext) < e.tagSize {
		return nil, errOpen
	}
	body, sealed := ciphertext[:len(ciphertext)-e.tagSize], ciphertext[len(ciphertext)-e.tagSize:]
	n := e.omac(0, nonce)
	h := e.omac(1, additionalData)
	if subtle.ConstantTimeCompare(e.tag(n, h, body), sealed) != 1 {
		return nil, errOpen
	}
	plain := make([]byte, len(body))
	cipher.NewCTR(e.b, n).XORKeyStream(plain, body)
	return append(dst, plain...), nil
}
