package connfile

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"ConnKeeper/internal/crypto"
)

// Содержимое токена Protected после расшифровки.
const (
	TokenNotProtected = "ThisIsNotProtected"
	TokenProtected    = "ThisIsProtected"
)

// PassphraseRequestor спрашивает пароль у пользователя. ok=false — отказ.
type PassphraseRequestor func(ctx context.Context) (passphrase string, ok bool, err error)

// Decryptor живёт один вызов декодирования: знает провайдер документа
// и пароль, прошедший проверку подлинности.
type Decryptor struct {
	provider   crypto.Provider
	passphrase string
	explicit   bool
	requestor  PassphraseRequestor
	log        *zap.SugaredLogger

	// PasswordProtected — токен расшифрован как файл с собственным паролем.
	PasswordProtected bool
}

// NewDecryptor: пустой passphrase означает пароль по умолчанию, и тогда
// при неудаче можно один раз спросить requestor.
func NewDecryptor(p crypto.Provider, passphrase string, requestor PassphraseRequestor, log *zap.SugaredLogger) *Decryptor {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	d := &Decryptor{provider: p, passphrase: passphrase, explicit: passphrase != "", requestor: requestor, log: log}
	if !d.explicit {
		d.passphrase = crypto.DefaultPassphrase
	}
	return d
}

func (d *Decryptor) tryToken(token, passphrase string) bool {
	plain, err := d.provider.Decrypt(token, passphrase)
	if err != nil {
		return false
	}
	switch plain {
	case TokenNotProtected, TokenProtected:
		d.passphrase = passphrase
		d.PasswordProtected = plain == TokenProtected
		return true
	}
	return false
}

// Authenticate проверяет токен Protected. Явно заданный пароль — единственный
// кандидат; иначе пробуется пароль по умолчанию, затем один запрос пользователю.
func (d *Decryptor) Authenticate(ctx context.Context, token string) error {
	if d.tryToken(token, d.passphrase) {
		return nil
	}
	if d.explicit || d.requestor == nil {
		return ErrAuthenticationFailed
	}

	d.log.Infow("document is protected by a custom passphrase, asking user")
	p, ok, err := d.requestor(ctx)
	if err != nil {
		return fmt.Errorf("%w: passphrase request: %w", ErrAuthenticationFailed, err)
	}
	if !ok {
		return fmt.Errorf("%w: passphrase request cancelled", ErrAuthenticationFailed)
	}
	if !d.tryToken(token, p) {
		return ErrAuthenticationFailed
	}
	return nil
}

// DecryptField расшифровывает значение секретного атрибута; пустое остаётся пустым.
func (d *Decryptor) DecryptField(cipherText string) (string, error) {
	if cipherText == "" {
		return "", nil
	}
	plain, err := d.provider.Decrypt(cipherText, d.passphrase)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
	}
	return plain, nil
}

// DecryptBody расшифровывает тело документа при полном шифровании.
func (d *Decryptor) DecryptBody(cipherText string) (string, error) {
	cipherText = strings.TrimSpace(cipherText)
	if cipherText == "" {
		return "", nil
	}
	return d.DecryptField(cipherText)
}
