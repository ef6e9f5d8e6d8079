// Package connfile decodes XML connection documents of every schema revision
// into a tree of model nodes.
package connfile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ConnKeeper/internal/crypto"
	"ConnKeeper/internal/model"
	"ConnKeeper/internal/schema"
)

// Document — результат одного декодирования. После возврата не меняется.
type Document struct {
	Version            schema.Version
	Name               string
	Protected          string
	Engine             crypto.Engine
	Mode               crypto.Mode
	KdfIterations      int
	// LegacyCipher: до 2.6 шифр не объявлен и поля выше не заполняются,
	// секреты расшифровываются старым AES-CBC.
	LegacyCipher       bool
	FullFileEncryption bool
	PasswordProtected  bool
	Root               *model.Node
}

// Settings — глобальные настройки, которые приходят не из документа.
type Settings struct {
	// LegacyFullFileDecrypt: не-XML вход пробуется как целиком зашифрованный
	// старым провайдером файл с паролем по умолчанию.
	LegacyFullFileDecrypt bool
}

// Options настраивают Deserializer.
type Options struct {
	// Passphrase — пароль документа; пустой означает пароль по умолчанию.
	Passphrase string
	Requestor  PassphraseRequestor
	Settings   Settings
	Logger     *zap.SugaredLogger
}

// Deserializer не хранит состояния между вызовами.
type Deserializer struct {
	opts Options
	gate *schema.Gate
	log  *zap.SugaredLogger
}

func NewDeserializer(opts Options) *Deserializer {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Deserializer{opts: opts, gate: schema.NewGate(), log: log}
}

// Deserialize декодирует документ целиком или возвращает ошибку; частичных
// деревьев не бывает.
func (d *Deserializer) Deserialize(ctx context.Context, data []byte) (*Document, error) {
	doc, err := d.deserialize(ctx, data)
	if err != nil {
		d.log.Errorw("connections document decode failed", "error", err)
		return nil, err
	}
	conns, containers := doc.Root.Count()
	d.log.Infow("connections document decoded",
		"version", doc.Version.String(),
		"name", doc.Name,
		"connections", conns,
		"containers", containers,
		"password_protected", doc.PasswordProtected,
		"full_file_encryption", doc.FullFileEncryption,
	)
	return doc, nil
}

func (d *Deserializer) deserialize(ctx context.Context, data []byte) (*Document, error) {
	text := strings.TrimPrefix(string(data), "\ufeff")
	if strings.TrimSpace(text) == "" {
		return nil, malformed(0, "", "", errors.New("empty document"))
	}
	if !looksLikeXML(text) && d.opts.Settings.LegacyFullFileDecrypt {
		plain, err := crypto.LegacyProvider{}.Decrypt(strings.TrimSpace(text), crypto.DefaultPassphrase)
		if err != nil {
			return nil, &DecodeError{Kind: ErrDecryptionFailed, Cause: fmt.Errorf("legacy full-file decrypt: %w", err)}
		}
		text = plain
	}

	root, err := parseElement(text)
	if err != nil {
		return nil, malformed(0, "", "", err)
	}

	v, err := d.version(root)
	if err != nil {
		return nil, err
	}

	doc := &Document{Version: v}

	name, ok := root.Lookup(schema.AttrName)
	if !ok {
		return nil, malformed(v, "", schema.AttrName, schema.ErrMissingAttribute)
	}
	doc.Name = strings.TrimSpace(name)

	provider, err := d.provider(root, doc)
	if err != nil {
		return nil, err
	}
	dec := NewDecryptor(provider, d.opts.Passphrase, d.opts.Requestor, d.log)

	if d.gate.RootPresent(schema.AttrProtected, v) {
		token, ok := root.Lookup(schema.AttrProtected)
		if !ok {
			return nil, malformed(v, "", schema.AttrProtected, schema.ErrMissingAttribute)
		}
		doc.Protected = token
		if err := dec.Authenticate(ctx, token); err != nil {
			return nil, &DecodeError{Kind: ErrAuthenticationFailed, Attribute: schema.AttrProtected, Version: v, Cause: err}
		}
		doc.PasswordProtected = dec.PasswordProtected
	}

	if d.gate.RootPresent(schema.AttrFullFileEncryption, v) {
		raw, ok := root.Lookup(schema.AttrFullFileEncryption)
		if !ok {
			return nil, malformed(v, "", schema.AttrFullFileEncryption, schema.ErrMissingAttribute)
		}
		if doc.FullFileEncryption, err = schema.ParseBool(raw); err != nil {
			return nil, malformed(v, "", schema.AttrFullFileEncryption, err)
		}
	}
	if doc.FullFileEncryption {
		body, err := dec.DecryptBody(root.Text)
		if err != nil {
			return nil, &DecodeError{Kind: ErrDecryptionFailed, Version: v, Cause: err}
		}
		children, err := parseFragment(body)
		if err != nil {
			return nil, malformed(v, "", "", fmt.Errorf("decrypted body: %w", err))
		}
		root.Children = children
	}

	doc.Root = model.NewNode(uuid.NewString(), model.KindRoot)
	doc.Root.Info.Name = doc.Name
	doc.Root.Expanded = true
	if err := newBuilder(d.gate, dec, v, d.log).build(root, doc.Root); err != nil {
		return nil, err
	}
	return doc, nil
}

func (d *Deserializer) version(root *element) (schema.Version, error) {
	raw, ok := root.Lookup(schema.AttrConfVersion)
	if !ok {
		d.log.Warnw("document declares no schema version, reading as 0.0")
		return 0, nil
	}
	v, err := schema.ParseVersion(raw)
	if err != nil {
		return 0, malformed(0, "", schema.AttrConfVersion, err)
	}
	if !v.Supported() {
		return v, &DecodeError{
			Kind:    ErrUnsupportedVersion,
			Version: v,
			Cause:   fmt.Errorf("highest supported version is %s", schema.MaxSupported),
		}
	}
	return v, nil
}

// provider выбирает шифр: с 2.6 он объявлен на корне, раньше — старый AES-CBC.
func (d *Deserializer) provider(root *element, doc *Document) (crypto.Provider, error) {
	v := doc.Version
	if !d.gate.RootPresent(schema.AttrEncryptionEngine, v) {
		doc.LegacyCipher = true
		return crypto.LegacyProvider{}, nil
	}
	lookup := func(attr string) (string, error) {
		s, ok := root.Lookup(attr)
		if !ok {
			return "", malformed(v, "", attr, schema.ErrMissingAttribute)
		}
		return s, nil
	}

	raw, err := lookup(schema.AttrEncryptionEngine)
	if err != nil {
		return nil, err
	}
	if doc.Engine, err = crypto.ParseEngine(raw); err != nil {
		return nil, malformed(v, "", schema.AttrEncryptionEngine, err)
	}
	if raw, err = lookup(schema.AttrBlockCipherMode); err != nil {
		return nil, err
	}
	if doc.Mode, err = crypto.ParseMode(raw); err != nil {
		return nil, malformed(v, "", schema.AttrBlockCipherMode, err)
	}
	if raw, err = lookup(schema.AttrKdfIterations); err != nil {
		return nil, err
	}
	if doc.KdfIterations, err = schema.ParseInt(raw); err != nil {
		return nil, malformed(v, "", schema.AttrKdfIterations, err)
	}

	p, err := crypto.NewAeadProvider(doc.Engine, doc.Mode, doc.KdfIterations)
	if err != nil {
		return nil, malformed(v, "", schema.AttrKdfIterations, err)
	}
	return p, nil
}
