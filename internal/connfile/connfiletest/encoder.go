// Package connfiletest пишет документы подключений любой версии схемы
// из дерева узлов. Нужен тестам декодера и командам, которые готовят фикстуры.
package connfiletest

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"ConnKeeper/internal/connfile"
	"ConnKeeper/internal/crypto"
	"ConnKeeper/internal/model"
	"ConnKeeper/internal/schema"
)

// Options управляют видом документа.
type Options struct {
	Version schema.Version
	// Name — имя корня; пустое заменяется на "Connections".
	Name string
	// Passphrase — собственный пароль файла; пустой означает пароль по умолчанию.
	Passphrase         string
	Engine             crypto.Engine
	Mode               crypto.Mode
	KdfIterations      int
	FullFileEncryption bool
	// OmitVersion не пишет ConfVersion.
	OmitVersion bool
	// Drop — атрибуты, которые убираются со всех узлов.
	Drop []string
	// Override подменяет сырой текст атрибутов узлов (после шифрования).
	Override map[string]string
	// RootDrop и RootOverride — то же для корня.
	RootDrop     []string
	RootOverride map[string]string
}

type encoder struct {
	opts       Options
	gate       *schema.Gate
	provider   crypto.Provider
	passphrase string
	drop       map[string]bool
}

// Encode сериализует дочерние узлы root в документ версии opts.Version.
func Encode(root *model.Node, opts Options) (string, error) {
	if opts.Name == "" {
		opts.Name = "Connections"
	}
	if opts.KdfIterations == 0 {
		opts.KdfIterations = crypto.DefaultKdfIterations
	}
	e := &encoder{
		opts:       opts,
		gate:       schema.NewGate(),
		passphrase: opts.Passphrase,
		drop:       make(map[string]bool, len(opts.Drop)),
	}
	if e.passphrase == "" {
		e.passphrase = crypto.DefaultPassphrase
	}
	for _, a := range opts.Drop {
		e.drop[a] = true
	}
	if opts.Version >= schema.CipherDeclaredSince {
		p, err := crypto.NewAeadProvider(opts.Engine, opts.Mode, opts.KdfIterations)
		if err != nil {
			return "", err
		}
		e.provider = p
	} else {
		e.provider = crypto.LegacyProvider{}
	}

	rootAttrs, err := e.rootAttrs()
	if err != nil {
		return "", err
	}

	var body bytes.Buffer
	enc := xml.NewEncoder(&body)
	for _, child := range root.Children {
		if err := e.writeNode(enc, child); err != nil {
			return "", err
		}
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}

	var out bytes.Buffer
	out.WriteString(xml.Header)
	enc = xml.NewEncoder(&out)
	start := xml.StartElement{Name: xml.Name{Local: "Connections"}, Attr: rootAttrs}
	if err := enc.EncodeToken(start); err != nil {
		return "", err
	}
	if e.opts.FullFileEncryption {
		ct, err := e.provider.Encrypt(body.String(), e.passphrase)
		if err != nil {
			return "", err
		}
		if err := enc.EncodeToken(xml.CharData(ct)); err != nil {
			return "", err
		}
	} else {
		// тело уже закодировано, вставляем как есть
		if err := enc.Flush(); err != nil {
			return "", err
		}
		out.Write(body.Bytes())
	}
	if err := enc.EncodeToken(start.End()); err != nil {
		return "", err
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}
	return out.String(), nil
}

func (e *encoder) rootAttrs() ([]xml.Attr, error) {
	v := e.opts.Version
	var attrs []xml.Attr
	for _, name := range e.gate.RootAttributes(v) {
		var val string
		switch name {
		case schema.AttrName:
			val = e.opts.Name
		case schema.AttrProtected:
			token := connfile.TokenNotProtected
			if e.passphrase != crypto.DefaultPassphrase {
				token = connfile.TokenProtected
			}
			ct, err := e.provider.Encrypt(token, e.passphrase)
			if err != nil {
				return nil, err
			}
			val = ct
		case schema.AttrEncryptionEngine:
			val = e.opts.Engine.String()
		case schema.AttrBlockCipherMode:
			val = e.opts.Mode.String()
		case schema.AttrKdfIterations:
			val = strconv.Itoa(e.opts.KdfIterations)
		case schema.AttrFullFileEncryption:
			val = formatBool(e.opts.FullFileEncryption)
		}
		attrs = append(attrs, xml.Attr{Name: xml.Name{Local: name}, Value: val})
	}
	if !e.opts.OmitVersion {
		attrs = append(attrs, xml.Attr{Name: xml.Name{Local: schema.AttrConfVersion}, Value: v.String()})
	}
	drop := make(map[string]bool, len(e.opts.RootDrop))
	for _, a := range e.opts.RootDrop {
		drop[a] = true
	}
	return applyOverrides(attrs, e.opts.RootOverride, drop), nil
}

func (e *encoder) writeNode(enc *xml.Encoder, n *model.Node) error {
	attrs, err := e.nodeAttrs(n)
	if err != nil {
		return err
	}
	start := xml.StartElement{Name: xml.Name{Local: "Node"}, Attr: attrs}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if n.IsContainer() {
		for _, child := range n.Children {
			if err := e.writeNode(enc, child); err != nil {
				return err
			}
		}
	}
	return enc.EncodeToken(start.End())
}

func (e *encoder) nodeAttrs(n *model.Node) ([]xml.Attr, error) {
	v := e.opts.Version
	kind := "Connection"
	if n.IsContainer() {
		kind = "Container"
	}
	attrs := []xml.Attr{
		{Name: xml.Name{Local: schema.AttrID}, Value: n.ID},
		{Name: xml.Name{Local: schema.AttrType}, Value: kind},
	}
	add := func(name, val string) {
		attrs = append(attrs, xml.Attr{Name: xml.Name{Local: name}, Value: val})
	}

	if n.IsContainer() && !e.gate.ContainerRecord(v) {
		add(schema.AttrName, n.Name())
	} else {
		for _, r := range e.gate.Rules(v) {
			val := r.Encode(n, v)
			if r.Secret && val != "" {
				ct, err := e.provider.Encrypt(val, e.passphrase)
				if err != nil {
					return nil, fmt.Errorf("encrypt %s: %w", r.Attr, err)
				}
				val = ct
			}
			add(r.Attr, val)
		}
		if len(schema.Companions(v)) > 0 {
			vnc, rdp := model.DefaultVNCPort, model.DefaultRDPPort
			if n.Info.Protocol == model.ProtocolVNC {
				vnc = n.Info.Port
			} else {
				rdp = n.Info.Port
			}
			add(schema.AttrVNCPort, strconv.Itoa(vnc))
			add(schema.AttrRDPPort, strconv.Itoa(rdp))
		}
	}
	if n.IsContainer() && e.gate.Present(schema.AttrExpanded, v) {
		add(schema.AttrExpanded, formatBool(n.Expanded))
	}
	return applyOverrides(attrs, e.opts.Override, e.drop), nil
}

// applyOverrides убирает атрибуты из drop и подменяет значения из override;
// override для отсутствующего атрибута добавляет его.
func applyOverrides(attrs []xml.Attr, override map[string]string, drop map[string]bool) []xml.Attr {
	out := attrs[:0]
	seen := make(map[string]bool, len(override))
	for _, a := range attrs {
		if drop[a.Name.Local] {
			continue
		}
		if val, ok := override[a.Name.Local]; ok {
			a.Value = val
			seen[a.Name.Local] = true
		}
		out = append(out, a)
	}
	for name, val := range override {
		if !seen[name] && !drop[name] {
			out = append(out, xml.Attr{Name: xml.Name{Local: name}, Value: val})
		}
	}
	return out
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
