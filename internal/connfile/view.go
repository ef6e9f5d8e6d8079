package connfile

import (
	"ConnKeeper/internal/crypto"
	"ConnKeeper/internal/model"
)

// DocumentView — документ для вывода в JSON/YAML.
type DocumentView struct {
	Version            string         `json:"version" yaml:"version"`
	Name               string         `json:"name" yaml:"name"`
	Engine             string         `json:"engine" yaml:"engine"`
	Mode               string         `json:"mode" yaml:"mode"`
	KdfIterations      int            `json:"kdf_iterations" yaml:"kdf_iterations"`
	FullFileEncryption bool           `json:"full_file_encryption" yaml:"full_file_encryption"`
	PasswordProtected  bool           `json:"password_protected" yaml:"password_protected"`
	Root               model.NodeView `json:"root" yaml:"root"`
}

// View returns the document DTO; secrets are included only with reveal.
func (d *Document) View(reveal bool) DocumentView {
	engine, mode := d.Cipher()
	return DocumentView{
		Version:            d.Version.String(),
		Name:               d.Name,
		Engine:             engine,
		Mode:               mode,
		KdfIterations:      d.KdfIterations,
		FullFileEncryption: d.FullFileEncryption,
		PasswordProtected:  d.PasswordProtected,
		Root:               d.Root.View(reveal),
	}
}

// Cipher returns the engine and mode names the document's secrets use.
func (d *Document) Cipher() (engine, mode string) {
	if d.LegacyCipher {
		return crypto.EngineAES.String(), crypto.LegacyModeName
	}
	return d.Engine.String(), d.Mode.String()
}

// Connections returns every connection node in document order.
func (d *Document) Connections() []*model.Node {
	var out []*model.Node
	_ = d.Root.Walk(func(n *model.Node) error {
		if n.Kind == model.KindConnection {
			out = append(out, n)
		}
		return nil
	})
	return out
}
