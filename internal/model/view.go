package model

// NodeView — DTO узла для вывода в CLI и API: действующие значения полей,
// список унаследованных полей, секреты только по явному запросу.
type NodeView struct {
	ID        string            `json:"id" yaml:"id"`
	Kind      Kind              `json:"kind" yaml:"kind"`
	Path      string            `json:"path,omitempty" yaml:"path,omitempty"`
	Expanded  bool              `json:"expanded,omitempty" yaml:"expanded,omitempty"`
	Info      ConnectionInfo    `json:"info" yaml:"info"`
	Inherited Inheritance       `json:"inherited" yaml:"inherited"`
	Secrets   map[string]string `json:"secrets,omitempty" yaml:"secrets,omitempty"`
	Children  []NodeView        `json:"children,omitempty" yaml:"children,omitempty"`
}

// View строит DTO поддерева. При reveal=false секреты не попадают в вывод,
// а при reveal=true кладутся в Secrets (в Info они скрыты тегами).
func (n *Node) View(reveal bool) NodeView {
	v := NodeView{
		ID:        n.ID,
		Kind:      n.Kind,
		Path:      n.Path(),
		Expanded:  n.Expanded,
		Info:      *n.EffectiveInfo(),
		Inherited: n.Inheritance,
	}
	if reveal {
		for _, f := range SecretFields() {
			if s := v.Info.Get(f).(string); s != "" {
				if v.Secrets == nil {
					v.Secrets = map[string]string{}
				}
				v.Secrets[f.String()] = s
			}
		}
	} else {
		v.Info.Password = ""
		v.Info.RDGatewayPassword = ""
		v.Info.VNCProxyPassword = ""
	}
	for _, c := range n.Children {
		v.Children = append(v.Children, c.View(reveal))
	}
	return v
}
