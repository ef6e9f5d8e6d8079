package model

import (
	"errors"
	"strings"
)

// Kind — тип узла дерева.
type Kind int

const (
	KindRoot Kind = iota
	KindConnection
	KindContainer
)

var kinds = enumTable[Kind]{kind: "Kind", values: []enumValue[Kind]{
	{KindRoot, "Root"}, {KindConnection, "Connection"}, {KindContainer, "Container"},
}}

func ParseKind(s string) (Kind, error) { return kinds.parse(s) }
func (k Kind) String() string { return kinds.name(k) }
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }
func (k *Kind) UnmarshalText(b []byte) error { return kinds.unmarshal(k, b) }

var (
	ErrNotContainer = errors.New("node cannot hold children")
	ErrHasParent    = errors.New("node already has a parent")
	ErrCycle        = errors.New("node would become its own ancestor")
)

// Node — узел дерева подключений: корень, подключение или папка.
type Node struct {
	ID          string
	Kind        Kind
	Info        *ConnectionInfo
	Inheritance Inheritance
	Expanded    bool
	Parent      *Node
	Children    []*Node
}

// NewNode создаёт узел с полями по умолчанию и выключенным наследованием.
func NewNode(id string, kind Kind) *Node {
	return &Node{ID: id, Kind: kind, Info: NewConnectionInfo()}
}

func (n *Node) Name() string { return n.Info.Name }

func (n *Node) IsContainer() bool { return n.Kind == KindRoot || n.Kind == KindContainer }

// AddChild прикрепляет c последним ребёнком n.
func (n *Node) AddChild(c *Node) error {
	if !n.IsContainer() {
		return ErrNotContainer
	}
	if c.Parent != nil {
		return ErrHasParent
	}
	for p := n; p != nil; p = p.Parent {
		if p == c {
			return ErrCycle
		}
	}
	c.Parent = n
	n.Children = append(n.Children, c)
	return nil
}

// Effective returns the node's own value, or the parent's effective value
// while the inheritance flag is set. Resolution happens on every call, so
// later edits of an ancestor are visible.
func (n *Node) Effective(f Field) any {
	cur := n
	for cur.Inheritance.Get(f) && cur.Parent != nil {
		cur = cur.Parent
	}
	return cur.Info.Get(f)
}

func (n *Node) EffectiveString(f Field) string {
	s, _ := n.Effective(f).(string)
	return s
}

func (n *Node) EffectiveBool(f Field) bool {
	b, _ := n.Effective(f).(bool)
	return b
}

func (n *Node) EffectiveInt(f Field) int {
	i, _ := n.Effective(f).(int)
	return i
}

// EffectiveInfo — снимок записи с уже применённым наследованием.
func (n *Node) EffectiveInfo() *ConnectionInfo {
	out := n.Info.Clone()
	for _, f := range n.Inheritance.Enabled() {
		_ = out.Set(f, n.Effective(f))
	}
	return out
}

// Walk обходит поддерево в глубину, родитель раньше детей.
func (n *Node) Walk(fn func(*Node) error) error {
	if err := fn(n); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := c.Walk(fn); err != nil {
			return err
		}
	}
	return nil
}

// Path — имена от корня (не включая его) через "/".
func (n *Node) Path() string {
	var parts []string
	for cur := n; cur != nil && cur.Kind != KindRoot; cur = cur.Parent {
		parts = append(parts, cur.Info.Name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}

// Find ищет узел по пути из имён или по ID.
func (n *Node) Find(pathOrID string) *Node {
	want := strings.Trim(pathOrID, "/")
	var found *Node
	_ = n.Walk(func(c *Node) error {
		if c.ID == pathOrID || (c.Kind != KindRoot && c.Path() == want) {
			found = c
			return errStop
		}
		return nil
	})
	return found
}

var errStop = errors.New("stop")

// Count returns connection and container counts below n.
func (n *Node) Count() (connections, containers int) {
	_ = n.Walk(func(c *Node) error {
		switch c.Kind {
		case KindConnection:
			connections++
		case KindContainer:
			containers++
		}
		return nil
	})
	return connections, containers
}
