package connfile

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ConnKeeper/internal/model"
	"ConnKeeper/internal/schema"
)

// builder обходит элементы документа и собирает дерево узлов.
type builder struct {
	gate *schema.Gate
	dec  *Decryptor
	v    schema.Version
	log  *zap.SugaredLogger
	ids  map[string]struct{}
}

func newBuilder(gate *schema.Gate, dec *Decryptor, v schema.Version, log *zap.SugaredLogger) *builder {
	return &builder{gate: gate, dec: dec, v: v, log: log, ids: make(map[string]struct{})}
}

// build декодирует дочерние элементы el и прикрепляет их к parent.
// Первая же ошибка прерывает сборку.
func (b *builder) build(el *element, parent *model.Node) error {
	for i := range el.Children {
		child := &el.Children[i]
		kind, err := b.classify(child)
		if err != nil {
			return err
		}
		node, err := b.decodeNode(child, kind)
		if err != nil {
			return err
		}
		if err := parent.AddChild(node); err != nil {
			return malformed(b.v, node.Name(), "", err)
		}
		if kind == model.KindContainer {
			if err := b.build(child, node); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *builder) classify(el *element) (model.Kind, error) {
	t, ok := el.Lookup(schema.AttrType)
	if !ok {
		return model.KindConnection, nil
	}
	switch {
	case strings.EqualFold(strings.TrimSpace(t), "Connection"):
		return model.KindConnection, nil
	case strings.EqualFold(strings.TrimSpace(t), "Container"):
		return model.KindContainer, nil
	}
	name, _ := el.Lookup(schema.AttrName)
	return 0, malformed(b.v, name, schema.AttrType, errors.New("unknown node type "+t))
}

func (b *builder) nodeID(el *element) string {
	id, _ := el.Lookup(schema.AttrID)
	id = strings.TrimSpace(id)
	if id == "" {
		id = uuid.NewString()
	} else if _, dup := b.ids[id]; dup {
		fresh := uuid.NewString()
		b.log.Warnw("duplicate node id, assigning a fresh one", "id", id, "new_id", fresh)
		id = fresh
	}
	b.ids[id] = struct{}{}
	return id
}

func (b *builder) decodeNode(el *element, kind model.Kind) (*model.Node, error) {
	node := model.NewNode(b.nodeID(el), kind)
	name, _ := el.Lookup(schema.AttrName)

	if kind == model.KindContainer && !b.gate.ContainerRecord(b.v) {
		// до 0.9 у папки нет записи, только необязательное имя
		if name != "" {
			node.Info.Name = name
		}
	} else if err := b.decodeFields(el, node, name); err != nil {
		return nil, err
	}

	if kind == model.KindContainer && b.gate.Present(schema.AttrExpanded, b.v) {
		raw, ok := el.Lookup(schema.AttrExpanded)
		if !ok {
			return nil, malformed(b.v, name, schema.AttrExpanded, schema.ErrMissingAttribute)
		}
		expanded, err := schema.ParseBool(raw)
		if err != nil {
			return nil, malformed(b.v, name, schema.AttrExpanded, err)
		}
		node.Expanded = expanded
	}
	return node, nil
}

// decodeFields — общий цикл по правилам, активным на версии документа.
func (b *builder) decodeFields(el *element, node *model.Node, name string) error {
	for _, r := range b.gate.Rules(b.v) {
		raw, ok := el.Lookup(r.Attr)
		if !ok {
			return malformed(b.v, name, r.Attr, schema.ErrMissingAttribute)
		}
		if r.Secret {
			plain, err := b.dec.DecryptField(raw)
			if err != nil {
				return &DecodeError{Kind: ErrDecryptionFailed, Node: name, Attribute: r.Attr, Version: b.v, Cause: err}
			}
			raw = plain
		}
		assignments, err := r.Decode(raw, el, b.v)
		if err != nil {
			attr := r.Attr
			var ae *schema.AttrError
			if errors.As(err, &ae) {
				attr, err = ae.Attr, ae.Err
			}
			return malformed(b.v, name, attr, err)
		}
		for _, a := range assignments {
			if a.Overlay {
				on, _ := a.Value.(bool)
				node.Inheritance.Set(a.Field, on)
				continue
			}
			if err := node.Info.Set(a.Field, a.Value); err != nil {
				return malformed(b.v, name, r.Attr, err)
			}
		}
	}
	return nil
}
