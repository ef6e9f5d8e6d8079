package schema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"ConnKeeper/internal/model"
)

// ErrMissingAttribute — атрибут обязателен на этой версии, но его нет.
var ErrMissingAttribute = errors.New("attribute missing")

// Attrs — атрибуты одного элемента документа.
type Attrs interface {
	Lookup(name string) (string, bool)
}

// AttrError относит ошибку разбора к конкретному атрибуту.
type AttrError struct {
	Attr string
	Err  error
}

func (e *AttrError) Error() string { return fmt.Sprintf("attribute %s: %v", e.Attr, e.Err) }
func (e *AttrError) Unwrap() error { return e.Err }

// Assignment — результат разбора атрибута: значение поля или,
// при Overlay, флаг наследования этого поля.
type Assignment struct {
	Field   model.Field
	Value   any
	Overlay bool
}

type decodeFunc func(raw string, attrs Attrs, v Version) ([]Assignment, error)

// Rule — строка декларативной таблицы: атрибут, окно версий [Since, Until)
// и способ превращения текста в значения полей.
type Rule struct {
	Attr     string
	Since    Version
	Until    Version // 0 — без верхней границы
	Secret   bool
	Inherits bool
	Fields   []model.Field

	decode decodeFunc
	encode func(n *model.Node, v Version) string
}

// Active reports whether the attribute is part of the schema at v.
func (r Rule) Active(v Version) bool {
	return v >= r.Since && (r.Until == 0 || v < r.Until)
}

// Decode превращает текст атрибута в присваивания. Секретные значения
// приходят уже расшифрованными.
func (r Rule) Decode(raw string, attrs Attrs, v Version) ([]Assignment, error) {
	out, err := r.decode(raw, attrs, v)
	if err != nil {
		var ae *AttrError
		if errors.As(err, &ae) {
			return nil, err
		}
		return nil, &AttrError{Attr: r.Attr, Err: err}
	}
	return out, nil
}

// Encode возвращает текст атрибута для собственных значений узла n.
// Секреты возвращаются открытым текстом; шифрует их вызывающий.
func (r Rule) Encode(n *model.Node, v Version) string {
	if r.encode != nil {
		return r.encode(n, v)
	}
	f := r.Fields[0]
	if r.Inherits {
		return formatBool(n.Inheritance.Get(f))
	}
	return formatValue(n.Info.Get(f))
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func formatValue(x any) string {
	switch t := x.(type) {
	case string:
		return t
	case bool:
		return formatBool(t)
	case int:
		return strconv.Itoa(t)
	case fmt.Stringer:
		return t.String()
	}
	return fmt.Sprint(x)
}

func (r Rule) until(v Version) Rule {
	r.Until = v
	return r
}

func (r Rule) secret() Rule {
	r.Secret = true
	return r
}

// at ставит нижнюю границу всем правилам группы.
func at(v Version, rules ...Rule) []Rule {
	for i := range rules {
		rules[i].Since = v
	}
	return rules
}

// paired добавляет к каждому правилу флаг Inherit<Field>.
func paired(rules ...Rule) []Rule {
	out := make([]Rule, 0, 2*len(rules))
	for _, r := range rules {
		out = append(out, r, inherit(r.Fields[0]).until(r.Until))
	}
	return out
}

func set(f model.Field, v any) []Assignment {
	return []Assignment{{Field: f, Value: v}}
}

func text(attr string, f model.Field) Rule {
	return Rule{Attr: attr, Fields: []model.Field{f}, decode: func(raw string, _ Attrs, _ Version) ([]Assignment, error) {
		return set(f, raw), nil
	}}
}

func flag(attr string, f model.Field) Rule {
	return Rule{Attr: attr, Fields: []model.Field{f}, decode: func(raw string, _ Attrs, _ Version) ([]Assignment, error) {
		b, err := ParseBool(raw)
		if err != nil {
			return nil, err
		}
		return set(f, b), nil
	}}
}

func number(attr string, f model.Field) Rule {
	return Rule{Attr: attr, Fields: []model.Field{f}, decode: func(raw string, _ Attrs, _ Version) ([]Assignment, error) {
		n, err := ParseInt(raw)
		if err != nil {
			return nil, err
		}
		return set(f, n), nil
	}}
}

func enum[T any](attr string, f model.Field, parse func(string) (T, error)) Rule {
	return Rule{Attr: attr, Fields: []model.Field{f}, decode: func(raw string, _ Attrs, _ Version) ([]Assignment, error) {
		e, err := parse(raw)
		if err != nil {
			return nil, err
		}
		return set(f, e), nil
	}}
}

func inherit(f model.Field) Rule {
	return Rule{Attr: "Inherit" + f.String(), Fields: []model.Field{f}, Inherits: true,
		decode: func(raw string, _ Attrs, _ Version) ([]Assignment, error) {
			b, err := ParseBool(raw)
			if err != nil {
				return nil, err
			}
			return []Assignment{{Field: f, Value: b, Overlay: true}}, nil
		}}
}

// ParseBool принимает True/False в любом регистре.
func ParseBool(s string) (bool, error) {
	switch {
	case strings.EqualFold(strings.TrimSpace(s), "true"):
		return true, nil
	case strings.EqualFold(strings.TrimSpace(s), "false"):
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", s)
}

// ParseInt разбирает 32-битное целое.
func ParseInt(s string) (int, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return int(n), nil
}
