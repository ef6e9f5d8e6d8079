package model

import "encoding/json"

// Inheritance — по одному флагу на наследуемое поле: true значит
// «брать действующее значение родителя».
type Inheritance struct {
	bits [fieldCount]bool
}

func (i *Inheritance) Get(f Field) bool {
	return f.Inheritable() && i.bits[f]
}

// Set меняет флаг; для ненаследуемых полей ничего не делает.
func (i *Inheritance) Set(f Field, on bool) {
	if f.Inheritable() {
		i.bits[f] = on
	}
}

// EnableAll включает наследование всех полей (старый флаг Inherit).
func (i *Inheritance) EnableAll() {
	for _, f := range Fields() {
		i.Set(f, true)
	}
}

// Enabled returns inherited fields in declaration order.
func (i *Inheritance) Enabled() []Field {
	var out []Field
	for _, f := range Fields() {
		if i.Get(f) {
			out = append(out, f)
		}
	}
	return out
}

func (i Inheritance) MarshalJSON() ([]byte, error) {
	names := make([]string, 0)
	for _, f := range i.Enabled() {
		names = append(names, f.String())
	}
	return json.Marshal(names)
}

func (i Inheritance) MarshalYAML() (any, error) {
	names := make([]string, 0)
	for _, f := range i.Enabled() {
		names = append(names, f.String())
	}
	return names, nil
}

func (i *Inheritance) UnmarshalJSON(b []byte) error {
	var names []string
	if err := json.Unmarshal(b, &names); err != nil {
		return err
	}
	*i = Inheritance{}
	for _, name := range names {
		f, err := ParseField(name)
		if err != nil {
			return err
		}
		i.Set(f, true)
	}
	return nil
}
