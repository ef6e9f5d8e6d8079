package connfile

import (
	"encoding/xml"
	"strings"
)

// element — элемент документа в сыром виде: атрибуты, дочерние элементы, текст.
type element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []element  `xml:",any"`
	Text     string     `xml:",chardata"`
}

// Lookup ищет атрибут по локальному имени с учётом регистра.
func (e *element) Lookup(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func parseElement(data string) (*element, error) {
	var el element
	if err := xml.Unmarshal([]byte(data), &el); err != nil {
		return nil, err
	}
	return &el, nil
}

// parseFragment разбирает последовательность элементов без общего корня
// (расшифрованное тело документа).
func parseFragment(body string) ([]element, error) {
	el, err := parseElement("<fragment>" + body + "</fragment>")
	if err != nil {
		return nil, err
	}
	return el.Children, nil
}

func looksLikeXML(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(strings.TrimPrefix(s, "\ufeff")), "<")
}
