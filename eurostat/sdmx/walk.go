// Package sdmx extracts dimension and codelist metadata from SDMX 2.1 structure documents.
//
// Extraction is lenient: documents are read as a token stream, only the recognized
// shapes are picked up, unknown tags and attributes are ignored, and a malformed tail
// leaves everything gathered before it intact.
package sdmx

import (
	"encoding/xml"
	"io"
	"strings"

	"golang.org/x/text/encoding/htmlindex"

	"github.com/teranos/qntx-eurostat/errors"
)

// Element is a start tag seen by Walk, with namespace prefixes stripped.
type Element struct {
	Name  string
	Attrs map[string]string
	// Path lists the enclosing element names, outermost first.
	Path []string
}

// Attr returns the attribute value by local name ("lang" for xml:lang).
func (e *Element) Attr(name string) string {
	return e.Attrs[name]
}

// Parent returns the name of the enclosing element, or "" at the root.
func (e *Element) Parent() string {
	if len(e.Path) == 0 {
		return ""
	}
	return e.Path[len(e.Path)-1]
}

// Within reports whether name is an ancestor of e.
func (e *Element) Within(name string) bool {
	for _, p := range e.Path {
		if p == name {
			return true
		}
	}
	return false
}

// Visitor receives elements in document order. End carries the element's own
// character data, trimmed. Either callback may be nil.
type Visitor struct {
	Start func(el *Element)
	End   func(el *Element, text string)
}

type frame struct {
	el   *Element
	text strings.Builder
}

// Walk streams r and calls v for every element. The decoder runs in non-strict mode
// with HTML entities, so unbalanced or sloppy markup is tolerated.
// Elements still open when the input ends or breaks are closed in order before a
// syntax error is returned.
func Walk(r io.Reader, v Visitor) error {
	dec := xml.NewDecoder(r)
	dec.Strict = false
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = charsetReader

	var stack []*frame
	path := func() []string {
		names := make([]string, len(stack))
		for i, f := range stack {
			names[i] = f.el.Name
		}
		return names
	}
	closeTop := func() {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if v.End != nil {
			v.End(f.el, strings.TrimSpace(f.text.String()))
		}
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			for len(stack) > 0 {
				closeTop()
			}
			return nil
		}
		if err != nil {
			for len(stack) > 0 {
				closeTop()
			}
			return errors.Wrap(err, "SDMX document")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{
				Name:  t.Name.Local,
				Attrs: make(map[string]string, len(t.Attr)),
				Path:  path(),
			}
			for _, a := range t.Attr {
				el.Attrs[a.Name.Local] = a.Value
			}
			stack = append(stack, &frame{el: el})
			if v.Start != nil {
				v.Start(el)
			}
		case xml.EndElement:
			if len(stack) > 0 {
				closeTop()
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}
}

// IsSyntaxError reports whether err came from malformed markup rather than from reading.
func IsSyntaxError(err error) bool {
	var syntax *xml.SyntaxError
	return errors.As(err, &syntax)
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, errors.Wrapf(err, "unsupported charset %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}

// labels keeps the English name and the first name in any language.
type labels struct {
	en, any string
}

func (l *labels) add(lang, text string) {
	if text == "" {
		return
	}
	if l.any == "" {
		l.any = text
	}
	if l.en == "" && strings.EqualFold(lang, "en") {
		l.en = text
	}
}

func (l *labels) best(fallback string) string {
	switch {
	case l == nil:
		return fallback
	case l.en != "":
		return l.en
	case l.any != "":
		return l.any
	default:
		return fallback
	}
}
