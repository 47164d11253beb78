package css

import (
	"slices"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Declaration is single property of an inline style.
type Declaration struct {
	Property string
	Value    Value
}

// Declarations is an inline style attribute in source order. Later
// duplicates replace earlier ones, same as browsers resolve them.
type Declarations []Declaration

// ParseInline parses content of style attribute. Malformed declarations
// are skipped.
func ParseInline(style string) Declarations {
	var decls Declarations
	if strings.TrimSpace(style) == "" {
		return decls
	}

	parser := css.NewParser(parse.NewInputString(style), true)
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			return decls
		case css.DeclarationGrammar:
			values := parser.Values()
			if len(values) == 0 {
				continue
			}
			decls.Set(strings.ToLower(string(data)), parsePropertyValue(values))
		case css.CustomPropertyGrammar:
			continue
		}
	}
}

func (d Declarations) index(property string) int {
	return slices.IndexFunc(d, func(decl Declaration) bool {
		return decl.Property == property
	})
}

// Get returns value of the property.
func (d Declarations) Get(property string) (Value, bool) {
	if i := d.index(property); i >= 0 {
		return d[i].Value, true
	}
	return Value{}, false
}

// Set replaces value of the property in place or appends new declaration.
func (d *Declarations) Set(property string, v Value) {
	if i := d.index(property); i >= 0 {
		(*d)[i].Value = v
		return
	}
	*d = append(*d, Declaration{Property: property, Value: v})
}

// Delete removes the property, reporting whether it was present.
func (d *Declarations) Delete(property string) bool {
	i := d.index(property)
	if i < 0 {
		return false
	}
	*d = slices.Delete(*d, i, i+1)
	return true
}

// String formats declarations back into style attribute form.
func (d Declarations) String() string {
	var b strings.Builder
	for i, decl := range d {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(decl.Property)
		b.WriteByte(':')
		b.WriteString(decl.Value.Raw)
	}
	return b.String()
}
