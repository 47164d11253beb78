package css

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Rule is a selector with its properties.
type Rule struct {
	Selector   string
	Properties map[string]Value
}

// Stylesheet is a list of rules written in order.
type Stylesheet struct {
	Rules []Rule
}

// Add appends rule to the stylesheet.
func (s *Stylesheet) Add(selector string, props map[string]Value) {
	s.Rules = append(s.Rules, Rule{Selector: selector, Properties: props})
}

// WriteTo writes the stylesheet as CSS text to w.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for i := range s.Rules {
		if i > 0 {
			n, err := fmt.Fprint(w, "\n")
			total += int64(n)
			if err != nil {
				return total, err
			}
		}
		n, err := writeRule(w, &s.Rules[i])
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// String returns the stylesheet as CSS text.
func (s *Stylesheet) String() string {
	var b strings.Builder
	_, _ = s.WriteTo(&b)
	return b.String()
}

func writeRule(w io.Writer, rule *Rule) (int, error) {
	var total int
	n, err := fmt.Fprintf(w, "%s {\n", rule.Selector)
	total += n
	if err != nil {
		return total, err
	}
	n, err = writeProperties(w, rule.Properties)
	total += n
	if err != nil {
		return total, err
	}
	n, err = fmt.Fprint(w, "}\n")
	total += n
	return total, err
}

// writeProperties writes property declarations sorted alphabetically.
func writeProperties(w io.Writer, props map[string]Value) (int, error) {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	var total int
	for _, name := range names {
		n, err := fmt.Fprintf(w, "  %s: %s;\n", name, props[name].Raw)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
