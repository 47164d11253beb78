// Package debug formats nested structures as indented text for inspection.
package debug

import (
	"fmt"
	"strconv"
	"strings"
)

// Field is a named property of a tree node. Zero values are not printed.
type Field struct {
	Key   string
	Value any
}

// F is a shorthand for Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw TreeWriter) String() string {
	return tw.w.String()
}

func (tw TreeWriter) indent(depth int) {
	for range depth {
		tw.w.WriteString("  ")
	}
}

func (tw TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// Node writes node name followed by its non-zero fields as key=value.
func (tw TreeWriter) Node(depth int, name string, fields ...Field) {
	tw.indent(depth)
	tw.w.WriteString(name)
	for _, f := range fields {
		v, ok := formatField(f.Value)
		if !ok {
			continue
		}
		tw.w.WriteByte(' ')
		tw.w.WriteString(f.Key)
		// flags are printed by name only
		if v != "" {
			tw.w.WriteByte('=')
			tw.w.WriteString(v)
		}
	}
	tw.w.WriteByte('\n')
}

func (tw TreeWriter) TextBlock(depth int, label, value string) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

func formatField(v any) (string, bool) {
	switch v := v.(type) {
	case nil:
		return "", false
	case string:
		if v == "" {
			return "", false
		}
		if strings.ContainsAny(v, " \t\n\"=") {
			return strconv.Quote(v), true
		}
		return v, true
	case bool:
		return "", v
	case int:
		return strconv.Itoa(v), v != 0
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), v != 0
	case fmt.Stringer:
		return v.String(), true
	}
	return fmt.Sprint(v), true
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}
