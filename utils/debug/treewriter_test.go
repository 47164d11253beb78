package debug

import (
	"testing"
)

type kind int

func (k kind) String() string {
	return [...]string{"block", "image"}[k]
}

func TestTreeWriter_Line(t *testing.T) {
	tests := []struct {
		name   string
		depth  int
		format string
		args   []any
		want   string
	}{
		{"no depth", 0, "test", nil, "test\n"},
		{"depth 2", 2, "double indent", nil, "    double indent\n"},
		{"with formatting", 1, "value: %d", []any{42}, "  value: 42\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Line(tt.depth, tt.format, tt.args...)
			if got := tw.String(); got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_Node(t *testing.T) {
	tests := []struct {
		name   string
		depth  int
		fields []Field
		want   string
	}{
		{"no fields", 0, nil, "view\n"},
		{
			name:   "zero values skipped",
			depth:  1,
			fields: []Field{F("tag", ""), F("size", 0.0), F("count", 0), F("flag", false), F("any", nil)},
			want:   "  view\n",
		},
		{
			name:   "values",
			depth:  0,
			fields: []Field{F("tag", "p"), F("size", 16.5), F("count", 3), F("kind", kind(1))},
			want:   "view tag=p size=16.5 count=3 kind=image\n",
		},
		{"flag by name", 0, []Field{F("underline", true)}, "view underline\n"},
		{"quoted string", 0, []Field{F("font", "Noto Serif")}, "view font=\"Noto Serif\"\n"},
		{"other types", 0, []Field{F("list", []int{1, 2})}, "view list=[1 2]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Node(tt.depth, "view", tt.fields...)
			if got := tw.String(); got != tt.want {
				t.Errorf("Node() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_TextBlock(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		label string
		value string
		want  string
	}{
		{"empty value", 0, "field", "", "field: \n"},
		{"depth 1 with value", 1, "content", "test", "  content: \"test\"\n"},
		{"value with quotes", 0, "quoted", "he said \"hello\"", "quoted: \"he said \\\"hello\\\"\"\n"},
		{"value with newline", 0, "multiline", "line1\nline2", "multiline: \"line1\\nline2\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.TextBlock(tt.depth, tt.label, tt.value)
			if got := tw.String(); got != tt.want {
				t.Errorf("TextBlock() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_Tree(t *testing.T) {
	tw := NewTreeWriter()
	tw.Node(0, "block p", F("size", 16.0))
	tw.TextBlock(1, "run", "Hello")
	tw.Node(0, "image", F("src", "https://x/y.png"))

	want := "block p size=16\n  run: \"Hello\"\nimage src=https://x/y.png\n"
	if got := tw.String(); got != want {
		t.Errorf("tree:\ngot:\n%s\nwant:\n%s", got, want)
	}
}
