package editor

import (
	"errors"
	"strings"
	"testing"
)

func TestExec(t *testing.T) {
	tests := []struct {
		name    string
		content string
		sel     string
		cmds    []Command
		arg     string
		want    string
	}{
		{"bold", "<p>Hello world</p>", "Hello", []Command{CommandBold}, "", "<p><b>Hello</b> world</p>"},
		{"bold toggles off", "<p>Hello world</p>", "Hello", []Command{CommandBold, CommandBold}, "", "<p>Hello world</p>"},
		{"bold inside strong toggles off", "<p><strong>Hello</strong> world</p>", "Hello", []Command{CommandBold}, "", "<p>Hello world</p>"},
		{"italic over bold", "<p><b>Hello</b> world</p>", "Hello", []Command{CommandItalic}, "", "<p><b><i>Hello</i></b> world</p>"},
		{"bold removed from bold italic", "<p><bi>Hello</bi></p>", "Hello", []Command{CommandBold}, "", "<p><i>Hello</i></p>"},
		{"italic removed from bold italic", "<p><bi>Hello</bi></p>", "Hello", []Command{CommandItalic}, "", "<p><b>Hello</b></p>"},
		{"middle of text", "<p>Hello world</p>", "lo wo", []Command{CommandUnderline}, "", "<p>Hel<u>lo wo</u>rld</p>"},
		{"strike", "<p>Hello</p>", "Hello", []Command{CommandStrike}, "", "<p><s>Hello</s></p>"},
		{"inline code", "<p>run ls now</p>", "ls", []Command{CommandInlineCode}, "", "<p>run <code>ls</code> now</p>"},
		{"center", "<p>Hello</p>", "Hello", []Command{CommandJustifyCenter}, "", `<p style="text-align:center">Hello</p>`},
		{"justify full", "<p>Hello</p>", "ell", []Command{CommandJustifyFull}, "", `<p style="text-align:justify">Hello</p>`},
		{"right then left", "<p>Hello</p>", "Hello", []Command{CommandJustifyRight, CommandJustifyLeft}, "", "<p>Hello</p>"},
		{"align keeps other styles", `<p style="line-height:2">Hello</p>`, "Hello", []Command{CommandJustifyRight}, "", `<p style="line-height:2;text-align:right">Hello</p>`},
		{"indent twice", "<p>Hello</p>", "Hello", []Command{CommandIndent, CommandIndent}, "", `<p style="margin-left:48px">Hello</p>`},
		{"outdent to nothing", "<p>Hello</p>", "Hello", []Command{CommandIndent, CommandOutdent, CommandOutdent}, "", "<p>Hello</p>"},
		{"heading", "<p>Title</p>", "Title", []Command{CommandHeading}, "h2", "<h2>Title</h2>"},
		{"heading back to paragraph", "<h3>Title</h3>", "Title", []Command{CommandHeading}, "p", "<p>Title</p>"},
		{"line height", "<p>Hello</p>", "Hello", []Command{CommandLineHeight}, "1.5", `<p style="line-height:1.5">Hello</p>`},
		{"paragraph spacing", "<p>Hello</p>", "Hello", []Command{CommandParagraphSpacing}, "12", `<p style="margin-bottom:12px">Hello</p>`},
		{"unordered list", "<p>Hello</p>", "Hello", []Command{CommandUnorderedList}, "", "<ul><li>Hello</li></ul>"},
		{"list toggles off", "<p>Hello</p>", "Hello", []Command{CommandOrderedList, CommandOrderedList}, "", "<p>Hello</p>"},
		{"list type switch", "<ul><li>Hello</li></ul>", "Hello", []Command{CommandOrderedList}, "", "<ol><li>Hello</li></ol>"},
		{"blockquote", "<p>Hello</p>", "Hello", []Command{CommandBlockquote}, "", "<blockquote><p>Hello</p></blockquote>"},
		{"blockquote toggles off", "<p>Hello</p>", "Hello", []Command{CommandBlockquote, CommandBlockquote}, "", "<p>Hello</p>"},
		{"clear formatting", "<p><b><i><u>Hello</u></i></b> world</p>", "Hello", []Command{CommandClearFormatting}, "", "<p>Hello world</p>"},
		{"bold off for tail of run", "<p><b>Hello world</b></p>", "world", []Command{CommandBold}, "", "<p><b>Hello </b>world</p>"},
		{"bold off for middle of run", "<p><b>Hello world</b></p>", "lo wo", []Command{CommandBold}, "", "<p><b>Hel</b>lo wo<b>rld</b></p>"},
		{"italic off for head of run", "<p><i>Hello world</i></p>", "Hello", []Command{CommandItalic}, "", "<p>Hello<i> world</i></p>"},
		{"bold off keeps nested styles", "<p><b>Hello <u>big</u> world</b></p>", "big", []Command{CommandBold}, "", "<p><b>Hello </b><u>big</u><b> world</b></p>"},
		{"bold off for part of bold italic", "<p><bi>Hello world</bi></p>", "world", []Command{CommandBold}, "", "<p><bi>Hello </bi><i>world</i></p>"},
		{"clear formatting of part of run", "<p><u><i>Hello world</i></u></p>", "world", []Command{CommandClearFormatting}, "", "<p><u><i>Hello </i></u>world</p>"},
		{"bare text gets paragraph", "Hello", "Hello", []Command{CommandJustifyCenter}, "", `<p style="text-align:center">Hello</p>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSurface(t, nil, textSection("a", 0, tt.content), textSection("b", 1, "<p>other</p>"))
			if err := s.SelectText(tt.sel); err != nil {
				t.Fatal(err)
			}
			for _, cmd := range tt.cmds {
				if err := s.Exec(cmd, tt.arg); err != nil {
					t.Fatalf("Exec(%s) error = %v", cmd, err)
				}
			}
			if got := content(t, s, "a"); got != tt.want {
				t.Errorf("content = %q, want %q", got, tt.want)
			}
			if got := content(t, s, "b"); got != "<p>other</p>" {
				t.Errorf("unrelated block changed to %q", got)
			}
		})
	}
}

func TestExec_AcrossParagraphs(t *testing.T) {
	s := newTestSurface(t, nil, textSection("a", 0, "<p>first</p><p>second</p>"))

	start, _ := s.FindText("irst")
	end, _ := s.FindText("sec")
	end.Offset += len("sec")
	if err := s.Select(end, start); err != nil {
		t.Fatal(err)
	}
	if err := s.Exec(CommandBold, ""); err != nil {
		t.Fatal(err)
	}
	if got, want := content(t, s, "a"), "<p>f<b>irst</b></p><p><b>sec</b>ond</p>"; got != want {
		t.Errorf("content = %q, want %q", got, want)
	}

	if err := s.Exec(CommandUnorderedList, ""); err != nil {
		t.Fatal(err)
	}
	if got, want := content(t, s, "a"), "<ul><li>f<b>irst</b></li><li><b>sec</b>ond</li></ul>"; got != want {
		t.Errorf("content = %q, want %q", got, want)
	}
}

func TestExec_PartialRuns(t *testing.T) {
	s := newTestSurface(t, nil, textSection("a", 0, "<p><s>one two</s> <u>three four</u></p>"))

	start, _ := s.FindText("two")
	end, _ := s.FindText("three")
	end.Offset += len("three")
	if err := s.Select(start, end); err != nil {
		t.Fatal(err)
	}
	if err := s.Exec(CommandClearFormatting, ""); err != nil {
		t.Fatal(err)
	}
	if got, want := content(t, s, "a"), "<p><s>one </s>two three<u> four</u></p>"; got != want {
		t.Errorf("content = %q, want %q", got, want)
	}
}

func TestExec_Errors(t *testing.T) {
	s := newTestSurface(t, nil, textSection("a", 0, "<p>Hello</p>"))

	if err := s.Exec(CommandBold, ""); !errors.Is(err, ErrNoSelection) {
		t.Errorf("Exec() without selection error = %v, want ErrNoSelection", err)
	}
	_ = s.Collapse(Position{Offset: 1})
	if err := s.Exec(CommandBold, ""); !errors.Is(err, ErrNoSection) {
		t.Errorf("Exec() outside of sections error = %v, want ErrNoSection", err)
	}

	_ = s.SelectText("Hello")
	for _, tt := range []struct {
		cmd Command
		arg string
	}{
		{CommandHeading, "h1"},
		{CommandLineHeight, "tall"},
		{CommandLineHeight, "-1"},
		{CommandParagraphSpacing, "wide"},
		{Command(100), ""},
	} {
		if err := s.Exec(tt.cmd, tt.arg); err == nil {
			t.Errorf("Exec(%s, %q) succeeded", tt.cmd, tt.arg)
		}
	}
	if got := content(t, s, "a"); got != "<p>Hello</p>" {
		t.Errorf("failed commands changed content to %q", got)
	}
}

func TestExec_ChangeEvent(t *testing.T) {
	s := newTestSurface(t, nil, textSection("a", 0, "<p>Hello</p>"), textSection("b", 1, "<p>World</p>"))
	var changes []Change
	s.Subscribe(func(ch Change) { changes = append(changes, ch) })

	_ = s.SelectText("World")
	if err := s.Exec(CommandItalic, ""); err != nil {
		t.Fatal(err)
	}
	if len(changes) != 1 || len(changes[0].Changed) != 1 || changes[0].Changed[0] != "b" {
		t.Fatalf("changes = %+v", changes)
	}
	if !strings.Contains(changes[0].HTML, "<i>World</i>") {
		t.Errorf("change document = %s", changes[0].HTML)
	}
}

func TestAdjustFontSize(t *testing.T) {
	t.Run("patches enclosing span", func(t *testing.T) {
		s := newTestSurface(t, nil, textSection("a", 0, "<p>Hello world</p>"))
		_ = s.SelectText("Hello")

		if err := s.AdjustFontSize(1); err != nil {
			t.Fatal(err)
		}
		if got, want := content(t, s, "a"), `<p><span style="font-size:18px">Hello</span> world</p>`; got != want {
			t.Errorf("content = %q, want %q", got, want)
		}
		for range 3 {
			if err := s.AdjustFontSize(1); err != nil {
				t.Fatal(err)
			}
		}
		got := content(t, s, "a")
		if want := `<p><span style="font-size:24px">Hello</span> world</p>`; got != want {
			t.Errorf("content = %q, want %q", got, want)
		}
		if n := strings.Count(got, "<span"); n != 1 {
			t.Errorf("got %d spans, want 1", n)
		}
	})

	t.Run("existing styled span", func(t *testing.T) {
		s := newTestSurface(t, nil, textSection("a", 0, `<p><span style="color:red;font-size:20px">big</span></p>`))
		_ = s.SelectText("big")
		if err := s.AdjustFontSize(-1); err != nil {
			t.Fatal(err)
		}
		if got, want := content(t, s, "a"), `<p><span style="color:red;font-size:18px">big</span></p>`; got != want {
			t.Errorf("content = %q, want %q", got, want)
		}
	})

	t.Run("part of sized span", func(t *testing.T) {
		s := newTestSurface(t, nil, textSection("a", 0, `<p><span style="font-size:18px">Hello world</span></p>`))
		_ = s.SelectText("world")
		if err := s.AdjustFontSize(1); err != nil {
			t.Fatal(err)
		}
		want := `<p><span style="font-size:18px">Hello </span><span style="font-size:20px">world</span></p>`
		if got := content(t, s, "a"); got != want {
			t.Errorf("content = %q, want %q", got, want)
		}
	})

	t.Run("clamped", func(t *testing.T) {
		tests := []struct {
			steps int
			want  string
		}{
			{100, "36px"},
			{-100, "10px"},
		}
		for _, tt := range tests {
			s := newTestSurface(t, nil, textSection("a", 0, `<p><span style="font-size:30px">x</span></p>`))
			_ = s.SelectText("x")
			if err := s.AdjustFontSize(tt.steps); err != nil {
				t.Fatal(err)
			}
			if got := content(t, s, "a"); !strings.Contains(got, "font-size:"+tt.want) {
				t.Errorf("AdjustFontSize(%d) content = %q, want %s", tt.steps, got, tt.want)
			}
		}
	})

	t.Run("caret in text", func(t *testing.T) {
		s := newTestSurface(t, nil, textSection("a", 0, "<p>Hello</p>"))
		pos, _ := s.FindText("ll")
		_ = s.Collapse(pos)
		if err := s.AdjustFontSize(-1); err != nil {
			t.Fatal(err)
		}
		if got, want := content(t, s, "a"), `<p><span style="font-size:14px">Hello</span></p>`; got != want {
			t.Errorf("content = %q, want %q", got, want)
		}
	})
}
