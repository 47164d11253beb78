package render

import (
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"chapterdoc/chapter"
)

// Run is a piece of text drawn with single style. Line break is a run
// holding "\n".
type Run struct {
	Text  string
	Style TextStyle
}

// View is a node of native view tree. Block holding only inline content
// keeps it in Runs, block with nested blocks has Children where inline
// content is wrapped into anonymous text views.
type View struct {
	Kind      ViewKind
	Tag       string
	SectionID string
	Box       BoxStyle
	Text      TextStyle
	Runs      []Run
	Children  []*View
	Image     *ImageBox
}

// Native produces view trees for the mobile client.
type Native struct {
	contract *Contract
	log      *zap.Logger
}

func NewNative(contract *Contract, log *zap.Logger) *Native {
	return &Native{contract: contract, log: log.Named("native")}
}

// Render converts sections in ordinal order. Text is normalized first.
// Image sections are fed through the same conversion as a synthetic image
// element, so they get exactly the box images inside text get.
func (r *Native) Render(sections []chapter.Section, base float64) ([]*View, error) {
	ordered := slices.Clone(sections)
	slices.SortStableFunc(ordered, func(a, b chapter.Section) int {
		return a.Number - b.Number
	})

	var views []*View
	for i := range ordered {
		s := &ordered[i]
		var src string
		switch s.Kind {
		case chapter.SectionKindImage:
			if len(s.ImageURL) == 0 {
				r.log.Warn("Image section without image, skipping", zap.String("section", s.ID))
				continue
			}
			src = chapter.ImageTag(s.ImageURL)
		default:
			src = chapter.Normalize(s.Content)
		}
		vs, err := r.convert(src, base)
		if err != nil {
			return nil, fmt.Errorf("unable to render section %s: %w", s.ID, err)
		}
		for _, v := range vs {
			v.SectionID = s.ID
		}
		views = append(views, vs...)
	}
	return views, nil
}

// convert turns HTML fragment into views.
func (r *Native) convert(src string, base float64) ([]*View, error) {
	root, err := chapter.ParseFragment(src)
	if err != nil {
		return nil, err
	}
	f := flow{contract: r.contract, base: base, text: r.contract.BaseText(base)}
	f.walk(root, f.text)
	f.flush()
	return f.views, nil
}

// flow collects content of a single block.
type flow struct {
	contract *Contract
	base     float64
	text     TextStyle
	views    []*View
	runs     []Run
}

func (f *flow) walk(n *html.Node, style TextStyle) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode:
			f.runs = append(f.runs, Run{Text: collapseSpace(c.Data), Style: style})
		case c.Type != html.ElementNode:
		case c.DataAtom == atom.Br:
			f.runs = append(f.runs, Run{Text: "\n", Style: style})
		case c.DataAtom == atom.Img:
			f.flush()
			if v := f.image(c); v != nil {
				f.views = append(f.views, v)
			}
		case isBlock(c):
			f.flush()
			f.views = append(f.views, f.block(c, style))
		case c.Data == chapter.TagBoldItalic:
			// carries text only
			f.runs = append(f.runs, Run{Text: collapseSpace(textContent(c)), Style: f.contract.Inline(c, style, f.base)})
		default:
			f.walk(c, f.contract.Inline(c, style, f.base))
		}
	}
}

func (f *flow) block(n *html.Node, parent TextStyle) *View {
	box, text := f.contract.Block(n, parent, f.base)
	inner := flow{contract: f.contract, base: f.base, text: text}
	inner.walk(n, text)
	inner.flush()

	v := &View{Kind: ViewKindBlock, Tag: n.Data, Box: box, Text: text}
	if len(inner.views) == 1 && inner.views[0].Kind == ViewKindText {
		v.Runs = inner.views[0].Runs
	} else {
		v.Children = inner.views
	}
	return v
}

func (f *flow) image(n *html.Node) *View {
	src := attr(n, "src")
	if len(src) == 0 {
		return nil
	}
	box := f.contract.Image(src)
	return &View{Kind: ViewKindImage, Tag: n.Data, Image: &box}
}

// flush closes pending inline content into anonymous text view. White
// space is collapsed across runs and trimmed at the edges, trailing line
// break is dropped unless it is the only content.
func (f *flow) flush() {
	runs := f.runs
	f.runs = nil

	var out []Run
	space := true
	for _, r := range runs {
		if r.Text == "\n" {
			out = append(out, r)
			space = true
			continue
		}
		if space {
			r.Text = strings.TrimLeft(r.Text, " ")
		}
		if len(r.Text) == 0 {
			continue
		}
		space = strings.HasSuffix(r.Text, " ")
		if last := len(out) - 1; last >= 0 && out[last].Style == r.Style && out[last].Text != "\n" {
			out[last].Text += r.Text
			continue
		}
		out = append(out, r)
	}
	for len(out) > 0 {
		last := &out[len(out)-1]
		if last.Text == "\n" {
			if len(out) == 1 {
				break
			}
			out = out[:len(out)-1]
			continue
		}
		last.Text = strings.TrimRight(last.Text, " ")
		if len(last.Text) == 0 {
			out = out[:len(out)-1]
			continue
		}
		break
	}
	if len(out) == 0 {
		return
	}
	f.views = append(f.views, &View{Kind: ViewKindText, Text: f.text, Runs: out})
}
