package render

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"chapterdoc/chapter"
	"chapterdoc/css"
)

const imageClass = "chapter-image"

var ErrNotImage = errors.New("element is not a chapter image")

// Web produces XHTML preview of the chapter.
type Web struct {
	contract *Contract
	log      *zap.Logger
}

func NewWeb(contract *Contract, log *zap.Logger) *Web {
	return &Web{contract: contract, log: log.Named("web")}
}

// Render builds preview document with sections in ordinal order. Every
// section becomes a div carrying its identifier, images are written
// directly as img elements.
func (r *Web) Render(sections []chapter.Section, base float64) (*etree.Document, error) {
	ordered := slices.Clone(sections)
	slices.SortStableFunc(ordered, func(a, b chapter.Section) int {
		return a.Number - b.Number
	})

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("html")
	root.CreateAttr("xmlns", "http://www.w3.org/1999/xhtml")

	head := root.CreateElement("head")
	meta := head.CreateElement("meta")
	meta.CreateAttr("http-equiv", "Content-Type")
	meta.CreateAttr("content", "text/html; charset=utf-8")
	style := head.CreateElement("style")
	style.CreateAttr("type", "text/css")
	style.SetText(r.contract.Stylesheet(base).String())

	body := root.CreateElement("body")
	for i := range ordered {
		s := &ordered[i]
		div := body.CreateElement("div")
		div.CreateAttr("class", "section "+s.Kind.String())
		div.CreateAttr(chapter.AttrSectionID, s.ID)

		switch s.Kind {
		case chapter.SectionKindImage:
			if len(s.ImageURL) == 0 {
				r.log.Warn("Image section without image, skipping", zap.String("section", s.ID))
				continue
			}
			r.writeImage(div, s.ImageURL)
		default:
			frag, err := chapter.ParseFragment(chapter.Normalize(s.Content))
			if err != nil {
				return nil, fmt.Errorf("unable to render section %s: %w", s.ID, err)
			}
			r.writeContent(div, frag)
		}
	}
	return doc, nil
}

func (r *Web) writeContent(parent *etree.Element, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode:
			appendText(parent, c.Data)
		case c.Type != html.ElementNode:
		case c.DataAtom == atom.Img:
			if src := attr(c, "src"); len(src) > 0 {
				r.writeImage(parent, src)
			}
		case c.DataAtom == atom.Br:
			parent.CreateElement("br")
		case c.Data == chapter.TagBoldItalic:
			// carries text only
			parent.CreateElement(c.Data).SetText(textContent(c))
		case isBlock(c) || isKnownInline(c):
			el := parent.CreateElement(c.Data)
			if st := attr(c, "style"); len(st) > 0 {
				el.CreateAttr("style", st)
			}
			r.writeContent(el, c)
		default:
			r.writeContent(parent, c)
		}
	}
}

func (r *Web) writeImage(parent *etree.Element, src string) {
	box := r.contract.Image(src)
	img := parent.CreateElement("img")
	img.CreateAttr("class", imageClass)
	img.CreateAttr("src", box.Source)
	img.CreateAttr("alt", "")

	var decls css.Declarations
	decls.Set("width", css.Value{Raw: number(box.WidthPercent) + "%", Value: box.WidthPercent, Unit: "%"})
	decls.Set("aspect-ratio", css.Value{Raw: number(box.AspectRatio), Value: box.AspectRatio})
	decls.Set("border-radius", css.Px(box.Radius))
	decls.Set("object-fit", css.Keyword(box.Fit))
	img.CreateAttr("style", decls.String())
}

// WebImageBox reads image box back from preview image element.
func WebImageBox(el *etree.Element) (ImageBox, error) {
	if el == nil || el.Tag != "img" || el.SelectAttrValue("class", "") != imageClass {
		return ImageBox{}, ErrNotImage
	}
	box := ImageBox{Source: el.SelectAttrValue("src", "")}
	decls := css.ParseInline(el.SelectAttrValue("style", ""))
	if v, ok := decls.Get("width"); ok && v.Unit == "%" {
		box.WidthPercent = v.Value
	}
	if v, ok := decls.Get("aspect-ratio"); ok && v.IsNumeric() {
		box.AspectRatio = v.Value
	}
	if v, ok := decls.Get("border-radius"); ok {
		box.Radius, _ = v.Px(0)
	}
	if v, ok := decls.Get("object-fit"); ok {
		box.Fit = v.Keyword
	}
	return box, nil
}

func isKnownInline(n *html.Node) bool {
	_, ok := inlineRules[n.Data]
	return ok
}

func appendText(parent *etree.Element, s string) {
	children := parent.ChildElements()
	if len(children) == 0 {
		parent.SetText(parent.Text() + s)
		return
	}
	last := children[len(children)-1]
	last.SetTail(last.Tail() + s)
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var s string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		s += textContent(c)
	}
	return s
}

func number(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
