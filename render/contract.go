// Package render turns chapter sections into what readers see: a native
// view tree for the mobile client and an XHTML preview for the web. Both
// surfaces are driven by the same style contract, so a chapter looks the
// same in preview and in production.
package render

import (
	"strings"

	"golang.org/x/net/html"

	"chapterdoc/chapter"
	"chapterdoc/config"
	"chapterdoc/css"
)

//go:generate go tool go-enum --marshal --names --values

// FontVariant selects font family used for a run of text.
// ENUM(regular, bold, italic, boldItalic, mono)
type FontVariant int

// ViewKind is a type of native view.
// ENUM(block, text, image)
type ViewKind int

// TextStyle is how a run of text is drawn.
type TextStyle struct {
	Variant    FontVariant
	Family     string
	Size       float64
	Underline  bool
	Strike     bool
	Background string
}

// BoxStyle is how a block is laid out. LineHeight is a multiplier of font
// size, zero means default.
type BoxStyle struct {
	TextAlign    string
	LineHeight   float64
	MarginBottom float64
	MarginLeft   float64
	PaddingLeft  float64
	BorderLeft   float64
	BorderColor  string
}

// blockRule describes block element in units of base font size.
type blockRule struct {
	scale        float64 // font size
	variant      FontVariant
	marginBottom float64
	paddingLeft  float64
	borderLeft   float64 // px
}

var blockRules = map[string]blockRule{
	"p":          {scale: 1, marginBottom: 0.75},
	"h2":         {scale: 1.5, variant: FontVariantBold, marginBottom: 0.75},
	"h3":         {scale: 1.25, variant: FontVariantBold, marginBottom: 0.5},
	"ul":         {scale: 1, marginBottom: 0.75, paddingLeft: 1.5},
	"ol":         {scale: 1, marginBottom: 0.75, paddingLeft: 1.5},
	"li":         {scale: 1, marginBottom: 0.25},
	"blockquote": {scale: 1, marginBottom: 0.75, paddingLeft: 1, borderLeft: 3},
	"div":        {scale: 1},
}

type inlineRule struct {
	variant    FontVariant
	underline  bool
	strike     bool
	background string
}

var inlineRules = map[string]inlineRule{
	"b":                   {variant: FontVariantBold},
	"strong":              {variant: FontVariantBold},
	"i":                   {variant: FontVariantItalic},
	"em":                  {variant: FontVariantItalic},
	chapter.TagBoldItalic: {variant: FontVariantBoldItalic},
	"u":                   {underline: true},
	"s":                   {strike: true},
	"code":                {variant: FontVariantMono, background: codeBackground},
	"span":                {},
}

const (
	codeBackground = "#f2f2f2"
	quoteBorder    = "#d0d0d0"
	imageFit       = "cover"
)

// isBlock reports whether element starts a block box.
func isBlock(n *html.Node) bool {
	_, ok := blockRules[n.Data]
	return ok && n.Type == html.ElementNode
}

// combine returns variant of text inside element with variant v nested in
// text of variant cur. Bold and italic together always give dedicated
// bold-italic variant, monospace wins over everything.
func combine(cur, v FontVariant) FontVariant {
	switch {
	case v == FontVariantRegular || v == cur:
		return cur
	case cur == FontVariantRegular:
		return v
	case cur == FontVariantMono || v == FontVariantMono:
		return FontVariantMono
	}
	return FontVariantBoldItalic
}

// Contract maps content vocabulary to concrete styles for given fonts and
// image geometry.
type Contract struct {
	fonts       config.FontFamiliesConfig
	imageAspect float64
	imageRadius float64
}

func NewContract(cfg *config.RenderConfig) *Contract {
	return &Contract{
		fonts:       cfg.Fonts,
		imageAspect: cfg.ImageAspect,
		imageRadius: cfg.ImageRadius,
	}
}

// Family returns font family name for the variant.
func (c *Contract) Family(v FontVariant) string {
	switch v {
	case FontVariantBold:
		return c.fonts.Bold
	case FontVariantItalic:
		return c.fonts.Italic
	case FontVariantBoldItalic:
		return c.fonts.BoldItalic
	case FontVariantMono:
		return c.fonts.Mono
	}
	return c.fonts.Regular
}

// BaseText is text style of the chapter body.
func (c *Contract) BaseText(base float64) TextStyle {
	return TextStyle{Variant: FontVariantRegular, Family: c.fonts.Regular, Size: base}
}

// Block returns box of block element and style of text inside it. Inline
// style attribute of the element is applied on top.
func (c *Contract) Block(n *html.Node, parent TextStyle, base float64) (BoxStyle, TextStyle) {
	rule := blockRules[n.Data]
	box := BoxStyle{
		MarginBottom: rule.marginBottom * base,
		PaddingLeft:  rule.paddingLeft * base,
		BorderLeft:   rule.borderLeft,
	}
	if rule.borderLeft > 0 {
		box.BorderColor = quoteBorder
	}
	text := parent
	if rule.scale != 1 {
		text.Size = rule.scale * base
	}
	text.Variant = combine(text.Variant, rule.variant)
	text.Family = c.Family(text.Variant)

	decls := css.ParseInline(attr(n, "style"))
	text = c.applyText(decls, text, base)
	if v, ok := decls.Get("text-align"); ok && v.IsKeyword() {
		box.TextAlign = v.Keyword
	}
	if v, ok := decls.Get("line-height"); ok {
		box.LineHeight = lineHeight(v, text.Size)
	}
	if v, ok := decls.Get("margin-bottom"); ok {
		if px, ok := v.Px(text.Size); ok {
			box.MarginBottom = px
		}
	}
	if v, ok := decls.Get("margin-left"); ok {
		if px, ok := v.Px(text.Size); ok {
			box.MarginLeft = px
		}
	}
	return box, text
}

// Inline returns style of text inside inline element.
func (c *Contract) Inline(n *html.Node, parent TextStyle, base float64) TextStyle {
	text := parent
	if rule, ok := inlineRules[n.Data]; ok {
		text.Variant = combine(text.Variant, rule.variant)
		text.Underline = text.Underline || rule.underline
		text.Strike = text.Strike || rule.strike
		if rule.background != "" {
			text.Background = rule.background
		}
	}
	text.Family = c.Family(text.Variant)
	return c.applyText(css.ParseInline(attr(n, "style")), text, base)
}

func (c *Contract) applyText(decls css.Declarations, text TextStyle, base float64) TextStyle {
	if v, ok := decls.Get("font-size"); ok {
		if v.Unit == "rem" {
			text.Size = v.Value * base
		} else if px, ok := v.Px(text.Size); ok && px > 0 {
			text.Size = px
		}
	}
	return text
}

func lineHeight(v css.Value, size float64) float64 {
	switch {
	case !v.IsNumeric() || v.Value <= 0:
		return 0
	case v.Unit == "":
		return v.Value
	case v.Unit == "%":
		return v.Value / 100
	}
	if px, ok := v.Px(size); ok && size > 0 {
		return px / size
	}
	return 0
}

// ImageBox is the visual box of an image. Both surfaces must produce equal
// boxes for the same source.
type ImageBox struct {
	Source       string
	WidthPercent float64
	AspectRatio  float64
	Radius       float64
	Fit          string
}

// Image returns full width fixed aspect box for the image.
func (c *Contract) Image(src string) ImageBox {
	return ImageBox{
		Source:       src,
		WidthPercent: 100,
		AspectRatio:  c.imageAspect,
		Radius:       c.imageRadius,
		Fit:          imageFit,
	}
}

// Stylesheet produces web preview styles from the same rules native
// renderer uses.
func (c *Contract) Stylesheet(base float64) *css.Stylesheet {
	var sheet css.Stylesheet
	sheet.Add("body", map[string]css.Value{
		"font-family": family(c.fonts.Regular),
		"font-size":   css.Px(base),
		"margin":      css.Px(0),
	})
	for _, tag := range []string{"p", "h2", "h3", "ul", "ol", "li", "blockquote"} {
		rule := blockRules[tag]
		props := map[string]css.Value{
			"margin-top":    css.Px(0),
			"margin-bottom": css.Px(rule.marginBottom * base),
		}
		if rule.scale != 1 {
			props["font-size"] = css.Px(rule.scale * base)
		}
		if rule.variant != FontVariantRegular {
			props["font-family"] = family(c.Family(rule.variant))
			props["font-weight"] = css.Keyword("normal")
		}
		if rule.paddingLeft > 0 {
			props["padding-left"] = css.Px(rule.paddingLeft * base)
		}
		if rule.borderLeft > 0 {
			props["border-left"] = css.Keyword(css.Px(rule.borderLeft).Raw + " solid " + quoteBorder)
			props["margin-left"] = css.Px(0)
		}
		sheet.Add(tag, props)
	}
	// variants are separate font families, never synthesized by the browser
	for _, tag := range []string{"b", "strong", "i", "em", chapter.TagBoldItalic, "code"} {
		rule := inlineRules[tag]
		props := map[string]css.Value{
			"font-family": family(c.Family(rule.variant)),
			"font-weight": css.Keyword("normal"),
			"font-style":  css.Keyword("normal"),
		}
		if tag == chapter.TagBoldItalic {
			props["display"] = css.Keyword("inline")
		}
		if rule.background != "" {
			props["background-color"] = css.Keyword(rule.background)
		}
		sheet.Add(tag, props)
	}
	// nested emphasis, monospace rules go last and win over bold italic
	nested := make(map[FontVariant][]string)
	for _, outer := range []string{"h2", "h3", "b", "strong", "i", "em", "code"} {
		ov := inlineRules[outer].variant
		if rule, ok := blockRules[outer]; ok {
			ov = rule.variant
		}
		for _, tag := range []string{"b", "strong", "i", "em", chapter.TagBoldItalic, "code"} {
			v := inlineRules[tag].variant
			if res := combine(ov, v); res != v {
				nested[res] = append(nested[res], outer+" "+tag)
			}
		}
	}
	for _, v := range []FontVariant{FontVariantBoldItalic, FontVariantMono} {
		if sel := nested[v]; len(sel) > 0 {
			sheet.Add(strings.Join(sel, ", "), map[string]css.Value{"font-family": family(c.Family(v))})
		}
	}
	sheet.Add("u", map[string]css.Value{"text-decoration": css.Keyword("underline")})
	sheet.Add("s", map[string]css.Value{"text-decoration": css.Keyword("line-through")})
	sheet.Add("img."+imageClass, map[string]css.Value{"display": css.Keyword("block")})
	return &sheet
}

func family(name string) css.Value {
	return css.Keyword("'" + name + "'")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// collapseSpace folds white space runs to single space as browsers do.
func collapseSpace(s string) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			if !space {
				b.WriteByte(' ')
			}
			space = true
		default:
			b.WriteRune(r)
			space = false
		}
	}
	return b.String()
}
