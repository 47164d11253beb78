package chapter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Wrapper attributes binding document blocks to section records.
const (
	AttrSectionID       = "data-section-id"
	AttrType            = "data-type"
	AttrContentEditable = "contenteditable"
)

// EmptyText is the body emitted for text sections without content, so the
// block stays editable.
const EmptyText = "<p><br/></p>"

// ImageStyle is the inline style of images embedded into the document.
const ImageStyle = "max-width:100%;border-radius:12px"

var (
	ErrOrphanContent = errors.New("content outside of section block")
	ErrMissingID     = errors.New("section block without identifier")
	ErrDuplicateID   = errors.New("duplicate section identifier")
	ErrUnknownType   = errors.New("unknown section block type")
	ErrUnterminated  = errors.New("unterminated section block")
)

// Block is a single top-level wrapper found in the editable document.
type Block struct {
	SectionID string
	Kind      SectionKind
	// Inner is exact byte range between wrapper tags.
	Inner string
}

// ImageSource returns src of the first image inside of the block.
func (b Block) ImageSource() string {
	z := html.NewTokenizer(strings.NewReader(b.Inner))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if atom.Lookup(name) != atom.Img {
				continue
			}
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if string(key) == "src" {
					return string(val)
				}
			}
		}
	}
}

// OpenTag returns opening wrapper tag for the section.
func OpenTag(id string, kind SectionKind) string {
	var b strings.Builder
	writeOpenTag(&b, id, kind)
	return b.String()
}

func writeOpenTag(b *strings.Builder, id string, kind SectionKind) {
	b.WriteString(`<div ` + AttrSectionID + `="`)
	b.WriteString(html.EscapeString(id))
	b.WriteString(`" ` + AttrType + `="`)
	b.WriteString(kind.String())
	b.WriteString(`"`)
	if kind == SectionKindImage {
		b.WriteString(` ` + AttrContentEditable + `="false"`)
	}
	b.WriteString(`>`)
}

// ImageTag returns image element used in the document for stored asset.
func ImageTag(url string) string {
	return `<img src="` + html.EscapeString(url) + `" style="` + ImageStyle + `"/>`
}

// InnerHTML returns wrapper body for the section.
func InnerHTML(s *Section) string {
	switch s.Kind {
	case SectionKindImage:
		if len(s.ImageURL) == 0 {
			return ""
		}
		return ImageTag(s.ImageURL)
	default:
		if len(s.Content) == 0 {
			return EmptyText
		}
		return s.Content
	}
}

// WrapSection returns complete wrapper block for a single section.
func WrapSection(s *Section) string {
	var b strings.Builder
	writeOpenTag(&b, s.ID, s.Kind)
	b.WriteString(InnerHTML(s))
	b.WriteString(`</div>`)
	return b.String()
}

// Serialize produces single editable document from sections in ordinal
// order. Text content is emitted verbatim, so extracting it back yields the
// same bytes.
func Serialize(sections []Section) string {
	ordered := slices.Clone(sections)
	slices.SortStableFunc(ordered, func(a, b Section) int {
		return a.Number - b.Number
	})

	var b strings.Builder
	for i := range ordered {
		writeOpenTag(&b, ordered[i].ID, ordered[i].Kind)
		b.WriteString(InnerHTML(&ordered[i]))
		b.WriteString(`</div>`)
	}
	return b.String()
}

// Balance returns text content closing every element it opens, so that
// wrapper built around it extracts back to the same content. Content which
// already does is returned as is.
func Balance(content string) (string, error) {
	blocks, err := Extract(WrapSection(&Section{ID: "balance", Kind: SectionKindText, Content: content}))
	if err == nil && len(blocks) == 1 && blocks[0].Inner == InnerHTML(&Section{Kind: SectionKindText, Content: content}) {
		return content, nil
	}
	root, err := ParseFragment(content)
	if err != nil {
		return "", fmt.Errorf("unable to balance content: %w", err)
	}
	return RenderChildren(root)
}

// SeedContent is the body of automatically created first section, carrying
// its own identifier.
func SeedContent(id string) string {
	return OpenTag(id, SectionKindText) + "<p></p></div>"
}

// Extract splits editable document into section blocks. Whitespace between
// blocks is ignored, anything else outside of blocks is an error.
func Extract(doc string) ([]Block, error) {
	var (
		blocks []Block
		seen   = make(map[string]struct{})
		z      = html.NewTokenizer(strings.NewReader(doc))
		offset int
		depth  int
		start  int
		cur    Block
	)

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("unable to tokenize document: %w", err)
			}
			break
		}
		raw := z.Raw()
		tokenStart := offset
		offset += len(raw)

		if depth == 0 {
			switch tt {
			case html.TextToken:
				if len(bytes.TrimSpace(raw)) != 0 {
					return nil, fmt.Errorf("%w at offset %d", ErrOrphanContent, tokenStart)
				}
				continue
			case html.StartTagToken:
				name, hasAttr := z.TagName()
				if atom.Lookup(name) != atom.Div {
					return nil, fmt.Errorf("%w: <%s> at offset %d", ErrOrphanContent, name, tokenStart)
				}
				b, err := wrapperFromAttrs(z, hasAttr)
				if err != nil {
					return nil, fmt.Errorf("%w at offset %d", err, tokenStart)
				}
				if _, exists := seen[b.SectionID]; exists {
					return nil, fmt.Errorf("%w: %s", ErrDuplicateID, b.SectionID)
				}
				seen[b.SectionID] = struct{}{}
				cur, start, depth = b, offset, 1
			default:
				return nil, fmt.Errorf("%w at offset %d", ErrOrphanContent, tokenStart)
			}
			continue
		}

		switch tt {
		case html.StartTagToken:
			if name, _ := z.TagName(); atom.Lookup(name) == atom.Div {
				depth++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); atom.Lookup(name) == atom.Div {
				depth--
				if depth == 0 {
					cur.Inner = doc[start:tokenStart]
					blocks = append(blocks, cur)
				}
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnterminated, cur.SectionID)
	}
	return blocks, nil
}

func wrapperFromAttrs(z *html.Tokenizer, hasAttr bool) (Block, error) {
	var (
		b       Block
		kind    string
		haveID  bool
		key, va []byte
	)
	for hasAttr {
		key, va, hasAttr = z.TagAttr()
		switch string(key) {
		case AttrSectionID:
			b.SectionID, haveID = string(va), len(va) > 0
		case AttrType:
			kind = string(va)
		}
	}
	if !haveID {
		return b, ErrMissingID
	}
	k, err := ParseSectionKind(kind)
	if err != nil {
		return b, fmt.Errorf("%w: %q", ErrUnknownType, kind)
	}
	b.Kind = k
	return b, nil
}
