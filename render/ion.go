package render

import (
	"fmt"

	"github.com/amazon-ion/ion-go/ion"
)

// Wire form of the view tree for the mobile client.
type (
	ionText struct {
		Font       string  `ion:"font"`
		Variant    string  `ion:"variant"`
		Size       float64 `ion:"size"`
		Underline  bool    `ion:"underline,omitempty"`
		Strike     bool    `ion:"strike,omitempty"`
		Background string  `ion:"background,omitempty"`
	}

	ionRun struct {
		Text  string  `ion:"text"`
		Style ionText `ion:"style"`
	}

	ionBox struct {
		TextAlign    string  `ion:"text_align,omitempty"`
		LineHeight   float64 `ion:"line_height,omitempty"`
		MarginBottom float64 `ion:"margin_bottom,omitempty"`
		MarginLeft   float64 `ion:"margin_left,omitempty"`
		PaddingLeft  float64 `ion:"padding_left,omitempty"`
		BorderLeft   float64 `ion:"border_left,omitempty"`
		BorderColor  string  `ion:"border_color,omitempty"`
	}

	ionImage struct {
		Source       string  `ion:"src"`
		WidthPercent float64 `ion:"width_percent"`
		AspectRatio  float64 `ion:"aspect_ratio"`
		Radius       float64 `ion:"radius"`
		Fit          string  `ion:"fit"`
	}

	ionView struct {
		Kind     string    `ion:"kind"`
		Tag      string    `ion:"tag,omitempty"`
		Section  string    `ion:"section,omitempty"`
		Box      *ionBox   `ion:"box,omitempty"`
		Text     *ionText  `ion:"text,omitempty"`
		Runs     []ionRun  `ion:"runs,omitempty"`
		Children []ionView `ion:"children,omitempty"`
		Image    *ionImage `ion:"image,omitempty"`
	}

	ionDocument struct {
		Version int       `ion:"version"`
		Views   []ionView `ion:"views"`
	}
)

const ionVersion = 1

// EncodeIon serializes view tree as binary Ion.
func EncodeIon(views []*View) ([]byte, error) {
	doc := ionDocument{Version: ionVersion, Views: toIonViews(views)}
	data, err := ion.MarshalBinary(doc)
	if err != nil {
		return nil, fmt.Errorf("unable to encode view tree: %w", err)
	}
	return data, nil
}

// DecodeIon reads view tree produced by EncodeIon.
func DecodeIon(data []byte) ([]*View, error) {
	var doc ionDocument
	if err := ion.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unable to decode view tree: %w", err)
	}
	if doc.Version != ionVersion {
		return nil, fmt.Errorf("unsupported view tree version %d", doc.Version)
	}
	return fromIonViews(doc.Views)
}

func toIonText(t TextStyle) ionText {
	return ionText{
		Font:       t.Family,
		Variant:    t.Variant.String(),
		Size:       t.Size,
		Underline:  t.Underline,
		Strike:     t.Strike,
		Background: t.Background,
	}
}

func toIonViews(views []*View) []ionView {
	out := make([]ionView, 0, len(views))
	for _, v := range views {
		iv := ionView{Kind: v.Kind.String(), Tag: v.Tag, Section: v.SectionID}
		switch v.Kind {
		case ViewKindImage:
			if v.Image != nil {
				iv.Image = &ionImage{
					Source:       v.Image.Source,
					WidthPercent: v.Image.WidthPercent,
					AspectRatio:  v.Image.AspectRatio,
					Radius:       v.Image.Radius,
					Fit:          v.Image.Fit,
				}
			}
		default:
			if v.Box != (BoxStyle{}) {
				box := ionBox(v.Box)
				iv.Box = &box
			}
			text := toIonText(v.Text)
			iv.Text = &text
			for _, r := range v.Runs {
				iv.Runs = append(iv.Runs, ionRun{Text: r.Text, Style: toIonText(r.Style)})
			}
			if len(v.Children) > 0 {
				iv.Children = toIonViews(v.Children)
			}
		}
		out = append(out, iv)
	}
	return out
}

func fromIonText(t *ionText) (TextStyle, error) {
	if t == nil {
		return TextStyle{}, nil
	}
	variant, err := ParseFontVariant(t.Variant)
	if err != nil {
		return TextStyle{}, err
	}
	return TextStyle{
		Variant:    variant,
		Family:     t.Font,
		Size:       t.Size,
		Underline:  t.Underline,
		Strike:     t.Strike,
		Background: t.Background,
	}, nil
}

func fromIonViews(views []ionView) ([]*View, error) {
	out := make([]*View, 0, len(views))
	for i := range views {
		iv := &views[i]
		kind, err := ParseViewKind(iv.Kind)
		if err != nil {
			return nil, err
		}
		v := &View{Kind: kind, Tag: iv.Tag, SectionID: iv.Section}
		if iv.Box != nil {
			v.Box = BoxStyle(*iv.Box)
		}
		if v.Text, err = fromIonText(iv.Text); err != nil {
			return nil, err
		}
		for _, r := range iv.Runs {
			style, err := fromIonText(&r.Style)
			if err != nil {
				return nil, err
			}
			v.Runs = append(v.Runs, Run{Text: r.Text, Style: style})
		}
		if len(iv.Children) > 0 {
			if v.Children, err = fromIonViews(iv.Children); err != nil {
				return nil, err
			}
		}
		if iv.Image != nil {
			v.Image = &ImageBox{
				Source:       iv.Image.Source,
				WidthPercent: iv.Image.WidthPercent,
				AspectRatio:  iv.Image.AspectRatio,
				Radius:       iv.Image.Radius,
				Fit:          iv.Image.Fit,
			}
		}
		out = append(out, v)
	}
	return out, nil
}
