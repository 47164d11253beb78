package render

import (
	"chapterdoc/utils/debug"
)

// Dump returns view tree as indented text.
func Dump(views []*View) string {
	tw := debug.NewTreeWriter()
	dumpViews(tw, 0, views)
	return tw.String()
}

func dumpViews(tw *debug.TreeWriter, depth int, views []*View) {
	for _, v := range views {
		switch v.Kind {
		case ViewKindImage:
			if v.Image == nil {
				tw.Node(depth, "image")
				continue
			}
			tw.Node(depth, "image",
				debug.F("section", v.SectionID),
				debug.F("src", v.Image.Source),
				debug.F("width", v.Image.WidthPercent),
				debug.F("aspect", v.Image.AspectRatio),
				debug.F("radius", v.Image.Radius),
				debug.F("fit", v.Image.Fit),
			)
		default:
			name := v.Kind.String()
			if v.Tag != "" {
				name += " " + v.Tag
			}
			tw.Node(depth, name,
				debug.F("section", v.SectionID),
				debug.F("font", v.Text.Family),
				debug.F("size", v.Text.Size),
				debug.F("align", v.Box.TextAlign),
				debug.F("line-height", v.Box.LineHeight),
				debug.F("margin-bottom", v.Box.MarginBottom),
				debug.F("margin-left", v.Box.MarginLeft),
				debug.F("padding-left", v.Box.PaddingLeft),
				debug.F("border-left", v.Box.BorderLeft),
			)
			for _, r := range v.Runs {
				dumpRun(tw, depth+1, r)
			}
			dumpViews(tw, depth+1, v.Children)
		}
	}
}

func dumpRun(tw *debug.TreeWriter, depth int, r Run) {
	tw.TextBlock(depth, "run", r.Text)
	tw.Node(depth+1, r.Style.Variant.String(),
		debug.F("font", r.Style.Family),
		debug.F("size", r.Style.Size),
		debug.F("underline", r.Style.Underline),
		debug.F("strike", r.Style.Strike),
		debug.F("background", r.Style.Background),
	)
}
