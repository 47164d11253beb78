// Package chapter defines chapter content model and transformations between
// section records and the single editable document used by the editor.
package chapter

//go:generate go tool go-enum --marshal --names

// Section variant. The set is closed.
// ENUM(text, image)
type SectionKind int

// Chapter is an ordered unit of study material within its grouping.
type Chapter struct {
	ID            string
	GroupingID    string
	SubgroupingID string
	Title         string
	Position      int
}

// Section is the atomic unit of chapter content. Empty Content and ImageURL
// stand for absent values.
type Section struct {
	ID        string
	ChapterID string
	Number    int
	Kind      SectionKind
	// rich text for text sections
	Content string
	// stored asset for image sections
	ImageURL string
}

// IsEmpty reports whether section carries nothing to show.
func (s *Section) IsEmpty() bool {
	switch s.Kind {
	case SectionKindImage:
		return len(s.ImageURL) == 0
	default:
		return len(s.Content) == 0
	}
}
