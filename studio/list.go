package studio

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"

	"chapterdoc/chapter"
	"chapterdoc/state"
	"chapterdoc/store"
)

const excerptRunes = 60

// List prints chapters ordered by grouping and title, numbers in titles
// compared by value, with excerpt of their text.
func List(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)

	sections, err := openSections(env)
	if err != nil {
		return err
	}
	return list(ctx, sections, cmd.String("grouping"), os.Stdout)
}

func naturalCompare(a, b string) int {
	switch {
	case natural.Less(a, b):
		return -1
	case natural.Less(b, a):
		return 1
	}
	return 0
}

func sortChapters(chapters []chapter.Chapter) {
	slices.SortStableFunc(chapters, func(a, b chapter.Chapter) int {
		return cmp.Or(
			naturalCompare(a.GroupingID, b.GroupingID),
			naturalCompare(a.Title, b.Title),
			cmp.Compare(a.Position, b.Position),
		)
	})
}

func list(ctx context.Context, sections *store.Adapter, grouping string, w io.Writer) error {
	chapters, err := sections.Records().Chapters(ctx)
	if err != nil {
		return fmt.Errorf("unable to list chapters: %w", err)
	}
	if len(grouping) > 0 {
		chapters = slices.DeleteFunc(chapters, func(c chapter.Chapter) bool { return c.GroupingID != grouping })
	}
	sortChapters(chapters)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tGROUPING\tTITLE\tSECTIONS\tEXCERPT")
	for _, c := range chapters {
		list, err := sections.LoadSections(ctx, c.ID)
		if err != nil {
			return fmt.Errorf("unable to load sections of chapter %s: %w", c.ID, err)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", c.ID, c.GroupingID, c.Title, len(list), chapter.Excerpt(list, excerptRunes))
	}
	return tw.Flush()
}
