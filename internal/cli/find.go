package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"fern-cli/internal/fuzzy"
)

type matchList []fuzzy.Match

func (l matchList) String() string {
	var sb strings.Builder
	for _, m := range l {
		sb.WriteString(m.Path)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func newFindCmd(app *App) *cobra.Command {
	var (
		dir   string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "find <query>",
		Short: "Fuzzy-find paths under a directory",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ft, err := openTree(app, dir)
			if err != nil {
				return err
			}
			var rels []string
			for _, p := range ft.Tree().Paths() {
				r, err := filepath.Rel(ft.RootPath(), p)
				if err != nil {
					return err
				}
				rels = append(rels, r)
			}
			matches := fuzzy.Find(strings.Join(args, " "), rels, limit)
			if matches == nil {
				matches = []fuzzy.Match{}
			}
			return writeOut(cmd, app, matchList(matches))
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "Directory to search")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum results (0 for all)")
	return cmd
}
