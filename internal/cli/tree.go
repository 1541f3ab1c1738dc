package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"fern-cli/internal/filetree"
)

type treeOutput struct {
	Root   string              `json:"root"`
	Count  int                 `json:"count"`
	Filter []string            `json:"filter,omitempty"`
	Items  []filetree.TreeItem `json:"items"`

	rows []filetree.Row
}

// String renders the visible rows as an indented outline for text output.
func (o treeOutput) String() string {
	var sb strings.Builder
	sb.WriteString(o.Root)
	sb.WriteByte('\n')
	for _, r := range o.rows {
		sb.WriteString(strings.Repeat("  ", r.Depth+1))
		switch {
		case !r.Dir:
			sb.WriteString("  ")
		case r.Expanded:
			sb.WriteString("- ")
		default:
			sb.WriteString("+ ")
		}
		sb.WriteString(r.Label)
		if r.Dir {
			sb.WriteByte('/')
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func newTreeCmd(app *App) *cobra.Command {
	var (
		filters []string
		expand  []string
		all     bool
	)
	cmd := &cobra.Command{
		Use:   "tree [dir]",
		Short: "Print the directory tree",
		Long: strings.TrimSpace(`
Print the tree under dir (default: the current directory).

json and edn output carry the full nested projection. text output prints the
rows an interactive session would show: directories start collapsed unless
named with --expand (or --all).
`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ft, err := openTree(app, rootArg(args))
			if err != nil {
				return err
			}
			resolve := func(p string) string {
				if filepath.IsAbs(p) {
					return filepath.Clean(p)
				}
				return filepath.Join(ft.RootPath(), p)
			}

			if len(filters) > 0 {
				paths := make([]string, len(filters))
				for i, f := range filters {
					paths[i] = resolve(f)
				}
				if err := ft.Apply(filetree.FilterFor{Paths: paths}); err != nil {
					return err
				}
			}
			if all {
				expandAll(ft, ft.Items())
			}
			for _, p := range expand {
				p = resolve(p)
				if _, ok := ft.Tree().Lookup(p); !ok {
					return errNotFound("directory", p)
				}
				expandPath(ft, p)
			}

			out := treeOutput{
				Root:   ft.RootPath(),
				Count:  ft.Tree().Count(),
				Filter: ft.Tree().FilterPaths(),
				Items:  ft.Items(),
				rows:   ft.Rows(),
			}
			return writeOut(cmd, app, out)
		},
	}
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "Only show these paths and their ancestors (repeatable)")
	cmd.Flags().StringArrayVar(&expand, "expand", nil, "Expand this directory in text output (repeatable)")
	cmd.Flags().BoolVar(&all, "all", false, "Expand every directory in text output")
	return cmd
}

// expandPath opens path and its ancestors.
func expandPath(ft *filetree.Filetree, path string) {
	if err := ft.OpenPath(path); err != nil {
		return
	}
	ft.Expand()
}

// expandAll opens every directory of the current projection, so an active
// filter stays in place.
func expandAll(ft *filetree.Filetree, items []filetree.TreeItem) {
	for _, it := range items {
		if !it.Dir {
			continue
		}
		if node, ok := ft.GetNode(it.Loc); ok {
			expandPath(ft, node.Path())
		}
		expandAll(ft, it.Children)
	}
}
