package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"fern-cli/internal/marks"
)

func newMarksCmd(app *App) *cobra.Command {
	var root string
	cmd := &cobra.Command{
		Use:   "marks",
		Short: "Manage marked paths",
	}
	cmd.PersistentFlags().StringVar(&root, "root", ".", "Tree root the marks belong to")

	withStore := func(cmd *cobra.Command, fn func(s *marks.Store, root string) error) error {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return err
		}
		s, err := marks.Open(cmd.Context(), app.cfg.Marks.Path)
		if err != nil {
			return err
		}
		defer s.Close()
		return fn(s, absRoot)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List marks for the root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(s *marks.Store, root string) error {
				list, err := s.List(cmd.Context(), root)
				if err != nil {
					return err
				}
				if list == nil {
					list = []marks.Mark{}
				}
				return writeOut(cmd, app, list)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <path>",
		Short: "Mark a path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(s *marks.Store, root string) error {
				p, err := filepath.Abs(args[0])
				if err != nil {
					return err
				}
				if _, err := os.Lstat(p); err != nil {
					return errNotFound("path", p)
				}
				if err := s.Add(cmd.Context(), root, p); err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]string{"root": root, "path": p})
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "rm <path>",
		Aliases: []string{"remove"},
		Short:   "Remove a mark",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(s *marks.Store, root string) error {
				p, err := filepath.Abs(args[0])
				if err != nil {
					return err
				}
				if err := s.Remove(cmd.Context(), root, p); err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]string{"root": root, "removed": p})
			})
		},
	})
	return cmd
}
