package main

import (
	"os"
	"path/filepath"
	"strings"

	"fern-cli/internal/cli"
)

// isFile reports whether s names an existing non-directory.
var isFile = func(s string) bool {
	st, err := os.Stat(s)
	return err == nil && !st.IsDir()
}

var subcommands = map[string]bool{
	"tree":       true,
	"find":       true,
	"marks":      true,
	"config":     true,
	"docs":       true,
	"help":       true,
	"completion": true,
}

// rewriteFileArg makes `fern path/to/file` open the file's directory with the
// file selected: `fern --cwd path/to/file path/to`.
//
// Cobra would treat the file as the root directory, so argv is rewritten
// before parsing. Persistent flags may come first, so the first positional
// token is located rather than assuming argv[1].
func rewriteFileArg(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}
	valueFlags := map[string]bool{
		"--config":       true,
		"--cwd":          true,
		"--log-level":    true,
		"--metrics-addr": true,
		"--format":       true,
	}

	rewrite := func(i int) []string {
		file := argv[i]
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:i]...)
		out = append(out, "--cwd", file, filepath.Dir(file))
		return append(out, argv[i+1:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isFile(argv[i+1]) {
				out := make([]string, 0, len(argv)+2)
				out = append(out, argv[:i]...)
				out = append(out, "--cwd", argv[i+1], "--", filepath.Dir(argv[i+1]))
				return append(out, argv[i+2:]...)
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if a == "--cwd" {
				// Explicit start path; leave the rest alone.
				return argv
			}
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}
		if subcommands[a] || !isFile(a) {
			return argv
		}
		return rewrite(i)
	}
	return argv
}

func main() {
	os.Args = rewriteFileArg(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
