package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/KaramelBytes/tabprep-cli/internal/loader"
	"github.com/KaramelBytes/tabprep-cli/internal/table"
)

// expandInputs resolves glob patterns and literal paths, dropping duplicates
// and files no loader accepts. The result is sorted.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			// treat as literal path so the loader reports why it cannot be read
			matches = []string{arg}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			if fi, err := os.Stat(m); err == nil && fi.IsDir() {
				continue
			}
			if len(matches) > 1 && !loader.Supported(m) {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

// loadInput reads one file with the global input options.
func loadInput(path string) (*table.Table, error) {
	opt, err := loaderOptions()
	if err != nil {
		return nil, err
	}
	return loader.Load(path, opt)
}

// printPreview writes the first n rows of t as an aligned text table.
func printPreview(w io.Writer, t *table.Table, n, precision int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Names(), "\t"))
	for i := 0; i < t.Rows() && i < n; i++ {
		rec := t.Record(i, precision)
		for j, v := range rec {
			if v == "" {
				rec[j] = "-"
			}
		}
		fmt.Fprintln(tw, strings.Join(rec, "\t"))
	}
	if t.Rows() > n {
		fmt.Fprintf(tw, "... %d more rows\n", t.Rows()-n)
	}
	return tw.Flush()
}
