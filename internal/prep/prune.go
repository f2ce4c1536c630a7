package prep

import "github.com/KaramelBytes/tabprep-cli/internal/table"

// Prune drops the named columns, keeping the order of the rest.
// Every name must exist.
func Prune(t *table.Table, names []string) (*table.Table, error) {
	if len(names) == 0 {
		return t, nil
	}
	return t.Drop("prune", names...)
}
