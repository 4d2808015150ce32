package cli

import (
	"fmt"
	"os"

	gio "github.com/graphstage/graphstage/pkg/io"
)

// resolveBatchPaths expands the replay argument into an ordered list of
// batch files: a file is itself, a directory is its sorted JSON contents.
func resolveBatchPaths(arg string) ([]string, error) {
	info, err := os.Stat(arg)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", arg, err)
	}
	if !info.IsDir() {
		return []string{arg}, nil
	}
	paths, err := gio.ListBatchFiles(arg)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no batch files in %s", arg)
	}
	return paths, nil
}
