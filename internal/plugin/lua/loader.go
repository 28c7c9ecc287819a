package lua

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// DiscoverScripts expands paths into Lua script files.
//
// A file is taken as is. A directory contributes its *.lua files sorted by
// name, without recursing. A missing path is an error.
func DiscoverScripts(paths []string) ([]string, error) {
	var scripts []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("discover %s: %w", path, err)
		}
		if !info.IsDir() {
			scripts = append(scripts, path)
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("discover %s: %w", path, err)
		}
		var found []string
		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
				continue
			}
			found = append(found, filepath.Join(path, entry.Name()))
		}
		sort.Strings(found)
		scripts = append(scripts, found...)
	}
	return scripts, nil
}

// LoadScripts discovers and loads every script in paths, stopping at the
// first failure.
func (h *Host) LoadScripts(ctx context.Context, paths []string) error {
	scripts, err := DiscoverScripts(paths)
	if err != nil {
		return err
	}
	for _, script := range scripts {
		if err := h.LoadFile(ctx, script); err != nil {
			return err
		}
	}
	return nil
}
