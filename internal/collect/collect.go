// Package collect discovers tavern test files below a set of roots.
package collect

import (
	"context"
	"io/fs"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Collector finds files whose slash-separated path matches a pattern.
type Collector struct {
	pattern *regexp.Regexp
	logger  *zap.Logger
}

// New returns a Collector for pattern.
func New(pattern *regexp.Regexp, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{pattern: pattern, logger: logger}
}

// Collect walks every root concurrently and returns the sorted, de-duplicated
// matching paths. A root may be a file or a directory. Hidden directories and
// __pycache__ are not entered.
func (c *Collector) Collect(ctx context.Context, roots ...string) ([]string, error) {
	found := make([][]string, len(roots))

	g, ctx := errgroup.WithContext(ctx)
	for i, root := range roots {
		i, root := i, root
		g.Go(func() error {
			paths, err := c.walk(ctx, root)
			if err != nil {
				return err
			}
			found[i] = paths
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []string
	for _, paths := range found {
		out = append(out, paths...)
	}
	slices.Sort(out)
	out = slices.Compact(out)

	c.logger.Debug("collected test files", zap.Strings("roots", roots), zap.Int("count", len(out)))
	return out, nil
}

func (c *Collector) walk(ctx context.Context, root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if c.pattern.MatchString(filepath.ToSlash(path)) {
			out = append(out, path)
		}
		return nil
	})
	return out, err
}

func skipDir(name string) bool {
	return name == "__pycache__" || (strings.HasPrefix(name, ".") && name != "." && name != "..")
}
