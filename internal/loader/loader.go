// Package loader reads global configuration files and merges them into a
// single document.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/tavern-settings/internal/document"
)

const includeTag = "!include"

// Files loads YAML global configuration files from disk.
type Files struct {
	logger   *zap.Logger
	readFile func(string) ([]byte, error)
}

// New returns a Files loader. A nil logger disables logging.
func New(logger *zap.Logger) *Files {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Files{
		logger:   logger,
		readFile: os.ReadFile,
	}
}

// Load reads every path in order and deep-merges the documents: maps are
// merged key by key and any other value from a later file replaces the
// earlier one. No paths yields an empty map.
func (f *Files) Load(paths []string) (document.Value, error) {
	docs := make([]document.Value, 0, len(paths))
	for _, p := range paths {
		doc, err := f.LoadFile(p)
		if err != nil {
			return document.Value{}, err
		}
		f.logger.Debug("loaded global config file", zap.String("path", p), zap.Strings("keys", doc.Keys()))
		docs = append(docs, doc)
	}
	return document.MergeAll(docs...), nil
}

// LoadFile reads a single global configuration file. The file must hold one
// document whose root is a mapping; an empty file is an empty mapping.
func (f *Files) LoadFile(path string) (document.Value, error) {
	v, err := f.load(path, nil)
	if err != nil {
		return document.Value{}, err
	}
	switch {
	case v.IsNull():
		return document.NewMap(), nil
	case !v.IsMap():
		return document.Value{}, BadSchemaError{Path: path, Kind: v.Kind()}
	}
	return v, nil
}

func (f *Files) load(path string, chain []string) (document.Value, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return document.Value{}, err
	}
	if slices.Contains(chain, abs) {
		return document.Value{}, IncludeCycleError{Chain: append(slices.Clone(chain), abs)}
	}
	chain = append(slices.Clone(chain), abs)

	data, err := f.readFile(path)
	if err != nil {
		return document.Value{}, fmt.Errorf("read global config: %w", err)
	}

	node, err := decodeSingle(path, data)
	if err != nil {
		return document.Value{}, err
	}

	return document.FromNode(node, func(n *yaml.Node) (document.Value, error) {
		if n.Tag != includeTag {
			return document.Value{}, document.UnknownTagError{Tag: n.Tag, Line: n.Line}
		}
		if n.Kind != yaml.ScalarNode || n.Value == "" {
			return document.Value{}, fmt.Errorf("%s:%d: %s expects a file path", path, n.Line, includeTag)
		}
		target := n.Value
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(path), target)
		}
		return f.load(target, chain)
	})
}

func decodeSingle(path string, data []byte) (*yaml.Node, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var first yaml.Node
	if err := dec.Decode(&first); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var extra yaml.Node
	switch err := dec.Decode(&extra); {
	case err == nil:
		return nil, UnexpectedDocumentsError{Path: path}
	case !errors.Is(err, io.EOF):
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &first, nil
}
