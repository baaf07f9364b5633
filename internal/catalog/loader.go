package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed tricks.yaml
var builtinYAML []byte

type YAMLLoader struct{}

func NewLoader() *YAMLLoader { return &YAMLLoader{} }

func (l *YAMLLoader) LoadBuiltin(ctx context.Context) (*Catalog, error) {
	c, err := Parse(builtinYAML)
	if err != nil {
		return nil, fmt.Errorf("builtin catalog: %w", err)
	}
	return c, nil
}

func (l *YAMLLoader) LoadFile(ctx context.Context, path string) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a catalog document.
func Parse(b []byte) (*Catalog, error) {
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	tricks := make([]Trick, 0, len(f.Tricks))
	for _, spec := range f.Tricks {
		if err := spec.Validate(); err != nil {
			return nil, err
		}
		tricks = append(tricks, spec.Trick())
	}
	return New(tricks)
}

// Builtin returns the embedded catalog. It panics if the embedded document
// is invalid, which the package tests rule out.
func Builtin() *Catalog {
	c, err := Parse(builtinYAML)
	if err != nil {
		panic(err)
	}
	return c
}
