// Package catalog reads function signature declarations from YAML.
//
// A catalog looks like
//
//	functions:
//	  - name: element_at
//	    variables:
//	      - name: K
//	        comparable: true
//	      - name: V
//	    args: ["map(K,V)", K]
//	    returns: V
//
// Declared type variables may be written by their bare names in args and
// returns.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/brimdata/funcsig"
	"github.com/brimdata/funcsig/function"
	"github.com/brimdata/funcsig/sig"
	"github.com/goccy/go-yaml"
	"golang.org/x/sync/errgroup"
)

type Catalog struct {
	Functions []Function `yaml:"functions"`
}

type Function struct {
	Name      string              `yaml:"name"`
	Variables []function.Variable `yaml:"variables,omitempty"`
	Args      []string            `yaml:"args,omitempty"`
	Returns   string              `yaml:"returns"`
}

func Parse(b []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.UnmarshalWithOptions(b, &c, yaml.DisallowUnknownField()); err != nil {
		return nil, err
	}
	return &c, nil
}

func Load(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// LoadSignatures loads each catalog in paths and returns their signatures
// in order.
func LoadSignatures(sctx *funcsig.Context, paths ...string) ([]*function.Signature, error) {
	var sigs []*function.Signature
	for _, path := range paths {
		c, err := Load(path)
		if err != nil {
			return nil, err
		}
		s, err := c.Signatures(sctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		sigs = append(sigs, s...)
	}
	return sigs, nil
}

// Signatures parses every function of the catalog.
func (c *Catalog) Signatures(sctx *funcsig.Context) ([]*function.Signature, error) {
	sigs := make([]*function.Signature, 0, len(c.Functions))
	for k, f := range c.Functions {
		s, err := f.Signature(sctx)
		if err != nil {
			return nil, fmt.Errorf("function %d (%s): %w", k+1, f.Name, err)
		}
		sigs = append(sigs, s)
	}
	return sigs, nil
}

func (f *Function) Signature(sctx *funcsig.Context) (*function.Signature, error) {
	names := make([]string, 0, len(f.Variables))
	for _, v := range f.Variables {
		names = append(names, v.Name)
	}
	args, err := sig.ParseTypes(sctx, f.Args, names...)
	if err != nil {
		return nil, err
	}
	if f.Returns == "" {
		return nil, fmt.Errorf("%w: missing return type", function.ErrBadSignature)
	}
	p := sig.NewParser(strings.NewReader(f.Returns))
	p.SetVariables(names...)
	ret, err := p.ParseType(sctx)
	if err != nil {
		return nil, fmt.Errorf("return type: %w", err)
	}
	return &function.Signature{
		Name:      f.Name,
		Variables: f.Variables,
		Args:      args,
		Return:    ret,
	}, nil
}

// Register adds sigs to reg in order, so the first of two signatures with
// the same name and arguments is the one kept.  Argument lists are analyzed
// concurrently beforehand.  Every rejected signature is reported in the
// returned error.
func Register(ctx context.Context, reg *function.Registry, sigs []*function.Signature) error {
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))
	for _, s := range sigs {
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// Errors are reported by Register below.
			reg.Analyze(s.Args)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}
	errs := make([]error, 0, len(sigs))
	for _, s := range sigs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := reg.Register(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
