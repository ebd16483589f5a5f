package main

import (
	"context"
	"fmt"

	"github.com/alnah/go-docbuild"
)

// Converter is the part of *docbuild.Converter a build uses.
type Converter interface {
	Convert(ctx context.Context, input docbuild.Input) (*docbuild.ConvertResult, error)
	RenderIndex(ctx context.Context, idx docbuild.Index) ([]byte, error)
}

// Compile-time interface implementation check.
var _ Converter = (*docbuild.Converter)(nil)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire() (Converter, error)
	Release(Converter)
	Size() int
	Close() error
}

// poolAdapter exposes *docbuild.ConverterPool as a Pool.
type poolAdapter struct {
	pool *docbuild.ConverterPool
}

var _ Pool = (*poolAdapter)(nil)

// newConverterPool is the production Environment.NewPool.
func newConverterPool(size int, opts ...docbuild.Option) Pool {
	return &poolAdapter{pool: docbuild.NewConverterPool(size, opts...)}
}

func (a *poolAdapter) Acquire() (Converter, error) {
	conv, err := a.pool.Acquire()
	if err != nil {
		return nil, err
	}
	return conv, nil
}

// Release panics on a Converter the pool did not hand out (programmer error).
func (a *poolAdapter) Release(c Converter) {
	conv, ok := c.(*docbuild.Converter)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", c))
	}
	a.pool.Release(conv)
}

func (a *poolAdapter) Size() int {
	return a.pool.Size()
}

func (a *poolAdapter) Close() error {
	return a.pool.Close()
}
