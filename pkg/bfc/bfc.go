// Package bfc is the public, embeddable compiler API — a thin, stable
// wrapper over internal/compiler so host programs such as build tools never
// import internal packages directly. The shape
// mirrors esbuild's own pkg/api: a handful of top-level functions plus a
// plain Options struct.
package bfc

import (
	"context"

	"github.com/barefootjs/bfc/internal/adapter/gotemplate"
	"github.com/barefootjs/bfc/internal/adapter/reference"
	"github.com/barefootjs/bfc/internal/compiler"
)

type AdapterName string

const (
	AdapterReference  AdapterName = "reference"
	AdapterGoTemplate AdapterName = "gotemplate"
)

// Options mirrors internal/compiler.Options, re-exported with a
// string/enum adapter selector instead of the internal interface type so
// callers never need to import internal/adapter.
type Options struct {
	Adapter         AdapterName
	GoTemplatePkg   string
	OutputIR        bool
	ContentHash     bool
	Minify          bool
	ClientOnly      bool
}

func (o Options) toInternal() compiler.Options {
	var a = compiler.Options{
		OutputIR:    o.OutputIR,
		ContentHash: o.ContentHash,
		Minify:      o.Minify,
		ClientOnly:  o.ClientOnly,
	}
	switch o.Adapter {
	case AdapterGoTemplate:
		a.Adapter = gotemplate.New(o.GoTemplatePkg)
	default:
		a.Adapter = reference.New()
	}
	return a
}

type OutputType = compiler.OutputType

const (
	OutputMarkedTemplate = compiler.OutputMarkedTemplate
	OutputClientJS       = compiler.OutputClientJS
	OutputIR             = compiler.OutputIR
	OutputTypes          = compiler.OutputTypes
)

type FileOutput = compiler.FileOutput
type Result = compiler.Result

// Compile is the synchronous entry point (spec §6): compile(source, path, options).
func Compile(source, path string, opts Options) Result {
	return compiler.Compile(source, path, opts.toInternal())
}

// ReadFunc fetches one compilation unit's source text for CompileFile.
type ReadFunc func(ctx context.Context, path string) (string, error)

// CompileFile is the asynchronous entry point (spec §6): it suspends
// exactly at read(path); everything after is synchronous.
func CompileFile(ctx context.Context, path string, read ReadFunc, opts Options) (Result, error) {
	return compiler.CompileFile(ctx, path, compiler.ReadFunc(read), opts.toInternal())
}
