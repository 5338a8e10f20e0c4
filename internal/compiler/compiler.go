// Package compiler is the pipeline's single entry point: source text in,
// a set of FileOutputs and diagnostics out. It wires
// parser -> analyzer -> transform -> (adapter | clientgen) exactly as
// spec.md §2 lays the pipeline out, and is the only package that knows
// the full phase order.
package compiler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/barefootjs/bfc/internal/adapter"
	"github.com/barefootjs/bfc/internal/adapter/gotemplate"
	"github.com/barefootjs/bfc/internal/adapter/reference"
	"github.com/barefootjs/bfc/internal/analyzer"
	"github.com/barefootjs/bfc/internal/clientgen"
	"github.com/barefootjs/bfc/internal/ir"
	"github.com/barefootjs/bfc/internal/logger"
	"github.com/barefootjs/bfc/internal/parser"
	"github.com/barefootjs/bfc/internal/transform"
)

// OutputType enumerates what a FileOutput contains.
type OutputType string

const (
	OutputMarkedTemplate OutputType = "markedTemplate"
	OutputClientJS       OutputType = "clientJs"
	OutputIR             OutputType = "ir"
	OutputTypes          OutputType = "types"
)

// FileOutput is one artifact produced for a compilation unit.
type FileOutput struct {
	Path    string
	Content string
	Type    OutputType
}

// Options controls what compile emits; zero value is the reference adapter
// with no extras (spec §6).
type Options struct {
	Adapter     adapter.Adapter // nil means the reference adapter
	OutputIR    bool
	ContentHash bool
	Minify      bool // not read: client scripts are always emitted unminified
	ClientOnly  bool
}

// Result is compile's/compileFile's return value.
type Result struct {
	Files  []FileOutput
	Errors []logger.Msg
}

func resolveAdapter(opts Options) adapter.Adapter {
	if opts.Adapter != nil {
		return opts.Adapter
	}
	return reference.New()
}

// compileSource is the synchronous, uninterruptible core that both entry
// points named in spec §6 (Compile and CompileFile) call into.
func compileSource(contents, path string, opts Options) Result {
	log := logger.NewLog()
	source := &logger.Source{PrettyPath: path, Contents: contents}

	file := parser.Parse(source, log)
	ctx := analyzer.Analyze(file, log, source)
	componentIR := transform.Build(ctx, log, source)
	componentIR.Errors = log.Done()

	result := Result{Errors: componentIR.Errors}
	if log.HasErrors() {
		return result
	}

	a := resolveAdapter(opts)
	base := componentIR.Meta.Name
	if base == "" {
		base = "Component"
	}

	if !opts.ClientOnly {
		gen, err := a.Generate(componentIR)
		if err != nil {
			result.Errors = append(result.Errors, logger.Msg{
				Kind: logger.Error, Code: logger.AdapterUnsupportedExpr, Text: err.Error(),
			})
			return result
		}
		result.Files = append(result.Files, FileOutput{
			Path: base + gen.Extension, Content: gen.Template, Type: OutputMarkedTemplate,
		})
		if gen.HasTypes {
			result.Files = append(result.Files, FileOutput{
				Path: base + "_types.go", Content: gen.Types, Type: OutputTypes,
			})
		}
	}

	script := clientgen.Generate(componentIR)
	if script != "" {
		name := base + ".client.js"
		if opts.ContentHash {
			name = base + "." + contentHash(script) + ".client.js"
		}
		result.Files = append(result.Files, FileOutput{Path: name, Content: script, Type: OutputClientJS})
	}

	if opts.OutputIR {
		if irJSON, err := marshalIR(componentIR); err == nil {
			result.Files = append(result.Files, FileOutput{
				Path: base + ".ir.json", Content: irJSON, Type: OutputIR,
			})
		}
	}

	return result
}

// Compile is the synchronous entry point: compile(source, path, options).
func Compile(source, path string, opts Options) Result {
	return compileSource(source, path, opts)
}

// ReadFunc fetches compilation-unit source text, the async API's one
// suspension point (spec §5).
type ReadFunc func(ctx context.Context, path string) (string, error)

// CompileFile is the asynchronous entry point: it suspends exactly at
// read(path), after which every subsequent phase is synchronous. If ctx is
// canceled before read returns, no partial output is published.
func CompileFile(ctx context.Context, path string, read ReadFunc, opts Options) (Result, error) {
	contents, err := read(ctx, path)
	if err != nil {
		return Result{}, fmt.Errorf("reading %s: %w", path, err)
	}
	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	default:
	}
	return compileSource(contents, path, opts), nil
}

func marshalIR(c *ir.ComponentIR) (string, error) {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// contentHash is a short, deterministic content-derived suffix — not a
// cryptographic digest, just a stable fingerprint for cache-busting
// filenames (spec §6 contentHash option).
func contentHash(content string) string {
	var h uint32 = 2166136261
	for i := 0; i < len(content); i++ {
		h ^= uint32(content[i])
		h *= 16777619
	}
	const hex = "0123456789abcdef"
	buf := make([]byte, 8)
	for i := 0; i < 8; i++ {
		buf[7-i] = hex[h&0xf]
		h >>= 4
	}
	return string(buf)
}

// NewGoTemplateAdapter is a convenience constructor for the "gotemplate"
// adapter.
func NewGoTemplateAdapter(pkg string) adapter.Adapter { return gotemplate.New(pkg) }

// NewReferenceAdapter is the convenience constructor for the default adapter.
func NewReferenceAdapter() adapter.Adapter { return reference.New() }
