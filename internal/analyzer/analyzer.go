// Package analyzer converts a parsed internal/ast.File into an
// internal/ir.ComponentMeta: the component's identity, its reactive
// primitives, and the module scaffolding around it. It does not walk
// markup — that's internal/transform's job — only the declarations the
// parser already separated out.
package analyzer

import (
	"github.com/barefootjs/bfc/internal/ast"
	"github.com/barefootjs/bfc/internal/ir"
	"github.com/barefootjs/bfc/internal/lexer"
	"github.com/barefootjs/bfc/internal/logger"
)

// Context is the analyzer's output: metadata plus the raw markup tree the
// transform phase still needs, plus the component's name for diagnostics.
type Context struct {
	Meta ir.ComponentMeta
	Root *ast.Markup
}

// Analyze extracts everything the IR builder and adapters need from file
// without re-parsing source text. Errors encountered upstream in the parser
// are already in log; Analyze only adds its own (a warning when the
// component has no parsed markup). A file with no component yields an
// empty Context and no diagnostic from Analyze.
func Analyze(file *ast.File, log *logger.Log, source *logger.Source) *Context {
	ctx := &Context{}

	if file.Component == nil {
		return ctx
	}
	ctx.Meta.Name = file.Component.Name
	ctx.Meta.IsClientMarked = file.ClientDirective
	ctx.Root = file.Root

	for _, param := range file.Component.Params {
		var def *string
		if param.HasValue {
			v := param.Default
			def = &v
		}
		ctx.Meta.PropsParams = append(ctx.Meta.PropsParams, ir.ParamInfo{
			Name: param.Name, Type: param.Type, Optional: param.Optional, Default: def, Loc: param.Loc,
		})
	}
	ctx.Meta.PropsBinding = file.Component.BareParamName
	ctx.Meta.HasRestProps = file.Component.HasRestProps
	ctx.Meta.RestPropsName = file.Component.RestName

	signalGetters := make([]string, 0, len(file.Signals))
	for _, s := range file.Signals {
		signalGetters = append(signalGetters, s.Getter)
		ctx.Meta.Signals = append(ctx.Meta.Signals, ir.SignalInfo{
			Getter: s.Getter, Setter: s.Setter, Initial: s.Initial, Type: s.Type, Loc: s.Loc,
		})
	}

	memoNames := make([]string, 0, len(file.Memos))
	for _, m := range file.Memos {
		memoNames = append(memoNames, m.Name)
	}

	candidates := append(append([]string{}, signalGetters...), memoNames...)

	for _, m := range file.Memos {
		ctx.Meta.Memos = append(ctx.Meta.Memos, ir.MemoInfo{
			Name: m.Name, Computation: m.Computation,
			Dependencies: dependenciesOf(m.Computation, candidates),
			Type:         m.Type, Loc: m.Loc,
		})
	}

	for _, e := range file.Effects {
		ctx.Meta.Effects = append(ctx.Meta.Effects, ir.EffectInfo{
			Body: e.Body, Dependencies: dependenciesOf(e.Body, candidates), Loc: e.Loc,
		})
	}
	for _, e := range file.OnMounts {
		ctx.Meta.OnMount = append(ctx.Meta.OnMount, ir.EffectInfo{
			Body: e.Body, Dependencies: dependenciesOf(e.Body, candidates), Loc: e.Loc,
		})
	}

	for _, imp := range file.Imports {
		var specs []ir.ImportSpecifier
		for _, s := range imp.Specifiers {
			specs = append(specs, ir.ImportSpecifier{
				Name: s.Name, Alias: s.Alias, IsDefault: s.IsDefault, Namespace: s.Namespace,
			})
		}
		ctx.Meta.Imports = append(ctx.Meta.Imports, ir.ImportInfo{
			Source: imp.Source, Specifiers: specs, TypeOnly: imp.TypeOnly, Loc: imp.Loc,
		})
	}

	for _, l := range file.Locals {
		ctx.Meta.Locals = append(ctx.Meta.Locals, ir.LocalBinding{
			Name: l.Name, Kind: l.Kind, Text: l.Text, Loc: l.Loc,
		})
	}

	if ctx.Root == nil {
		log.AddWarning(source, logger.Range{Loc: file.Component.Loc, Len: 1},
			logger.ExtractMissingMarkup, "component has no parsed markup to compile")
	}

	return ctx
}

// dependenciesOf returns the subset of candidates syntactically called as
// functions inside expr, preserving candidates' order. This is the
// analyzer's one piece of "dataflow" and it is deliberately syntactic: a
// call-shaped substring match, not a real reference graph.
func dependenciesOf(expr string, candidates []string) []string {
	var deps []string
	seen := make(map[string]bool)
	for _, name := range candidates {
		if name == "" || seen[name] {
			continue
		}
		if lexer.ContainsCallTo(expr, name) {
			deps = append(deps, name)
			seen[name] = true
		}
	}
	return deps
}
