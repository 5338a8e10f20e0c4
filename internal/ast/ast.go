// Package ast holds the shallow, source-level tree the parser produces: top-
// level declarations (imports, signals, memos, effects) extracted just
// deeply enough for the analyzer to classify them, plus the raw markup tree
// returned from the component function. Everything below a declaration's
// "interesting" prefix — an effect body, a signal's initial-value
// expression, a local function's statements — is kept as source text, never
// turned into a general expression AST. The compiler does not need one: the
// reactivity classifier works directly on text (see internal/lexer), and
// every backend re-emits expression text verbatim.
package ast

import "github.com/barefootjs/bfc/internal/logger"

type ImportSpecifier struct {
	Name      string
	Alias     string
	IsDefault bool
	Namespace bool
}

type ImportDecl struct {
	Source     string
	Specifiers []ImportSpecifier
	TypeOnly   bool
	Loc        logger.Loc
}

// SignalDecl is `const [getter, setter] = createSignal(initial)`.
type SignalDecl struct {
	Getter  string
	Setter  string
	Initial string
	Type    string
	Loc     logger.Loc
}

// MemoDecl is `const name = createMemo(computation)`.
type MemoDecl struct {
	Name        string
	Computation string
	Type        string
	Loc         logger.Loc
}

// EffectDecl covers both `createEffect(body)` and `onMount(body)` — the
// analyzer tags which list it belongs to, the shape is identical.
type EffectDecl struct {
	Body string
	Loc  logger.Loc
}

// Param is one destructured prop parameter: `{ name, onSave }: Props`.
type Param struct {
	Name     string
	Type     string
	Optional bool
	Default  string
	HasValue bool
	Loc      logger.Loc
}

// ComponentDecl is the exported component function: `export default
// function Counter(props) { ...; return <markup>; }`.
type ComponentDecl struct {
	Name string

	// Populated when the first parameter is an object pattern.
	Params       []Param
	HasRestProps bool
	RestName     string

	// Populated instead when the first parameter is a bare identifier
	// (`props`), so the IR builder can recognize `props.x` references.
	BareParamName string

	ReturnExprRaw string
	Loc           logger.Loc
}

type LocalDecl struct {
	Name string
	Kind string // "function" | "const" | "let"
	Text string
	Loc  logger.Loc
}

// File is the parser's output for one compilation unit.
type File struct {
	ClientDirective bool

	Imports   []ImportDecl
	Signals   []SignalDecl
	Memos     []MemoDecl
	Effects   []EffectDecl
	OnMounts  []EffectDecl
	Component *ComponentDecl
	Locals    []LocalDecl

	Root *Markup // the parsed return-expression markup tree, nil if missing/unparsable
}
