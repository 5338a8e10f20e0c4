package ir

import "github.com/barefootjs/bfc/internal/logger"

// ParamInfo describes one destructured prop parameter, or one field the
// caller promised to pass if the component takes a bare `props` identifier.
type ParamInfo struct {
	Name     string
	Type     string
	Optional bool
	Default  *string
	Loc      logger.Loc
}

// SignalInfo is one `[getter, setter] = createSignal(initial)` binding.
type SignalInfo struct {
	Getter  string
	Setter  string
	Initial string // argument expression text, verbatim
	Type    string
	Loc     logger.Loc
}

// MemoInfo is one `name = createMemo(computation)` binding. Dependencies are
// the signal/memo names syntactically called inside the computation body —
// a conservative, syntactic over-approximation, not a real dataflow
// analysis.
type MemoInfo struct {
	Name         string
	Computation  string
	Dependencies []string
	Type         string
	Loc          logger.Loc
}

type EffectInfo struct {
	Body         string
	Dependencies []string
	Loc          logger.Loc
}

type ImportSpecifier struct {
	Name      string
	Alias     string
	IsDefault bool
	Namespace bool
}

type ImportInfo struct {
	Source     string
	Specifiers []ImportSpecifier
	TypeOnly   bool
	Loc        logger.Loc
}

// LocalBinding is a top-level function, const or let binding that isn't one
// of the recognized reactive primitives — carried through so the
// adapter/client generator can reference it verbatim (e.g. a helper used
// inside a loop body or an event handler).
type LocalBinding struct {
	Name string
	Kind string // "function", "const" or "let"
	Text string
	Loc  logger.Loc
}

// ComponentMeta is everything the analyzer extracts about one component
// without re-parsing: identity, reactive primitives, and the surrounding
// module scaffolding (imports, helpers) codegen needs to reproduce.
type ComponentMeta struct {
	Name           string
	IsClientMarked bool

	PropsParams   []ParamInfo
	PropsBinding  string // set when props arrives as a bare identifier
	HasRestProps  bool
	RestPropsName string

	Signals []SignalInfo
	Memos   []MemoInfo
	Effects []EffectInfo
	OnMount []EffectInfo

	Imports []ImportInfo
	Locals  []LocalBinding
}

func (m *ComponentMeta) SignalNames() []string {
	names := make([]string, 0, len(m.Signals)*2)
	for _, s := range m.Signals {
		names = append(names, s.Getter, s.Setter)
	}
	return names
}

// ComponentIR is the output of the IR-build phase: component metadata plus
// the root of the markup tree, plus whatever diagnostics accumulated along
// the way. The IR itself is built once per compile call and discarded after
// the adapter and client generator have both consumed it — nothing here is
// shipped to the runtime except identifiers (signal names, prop names)
// embedded in the emitted artifacts.
type ComponentIR struct {
	Version int
	Meta    ComponentMeta
	Root    *Node
	Errors  []logger.Msg

	// SlotCount is the counter's final value after allocation — the total
	// number of reactive positions in this component.
	SlotCount int
}

const CurrentVersion = 1
