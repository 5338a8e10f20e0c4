package logger

// Stable diagnostic codes. These are never renumbered or reused for a
// different meaning once released; a code frozen here is a promise to
// tooling that consumes CompileResult.errors programmatically.
const (
	// Parse errors: malformed source. Fatal for the compilation unit —
	// no template or client script is generated for it.
	ParseSyntaxError     Code = "parse-syntax-error"
	ParseUnterminated    Code = "parse-unterminated-literal"
	ParseUnexpectedToken Code = "parse-unexpected-token"

	// Extraction warnings: the analyzer saw something unusual but kept going.
	ExtractUnrecognizedCall Code = "extract-unrecognized-call"
	ExtractMissingMarkup    Code = "extract-missing-markup-return"
	ExtractAmbiguousProps   Code = "extract-ambiguous-props-shape"

	// Transform-level issues from the JSX-to-IR pass.
	TransformMapCallbackShape Code = "transform-map-callback-shape"
	TransformUnsupportedLoop  Code = "transform-unsupported-loop-chain"

	// Adapter incapability: a dialect can't represent something the IR
	// needs (e.g. spread attributes). Always an error, never a silent drop.
	AdapterNoSpreadSupport   Code = "adapter-no-spread-support"
	AdapterUnsupportedExpr   Code = "adapter-unsupported-expression"
	AdapterFilterBodyShape   Code = "adapter-filter-body-unsupported"
	AdapterPortalUnsupported Code = "adapter-portal-unsupported"

	// Informational notes about conservative decisions.
	InfoAmbiguousReactivity Code = "info-ambiguous-reactivity"
)
