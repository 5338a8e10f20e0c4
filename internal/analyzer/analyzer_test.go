package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barefootjs/bfc/internal/logger"
	"github.com/barefootjs/bfc/internal/parser"
)

func analyze(t *testing.T, src string) *Context {
	t.Helper()
	log := logger.NewLog()
	source := &logger.Source{PrettyPath: "test.bf", Contents: src}
	file := parser.Parse(source, log)
	return Analyze(file, log, source)
}

func TestAnalyzeExtractsSignalsAndMemoDependencies(t *testing.T) {
	src := `
const [count, setCount] = createSignal(0);
const doubled = createMemo(() => count() * 2);

export default function Counter() {
  return <span>{doubled()}</span>;
}
`
	ctx := analyze(t, src)
	require.Equal(t, "Counter", ctx.Meta.Name)
	require.Len(t, ctx.Meta.Signals, 1)
	assert.Equal(t, "count", ctx.Meta.Signals[0].Getter)

	require.Len(t, ctx.Meta.Memos, 1)
	assert.Equal(t, "doubled", ctx.Meta.Memos[0].Name)
	assert.Contains(t, ctx.Meta.Memos[0].Dependencies, "count")
}

func TestAnalyzeEffectDependenciesAreSyntactic(t *testing.T) {
	src := `
const [count, setCount] = createSignal(0);
createEffect(() => {
  console.log(count());
});

export default function Counter() {
  return <span>{count()}</span>;
}
`
	ctx := analyze(t, src)
	require.Len(t, ctx.Meta.Effects, 1)
	assert.Contains(t, ctx.Meta.Effects[0].Dependencies, "count")
}

func TestAnalyzePropsParamsFromDestructure(t *testing.T) {
	src := `
export default function Card({ title, subtitle }) {
  return <div>{title}</div>;
}
`
	ctx := analyze(t, src)
	require.Len(t, ctx.Meta.PropsParams, 2)
	assert.Equal(t, "title", ctx.Meta.PropsParams[0].Name)
	assert.Equal(t, "subtitle", ctx.Meta.PropsParams[1].Name)
	assert.Empty(t, ctx.Meta.PropsBinding)
}

func TestAnalyzeBarePropsBinding(t *testing.T) {
	src := `
export default function Label(props) {
  return <span>{props.text}</span>;
}
`
	ctx := analyze(t, src)
	assert.Equal(t, "props", ctx.Meta.PropsBinding)
	assert.Empty(t, ctx.Meta.PropsParams)
}
