package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barefootjs/bfc/internal/ast"
	"github.com/barefootjs/bfc/internal/logger"
)

func TestParseExtractsSignalMemoEffectAndComponent(t *testing.T) {
	src := `
import { helper } from "./helper";

const [count, setCount] = createSignal(0);
const doubled = createMemo(() => count() * 2);
createEffect(() => {
  console.log(count());
});

export default function Counter() {
  return (
    <button onClick={() => setCount(n => n + 1)}>
      Count: <span>{doubled()}</span>
    </button>
  );
}
`
	log := logger.NewLog()
	source := &logger.Source{PrettyPath: "counter.bf", Contents: src}
	file := Parse(source, log)
	require.False(t, log.HasErrors())

	require.Len(t, file.Imports, 1)
	assert.Equal(t, "./helper", file.Imports[0].Source)

	require.Len(t, file.Signals, 1)
	assert.Equal(t, "count", file.Signals[0].Getter)
	assert.Equal(t, "setCount", file.Signals[0].Setter)
	assert.Equal(t, "0", file.Signals[0].Initial)

	require.Len(t, file.Memos, 1)
	assert.Equal(t, "doubled", file.Memos[0].Name)

	require.Len(t, file.Effects, 1)

	require.NotNil(t, file.Component)
	assert.Equal(t, "Counter", file.Component.Name)
	require.NotNil(t, file.Root)
	assert.Equal(t, "button", file.Root.Tag)
}

func TestParseDestructuredPropsWithDefaultAndRest(t *testing.T) {
	src := `
export default function Card({ title, subtitle = "none", ...rest }) {
  return <div>{title}</div>;
}
`
	log := logger.NewLog()
	source := &logger.Source{PrettyPath: "card.bf", Contents: src}
	file := Parse(source, log)
	require.False(t, log.HasErrors())
	require.NotNil(t, file.Component)

	require.Len(t, file.Component.Params, 2)
	assert.Equal(t, "title", file.Component.Params[0].Name)
	assert.Equal(t, "subtitle", file.Component.Params[1].Name)
	assert.True(t, file.Component.Params[1].HasValue)
	assert.Equal(t, `"none"`, file.Component.Params[1].Default)

	assert.True(t, file.Component.HasRestProps)
	assert.Equal(t, "rest", file.Component.RestName)
}

func TestParseBarePropsIdentifier(t *testing.T) {
	src := `
export default function Label(props) {
  return <span>{props.text}</span>;
}
`
	log := logger.NewLog()
	source := &logger.Source{PrettyPath: "label.bf", Contents: src}
	file := Parse(source, log)
	require.False(t, log.HasErrors())
	require.NotNil(t, file.Component)
	assert.Equal(t, "props", file.Component.BareParamName)
}

func TestParseFragmentRoot(t *testing.T) {
	src := `
export default function Pair() {
  return <><span>A</span><span>B</span></>;
}
`
	log := logger.NewLog()
	source := &logger.Source{PrettyPath: "pair.bf", Contents: src}
	file := Parse(source, log)
	require.False(t, log.HasErrors())
	require.NotNil(t, file.Root)
	assert.Equal(t, ast.MarkupFragment, file.Root.Kind)
	require.Len(t, file.Root.Children, 2)
}

func TestParseWarnsOnMissingComponent(t *testing.T) {
	src := `const x = 1;`
	log := logger.NewLog()
	source := &logger.Source{PrettyPath: "empty.bf", Contents: src}
	file := Parse(source, log)
	assert.Nil(t, file.Component)
	msgs := log.Done()
	require.NotEmpty(t, msgs)
	assert.Equal(t, logger.Warning, msgs[0].Kind)
}
