package compiler

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const counterSource = `
export default function Counter() {
  const [count, setCount] = createSignal(0);
  return (
    <button onClick={() => setCount(n => n + 1)}>
      Count: <span>{count()}</span>
    </button>
  );
}
`

const staticSource = `
export default function Greeting() {
  return <div><p>hello</p></div>;
}
`

func TestCompileDeterministic(t *testing.T) {
	a := Compile(counterSource, "counter.bf", Options{})
	b := Compile(counterSource, "counter.bf", Options{})
	require.Empty(t, a.Errors)
	require.Equal(t, len(a.Files), len(b.Files))
	for i := range a.Files {
		assert.Equal(t, a.Files[i].Content, b.Files[i].Content)
	}
}

func TestCompileEmitsSlotMarkersAndClientScript(t *testing.T) {
	res := Compile(counterSource, "counter.bf", Options{})
	require.Empty(t, res.Errors)

	var tmpl, script string
	for _, f := range res.Files {
		switch f.Type {
		case OutputMarkedTemplate:
			tmpl = f.Content
		case OutputClientJS:
			script = f.Content
		}
	}
	require.NotEmpty(t, tmpl, "expected a marked template output")
	assert.Contains(t, tmpl, "bf=")
	require.NotEmpty(t, script, "a component with a signal must emit a client script")
	assert.Contains(t, script, "createSignal")
}

func TestCompileStaticComponentOmitsClientScript(t *testing.T) {
	res := Compile(staticSource, "greeting.bf", Options{})
	require.Empty(t, res.Errors)
	for _, f := range res.Files {
		assert.NotEqual(t, OutputClientJS, f.Type, "a purely static component must not emit a client script")
	}
}

func TestCompileClientOnlySkipsTemplate(t *testing.T) {
	res := Compile(counterSource, "counter.bf", Options{ClientOnly: true})
	require.Empty(t, res.Errors)
	for _, f := range res.Files {
		assert.NotEqual(t, OutputMarkedTemplate, f.Type)
	}
}

func TestCompileContentHashIsStableAndDiffersByContent(t *testing.T) {
	a := Compile(counterSource, "counter.bf", Options{ContentHash: true})
	b := Compile(counterSource, "counter.bf", Options{ContentHash: true})
	require.Empty(t, a.Errors)

	nameOf := func(r Result) string {
		for _, f := range r.Files {
			if f.Type == OutputClientJS {
				return f.Path
			}
		}
		return ""
	}
	an, bn := nameOf(a), nameOf(b)
	require.NotEmpty(t, an)
	assert.Equal(t, an, bn, "hash must be deterministic for identical content")

	other := Compile(strings.Replace(counterSource, "n + 1", "n + 2", 1), "counter.bf", Options{ContentHash: true})
	assert.NotEqual(t, an, nameOf(other), "different content should produce a different hash suffix")
}

func TestCompileFileSuspendsOnlyAtRead(t *testing.T) {
	read := func(ctx context.Context, path string) (string, error) {
		return counterSource, nil
	}
	res, err := CompileFile(context.Background(), "counter.bf", read, Options{})
	require.NoError(t, err)
	require.Empty(t, res.Errors)
	assert.NotEmpty(t, res.Files)
}

func TestCompileFilePropagatesReadError(t *testing.T) {
	boom := errors.New("boom")
	read := func(ctx context.Context, path string) (string, error) {
		return "", boom
	}
	_, err := CompileFile(context.Background(), "counter.bf", read, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestCompileFileDoesNotPublishPartialOutputOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	read := func(ctx context.Context, path string) (string, error) {
		return counterSource, nil
	}
	res, err := CompileFile(ctx, "counter.bf", read, Options{})
	require.Error(t, err)
	assert.Empty(t, res.Files)
}

func TestCompileVoidElementsRoundTrip(t *testing.T) {
	src := `
export default function Media() {
  return <div><br/><hr/><img src="test.png" alt="test"/><input type="text"/></div>;
}
`
	res := Compile(src, "media.bf", Options{})
	require.Empty(t, res.Errors)
	var tmpl string
	for _, f := range res.Files {
		if f.Type == OutputMarkedTemplate {
			tmpl = f.Content
		}
	}
	require.NotEmpty(t, tmpl)
	for _, tag := range []string{"</br>", "</hr>", "</img>", "</input>"} {
		assert.NotContains(t, tmpl, tag)
	}
}
