package conformance

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/barefootjs/bfc/internal/adapter"
	"github.com/barefootjs/bfc/internal/compiler"
)

// Harness runs fixtures against one or more adapters and reports
// differential/golden results. Each run gets a unique temp directory,
// cleaned up on every exit path (spec §5 "Shared-resource policy").
type Harness struct {
	Reference adapter.Adapter
	Alternate adapter.Adapter
	Log       *zap.SugaredLogger
	TempRoot  string
}

// AdapterResult is the per-fixture outcome of one runner.
type AdapterResult struct {
	FixtureID string
	Passed    bool
	Detail    string
}

// RunAdapterConformance compiles each fixture with h.Reference, normalizes,
// and compares against the fixture's expectedHtml. Fixtures with no
// expectedHtml are skipped, per spec §9 Open Question 2.
func (h *Harness) RunAdapterConformance(fixtures []Fixture) []AdapterResult {
	var results []AdapterResult
	for _, f := range fixtures {
		if f.ExpectedHTML == nil {
			continue
		}
		res := compiler.Compile(f.Source, f.ID+".bf", compiler.Options{Adapter: h.Reference})
		got := firstTemplate(res)
		want := Normalize(*f.ExpectedHTML)
		gotNorm := Normalize(got)
		if gotNorm == want {
			results = append(results, AdapterResult{FixtureID: f.ID, Passed: true})
			continue
		}
		results = append(results, AdapterResult{
			FixtureID: f.ID, Passed: false,
			Detail: cmp.Diff(want, gotNorm),
		})
	}
	return results
}

// RunDifferential compiles every fixture with both the reference and the
// alternate adapter and asserts normalized equality (spec §8 property 6).
func (h *Harness) RunDifferential(fixtures []Fixture) []AdapterResult {
	var results []AdapterResult
	if h.Alternate == nil {
		return results
	}
	for _, f := range fixtures {
		refRes := compiler.Compile(f.Source, f.ID+".bf", compiler.Options{Adapter: h.Reference})
		altRes := compiler.Compile(f.Source, f.ID+".bf", compiler.Options{Adapter: h.Alternate})
		a := Normalize(firstTemplate(refRes))
		b := Normalize(firstTemplate(altRes))
		if a == b {
			results = append(results, AdapterResult{FixtureID: f.ID, Passed: true})
			continue
		}
		results = append(results, AdapterResult{FixtureID: f.ID, Passed: false, Detail: cmp.Diff(a, b)})
	}
	return results
}

func firstTemplate(res compiler.Result) string {
	for _, f := range res.Files {
		if f.Type == compiler.OutputMarkedTemplate {
			return f.Content
		}
	}
	return ""
}

// RunClientScriptConformance evaluates each fixture's generated client
// script in a real node process with stubbed runtime primitives, per
// spec §4.6's third runner. Static fixtures (no client script) and
// fixtures marked SkipClient are skipped rather than failed.
func (h *Harness) RunClientScriptConformance(ctx context.Context, fixtures []Fixture) ([]AdapterResult, error) {
	var results []AdapterResult
	for _, f := range fixtures {
		if f.SkipClient {
			continue
		}
		res := compiler.Compile(f.Source, f.ID+".bf", compiler.Options{Adapter: h.Reference})
		var script string
		for _, file := range res.Files {
			if file.Type == compiler.OutputClientJS {
				script = file.Content
			}
		}
		if script == "" {
			continue // purely static, nothing to sandbox-evaluate
		}

		out, err := h.evalInNode(ctx, script)
		if err != nil {
			results = append(results, AdapterResult{FixtureID: f.ID, Passed: false, Detail: err.Error()})
			continue
		}
		if f.ExpectedHTML == nil {
			continue
		}
		if Normalize(out) == Normalize(*f.ExpectedHTML) {
			results = append(results, AdapterResult{FixtureID: f.ID, Passed: true})
		} else {
			results = append(results, AdapterResult{
				FixtureID: f.ID, Passed: false, Detail: cmp.Diff(Normalize(*f.ExpectedHTML), Normalize(out)),
			})
		}
	}
	return results, nil
}

// evalInNode writes a self-contained module (the client script plus a
// runtime-primitive stub harness) to a uniquely-named temp directory and
// shells out to a real node binary to run it. No JS engine/sandbox library
// is available anywhere in this project's dependency surface, so spawning
// the platform's own node is the only option; the temp directory is always
// removed, success or failure, via defer.
func (h *Harness) evalInNode(ctx context.Context, script string) (string, error) {
	root := h.TempRoot
	if root == "" {
		root = os.TempDir()
	}
	dir := filepath.Join(root, "bfc-conformance-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating conformance temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	modulePath := filepath.Join(dir, "harness.mjs")
	if err := os.WriteFile(modulePath, []byte(stubHarness(script)), 0o644); err != nil {
		return "", fmt.Errorf("writing conformance harness module: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "node", modulePath)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if h.Log != nil {
			h.Log.Warnw("client-script conformance eval failed", "dir", dir, "output", string(out), "err", err)
		}
		return "", fmt.Errorf("node eval failed: %w: %s", err, string(out))
	}
	return string(out), nil
}

// stubHarness wraps the generated script with minimal stand-ins for the
// runtime collaborators it references (spec's explicit external
// collaborators: createSignal/createMemo/createEffect/findScope/cond/
// reconcileList). The compiler only names these; it never implements them.
func stubHarness(script string) string {
	return `
` + script + `
const signals = new Map();
function createSignal(initial) {
  let value = initial;
  const get = () => value;
  const set = (v) => { value = typeof v === 'function' ? v(value) : v; };
  return [get, set];
}
function createMemo(fn) { return fn; }
function createEffect(fn) { fn(); }
function onMount(fn) { fn(); }
function findScope() { return { querySelector: () => ({ textContent: '', setAttribute() {}, addEventListener() {} }) }; }
function cond(scope, slotId, condFn, branches) {
  const branch = condFn() ? branches[0] : branches[1];
  process.stdout.write(branch());
}
function reconcileList(el, items, keyFn, render) {
  process.stdout.write(items.map(render).join(''));
}
`
}
