package harness

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/achilleasa/aovtest/aov"
	"github.com/achilleasa/aovtest/capture"
	"github.com/achilleasa/aovtest/codec"
	"github.com/achilleasa/aovtest/frame"
	"github.com/achilleasa/aovtest/log"
	"github.com/achilleasa/aovtest/renderer"
	"github.com/achilleasa/aovtest/store"
	"github.com/achilleasa/aovtest/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.Discard()
}

var errRenderFailed = errors.New("mock renderer: device lost")

// A renderer that adds a fixed per-pixel sample for each selector on every pass.
type mockRenderer struct {
	samples map[aov.Selector][]types.Vec4
	outputs map[aov.Selector]*frame.RawBuffer

	failOn   aov.Selector
	passes   int
	compiles int
}

func newMockRenderer() *mockRenderer {
	return &mockRenderer{
		samples: make(map[aov.Selector][]types.Vec4),
		outputs: make(map[aov.Selector]*frame.RawBuffer),
	}
}

func (m *mockRenderer) SetOutput(sel aov.Selector, out *frame.RawBuffer) error {
	if _, ok := m.samples[sel]; !ok {
		return renderer.ErrUnsupportedOutput
	}
	if out == nil {
		delete(m.outputs, sel)
		return nil
	}
	m.outputs[sel] = out
	return nil
}

func (m *mockRenderer) Clear() error {
	for _, out := range m.outputs {
		out.Clear()
	}
	return nil
}

func (m *mockRenderer) CompileScene() error {
	m.compiles++
	return nil
}

func (m *mockRenderer) Render() error {
	for sel, out := range m.outputs {
		if sel == m.failOn {
			return errRenderFailed
		}
		for i := range out.Samples {
			out.Samples[i] = out.Samples[i].Add(m.samples[sel][i%len(m.samples[sel])])
		}
	}
	m.passes++
	return nil
}

func (m *mockRenderer) Close() {}

func newStore(t *testing.T, root string, mode store.Mode) *store.Store {
	t.Helper()
	st, err := store.New(store.Config{
		Mode:         mode,
		ReferenceDir: filepath.Join(root, "reference"),
		OutputDir:    filepath.Join(root, "output"),
	})
	require.NoError(t, err)
	return st
}

// Colors are listed in the renderer's bottom-up row order.
func flatScene() []types.Vec4 {
	return []types.Vec4{
		types.XYZW(1, 0, 0, 1), types.XYZW(0, 1, 0, 1),
		types.XYZW(0, 0, 1, 1), types.XYZW(1, 1, 1, 1),
	}
}

func TestFlatSceneEndToEnd(t *testing.T) {
	root := t.TempDir()
	r := newMockRenderer()
	r.samples[aov.Albedo.Selector()] = flatScene()

	opts := renderer.Options{FrameW: 2, FrameH: 2, Iterations: 3}
	runner, err := NewRunner(r, newStore(t, root, store.Generate), opts, frame.ClampZero)
	require.NoError(t, err)

	res := runner.Run(aov.Albedo)
	require.NoError(t, res.Err)
	assert.Equal(t, Generated, res.Status())
	assert.Equal(t, "Aov_Albedo", res.Test)
	assert.Equal(t, uint32(3), res.Stats.Iterations)
	assert.Equal(t, 3, r.passes)
	assert.Empty(t, r.outputs, "output must be unbound after the capture")

	img, err := codec.New(codec.Half).Read(filepath.Join(root, "reference", "Aov_Albedo.png"))
	require.NoError(t, err)

	// Canonical row 0 is the renderer's last row with the weight divided out.
	assert.Equal(t, types.XYZ(0, 0, 1), img.At(0, 0))
	assert.Equal(t, types.XYZ(1, 1, 1), img.At(1, 0))
	assert.Equal(t, types.XYZ(1, 0, 0), img.At(0, 1))
	assert.Equal(t, types.XYZ(0, 1, 0), img.At(1, 1))

	// Verifying the same render passes.
	runner, err = NewRunner(r, newStore(t, root, store.Verify), opts, frame.ClampZero)
	require.NoError(t, err)
	res = runner.Run(aov.Albedo)
	require.NoError(t, res.Err)
	require.NotNil(t, res.Verdict)
	assert.Equal(t, Passed, res.Status())
	assert.Zero(t, res.Verdict.Value)
}

func TestRunAllContinuesAfterFailures(t *testing.T) {
	root := t.TempDir()
	r := newMockRenderer()
	for _, k := range []aov.Kind{aov.Albedo, aov.UV, aov.Tangent, aov.Visibility} {
		r.samples[k.Selector()] = []types.Vec4{types.XYZW(0.5, 0.5, 0.5, 1)}
	}
	opts := renderer.Options{FrameW: 4, FrameH: 4, Iterations: 2}

	gen, err := NewRunner(r, newStore(t, root, store.Generate), opts, frame.ClampZero)
	require.NoError(t, err)
	report := gen.RunAll([]aov.Kind{aov.Albedo, aov.UV, aov.Tangent})
	require.True(t, report.OK())
	assert.Equal(t, store.Generate, report.Mode)

	// Regress UV, break the renderer for Tangent and never bless Visibility.
	r.samples[aov.UV.Selector()] = []types.Vec4{types.XYZW(1, 1, 1, 1)}
	r.failOn = aov.Tangent.Selector()

	ver, err := NewRunner(r, newStore(t, root, store.Verify), opts, frame.ClampZero)
	require.NoError(t, err)
	report = ver.RunAll([]aov.Kind{aov.Albedo, aov.UV, aov.Tangent, aov.Visibility, aov.Bitangent})

	require.Len(t, report.Results, 5)
	assert.Equal(t, Passed, report.Results[0].Status())
	assert.Equal(t, Failed, report.Results[1].Status())
	assert.Equal(t, Errored, report.Results[2].Status())
	assert.ErrorIs(t, report.Results[2].Err, errRenderFailed)
	assert.Equal(t, MissingBaseline, report.Results[3].Status())
	assert.Equal(t, Errored, report.Results[4].Status())
	assert.ErrorIs(t, report.Results[4].Err, renderer.ErrUnsupportedOutput)

	assert.Equal(t, 4, report.Failed())
	assert.False(t, report.OK())
}

func TestDimensionMismatchIsReportedDistinctly(t *testing.T) {
	root := t.TempDir()
	r := newMockRenderer()
	r.samples[aov.WorldPosition.Selector()] = []types.Vec4{types.XYZW(1, 2, 3, 1)}

	gen, err := NewRunner(r, newStore(t, root, store.Generate), renderer.Options{FrameW: 64, FrameH: 64, Iterations: 1}, frame.ClampZero)
	require.NoError(t, err)
	require.NoError(t, gen.Run(aov.WorldPosition).Err)

	ver, err := NewRunner(r, newStore(t, root, store.Verify), renderer.Options{FrameW: 32, FrameH: 32, Iterations: 1}, frame.ClampZero)
	require.NoError(t, err)
	res := ver.Run(aov.WorldPosition)
	assert.Equal(t, DimensionMismatch, res.Status())
	assert.Nil(t, res.Verdict)
}

func TestZeroWeightPolicyIsApplied(t *testing.T) {
	root := t.TempDir()
	r := newMockRenderer()
	r.samples[aov.Visibility.Selector()] = []types.Vec4{types.XYZW(0, 0, 0, 0), types.XYZW(1, 1, 1, 1)}
	opts := renderer.Options{FrameW: 2, FrameH: 1, Iterations: 1}

	gen, err := NewRunner(r, newStore(t, root, store.Generate), opts, frame.Propagate)
	require.NoError(t, err)
	require.NoError(t, gen.Run(aov.Visibility).Err)

	// NaN pixels compare equal against NaN references.
	ver, err := NewRunner(r, newStore(t, root, store.Verify), opts, frame.Propagate)
	require.NoError(t, err)
	assert.Equal(t, Passed, ver.Run(aov.Visibility).Status())

	// Clamping now produces zeros where the reference holds NaN.
	ver, err = NewRunner(r, newStore(t, root, store.Verify), opts, frame.ClampZero)
	require.NoError(t, err)
	assert.Equal(t, Failed, ver.Run(aov.Visibility).Status())
}

func TestCaptureReplayEndToEnd(t *testing.T) {
	root := t.TempDir()

	rec := frame.NewRawBuffer(2, 2)
	copy(rec.Samples, flatScene())
	b := capture.NewBundle()
	b.Add(aov.ShadingNormal.Selector(), rec)

	bundlePath := filepath.Join(root, "capture.zip")
	require.NoError(t, capture.WriteBundle(b, bundlePath))
	loaded, err := capture.ReadBundle(bundlePath)
	require.NoError(t, err)

	replay := capture.NewReplay(loaded)
	defer replay.Close()
	opts := renderer.Options{FrameW: 2, FrameH: 2, Iterations: 5}

	gen, err := NewRunner(replay, newStore(t, root, store.Generate), opts, frame.ClampZero)
	require.NoError(t, err)
	require.True(t, gen.RunAll(loaded.Kinds()).OK())

	ver, err := NewRunner(replay, newStore(t, root, store.Verify), opts, frame.ClampZero)
	require.NoError(t, err)
	report := ver.RunAll(loaded.Kinds())
	require.Len(t, report.Results, 1)
	assert.Equal(t, Passed, report.Results[0].Status())
}

func TestNewRunnerValidatesOptions(t *testing.T) {
	_, err := NewRunner(newMockRenderer(), newStore(t, t.TempDir(), store.Verify), renderer.Options{}, frame.ClampZero)
	assert.Error(t, err)

	runner, err := NewRunner(newMockRenderer(), newStore(t, t.TempDir(), store.Verify), renderer.Options{FrameW: 1, FrameH: 1}, frame.ClampZero)
	require.NoError(t, err)
	assert.Equal(t, renderer.DefaultIterations, runner.Options().Iterations)
}

func TestStatusStrings(t *testing.T) {
	assert.Equal(t, "pass", Passed.String())
	assert.Equal(t, "FAIL", Failed.String())
	assert.Equal(t, "missing-baseline", MissingBaseline.String())
	assert.Equal(t, "dim-mismatch", DimensionMismatch.String())
	assert.Equal(t, "generated", Generated.String())
}
