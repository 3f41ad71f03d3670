package typelink_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	typelink "github.com/typelink-dev/typelink-sdk"
	"github.com/typelink-dev/typelink-sdk/kind/entities"
	"github.com/typelink-dev/typelink-sdk/module"
	"github.com/typelink-dev/typelink-sdk/unify"
	"github.com/typelink-dev/typelink-sdk/worker"
)

const hostManifest = `
name: host
origin: HOST
abi: 1.2.0
compatible: "^1.0"
accept:
  - shared-worker
  - typed-worker[*]
`

const extensionManifest = `
name: extension
origin: EXT
abi: 1.1.0
compatible: "^1.0"
accept:
  - shared-worker
  - typed-worker[*]
`

func newLinkedProcess(t *testing.T) (*typelink.Process, *module.Module, *module.Module) {
	t.Helper()
	proc := typelink.NewProcess()

	host, err := module.New([]byte(hostManifest), proc.Behaviors())
	require.NoError(t, err)
	ext, err := module.New([]byte(extensionManifest), proc.Behaviors())
	require.NoError(t, err)

	require.NoError(t, proc.Attach(host))
	require.NoError(t, proc.Attach(ext))
	return proc, host, ext
}

// Test_Process_CrossModuleUnification is the end-to-end scenario: the same
// logical kind constructed in two modules unifies, narrows both ways, and
// each object's dispatch preserves its own origin and value.
func Test_Process_CrossModuleUnification(t *testing.T) {
	_, host, ext := newLinkedProcess(t)

	hostWorker, err := host.NewSharedWorker(500)
	require.NoError(t, err)
	extWorker, err := ext.NewSharedWorker(600)
	require.NoError(t, err)

	// Identity is structural: two per-module descriptor allocations, one
	// logical kind.
	assert.True(t, unify.SameKind(hostWorker.Descriptor(), extWorker.Descriptor()))

	// Narrow each object through the other module's descriptor copy.
	narrowedExt, ok := unify.Narrow(extWorker, host.Hierarchy().SharedWorker)
	require.True(t, ok)
	narrowedHost, ok := unify.Narrow(hostWorker, ext.Hierarchy().SharedWorker)
	require.True(t, ok)

	// Dispatch routes to the origin module's table and preserves values.
	report, err := unify.Dispatch(narrowedExt, "act")
	require.NoError(t, err)
	assert.Equal(t, worker.ActReport{Origin: "EXT", Value: 600}, report)

	report, err = unify.Dispatch(narrowedHost, "act")
	require.NoError(t, err)
	assert.Equal(t, worker.ActReport{Origin: "HOST", Value: 500}, report)
}

func Test_Process_GenericKindDistinctness(t *testing.T) {
	_, host, ext := newLinkedProcess(t)

	hostInt, err := host.NewTypedWorkerInt(1000)
	require.NoError(t, err)
	extInt, err := ext.NewTypedWorkerInt(2000)
	require.NoError(t, err)
	extText, err := ext.NewTypedWorkerText("EXT_STRING")
	require.NoError(t, err)

	assert.True(t, unify.SameKind(hostInt.Descriptor(), extInt.Descriptor()),
		"identical parameterizations built in different modules collide")
	assert.False(t, unify.SameKind(hostInt.Descriptor(), extText.Descriptor()),
		"distinct parameterizations must not unify despite the shared base name")

	_, ok := unify.Narrow(extText, host.Hierarchy().TypedWorkerText)
	assert.True(t, ok)
	_, ok = unify.Narrow(extText, host.Hierarchy().TypedWorkerInteger)
	assert.False(t, ok)
}

// Test_Process_BehaviorSingleResolution verifies that a behavior slot
// called from either module's side observes one definition for the whole
// process lifetime, picked by attachment order.
func Test_Process_BehaviorSingleResolution(t *testing.T) {
	proc, _, _ := newLinkedProcess(t)

	result, err := proc.Behaviors().Call(worker.SlotSharedFunctionResult)
	require.NoError(t, err)
	assert.Equal(t, "shared function result from HOST", result)

	// Both modules registered; only the first attachment's definition is
	// reachable.
	assert.Equal(t, 2, proc.Behaviors().Definitions(worker.SlotSharedFunctionResult))

	origin, ok := proc.Behaviors().Origin(worker.SlotSharedOperation)
	require.True(t, ok)
	assert.Equal(t, "HOST", origin)

	resolved, err := proc.Behaviors().Call(worker.SlotSharedOperation, 42)
	require.NoError(t, err)
	assert.Equal(t, "HOST", resolved)
}

func Test_Process_AttachmentOrderDecidesWinner(t *testing.T) {
	proc := typelink.NewProcess()

	host, err := module.New([]byte(hostManifest), proc.Behaviors())
	require.NoError(t, err)
	ext, err := module.New([]byte(extensionManifest), proc.Behaviors())
	require.NoError(t, err)

	// Extension first this time.
	require.NoError(t, proc.Attach(ext))
	require.NoError(t, proc.Attach(host))

	result, err := proc.Behaviors().Call(worker.SlotSharedFunctionResult)
	require.NoError(t, err)
	assert.Equal(t, "shared function result from EXT", result)
}

func Test_Process_Exchange(t *testing.T) {
	proc, host, _ := newLinkedProcess(t)

	obj, err := proc.Exchange("extension", "host", worker.KindSharedWorker, map[string]any{"value": 600})
	require.NoError(t, err)

	assert.Equal(t, "shared-worker", obj.Identify())

	// The receiver narrows the object through its own descriptor copy and
	// dispatch still reports the constructing module.
	narrowed, ok := unify.Narrow(obj, host.Hierarchy().SharedWorker)
	require.True(t, ok)
	report, err := unify.Dispatch(narrowed, "act")
	require.NoError(t, err)
	assert.Equal(t, worker.ActReport{Origin: "EXT", Value: 600}, report)
}

func Test_Process_ExchangeDenied(t *testing.T) {
	proc := typelink.NewProcess()

	host, err := module.New([]byte(`
name: host
origin: HOST
abi: 1.2.0
accept:
  - typed-worker[integer]
`), proc.Behaviors())
	require.NoError(t, err)
	ext, err := module.New([]byte(extensionManifest), proc.Behaviors())
	require.NoError(t, err)

	require.NoError(t, proc.Attach(host))
	require.NoError(t, proc.Attach(ext))

	_, err = proc.Exchange("extension", "host", worker.KindSharedWorker, map[string]any{"value": 1})
	assert.ErrorIs(t, err, entities.ErrExchangeDenied)

	// The allowed kind still crosses.
	obj, err := proc.Exchange("extension", "host", "typed-worker[integer]", map[string]any{"value": 7})
	require.NoError(t, err)
	assert.Equal(t, "typed-worker[integer]", obj.Identify())
}

func Test_Process_ExchangeUnknownKind(t *testing.T) {
	proc, _, _ := newLinkedProcess(t)

	_, err := proc.Exchange("extension", "host", "no-such-kind", nil)
	assert.ErrorIs(t, err, entities.ErrUnknownKind)

	_, err = proc.Exchange("missing", "host", worker.KindSharedWorker, nil)
	assert.Error(t, err)

	_, err = proc.Exchange("extension", "missing", worker.KindSharedWorker, nil)
	assert.Error(t, err)
}

func Test_Process_AttachRejectsIncompatibleABI(t *testing.T) {
	proc := typelink.NewProcess()

	host, err := module.New([]byte(hostManifest), proc.Behaviors())
	require.NoError(t, err)
	require.NoError(t, proc.Attach(host))

	old, err := module.New([]byte(`
name: legacy
origin: LEGACY
abi: 0.9.0
`), proc.Behaviors())
	require.NoError(t, err)

	err = proc.Attach(old)
	assert.ErrorIs(t, err, entities.ErrIncompatibleABI)
	_, attached := proc.Module("legacy")
	assert.False(t, attached)
}

func Test_Process_AttachRejectsDuplicateName(t *testing.T) {
	proc := typelink.NewProcess()

	host, err := module.New([]byte(hostManifest), proc.Behaviors())
	require.NoError(t, err)
	again, err := module.New([]byte(hostManifest), proc.Behaviors())
	require.NoError(t, err)

	require.NoError(t, proc.Attach(host))
	assert.Error(t, proc.Attach(again))
	assert.Equal(t, []string{"host"}, proc.Modules())
}
