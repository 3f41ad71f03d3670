package interop_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typelink-dev/typelink-sdk/interop"
	"github.com/typelink-dev/typelink-sdk/module"
)

const extManifest = `
name: extension
origin: EXT
abi: 1.1.0
`

func newModule(t *testing.T) *module.Module {
	t.Helper()
	m, err := module.New([]byte(extManifest), nil)
	require.NoError(t, err)
	require.NoError(t, m.Initialize())
	return m
}

func Test_Table_CreateIdentifyDestroy(t *testing.T) {
	m := newModule(t)
	table := interop.NewTable(nil)

	h, err := table.Create(m, 9999)
	require.NoError(t, err)

	name, err := table.Identify(h)
	require.NoError(t, err)
	assert.Equal(t, "shared-worker", name)

	ok, err := table.NarrowTest(h)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, table.PrintInfo(h))
	require.NoError(t, table.Destroy(h))
}

func Test_Table_DestroyedHandleIsInvalid(t *testing.T) {
	m := newModule(t)
	table := interop.NewTable(nil)

	h, err := table.Create(m, 1)
	require.NoError(t, err)
	require.NoError(t, table.Destroy(h))

	// Second destroy errors instead of faulting.
	assert.ErrorIs(t, table.Destroy(h), interop.ErrInvalidHandle)

	_, err = table.Identify(h)
	assert.ErrorIs(t, err, interop.ErrInvalidHandle)

	_, err = table.NarrowTest(h)
	assert.ErrorIs(t, err, interop.ErrInvalidHandle)

	assert.ErrorIs(t, table.PrintInfo(h), interop.ErrInvalidHandle)
}

func Test_Table_UnknownHandle(t *testing.T) {
	table := interop.NewTable(nil)

	_, err := table.Identify(interop.Handle(12345))
	assert.ErrorIs(t, err, interop.ErrInvalidHandle)
}

func Test_Table_HandlesAreDistinct(t *testing.T) {
	m := newModule(t)
	table := interop.NewTable(nil)

	h1, err := table.Create(m, 1)
	require.NoError(t, err)
	h2, err := table.Create(m, 2)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)

	require.NoError(t, table.Destroy(h1))

	// h2 survives h1's destruction.
	name, err := table.Identify(h2)
	require.NoError(t, err)
	assert.Equal(t, "shared-worker", name)
}

func Test_DefaultSurface(t *testing.T) {
	m := newModule(t)

	h, err := interop.Create(m, 42)
	require.NoError(t, err)

	name, err := interop.Identify(h)
	require.NoError(t, err)
	assert.Equal(t, "shared-worker", name)

	ok, err := interop.NarrowTest(h)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, interop.PrintInfo(h))
	require.NoError(t, interop.Destroy(h))
}
