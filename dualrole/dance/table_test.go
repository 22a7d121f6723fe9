package dance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-dualrole/dualrole/keycode"
	"github.com/valerio/go-dualrole/dualrole/layer"
)

func TestTableDefaults(t *testing.T) {
	table := NewTable(nil)

	require.NotNil(t, table.Instance(SpaceNav))
	require.NotNil(t, table.Instance(BackspaceNum))
	assert.Equal(t, Key{Keycode: keycode.Space, Layer: layer.Nav}, table.Instance(SpaceNav).Key())
	assert.Equal(t, Key{Keycode: keycode.Backspace, Layer: layer.Num}, table.Instance(BackspaceNum).Key())
	assert.Nil(t, table.Instance(ID(7)))
}

func TestTableOverrides(t *testing.T) {
	table := NewTable(map[ID]Key{
		SpaceNav: {Keycode: keycode.Enter, Layer: layer.Sym},
	})

	assert.Equal(t, Key{Keycode: keycode.Enter, Layer: layer.Sym}, table.Instance(SpaceNav).Key())
	assert.Equal(t, keycode.Backspace, table.Instance(BackspaceNum).Key().Keycode)
}

func TestTableInstancesAreIndependent(t *testing.T) {
	table := NewTable(nil)
	host := &recordingHost{}

	table.Resolved(host, SpaceNav, Event{TapCount: 1, StillPressed: true})
	table.Resolved(host, BackspaceNum, Event{TapCount: 1})

	assert.Equal(t, []State{SingleHold, SingleTap}, table.States())
	assert.True(t, table.Busy())

	table.Released(host, BackspaceNum)
	assert.Equal(t, []State{SingleHold, Idle}, table.States())

	table.Released(host, SpaceNav)
	assert.False(t, table.Busy())
	assert.Equal(t, []string{"on nav", "down backspace", "up backspace", "off nav"}, host.calls)
}

func TestTableUnknownIDIsSilent(t *testing.T) {
	table := NewTable(nil)
	host := &recordingHost{}

	assert.Equal(t, Unclassified, table.Resolved(host, ID(-1), Event{TapCount: 1}))
	table.Released(host, ID(99))
	assert.Empty(t, host.calls)
}

func TestParseID(t *testing.T) {
	id, err := ParseID("SPC_NAV")
	require.NoError(t, err)
	assert.Equal(t, SpaceNav, id)

	id, err = ParseID("backspace-num")
	require.NoError(t, err)
	assert.Equal(t, BackspaceNum, id)

	_, err = ParseID("tab_mouse")
	assert.Error(t, err)

	assert.Equal(t, []ID{SpaceNav, BackspaceNum}, IDs())
	assert.Equal(t, "space_nav", SpaceNav.String())
	assert.Equal(t, "dance(5)", ID(5).String())
}
