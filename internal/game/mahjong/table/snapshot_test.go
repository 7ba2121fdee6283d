package table

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotJSONRoundTrip(t *testing.T) {
	e := NewEngine(Config{Seed: 5, HumanSeats: []int{0}, Logger: quietLogger})
	_, err := e.NewGame()
	require.NoError(t, err)

	snap := e.Snapshot(0)
	data, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"phase":"discarding"`)
	assert.Contains(t, string(data), `"winType":"none"`)

	var back Snapshot
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, snap.Phase, back.Phase)
	assert.Equal(t, snap.WinType, back.WinType)
	assert.Equal(t, snap.Players[0].Hand, back.Players[0].Hand)
	assert.Len(t, back.Legal, len(snap.Legal))
}

func TestPhaseUnmarshalUnknown(t *testing.T) {
	var p Phase
	assert.Error(t, p.UnmarshalText([]byte("bogus")))

	var w WinType
	require.NoError(t, w.UnmarshalText([]byte("self_draw")))
	assert.Equal(t, WinSelfDraw, w)
}

func TestDescribeOptionIndexes(t *testing.T) {
	f := newFixture(t, [4]string{
		"234m567m22z33z44z5z",
		"1m999m5p789p234s567z",
		"123m789m11s3467p1z",
		"258m369p147s1234z",
	}, 1, "")
	_, err := f.engine.Discard(1, f.find(t, 1, "5p").ID)
	require.NoError(t, err)

	views := Describe(f.engine.LegalActions(2))
	require.Len(t, views, 4)
	for i := 0; i < 3; i++ {
		assert.Equal(t, "claim_sequence", views[i].Kind)
		assert.Equal(t, i, views[i].Option)
		assert.Len(t, views[i].Tiles, 3)
	}
	assert.Equal(t, "pass", views[3].Kind)
}
