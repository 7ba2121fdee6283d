package claim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sudooom.mahjong/internal/game/mahjong/core"
)

func tileOf(s string) core.Tile {
	return core.MustParseTiles(s)[0]
}

func names(tiles []core.Tile) string {
	out := ""
	for _, t := range tiles {
		out += t.Name()
	}
	return out
}

func TestCanClaimTriplet(t *testing.T) {
	hand := core.MustParseTiles("55m3p7z")
	assert.True(t, CanClaimTriplet(hand, tileOf("5m")))
	assert.False(t, CanClaimTriplet(hand, tileOf("3p")))
	assert.False(t, CanClaimTriplet(hand, tileOf("5z")))

	opt, ok := Triplet(hand, tileOf("5m"))
	require.True(t, ok)
	assert.Len(t, opt.Tiles, 2)
}

func TestCanClaimQuadOwnDraw(t *testing.T) {
	hand := core.MustParseTiles("1111m2222p3s")
	options := CanClaimQuad(hand, nil, OriginOwnDraw)

	require.Len(t, options, 2)
	for _, o := range options {
		assert.Equal(t, core.QuadConcealed, o.Kind)
		assert.True(t, core.IsQuad(o.Tiles))
	}
	assert.Equal(t, "1m1m1m1m", names(options[0].Tiles))
}

func TestCanClaimQuadDiscard(t *testing.T) {
	hand := core.MustParseTiles("777s12m")
	discard := core.Tile{ID: 999, Suit: core.SuitBamboo, Value: 7}

	options := CanClaimQuad(hand, &discard, OriginDiscard)
	require.Len(t, options, 1)
	assert.Equal(t, core.QuadClaimed, options[0].Kind)
	assert.Equal(t, core.TileID(999), options[0].Tiles[3].ID)

	assert.Empty(t, CanClaimQuad(core.MustParseTiles("77s"), &discard, OriginDiscard))
	assert.Empty(t, CanClaimQuad(hand, nil, OriginDiscard))
}

func TestCanExtendQuad(t *testing.T) {
	melds := []core.Meld{
		{Kind: core.MeldSequence, Tiles: core.MustParseTiles("123m")},
		{Kind: core.MeldTriplet, Tiles: core.MustParseTiles("555z")},
	}
	hand := []core.Tile{{ID: 127, Suit: core.SuitDragon, Value: 1}, tileOf("9p")}

	options := CanExtendQuad(hand, melds)
	require.Len(t, options, 1)
	assert.Equal(t, core.QuadExtended, options[0].Kind)
	assert.Equal(t, 1, options[0].Meld)
	assert.True(t, core.IsQuad(options[0].Tiles))
}

func TestCanClaimSequence(t *testing.T) {
	tests := []struct {
		name string
		hand string
		tile string
		want []string
	}{
		{name: "three placements", hand: "3467p", tile: "5p", want: []string{"3p4p5p", "4p5p6p", "5p6p7p"}},
		{name: "middle only", hand: "46p", tile: "5p", want: []string{"4p5p6p"}},
		{name: "middle and high", hand: "467p", tile: "5p", want: []string{"4p5p6p", "5p6p7p"}},
		{name: "low member", hand: "23m", tile: "1m", want: []string{"1m2m3m"}},
		{name: "high member at edge", hand: "78s", tile: "9s", want: []string{"7s8s9s"}},
		{name: "other suit", hand: "46m", tile: "5p", want: nil},
		{name: "wind", hand: "123z", tile: "2z", want: nil},
		{name: "dragon", hand: "567z", tile: "6z", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			options := CanClaimSequence(core.MustParseTiles(tt.hand), tileOf(tt.tile))
			var got []string
			for _, o := range options {
				got = append(got, names(o.Tiles))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestCanClaimSequenceIncludesOuterRuns 3、4、6、7 吃 5 时外侧两组都在选项中
func TestCanClaimSequenceIncludesOuterRuns(t *testing.T) {
	options := CanClaimSequence(core.MustParseTiles("3467m"), tileOf("5m"))

	var got []string
	for _, o := range options {
		got = append(got, names(o.Tiles))
		assert.True(t, core.IsSequence(o.Tiles))
	}
	assert.Contains(t, got, "3m4m5m")
	assert.Contains(t, got, "5m6m7m")
}
