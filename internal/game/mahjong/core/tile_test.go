package core

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewDeck 测试整副牌每种4张
func TestNewDeck(t *testing.T) {
	deck := NewDeck()
	require.Len(t, deck, DeckSize)

	counts := Counts(deck)
	for kind, c := range counts {
		if c != CopiesPerKind {
			t.Errorf("期望牌种 %d 有 4 张, 实际 = %d", kind, c)
		}
	}

	seen := make(map[TileID]bool, len(deck))
	for _, tile := range deck {
		assert.False(t, seen[tile.ID], "编号重复: %d", tile.ID)
		seen[tile.ID] = true
		assert.Equal(t, TileID(tile.Kind()*CopiesPerKind), tile.ID-tile.ID%CopiesPerKind)
	}
}

// TestDeal 测试发牌数量
func TestDeal(t *testing.T) {
	gen := NewDeckGenerator(rand.New(rand.NewSource(7)))
	hands, wall := gen.Deal(gen.GenerateDeck(), SeatCount)

	require.Len(t, hands, SeatCount)
	for seat, hand := range hands {
		assert.Len(t, hand, DealSize, "座位 %d", seat)
		for i := 1; i < len(hand); i++ {
			assert.False(t, tileLess(hand[i], hand[i-1]), "座位 %d 手牌未排序", seat)
		}
	}
	assert.Len(t, wall, DeckSize-SeatCount*DealSize)
}

// TestShuffleDeterministic 相同种子洗牌结果相同
func TestShuffleDeterministic(t *testing.T) {
	a := NewDeckGenerator(rand.New(rand.NewSource(42))).GenerateDeck()
	b := NewDeckGenerator(rand.New(rand.NewSource(42))).GenerateDeck()
	assert.Equal(t, a, b)
}

func TestParseTiles(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "standard", input: "123m456p789s1122z", want: 13},
		{name: "dragons", input: "567z", want: 3},
		{name: "spaces", input: "11m 22p", want: 4},
		{name: "missing suit", input: "123", wantErr: true},
		{name: "zero", input: "0m", wantErr: true},
		{name: "bad honor", input: "8z", wantErr: true},
		{name: "five copies", input: "11111m", wantErr: true},
		{name: "bad char", input: "1x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tiles, err := ParseTiles(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, tiles, tt.want)
		})
	}
}

func TestParseTilesValues(t *testing.T) {
	tiles := MustParseTiles("5m15z")
	require.Len(t, tiles, 3)

	assert.Equal(t, Tile{ID: TileID(4 * 4), Suit: SuitCharacter, Value: 5}, tiles[0])
	assert.Equal(t, "East", tiles[1].Name())
	assert.Equal(t, "Red", tiles[2].Name())
	assert.Equal(t, "5m", tiles[0].Name())
}

func TestFormatTiles(t *testing.T) {
	tiles := MustParseTiles("1z9s123m5z")
	assert.Equal(t, "123m9s15z", FormatTiles(tiles))
}

func TestTileFromKind(t *testing.T) {
	for kind := 0; kind < KindCount; kind++ {
		assert.Equal(t, kind, TileFromKind(kind).Kind())
	}
}

func TestSortGrouped(t *testing.T) {
	hand := MustParseTiles("1m2m3m5p5p5p1z9s")
	sorted := SortGrouped(hand)

	require.Len(t, sorted, len(hand))
	assert.Equal(t, "5p5p5p", sorted[0].Name()+sorted[1].Name()+sorted[2].Name())
	assert.Equal(t, "1m2m3m", sorted[3].Name()+sorted[4].Name()+sorted[5].Name())
	assert.Equal(t, "9s", sorted[6].Name())
	assert.Equal(t, "East", sorted[7].Name())
}

func TestMeldShapes(t *testing.T) {
	assert.True(t, IsSequence(MustParseTiles("345p")))
	assert.False(t, IsSequence(MustParseTiles("123z")))
	assert.False(t, IsSequence(MustParseTiles("135m")))
	assert.True(t, IsTriplet(MustParseTiles("777s")))
	assert.True(t, IsQuad(MustParseTiles("5555z")))
	assert.False(t, ValidMeld(Meld{Kind: MeldQuad, Tiles: MustParseTiles("555z")}))
}

func TestSeatHelpers(t *testing.T) {
	assert.Equal(t, 1, NextSeat(0))
	assert.Equal(t, 0, NextSeat(3))
	assert.Equal(t, 3, Distance(1, 0))
	assert.Equal(t, int8(1), SeatWind(0))
	assert.Equal(t, int8(4), SeatWind(3))
}

func TestGameErrorIs(t *testing.T) {
	err := ErrTileNotInHand.WithContext("tile", 3)
	assert.True(t, errors.Is(err, ErrTileNotInHand))
	assert.True(t, IsIllegalAction(err))
	assert.Empty(t, ErrTileNotInHand.Context, "哨兵错误不应被修改")

	fatal := ErrMalformedHand.WithCause(errors.New("seat 2 holds 12"))
	assert.False(t, IsIllegalAction(fatal))
	assert.Contains(t, fatal.Error(), "MALFORMED_HAND")
}
