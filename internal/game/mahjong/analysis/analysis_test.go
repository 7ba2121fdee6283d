package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sudooom.mahjong/internal/game/mahjong/core"
)

func TestIsWinningHand(t *testing.T) {
	tests := []struct {
		name string
		hand string
		want bool
	}{
		{name: "four sequences and pair", hand: "123m456m789m123p11s", want: true},
		{name: "triplets", hand: "111m222p333s444z55z", want: true},
		{name: "mixed", hand: "112233m456p777s11z", want: true},
		{name: "pair must move", hand: "11122233344455m", want: true},
		{name: "honors no sequence", hand: "123z456z777z11m22m", want: false},
		{name: "tenpai is not win", hand: "123m456m789m123p1s", want: false},
		{name: "two matching", hand: "55z", want: true},
		{name: "two different", hand: "56z", want: false},
		{name: "after melds", hand: "234p77s", want: true},
		{name: "seven pairs is not standard", hand: "1199m1199p1199s11z", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsWinningHand(core.MustParseTiles(tt.hand)))
		})
	}
}

func TestIsWinningHandEmpty(t *testing.T) {
	assert.True(t, IsWinningHand(nil))
}

func TestCanWinSevenPairs(t *testing.T) {
	counts := core.Counts(core.MustParseTiles("1199m1199p1199s11z"))
	assert.True(t, CanWin(counts, 0, true))
	assert.False(t, CanWin(counts, 0, false))
	assert.False(t, CanWin(counts, 1, true))

	quad := core.Counts(core.MustParseTiles("1111m99m1199p1199s"))
	assert.False(t, CanWin(quad, 0, true), "四张相同不算两对")
}

func TestShanten(t *testing.T) {
	tests := []struct {
		name  string
		hand  string
		melds int
		want  int
	}{
		{name: "complete", hand: "123m456m789m123p11s", want: -1},
		{name: "tenpai single wait", hand: "123m456m789m123p1s", want: 0},
		{name: "tenpai side wait", hand: "123m456m789m11p23s", want: 0},
		{name: "one away", hand: "123m456m789m1p23s5z", want: 1},
		{name: "melded tenpai", hand: "456m11p23s", melds: 2, want: 0},
		{name: "melded complete", hand: "11p", melds: 4, want: -1},
		{name: "scattered", hand: "147m258p369s1234z", want: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Shanten(core.MustParseTiles(tt.hand), tt.melds)
			if got != tt.want {
				t.Errorf("期望向听数 = %d, 实际 = %d", tt.want, got)
			}
		})
	}
}

// TestShantenSevenPairs 六对加一张单牌通过七对子路径为听牌
func TestShantenSevenPairs(t *testing.T) {
	hand := core.MustParseTiles("11m22m33p44p55s66s7z")

	assert.Equal(t, 3, StandardShanten(hand, 0))
	assert.Equal(t, 0, SevenPairsShanten(hand))
	assert.Equal(t, 0, Shanten(hand, 0))
}

// TestShantenMonotonic 逐张补齐和牌时向听数不增，补齐时为 -1
func TestShantenMonotonic(t *testing.T) {
	target := core.MustParseTiles("123456789m123p11s")

	prev := 9
	for i := 1; i <= len(target); i++ {
		s := Shanten(target[:i], 0)
		if s > prev {
			t.Fatalf("第 %d 张后向听数从 %d 增加到 %d", i, prev, s)
		}
		prev = s
	}
	assert.Equal(t, -1, prev)
}

// TestTenpaiHandsAreZero 去掉和牌中任意一张后均为听牌
func TestTenpaiHandsAreZero(t *testing.T) {
	complete := core.MustParseTiles("234m567p888s345s55z")
	require.True(t, IsWinningHand(complete))

	for i := range complete {
		hand := core.RemoveTileIDs(complete, complete[i].ID)
		assert.Equal(t, 0, Shanten(hand, 0), "去掉 %s", complete[i].Name())
	}
}

func TestSearcherMatchesDirect(t *testing.T) {
	s, err := NewSearcher(1024, true)
	require.NoError(t, err)
	defer s.Close()

	hands := []string{"123m456m789m123p11s", "11m22m33p44p55s66s7z", "147m258p369s1234z"}
	for _, h := range hands {
		counts := core.Counts(core.MustParseTiles(h))
		for round := 0; round < 3; round++ {
			assert.Equal(t, ShantenCounts(counts, 0), s.Shanten(counts, 0), h)
			assert.Equal(t, CanWin(counts, 0, true), s.CanWin(counts, 0), h)
		}
	}
}

// TestSearcherFollowsSevenPairsRule 关闭七对子时向听数只按一般型计算
func TestSearcherFollowsSevenPairsRule(t *testing.T) {
	counts := core.Counts(core.MustParseTiles("11m22m33p44p55s66s7z"))
	assert.Equal(t, 3, ShantenCountsWith(counts, 0, false))
	assert.Equal(t, 0, ShantenCountsWith(counts, 0, true))

	tests := []struct {
		sevenPairs bool
		want       int
	}{
		{sevenPairs: true, want: 0},
		{sevenPairs: false, want: 3},
	}
	for _, tt := range tests {
		s, err := NewSearcher(1024, tt.sevenPairs)
		require.NoError(t, err)
		for round := 0; round < 3; round++ {
			assert.Equal(t, tt.want, s.Shanten(counts, 0), "sevenPairs=%v", tt.sevenPairs)
		}
		s.Close()
	}
}

func TestIsSevenPairs(t *testing.T) {
	assert.True(t, IsSevenPairs(core.MustParseTiles("1199m1199p1199s11z")))
	assert.False(t, IsSevenPairs(core.MustParseTiles("1111m99m1199p1199s")))
	assert.False(t, IsSevenPairs(core.MustParseTiles("123m456m789m123p11s")))
}
