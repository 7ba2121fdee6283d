package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sudooom.mahjong/internal/config"
	"sudooom.mahjong/internal/game/mahjong/core"
	"sudooom.mahjong/internal/game/mahjong/table"
)

func TestPickTile(t *testing.T) {
	hand := core.MustParseTiles("123m55p7z")

	tile, err := pickTile(hand, "2")
	require.NoError(t, err)
	assert.Equal(t, "2m", tile.Name())

	tile, err = pickTile(hand, "5p")
	require.NoError(t, err)
	assert.Equal(t, hand[3].ID, tile.ID)

	_, err = pickTile(hand, "9")
	assert.ErrorIs(t, err, errBadCommand)

	_, err = pickTile(hand, "9s")
	assert.ErrorIs(t, err, core.ErrTileNotInHand)

	_, err = pickTile(hand, "xx")
	assert.ErrorIs(t, err, errBadCommand)
}

func TestLoadProfilesMergesConfig(t *testing.T) {
	c, err := config.Load("../../configs/config.yaml")
	require.NoError(t, err)

	profiles, err := loadProfiles(c)
	require.NoError(t, err)
	assert.Equal(t, []string{"aggressive", "balanced", "defensive", "quick"}, profiles.Names())
	assert.Equal(t, 16, profiles["quick"].Rollouts)

	c.AI.Profiles["broken"] = config.ProfileConfig{Rollouts: -1}
	_, err = loadProfiles(c)
	assert.Error(t, err)
}

func TestRunPlayQuit(t *testing.T) {
	c, err := config.Load("../../configs/config.yaml")
	require.NoError(t, err)
	c.Game.Seed = 7
	c.AI.Profile = "quick"
	c.AI.SeatProfiles = nil
	cfg = c

	var out bytes.Buffer
	in := strings.NewReader("s\nzz\np\nq\n")
	require.NoError(t, runPlay(context.Background(), in, &out))

	text := out.String()
	assert.Contains(t, text, "手牌:")
	assert.Contains(t, text, "无效操作")
}

func TestParseClaim(t *testing.T) {
	tests := []struct {
		input string
		want  table.ClaimType
	}{
		{input: "w", want: table.ClaimWin},
		{input: "win", want: table.ClaimWin},
		{input: "k", want: table.ClaimQuad},
		{input: "triplet", want: table.ClaimTriplet},
		{input: "c", want: table.ClaimSequence},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseClaim(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := parseClaim("chow")
	assert.ErrorIs(t, err, errBadCommand)
}
