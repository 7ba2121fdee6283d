package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sudooom.mahjong/internal/game/mahjong/table"
	"sudooom.mahjong/internal/model"
	mjRedis "sudooom.mahjong/internal/redis"
)

type fakeRecords struct {
	records []model.GameRecord
	deleted []string
}

func (f *fakeRecords) FindByGameID(_ context.Context, gameID string) (*model.GameRecord, error) {
	for _, rec := range f.records {
		if rec.GameId == gameID {
			return &rec, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeRecords) ListRecent(_ context.Context, limit int) ([]model.GameRecord, error) {
	return f.records[:min(limit, len(f.records))], nil
}

func (f *fakeRecords) DeleteByGameID(_ context.Context, gameID string) error {
	f.deleted = append(f.deleted, gameID)
	return nil
}

func sampleRecords() *fakeRecords {
	finished := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	return &fakeRecords{records: []model.GameRecord{
		{GameId: "g-won", Seed: 3, Winner: 2, WinType: "self_draw", Turns: 41, WinningHand: "123m456p789s11z", Profiles: []string{"", "quick", "quick", "quick"}, FinishedAt: finished},
		{GameId: "g-draw", Seed: 4, Winner: -1, WinType: "none", Turns: 70, FinishedAt: finished},
	}}
}

func TestRunHistoryList(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runHistory(context.Background(), &out, sampleRecords(), "", false, 20))

	text := out.String()
	assert.Contains(t, text, "g-won")
	assert.Contains(t, text, "123m456p789s11z")
	assert.Contains(t, text, ",quick,quick,quick")
	assert.Contains(t, text, "g-draw")
	assert.Contains(t, text, "2026-10-18 12:00:00")
}

func TestRunHistorySingleGame(t *testing.T) {
	repo := sampleRecords()

	var out bytes.Buffer
	require.NoError(t, runHistory(context.Background(), &out, repo, "g-draw", false, 20))
	assert.Contains(t, out.String(), "g-draw")
	assert.NotContains(t, out.String(), "g-won")

	err := runHistory(context.Background(), &out, repo, "missing", false, 20)
	assert.ErrorContains(t, err, "missing")
}

func TestRunHistoryDelete(t *testing.T) {
	repo := sampleRecords()

	assert.Error(t, runHistory(context.Background(), &bytes.Buffer{}, repo, "", true, 20))
	require.NoError(t, runHistory(context.Background(), &bytes.Buffer{}, repo, "g-won", true, 20))
	assert.Equal(t, []string{"g-won"}, repo.deleted)
}

type fakeSnapshots struct {
	snaps   map[string]table.Snapshot
	deleted []string
}

func (f *fakeSnapshots) ActiveGames(context.Context) ([]string, error) {
	var ids []string
	for id, snap := range f.snaps {
		if snap.Phase != table.PhaseFinished {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeSnapshots) Load(_ context.Context, gameID string, viewer int) (*table.Snapshot, error) {
	snap, ok := f.snaps[gameID]
	if !ok || viewer != snap.Viewer {
		return nil, mjRedis.ErrSnapshotNotFound
	}
	return &snap, nil
}

func (f *fakeSnapshots) Delete(_ context.Context, gameID string) error {
	f.deleted = append(f.deleted, gameID)
	delete(f.snaps, gameID)
	return nil
}

func TestRunGames(t *testing.T) {
	ctx := context.Background()
	store := &fakeSnapshots{snaps: map[string]table.Snapshot{
		"live": {Viewer: table.Spectator, Phase: table.PhaseDiscarding, WallCount: 60, Winner: -1},
	}}

	var out bytes.Buffer
	require.NoError(t, runGames(ctx, &out, store, nil, table.Spectator))
	assert.Contains(t, out.String(), "进行中的牌局: 1")
	assert.Contains(t, out.String(), "live")

	out.Reset()
	require.NoError(t, runGames(ctx, &out, store, []string{"show", "live"}, table.Spectator))
	var snap table.Snapshot
	require.NoError(t, json.Unmarshal(out.Bytes(), &snap))
	assert.Equal(t, table.PhaseDiscarding, snap.Phase)
	assert.Equal(t, 60, snap.WallCount)

	assert.ErrorContains(t, runGames(ctx, &out, store, []string{"show", "live"}, 2), "没有快照")
	assert.ErrorIs(t, runGames(ctx, &out, store, []string{"show"}, 0), errBadCommand)
	assert.ErrorIs(t, runGames(ctx, &out, store, []string{"drop", "live"}, 0), errBadCommand)

	require.NoError(t, runGames(ctx, &out, store, []string{"purge", "live"}, 0))
	assert.Equal(t, []string{"live"}, store.deleted)
}

func TestFormatEventMessage(t *testing.T) {
	line, err := formatEventMessage([]byte(`{"gameId":"g1","seq":7,"kind":"tile_discarded","params":{"tile":"5p","seat":2},"timestamp":1}`))
	require.NoError(t, err)
	assert.Equal(t, "g1 #7 tile_discarded seat=2 tile=5p", line)

	_, err = formatEventMessage([]byte("not json"))
	assert.Error(t, err)
}
