package game

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sudooom.mahjong/internal/game/mahjong/bot"
	"sudooom.mahjong/internal/game/mahjong/core"
	"sudooom.mahjong/internal/game/mahjong/table"
	"sudooom.mahjong/internal/model"
)

type memorySnapshots struct {
	mu    sync.Mutex
	saved map[string][]table.Snapshot
}

func (m *memorySnapshots) Save(_ context.Context, gameID string, snaps ...table.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saved == nil {
		m.saved = make(map[string][]table.Snapshot)
	}
	m.saved[gameID] = snaps
	return nil
}

type memoryRecords struct {
	mu      sync.Mutex
	records []model.GameRecord
}

func (m *memoryRecords) Create(_ context.Context, rec *model.GameRecord) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, *rec)
	return int64(len(m.records)), nil
}

type memoryPublisher struct {
	mu        sync.Mutex
	events    map[string]*table.Recorder
	snapshots map[string][]table.Snapshot
}

func (m *memoryPublisher) PublishSnapshot(gameID string, snap table.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snapshots == nil {
		m.snapshots = make(map[string][]table.Snapshot)
	}
	m.snapshots[gameID] = append(m.snapshots[gameID], snap)
	return nil
}

func (m *memoryPublisher) Sink(gameID string) table.EventSink {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.events == nil {
		m.events = make(map[string]*table.Recorder)
	}
	rec := &table.Recorder{}
	m.events[gameID] = rec
	return rec
}

var fast = bot.Profile{Name: "fast", Rollouts: 2, Depth: 2, AttackBias: 0.6, DefenseBias: 0.4, CallAggressiveness: 0.5}

type harness struct {
	service   *GameService
	snapshots *memorySnapshots
	records   *memoryRecords
	publisher *memoryPublisher
}

func newHarness(t *testing.T, humans []int) *harness {
	t.Helper()
	profiles, err := bot.DefaultProfiles().Merge(bot.Profiles{"fast": fast})
	require.NoError(t, err)

	h := &harness{
		snapshots: &memorySnapshots{},
		records:   &memoryRecords{},
		publisher: &memoryPublisher{},
	}
	h.service, err = NewGameService(Options{
		Rules:          table.Rules{SevenPairs: true},
		HumanSeats:     humans,
		Profiles:       profiles,
		DefaultProfile: "fast",
		Parallelism:    2,
	}, Dependencies{
		Publisher: h.publisher,
		Snapshots: h.snapshots,
		Records:   h.records,
	})
	require.NoError(t, err)
	t.Cleanup(func() { h.service.Shutdown(context.Background()) })
	return h
}

func TestAllAIGameFinishesOnStart(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	id, snap, err := h.service.NewGame(ctx, NewGameRequest{Seed: 17, AllAI: true})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, table.PhaseFinished, snap.Phase)
	assert.Equal(t, table.Spectator, snap.Viewer)

	require.Len(t, h.records.records, 1)
	rec := h.records.records[0]
	assert.Equal(t, id, rec.GameId)
	assert.Equal(t, int64(17), rec.Seed)
	assert.Equal(t, []string{"fast", "fast", "fast", "fast"}, rec.Profiles)
	if rec.Winner >= 0 {
		assert.NotEmpty(t, rec.WinningHand)
	} else {
		assert.Equal(t, "none", rec.WinType)
	}

	assert.Len(t, h.snapshots.saved[id], core.SeatCount+1)
	kinds := h.publisher.events[id].Kinds()
	require.NotEmpty(t, kinds)
	assert.Equal(t, table.EventGameStarted, kinds[0])
	last := kinds[len(kinds)-1]
	assert.Contains(t, []string{table.EventGameWon, table.EventExhaustiveDraw}, last)

	// 再次保存不会重复记录
	require.NoError(t, h.service.Close(ctx, id))
	assert.Len(t, h.records.records, 1)
	assert.Zero(t, h.service.Manager().Count())
}

func TestSameSeedSameGame(t *testing.T) {
	a := newHarness(t, nil)
	b := newHarness(t, nil)
	ctx := context.Background()

	_, snapA, err := a.service.NewGame(ctx, NewGameRequest{Seed: 5, AllAI: true})
	require.NoError(t, err)
	_, snapB, err := b.service.NewGame(ctx, NewGameRequest{Seed: 5, AllAI: true})
	require.NoError(t, err)

	assert.Equal(t, snapA, snapB)
}

// TestHumanSeatPlaysToEnd 玩家座位总是胡、出第一张或过
func TestHumanSeatPlaysToEnd(t *testing.T) {
	h := newHarness(t, []int{0})
	ctx := context.Background()

	id, snap, err := h.service.NewGame(ctx, NewGameRequest{Seed: 99})
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Viewer)
	assert.Equal(t, table.PhaseDiscarding, snap.Phase)
	assert.Equal(t, []int{0}, snap.Awaiting)

	for steps := 0; snap.Phase != table.PhaseFinished; steps++ {
		require.Less(t, steps, 500)
		require.Equal(t, []int{0}, snap.Awaiting, "AI 行动完后只剩玩家需要操作")
		snap, err = humanMove(ctx, h.service, id, snap)
		require.NoError(t, err)
	}

	assert.Len(t, h.records.records, 1)
	assert.Equal(t, []string{"", "fast", "fast", "fast"}, h.records.records[0].Profiles)
}

func humanMove(ctx context.Context, s *GameService, id string, snap table.Snapshot) (table.Snapshot, error) {
	for _, a := range snap.Legal {
		if a.Kind == "declare_win" || a.Kind == "claim_win" {
			return s.Claim(ctx, id, 0, table.ClaimWin, 0)
		}
	}
	if snap.Phase == table.PhaseDiscarding {
		var last *core.Tile
		for _, a := range snap.Legal {
			if a.Kind == "discard" {
				last = a.Tile
			}
		}
		return s.Discard(ctx, id, 0, last.ID)
	}
	return s.Pass(ctx, id, 0)
}

func TestServiceRejectsIllegalCommands(t *testing.T) {
	h := newHarness(t, []int{0})
	ctx := context.Background()

	id, snap, err := h.service.NewGame(ctx, NewGameRequest{Seed: 3})
	require.NoError(t, err)

	_, err = h.service.Discard(ctx, id, 1, 0)
	assert.ErrorIs(t, err, ErrSeatControlledByAI)

	_, err = h.service.Pass(ctx, id, 0)
	assert.True(t, core.IsIllegalAction(err))

	_, err = h.service.Discard(ctx, id, 0, core.TileID(999))
	assert.ErrorIs(t, err, core.ErrTileNotInHand)

	after, err := h.service.Snapshot(id, 0)
	require.NoError(t, err)
	assert.Equal(t, snap, after)

	_, err = h.service.Discard(ctx, "missing", 0, 0)
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestServiceSortAndRestart(t *testing.T) {
	h := newHarness(t, []int{0})
	ctx := context.Background()

	id, snap, err := h.service.NewGame(ctx, NewGameRequest{Seed: 12})
	require.NoError(t, err)

	sorted, err := h.service.Sort(ctx, id, 0)
	require.NoError(t, err)

	// 开局与整理各发布一次观战快照
	published := h.publisher.snapshots[id]
	require.Len(t, published, 2)
	assert.Equal(t, table.Spectator, published[1].Viewer)
	assert.Empty(t, published[1].Players[0].Hand)
	assert.Equal(t, core.Counts(snap.Players[0].Hand), core.Counts(sorted.Players[0].Hand))

	restarted, err := h.service.Restart(ctx, id, 0)
	require.NoError(t, err)
	assert.Equal(t, table.PhaseDiscarding, restarted.Phase)
	assert.Equal(t, 83, restarted.WallCount)
}

func TestNewGameServiceUnknownProfile(t *testing.T) {
	_, err := NewGameService(Options{DefaultProfile: "reckless"}, Dependencies{})
	assert.ErrorIs(t, err, bot.ErrUnknownProfile)

	_, err = NewGameService(Options{SeatProfiles: map[int]string{2: "reckless"}}, Dependencies{})
	assert.ErrorIs(t, err, bot.ErrUnknownProfile)
}
