package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sudooom.mahjong/internal/model"
)

const schema = `
	CREATE TABLE IF NOT EXISTS game_records (
		id           BIGSERIAL PRIMARY KEY,
		game_id      TEXT        NOT NULL UNIQUE,
		seed         BIGINT      NOT NULL,
		winner       SMALLINT    NOT NULL,
		win_type     TEXT        NOT NULL,
		turns        INT         NOT NULL,
		winning_hand TEXT        NOT NULL DEFAULT '',
		profiles     TEXT[]      NOT NULL DEFAULT '{}',
		started_at   TIMESTAMPTZ NOT NULL,
		finished_at  TIMESTAMPTZ NOT NULL
	)
`

// GameRecordRepository 牌局记录仓库
type GameRecordRepository struct {
	db *pgxpool.Pool
}

// NewGameRecordRepository 创建牌局记录仓库
func NewGameRecordRepository(db *pgxpool.Pool) *GameRecordRepository {
	return &GameRecordRepository{db: db}
}

// EnsureSchema 建表
func (r *GameRecordRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, schema)
	return err
}

// Create 保存牌局记录
func (r *GameRecordRepository) Create(ctx context.Context, rec *model.GameRecord) (int64, error) {
	query := `
		INSERT INTO game_records (game_id, seed, winner, win_type, turns, winning_hand, profiles, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		rec.GameId,
		rec.Seed,
		rec.Winner,
		rec.WinType,
		rec.Turns,
		rec.WinningHand,
		rec.Profiles,
		rec.StartedAt,
		rec.FinishedAt,
	).Scan(&id)

	return id, err
}

// FindByGameID 根据牌局 ID 查找记录
func (r *GameRecordRepository) FindByGameID(ctx context.Context, gameID string) (*model.GameRecord, error) {
	query := `
		SELECT id, game_id, seed, winner, win_type, turns, winning_hand, profiles, started_at, finished_at
		FROM game_records WHERE game_id = $1
	`

	var rec model.GameRecord
	err := r.db.QueryRow(ctx, query, gameID).Scan(
		&rec.Id,
		&rec.GameId,
		&rec.Seed,
		&rec.Winner,
		&rec.WinType,
		&rec.Turns,
		&rec.WinningHand,
		&rec.Profiles,
		&rec.StartedAt,
		&rec.FinishedAt,
	)

	if err != nil {
		return nil, err
	}

	return &rec, nil
}

// ListRecent 按结束时间倒序返回最近的记录
func (r *GameRecordRepository) ListRecent(ctx context.Context, limit int) ([]model.GameRecord, error) {
	query := `
		SELECT id, game_id, seed, winner, win_type, turns, winning_hand, profiles, started_at, finished_at
		FROM game_records ORDER BY finished_at DESC, id DESC LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.GameRecord, error) {
		var rec model.GameRecord
		err := row.Scan(
			&rec.Id,
			&rec.GameId,
			&rec.Seed,
			&rec.Winner,
			&rec.WinType,
			&rec.Turns,
			&rec.WinningHand,
			&rec.Profiles,
			&rec.StartedAt,
			&rec.FinishedAt,
		)
		return rec, err
	})
}

// WinStats 汇总胜负统计
func (r *GameRecordRepository) WinStats(ctx context.Context) (*model.WinStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE winner < 0),
			COUNT(*) FILTER (WHERE winner = 0),
			COUNT(*) FILTER (WHERE winner = 1),
			COUNT(*) FILTER (WHERE winner = 2),
			COUNT(*) FILTER (WHERE winner = 3),
			COUNT(*) FILTER (WHERE win_type = 'self_draw'),
			COALESCE(AVG(turns), 0)::float8
		FROM game_records
	`

	var stats model.WinStats
	err := r.db.QueryRow(ctx, query).Scan(
		&stats.Games,
		&stats.Draws,
		&stats.SeatWins[0],
		&stats.SeatWins[1],
		&stats.SeatWins[2],
		&stats.SeatWins[3],
		&stats.SelfDraws,
		&stats.AvgTurns,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// DeleteByGameID 删除记录
func (r *GameRecordRepository) DeleteByGameID(ctx context.Context, gameID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM game_records WHERE game_id = $1`, gameID)
	return err
}
