package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rustyeddy/cryptopilot/signals"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// One writer; sqlite serialises anyway and this avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (j *SQLiteStore) Balance(ctx context.Context) (float64, bool, error) {
	var b float64
	err := j.db.QueryRowContext(ctx, `SELECT balance FROM capital WHERE id = 1`).Scan(&b)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return b, true, nil
}

func (j *SQLiteStore) Apply(ctx context.Context, t Trade, balance float64) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO trades
		(trade_id, symbol, side, entry_price, exit_price, quantity, pnl, strategy, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Symbol, string(t.Side), t.EntryPrice, t.ExitPrice,
		t.Quantity, t.PnL, t.Strategy, t.Timestamp.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert trade %s: %w", t.ID, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO capital (id, balance, updated) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET balance = excluded.balance, updated = excluded.updated`,
		balance, t.Timestamp.UTC(),
	)
	if err != nil {
		return fmt.Errorf("store balance: %w", err)
	}

	return tx.Commit()
}

func (j *SQLiteStore) Close() error {
	return j.db.Close()
}

const tradeColumns = `trade_id, symbol, side, entry_price, exit_price, quantity, pnl, strategy, timestamp`

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(s scanner) (Trade, error) {
	var (
		rec  Trade
		side string
	)
	err := s.Scan(
		&rec.ID,
		&rec.Symbol,
		&side,
		&rec.EntryPrice,
		&rec.ExitPrice,
		&rec.Quantity,
		&rec.PnL,
		&rec.Strategy,
		&rec.Timestamp,
	)
	rec.Side = signals.Side(side)
	rec.Timestamp = rec.Timestamp.UTC()
	return rec, err
}

// GetTrade returns a single trade by ID.
func (j *SQLiteStore) GetTrade(ctx context.Context, tradeID string) (Trade, error) {
	row := j.db.QueryRowContext(ctx, `SELECT `+tradeColumns+` FROM trades WHERE trade_id = ?`, tradeID)
	rec, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Trade{}, fmt.Errorf("trade %q not found", tradeID)
		}
		return Trade{}, err
	}
	return rec, nil
}

// TradesBetween returns trades whose timestamp is within [start, end).
func (j *SQLiteStore) TradesBetween(ctx context.Context, start, end time.Time) ([]Trade, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT `+tradeColumns+`
		FROM trades
		WHERE timestamp >= ? AND timestamp < ?
		ORDER BY timestamp ASC, trade_id ASC`, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Trade
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
