package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rustyeddy/cryptopilot/market"
)

// FileStore keeps the balance in a small JSON object ({"balance": 12.3456})
// and the trade log in a JSON array, one file each. Writes go through a
// temp file and rename so a crash never leaves a torn file behind.
type FileStore struct {
	mu          sync.Mutex
	capitalPath string
	tradesPath  string
}

type capitalFile struct {
	Balance float64 `json:"balance"`
}

func NewFile(capitalPath, tradesPath string) (*FileStore, error) {
	for _, p := range []string{capitalPath, tradesPath} {
		if p == "" {
			return nil, errors.New("file store: capital and trades paths are required")
		}
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return nil, err
		}
	}
	return &FileStore{capitalPath: capitalPath, tradesPath: tradesPath}, nil
}

func (s *FileStore) Balance(ctx context.Context) (float64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.capitalPath)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	var c capitalFile
	if err := json.Unmarshal(data, &c); err != nil {
		return 0, false, fmt.Errorf("parse %s: %w", s.capitalPath, err)
	}
	return c.Balance, true, nil
}

// Apply writes the trade log first and the balance second. If the balance
// write fails the previous trade log is put back, so an error never leaves
// the trade recorded without its balance. A crash in between is visible as
// a balance that lags the log.
func (s *FileStore) Apply(ctx context.Context, t Trade, balance float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, hadPrev, err := readFile(s.tradesPath)
	if err != nil {
		return err
	}
	trades, err := decodeTrades(s.tradesPath, prev)
	if err != nil {
		return err
	}
	trades = append(trades, t)

	tradesData, err := json.MarshalIndent(trades, "", "  ")
	if err != nil {
		return err
	}
	capData, err := json.Marshal(capitalFile{Balance: market.Round(balance, 4)})
	if err != nil {
		return err
	}

	if err := writeAtomic(s.tradesPath, tradesData); err != nil {
		return fmt.Errorf("write trades: %w", err)
	}
	if err := writeAtomic(s.capitalPath, capData); err != nil {
		if rerr := s.restoreTrades(prev, hadPrev); rerr != nil {
			return fmt.Errorf("write capital: %w (restore trades: %v)", err, rerr)
		}
		return fmt.Errorf("write capital: %w", err)
	}
	return nil
}

func (s *FileStore) restoreTrades(prev []byte, existed bool) error {
	if !existed {
		return os.Remove(s.tradesPath)
	}
	return writeAtomic(s.tradesPath, prev)
}

func (s *FileStore) TradesBetween(ctx context.Context, start, end time.Time) ([]Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trades, err := s.readTrades()
	if err != nil {
		return nil, err
	}
	var out []Trade
	for _, t := range trades {
		if inRange(t.Timestamp, start, end) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) readTrades() ([]Trade, error) {
	data, _, err := readFile(s.tradesPath)
	if err != nil {
		return nil, err
	}
	return decodeTrades(s.tradesPath, data)
}

// readFile returns the contents of path. A missing file is not an error;
// ok reports whether it existed.
func readFile(path string) (data []byte, ok bool, err error) {
	data, err = os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func decodeTrades(path string, data []byte) ([]Trade, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var trades []Trade
	if err := json.Unmarshal(data, &trades); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return trades, nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
