package journal

import (
	"context"
	"fmt"
)

// Store types accepted by Open.
const (
	TypeMemory = "memory"
	TypeSQLite = "sqlite"
	TypeFile   = "json"
	TypeRedis  = "redis"
)

// Options selects and configures a Store.
type Options struct {
	Type string

	DBPath string // sqlite

	CapitalFile string // json
	TradesFile  string // json

	Redis RedisOptions
}

// Open builds the Store described by o.
func Open(ctx context.Context, o Options) (Store, error) {
	switch o.Type {
	case TypeMemory:
		return NewMemory(), nil
	case TypeSQLite:
		return NewSQLite(o.DBPath)
	case TypeFile:
		return NewFile(o.CapitalFile, o.TradesFile)
	case TypeRedis:
		return NewRedis(ctx, o.Redis)
	default:
		return nil, fmt.Errorf("unknown journal type %q", o.Type)
	}
}
