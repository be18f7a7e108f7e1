package ledger

import (
	"context"
	"errors"
	"fmt"

	"abstain/internal/config"
	"abstain/internal/spec"
)

// ErrLocked indicates another process holds the ledger.
var ErrLocked = errors.New("ledger is locked by another process")

// Ledger is the durable, append-only store of completed combinations.
type Ledger interface {
	// Load replays every persisted record's key. A fresh store yields an
	// empty set.
	Load(ctx context.Context) (KeySet, error)
	// Append durably persists records. Duplicates are not rejected.
	Append(ctx context.Context, records []Record) error
	Close() error
}

// Open opens the configured ledger backend, creating the store when missing.
// runID is stored alongside records by backends that keep provenance.
func Open(ctx context.Context, cfg spec.LedgerConfig, runID string) (Ledger, error) {
	switch cfg.Backend {
	case "", config.LedgerJSONL:
		return OpenJSONL(cfg.Path)
	case config.LedgerDuckDB:
		return OpenDuckDB(ctx, cfg.Path, runID)
	default:
		return nil, fmt.Errorf("unsupported ledger backend %q", cfg.Backend)
	}
}

// ReadKeys loads the completed keys of the configured ledger for inspection.
// It never creates, locks, or repairs the store; a missing store is empty.
func ReadKeys(ctx context.Context, cfg spec.LedgerConfig) (KeySet, error) {
	switch cfg.Backend {
	case "", config.LedgerJSONL:
		return ReadJSONLKeys(ctx, cfg.Path)
	case config.LedgerDuckDB:
		return ReadDuckDBKeys(ctx, cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported ledger backend %q", cfg.Backend)
	}
}
