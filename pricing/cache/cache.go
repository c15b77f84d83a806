// Package cache provides a modernc.org/sqlite-backed store mapping
// (instrument hash, quote versions) to a previously computed
// pricing.Result, so a CLI/batch run doesn't re-solve the PDE for an
// unchanged market snapshot. The key embeds every consulted quote's
// version, so it self-invalidates the instant any input changes.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/halvard-quant/fdpricer/pricing"
)

// Store is a pricing result cache backed by a SQLite file (or ":memory:"
// for an ephemeral process-local cache).
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: open %s: %w", path, err)
	}
	s := &Store{db: db}
	if err := s.ensureSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS pricing_results (
	cache_key TEXT PRIMARY KEY,
	npv       REAL NOT NULL,
	delta     REAL NOT NULL,
	gamma     REAL NOT NULL,
	theta     REAL NOT NULL,
	rho       REAL NOT NULL,
	vega      REAL NOT NULL
)`
	_, err := s.db.ExecContext(ctx, ddl)
	if err != nil {
		return fmt.Errorf("cache: ensure schema: %w", err)
	}
	return nil
}

// Key derives a cache key from an instrument description and the
// market's VersionKey, hashing both into a fixed-width string.
func Key(instrumentDescription, marketVersionKey string) string {
	h := sha256.New()
	h.Write([]byte(instrumentDescription))
	h.Write([]byte{0})
	h.Write([]byte(marketVersionKey))
	return hex.EncodeToString(h.Sum(nil))
}

// Get looks up a previously cached result. The bool is false (with a nil
// error) on a cache miss.
func (s *Store) Get(ctx context.Context, key string) (pricing.Result, bool, error) {
	const q = `SELECT npv, delta, gamma, theta, rho, vega FROM pricing_results WHERE cache_key = ?`
	var r pricing.Result
	err := s.db.QueryRowContext(ctx, q, key).Scan(&r.NPV, &r.Delta, &r.Gamma, &r.Theta, &r.Rho, &r.Vega)
	if err == sql.ErrNoRows {
		return pricing.Result{}, false, nil
	}
	if err != nil {
		return pricing.Result{}, false, fmt.Errorf("cache: get %s: %w", key, err)
	}
	return r, true, nil
}

// Put stores result under key, overwriting any previous entry.
func (s *Store) Put(ctx context.Context, key string, result pricing.Result) error {
	const q = `
INSERT INTO pricing_results (cache_key, npv, delta, gamma, theta, rho, vega)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (cache_key) DO UPDATE SET
	npv = excluded.npv, delta = excluded.delta, gamma = excluded.gamma,
	theta = excluded.theta, rho = excluded.rho, vega = excluded.vega`
	_, err := s.db.ExecContext(ctx, q, key, result.NPV, result.Delta, result.Gamma, result.Theta, result.Rho, result.Vega)
	if err != nil {
		return fmt.Errorf("cache: put %s: %w", key, err)
	}
	return nil
}
