// Package store provides a SQLite-backed cache of transaction lookups.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cloud.google.com/go/civil"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/homebudget/homebudget/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// DefaultTTL is how long a cached lookup stays fresh.
const DefaultTTL = 12 * time.Hour

// Cache stores parsed trade rows per (region, period).
type Cache struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// Open opens or creates the cache database at the given path. A ttl <= 0
// uses DefaultTTL.
func Open(dbPath string, ttl time.Duration) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{db: db, ttl: ttl, now: time.Now}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// PutTrades replaces the cached rows for a region and period.
func (c *Cache) PutTrades(regionCode, yearMonth string, rows []model.RawListing) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM trade_fetches WHERE region_code = ? AND year_month = ?", regionCode, yearMonth); err != nil {
		return err
	}

	fetchedAt := c.now().UTC().Format(time.RFC3339)
	_, err = tx.Exec(`INSERT INTO trade_fetches (region_code, year_month, row_count, fetched_at)
		VALUES (?, ?, ?, ?)`, regionCode, yearMonth, len(rows), fetchedAt)
	if err != nil {
		return err
	}

	for i, r := range rows {
		fields, err := msgpack.Marshal(r.Fields)
		if err != nil {
			return fmt.Errorf("encoding fields for %q: %w", r.Name, err)
		}
		var area sql.NullFloat64
		if r.AreaM2 != nil {
			area = sql.NullFloat64{Float64: *r.AreaM2, Valid: true}
		}
		var floor sql.NullInt64
		if r.Floor != nil {
			floor = sql.NullInt64{Int64: int64(*r.Floor), Valid: true}
		}
		var deal sql.NullString
		if r.DealDate != nil {
			deal = sql.NullString{String: r.DealDate.String(), Valid: true}
		}

		_, err = tx.Exec(`INSERT INTO trades
			(region_code, year_month, seq, name, dong, area_m2, floor, deal_date, fields)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			regionCode, yearMonth, i, r.Name, r.Dong, area, floor, deal, fields,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetTrades returns cached rows in their original order. ok is false when
// nothing is cached or the entry is older than the TTL.
func (c *Cache) GetTrades(regionCode, yearMonth string) (rows []model.RawListing, ok bool, err error) {
	var fetchedStr string
	err = c.db.QueryRow("SELECT fetched_at FROM trade_fetches WHERE region_code = ? AND year_month = ?",
		regionCode, yearMonth).Scan(&fetchedStr)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	fetchedAt, err := time.Parse(time.RFC3339, fetchedStr)
	if err != nil {
		return nil, false, fmt.Errorf("parsing fetched_at: %w", err)
	}
	if c.now().Sub(fetchedAt) > c.ttl {
		return nil, false, nil
	}

	q, err := c.db.Query(`SELECT name, dong, area_m2, floor, deal_date, fields
		FROM trades WHERE region_code = ? AND year_month = ? ORDER BY seq`, regionCode, yearMonth)
	if err != nil {
		return nil, false, err
	}
	defer func() { _ = q.Close() }()

	rows = []model.RawListing{}
	for q.Next() {
		var r model.RawListing
		var dong, deal sql.NullString
		var area sql.NullFloat64
		var floor sql.NullInt64
		var fields []byte
		if err := q.Scan(&r.Name, &dong, &area, &floor, &deal, &fields); err != nil {
			return nil, false, err
		}
		r.Dong = dong.String
		if area.Valid {
			v := area.Float64
			r.AreaM2 = &v
		}
		if floor.Valid {
			v := int(floor.Int64)
			r.Floor = &v
		}
		if deal.Valid {
			if d, err := civil.ParseDate(deal.String); err == nil {
				r.DealDate = &d
			}
		}
		if err := msgpack.Unmarshal(fields, &r.Fields); err != nil {
			return nil, false, fmt.Errorf("decoding fields for %q: %w", r.Name, err)
		}
		rows = append(rows, r)
	}
	if err := q.Err(); err != nil {
		return nil, false, err
	}
	return rows, true, nil
}

// Purge drops entries older than the TTL and returns how many were removed.
func (c *Cache) Purge() (int64, error) {
	cutoff := c.now().Add(-c.ttl).UTC().Format(time.RFC3339)
	res, err := c.db.Exec("DELETE FROM trade_fetches WHERE fetched_at < ?", cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// EntryCount returns the number of cached lookups.
func (c *Cache) EntryCount() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM trade_fetches").Scan(&count)
	return count, err
}
