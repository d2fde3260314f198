package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS trade_fetches (
    region_code          TEXT NOT NULL,
    year_month           TEXT NOT NULL,
    row_count            INTEGER NOT NULL,
    fetched_at           TEXT NOT NULL,
    PRIMARY KEY (region_code, year_month)
);

CREATE TABLE IF NOT EXISTS trades (
    region_code          TEXT NOT NULL,
    year_month           TEXT NOT NULL,
    seq                  INTEGER NOT NULL,
    name                 TEXT NOT NULL,
    dong                 TEXT,
    area_m2              REAL,
    floor                INTEGER,
    deal_date            TEXT,
    fields               BLOB NOT NULL,
    PRIMARY KEY (region_code, year_month, seq),
    FOREIGN KEY (region_code, year_month)
        REFERENCES trade_fetches(region_code, year_month) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_trade_fetches_fetched ON trade_fetches(fetched_at);
`
