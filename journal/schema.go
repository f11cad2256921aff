package journal

const schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	date TEXT NOT NULL,
	market TEXT NOT NULL,
	buy_time DATETIME NOT NULL,
	sell_time DATETIME NOT NULL,
	buy_krw REAL NOT NULL,
	buy_price REAL NOT NULL,
	sell_price REAL NOT NULL,
	volume REAL NOT NULL,
	sell_krw REAL NOT NULL,
	profit_krw REAL NOT NULL,
	yield REAL NOT NULL,
	result TEXT NOT NULL,
	sell_type TEXT NOT NULL,
	pass1_ratio REAL NOT NULL DEFAULT 0,
	bid5_ratio REAL NOT NULL DEFAULT 0,
	wide_trend_avg REAL NOT NULL DEFAULT 0,
	wide_trend_avg2 REAL NOT NULL DEFAULT 0,
	trend_avg REAL NOT NULL DEFAULT 0,
	cross_avg REAL NOT NULL DEFAULT 0,
	fast_rate REAL NOT NULL DEFAULT 0,
	up_rate REAL NOT NULL DEFAULT 0,
	prev_price_rate REAL NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_trades_date ON trades(date);
CREATE INDEX IF NOT EXISTS idx_trades_market ON trades(market);
`
