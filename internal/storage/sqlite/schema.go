package sqlite

// schema mirrors the relational layout of the hosted journal database.
// Monetary and price columns are TEXT so values keep their decimal form;
// list and object columns hold JSON text.
const schema = `
CREATE TABLE IF NOT EXISTS trades (
	id                TEXT PRIMARY KEY,
	user_id           TEXT NOT NULL,
	date              TEXT NOT NULL DEFAULT '',
	time              TEXT NOT NULL DEFAULT '',
	asset             TEXT NOT NULL DEFAULT '',
	direction         TEXT NOT NULL DEFAULT 'long' CHECK (direction IN ('long', 'short')),
	entry_price       TEXT NOT NULL,
	exit_price        TEXT,
	position_size     TEXT NOT NULL,
	strategy          TEXT NOT NULL DEFAULT '',
	reasoning         TEXT NOT NULL DEFAULT '',
	market_conditions TEXT NOT NULL DEFAULT '',
	tags              TEXT NOT NULL DEFAULT '[]',
	screenshots       TEXT NOT NULL DEFAULT '[]',
	is_open           INTEGER NOT NULL DEFAULT 1,
	pnl               TEXT,
	fees              TEXT NOT NULL DEFAULT '0',
	emotional_state   TEXT NOT NULL DEFAULT 'neutral',
	created_at        TEXT NOT NULL,
	updated_at        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_trades_user ON trades(user_id, created_at);

CREATE TABLE IF NOT EXISTS assets (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	symbol     TEXT NOT NULL,
	name       TEXT NOT NULL DEFAULT '',
	category   TEXT NOT NULL,
	exchange   TEXT,
	sector     TEXT,
	is_active  INTEGER NOT NULL DEFAULT 1,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_assets_user ON assets(user_id, created_at);

CREATE TABLE IF NOT EXISTS goals (
	id            TEXT PRIMARY KEY,
	user_id       TEXT NOT NULL,
	type          TEXT NOT NULL,
	target        TEXT NOT NULL,
	current_value TEXT NOT NULL DEFAULT '0',
	deadline      TEXT NOT NULL DEFAULT '',
	description   TEXT NOT NULL DEFAULT '',
	is_active     INTEGER NOT NULL DEFAULT 1,
	priority      TEXT NOT NULL DEFAULT 'medium',
	category      TEXT NOT NULL,
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_goals_user ON goals(user_id, created_at);

CREATE TABLE IF NOT EXISTS journal_entries (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	date       TEXT NOT NULL DEFAULT '',
	title      TEXT NOT NULL DEFAULT '',
	content    TEXT NOT NULL DEFAULT '',
	mood       TEXT NOT NULL DEFAULT 'neutral',
	tags       TEXT NOT NULL DEFAULT '[]',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_journal_entries_user ON journal_entries(user_id, created_at);

CREATE TABLE IF NOT EXISTS transactions (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL,
	date        TEXT NOT NULL DEFAULT '',
	amount      TEXT NOT NULL,
	type        TEXT NOT NULL CHECK (type IN ('deposit', 'withdrawal')),
	description TEXT,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transactions_user ON transactions(user_id, created_at);

CREATE TABLE IF NOT EXISTS portfolio_settings (
	id                           TEXT PRIMARY KEY,
	user_id                      TEXT NOT NULL UNIQUE,
	initial_capital              TEXT NOT NULL DEFAULT '10000',
	current_balance              TEXT NOT NULL DEFAULT '10000',
	max_daily_loss               TEXT NOT NULL DEFAULT '500',
	max_daily_loss_percentage    TEXT NOT NULL DEFAULT '5',
	max_position_size            TEXT NOT NULL DEFAULT '1000',
	max_position_size_percentage TEXT NOT NULL DEFAULT '10',
	risk_reward_ratio            TEXT NOT NULL DEFAULT '2',
	currency                     TEXT NOT NULL DEFAULT 'USD',
	timezone                     TEXT NOT NULL DEFAULT 'America/New_York',
	created_at                   TEXT NOT NULL,
	updated_at                   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS user_settings (
	id              TEXT PRIMARY KEY,
	user_id         TEXT NOT NULL UNIQUE,
	theme           TEXT NOT NULL DEFAULT 'light' CHECK (theme IN ('light', 'dark', 'auto')),
	currency        TEXT NOT NULL DEFAULT 'USD',
	timezone        TEXT NOT NULL DEFAULT 'America/New_York',
	date_format     TEXT NOT NULL DEFAULT 'MM/DD/YYYY',
	notifications   TEXT,
	risk_management TEXT,
	trading_hours   TEXT,
	created_at      TEXT NOT NULL,
	updated_at      TEXT NOT NULL
);
`
