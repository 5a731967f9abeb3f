// Package store provides the SQLite database behind the ledger.
package store

// Schema defines the SQL statements to create database tables.
// Amounts are integer minor units; dates are ISO YYYY-MM-DD text.
const Schema = `
CREATE TABLE IF NOT EXISTS financial_years (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    label TEXT UNIQUE NOT NULL,          -- YYYY-YY
    start_date TEXT NOT NULL,
    end_date TEXT NOT NULL,
    is_active INTEGER NOT NULL DEFAULT 0
);

-- At most one active year.
CREATE UNIQUE INDEX IF NOT EXISTS idx_financial_years_active
    ON financial_years(is_active) WHERE is_active = 1;

CREATE TABLE IF NOT EXISTS groups (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    group_name TEXT UNIQUE NOT NULL,
    category TEXT NOT NULL DEFAULT 'other'
        CHECK(category IN ('asset', 'liability', 'income', 'expense', 'equity', 'other'))
);

CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    full_name TEXT,
    is_active INTEGER NOT NULL DEFAULT 1,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS accounts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT UNIQUE NOT NULL,
    group_id INTEGER NOT NULL,
    phone TEXT NOT NULL DEFAULT '',
    address TEXT NOT NULL DEFAULT '',
    is_active INTEGER NOT NULL DEFAULT 1,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (group_id) REFERENCES groups(id)
);

CREATE TABLE IF NOT EXISTS opening_balances (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    account_id INTEGER NOT NULL,
    financial_year_id INTEGER NOT NULL,
    amount INTEGER NOT NULL,             -- + Debit / - Credit
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (account_id) REFERENCES accounts(id),
    FOREIGN KEY (financial_year_id) REFERENCES financial_years(id),
    UNIQUE (account_id, financial_year_id)
);

CREATE TABLE IF NOT EXISTS transactions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    txn_date TEXT NOT NULL,
    from_acc_id INTEGER NOT NULL,
    to_acc_id INTEGER NOT NULL,
    amount INTEGER NOT NULL CHECK(amount > 0),
    note TEXT NOT NULL DEFAULT '',
    financial_year_id INTEGER NOT NULL,
    created_by INTEGER NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    CHECK(from_acc_id != to_acc_id),
    FOREIGN KEY (from_acc_id) REFERENCES accounts(id),
    FOREIGN KEY (to_acc_id) REFERENCES accounts(id),
    FOREIGN KEY (financial_year_id) REFERENCES financial_years(id),
    FOREIGN KEY (created_by) REFERENCES users(id)
);

CREATE INDEX IF NOT EXISTS idx_txn_date ON transactions(txn_date);
CREATE INDEX IF NOT EXISTS idx_txn_fy ON transactions(financial_year_id);
CREATE INDEX IF NOT EXISTS idx_txn_from ON transactions(from_acc_id);
CREATE INDEX IF NOT EXISTS idx_txn_to ON transactions(to_acc_id);
CREATE INDEX IF NOT EXISTS idx_opening_fy ON opening_balances(financial_year_id);

INSERT OR IGNORE INTO users (id, username, full_name) VALUES (1, 'admin', 'System Administrator');
`

// InitializeSchema creates all tables if they don't exist.
func InitializeSchema(db *DB) error {
	if _, err := db.conn.Exec(Schema); err != nil {
		return err
	}
	return nil
}
