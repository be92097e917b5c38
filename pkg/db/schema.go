package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Runs: one row per batch invocation
CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,            -- uuid
    created_at TIMESTAMP NOT NULL,
    finished_at TIMESTAMP,
    handles TEXT NOT NULL,              -- space separated, in scrape order
    handle_count INTEGER NOT NULL,
    prepare_edges BOOLEAN DEFAULT 0,
    message_count INTEGER DEFAULT 0,
    user_count INTEGER DEFAULT 0,
    edge_count INTEGER DEFAULT 0,
    status TEXT NOT NULL DEFAULT 'running',  -- running, done, failed
    error_message TEXT
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);

-- Messages: cleaned message records, key columns plus the full record as JSON
CREATE TABLE IF NOT EXISTS messages (
    message_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    handle TEXT,
    post_id TEXT,
    post_number TEXT,
    posted_at TIMESTAMP,
    views REAL,
    forwarded_message_url TEXT,
    text TEXT,
    record TEXT NOT NULL,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_messages_run ON messages(run_id);
CREATE INDEX IF NOT EXISTS idx_messages_handle ON messages(handle);
CREATE INDEX IF NOT EXISTS idx_messages_post ON messages(post_id);

-- Users: one cleaned channel record per handle per run
CREATE TABLE IF NOT EXISTS users (
    user_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    handle TEXT NOT NULL,
    name TEXT,
    subscriber_count REAL,
    placeholder BOOLEAN DEFAULT 0,
    record TEXT NOT NULL,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_users_run ON users(run_id);
CREATE INDEX IF NOT EXISTS idx_users_handle ON users(handle);

-- Edges: forward links between channels
CREATE TABLE IF NOT EXISTS edges (
    edge_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    source TEXT NOT NULL,
    target TEXT NOT NULL,
    type TEXT NOT NULL,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_edges_run ON edges(run_id);
CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source);
CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target);
`
