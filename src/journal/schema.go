package journal

import "time"

type SessionRecord struct {
	SessionID  string
	InitialFEN string
	Oracle     string
	CreatedAt  time.Time
	MoveCount  int
}

type MoveRecord struct {
	SessionID string
	Ply       int
	MoveUCI   string
	FENAfter  string
	Side      string // "w" or "b", the side that moved
	CreatedAt time.Time
}

const Schema = `
CREATE TABLE IF NOT EXISTS sessions (
	session_id TEXT PRIMARY KEY,
	initial_fen TEXT NOT NULL,
	oracle TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS moves (
	move_id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	ply INTEGER NOT NULL,
	move_uci TEXT NOT NULL,
	fen_after TEXT NOT NULL,
	side TEXT NOT NULL CHECK(side IN ('w', 'b')),
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (session_id) REFERENCES sessions(session_id) ON DELETE CASCADE,
	UNIQUE(session_id, ply)
);

CREATE INDEX IF NOT EXISTS idx_moves_session_id ON moves(session_id);
CREATE INDEX IF NOT EXISTS idx_sessions_created_at ON sessions(created_at);
`
