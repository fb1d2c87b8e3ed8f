package sqlitedb

// Schema is the full ordered history of the local database layout.
var Schema = []Step{
	{Version: 1, Name: "kick_sessions", SQL: `
CREATE TABLE IF NOT EXISTS kick_sessions (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  started_at INTEGER NOT NULL,
  ended_at INTEGER,
  taps TEXT NOT NULL DEFAULT '[]',
  kick_count INTEGER NOT NULL DEFAULT 0,
  goal_reached INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_kick_sessions_user_started ON kick_sessions(user_id, started_at);
CREATE INDEX IF NOT EXISTS idx_kick_sessions_user_ended ON kick_sessions(user_id, ended_at);
`},
	{Version: 2, Name: "contractions", SQL: `
CREATE TABLE IF NOT EXISTS contraction_sessions (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  started_at INTEGER NOT NULL,
  ended_at INTEGER,
  contraction_count INTEGER NOT NULL DEFAULT 0,
  avg_duration INTEGER,
  avg_interval INTEGER,
  alert_triggered INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_contraction_sessions_user_started ON contraction_sessions(user_id, started_at);
CREATE INDEX IF NOT EXISTS idx_contraction_sessions_user_ended ON contraction_sessions(user_id, ended_at);
CREATE TABLE IF NOT EXISTS contractions (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  session_id TEXT NOT NULL,
  started_at INTEGER NOT NULL,
  ended_at INTEGER,
  duration INTEGER,
  interval INTEGER
);
CREATE INDEX IF NOT EXISTS idx_contractions_user_session_started ON contractions(user_id, session_id, started_at);
`},
	{Version: 3, Name: "hospital_bag_items", SQL: `
CREATE TABLE IF NOT EXISTS hospital_bag_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  category TEXT NOT NULL,
  name TEXT NOT NULL,
  checked INTEGER NOT NULL DEFAULT 0,
  is_custom INTEGER NOT NULL DEFAULT 0,
  sort_order INTEGER NOT NULL,
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_hospital_bag_user_sort ON hospital_bag_items(user_id, sort_order);
`},
	{Version: 4, Name: "feeding_records", SQL: `
CREATE TABLE IF NOT EXISTS feeding_records (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  type TEXT NOT NULL,
  started_at INTEGER NOT NULL,
  ended_at INTEGER,
  duration INTEGER,
  volume_ml INTEGER,
  notes TEXT
);
CREATE INDEX IF NOT EXISTS idx_feeding_records_user_started ON feeding_records(user_id, started_at);
CREATE INDEX IF NOT EXISTS idx_feeding_records_user_ended ON feeding_records(user_id, ended_at);
`},
	{Version: 5, Name: "kv_entries", SQL: `
CREATE TABLE IF NOT EXISTS kv_entries (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at INTEGER NOT NULL
);
`},
}
