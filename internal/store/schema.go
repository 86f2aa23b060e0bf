package store

const Schema = `
CREATE TABLE IF NOT EXISTS film_cache (
	letterboxd_slug TEXT PRIMARY KEY,
	tmdb_id INTEGER,
	title TEXT NOT NULL,
	year INTEGER,
	poster_path TEXT NOT NULL DEFAULT '',
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS release_cache (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	tmdb_id INTEGER NOT NULL,
	country TEXT NOT NULL,
	release_date TEXT NOT NULL,
	release_type INTEGER NOT NULL,
	note TEXT NOT NULL DEFAULT '',
	cached_at INTEGER NOT NULL,
	UNIQUE(tmdb_id, country, release_date, release_type)
);

CREATE INDEX IF NOT EXISTS idx_release_cache_pair ON release_cache(tmdb_id, country);

-- Last full-refresh time per (tmdb_id, country), independent of row presence.
CREATE TABLE IF NOT EXISTS release_cache_meta (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	tmdb_id INTEGER NOT NULL,
	country TEXT NOT NULL,
	cached_at INTEGER NOT NULL,
	UNIQUE(tmdb_id, country)
);

CREATE TABLE IF NOT EXISTS provider_cache (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	tmdb_id INTEGER NOT NULL,
	country TEXT NOT NULL,
	provider_id INTEGER NOT NULL,
	provider_name TEXT NOT NULL,
	logo_path TEXT NOT NULL DEFAULT '',
	link TEXT NOT NULL DEFAULT '',
	provider_type INTEGER NOT NULL,
	cached_at INTEGER NOT NULL,
	UNIQUE(tmdb_id, country, provider_id, provider_type)
);

CREATE INDEX IF NOT EXISTS idx_provider_cache_pair ON provider_cache(tmdb_id, country);

CREATE TABLE IF NOT EXISTS provider_cache_meta (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	tmdb_id INTEGER NOT NULL,
	country TEXT NOT NULL,
	cached_at INTEGER NOT NULL,
	UNIQUE(tmdb_id, country)
);
`
