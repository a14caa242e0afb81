package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"k8s.io/klog/v2"

	"github.com/elevated-systems/region-atlas/pkg/regionatlas/clock"
)

var _ Gateway = (*SQLiteStore)(nil)

// SQLiteStore implements Gateway on a local SQLite database
type SQLiteStore struct {
	db       *sql.DB
	dbPath   string
	mutex    sync.RWMutex
	prepared map[string]*sql.Stmt
	clock    clock.Clock
}

// Option configures a SQLiteStore
type Option func(*SQLiteStore)

// WithClock sets the time source for last_updated and update_time
func WithClock(clk clock.Clock) Option {
	return func(s *SQLiteStore) {
		s.clock = clk
	}
}

// NewSQLiteStore opens (creating if needed) the database at dbPath
func NewSQLiteStore(dbPath string, opts ...Option) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal=WAL&_sync=NORMAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Writes are serialized by the mutex; one connection keeps statements and
	// transactions on the same handle
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{
		db:       db,
		dbPath:   dbPath,
		prepared: make(map[string]*sql.Stmt),
		clock:    clock.RealClock{},
	}
	for _, opt := range opts {
		opt(store)
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	if err := store.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	klog.V(2).InfoS("Opened region store", "path", dbPath)
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS providers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT UNIQUE NOT NULL,
		display_name TEXT NOT NULL,
		color TEXT NOT NULL,
		api_endpoint TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS countries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		country_code TEXT UNIQUE NOT NULL,
		country_name TEXT NOT NULL,
		continent TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS availability_zones (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		provider_id INTEGER NOT NULL REFERENCES providers(id),
		region_id TEXT NOT NULL,
		region_name TEXT NOT NULL,
		country_code TEXT NOT NULL,
		continent TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'available',
		last_updated TIMESTAMP NOT NULL,
		UNIQUE (provider_id, region_id)
	);

	CREATE TABLE IF NOT EXISTS update_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		provider_id INTEGER NOT NULL REFERENCES providers(id),
		update_time TIMESTAMP NOT NULL,
		status TEXT NOT NULL,
		message TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_zones_country ON availability_zones(country_code);
	CREATE INDEX IF NOT EXISTS idx_zones_status ON availability_zones(status);
	CREATE INDEX IF NOT EXISTS idx_logs_provider ON update_logs(provider_id, update_time);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) prepareStatements() error {
	statements := map[string]string{
		"insert_provider": `
			INSERT OR IGNORE INTO providers (name, display_name, color, api_endpoint, created_at)
			VALUES (?, ?, ?, ?, ?)
		`,
		"select_provider_id": `
			SELECT id FROM providers WHERE name = ?
		`,
		"select_provider": `
			SELECT id, name, display_name, color, COALESCE(api_endpoint, ''), created_at
			FROM providers WHERE id = ?
		`,
		"select_provider_by_name": `
			SELECT id, name, display_name, color, COALESCE(api_endpoint, ''), created_at
			FROM providers WHERE name = ?
		`,
		"select_providers": `
			SELECT id, name, display_name, color, COALESCE(api_endpoint, ''), created_at
			FROM providers ORDER BY name
		`,
		"insert_country": `
			INSERT OR IGNORE INTO countries (country_code, country_name, continent, created_at)
			VALUES (?, ?, ?, ?)
		`,
		"select_country_id": `
			SELECT id FROM countries WHERE country_code = ?
		`,
		"select_country": `
			SELECT id, country_code, country_name, continent, created_at
			FROM countries WHERE country_code = ?
		`,
		"insert_zone": `
			INSERT OR IGNORE INTO availability_zones
				(provider_id, region_id, region_name, country_code, continent, status, last_updated)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`,
		"update_zone": `
			UPDATE availability_zones
			SET region_name = ?, country_code = ?, continent = ?, status = ?, last_updated = ?
			WHERE provider_id = ? AND region_id = ?
		`,
		"select_zone_id": `
			SELECT id FROM availability_zones WHERE provider_id = ? AND region_id = ?
		`,
		"select_zone": `
			SELECT id, provider_id, region_id, region_name, country_code, continent, status, last_updated
			FROM availability_zones WHERE id = ?
		`,
		"select_countries_by_provider": `
			SELECT DISTINCT az.country_code
			FROM availability_zones az
			JOIN providers p ON az.provider_id = p.id
			WHERE p.name = ? AND az.status = 'available'
			ORDER BY az.country_code
		`,
		"select_country_coverage": `
			SELECT c.country_code, c.country_name, c.continent, COALESCE(GROUP_CONCAT(DISTINCT p.name), '')
			FROM countries c
			LEFT JOIN availability_zones az ON c.country_code = az.country_code AND az.status = 'available'
			LEFT JOIN providers p ON az.provider_id = p.id
			GROUP BY c.country_code, c.country_name, c.continent
			ORDER BY c.country_code
		`,
		"insert_log": `
			INSERT INTO update_logs (provider_id, update_time, status, message)
			VALUES (?, ?, ?, ?)
		`,
		"select_log": `
			SELECT id, provider_id, update_time, status, COALESCE(message, '')
			FROM update_logs WHERE id = ?
		`,
		"select_recent_logs": `
			SELECT id, provider_id, update_time, status, COALESCE(message, '')
			FROM update_logs ORDER BY id DESC LIMIT ?
		`,
	}

	for name, query := range statements {
		stmt, err := s.db.Prepare(query)
		if err != nil {
			return fmt.Errorf("failed to prepare statement %s: %w", name, err)
		}
		s.prepared[name] = stmt
	}

	return nil
}

// UpsertProvider inserts p if no provider has its name
func (s *SQLiteStore) UpsertProvider(ctx context.Context, p Provider) (int64, error) {
	if p.Name == "" {
		return 0, errors.New("provider name is required")
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, err := s.prepared["insert_provider"].ExecContext(ctx,
		p.Name, p.DisplayName, p.Color, p.APIEndpoint, s.now()); err != nil {
		return 0, fmt.Errorf("failed to insert provider %s: %w", p.Name, err)
	}

	var id int64
	if err := s.prepared["select_provider_id"].QueryRowContext(ctx, p.Name).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to read provider id %s: %w", p.Name, err)
	}
	return id, nil
}

// UpsertCountry inserts c if no country has its code
func (s *SQLiteStore) UpsertCountry(ctx context.Context, c Country) (int64, error) {
	if c.Code == "" {
		return 0, errors.New("country code is required")
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	name := c.Name
	if name == "" {
		name = c.Code
	}
	if _, err := s.prepared["insert_country"].ExecContext(ctx, c.Code, name, c.Continent, s.now()); err != nil {
		return 0, fmt.Errorf("failed to insert country %s: %w", c.Code, err)
	}

	var id int64
	if err := s.prepared["select_country_id"].QueryRowContext(ctx, c.Code).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to read country id %s: %w", c.Code, err)
	}
	return id, nil
}

// UpsertZone inserts the zone if its key is new, then refreshes the mutable
// fields and last_updated, then reads back the row id. The three steps
// commit together.
func (s *SQLiteStore) UpsertZone(ctx context.Context, z AvailabilityZone) (id int64, err error) {
	if z.RegionID == "" {
		ZoneUpserts.WithLabelValues(upsertError).Inc()
		return 0, errors.New("region id is required")
	}
	if z.Status == "" {
		z.Status = StatusAvailable
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	defer func() {
		if err != nil {
			ZoneUpserts.WithLabelValues(upsertError).Inc()
		}
	}()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	now := s.now()

	res, err := tx.StmtContext(ctx, s.prepared["insert_zone"]).ExecContext(ctx,
		z.ProviderID, z.RegionID, z.RegionName, z.CountryCode, z.Continent, z.Status, now)
	if err != nil {
		return 0, fmt.Errorf("failed to insert zone %s: %w", z.RegionID, err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read insert result: %w", err)
	}

	if _, err = tx.StmtContext(ctx, s.prepared["update_zone"]).ExecContext(ctx,
		z.RegionName, z.CountryCode, z.Continent, z.Status, now, z.ProviderID, z.RegionID); err != nil {
		return 0, fmt.Errorf("failed to update zone %s: %w", z.RegionID, err)
	}

	if err = tx.StmtContext(ctx, s.prepared["select_zone_id"]).QueryRowContext(ctx,
		z.ProviderID, z.RegionID).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to read zone id %s: %w", z.RegionID, err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit zone %s: %w", z.RegionID, err)
	}

	if inserted > 0 {
		ZoneUpserts.WithLabelValues(upsertInserted).Inc()
	} else {
		ZoneUpserts.WithLabelValues(upsertUpdated).Inc()
	}

	klog.V(3).InfoS("Upserted availability zone",
		"providerID", z.ProviderID,
		"region", z.RegionID,
		"country", z.CountryCode,
		"inserted", inserted > 0)

	return id, nil
}

// AppendLog adds an audit row. A zero UpdateTime is set from the clock.
func (s *SQLiteStore) AppendLog(ctx context.Context, l UpdateLog) (int64, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	updateTime := l.UpdateTime
	if updateTime.IsZero() {
		updateTime = s.now()
	}

	res, err := s.prepared["insert_log"].ExecContext(ctx, l.ProviderID, updateTime, l.Status, l.Message)
	if err != nil {
		return 0, fmt.Errorf("failed to append update log: %w", err)
	}
	return res.LastInsertId()
}

// GetProvider returns the provider with the given id
func (s *SQLiteStore) GetProvider(ctx context.Context, id int64) (*Provider, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return scanProvider(s.prepared["select_provider"].QueryRowContext(ctx, id))
}

// GetProviderByName returns the provider with the given name
func (s *SQLiteStore) GetProviderByName(ctx context.Context, name string) (*Provider, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return scanProvider(s.prepared["select_provider_by_name"].QueryRowContext(ctx, name))
}

// ListProviders returns every provider ordered by name
func (s *SQLiteStore) ListProviders(ctx context.Context) ([]Provider, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	rows, err := s.prepared["select_providers"].QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query providers: %w", err)
	}
	defer rows.Close()

	var providers []Provider
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, err
		}
		providers = append(providers, *p)
	}
	return providers, rows.Err()
}

// ProviderColors maps provider names to their display colors
func (s *SQLiteStore) ProviderColors(ctx context.Context) (map[string]string, error) {
	providers, err := s.ListProviders(ctx)
	if err != nil {
		return nil, err
	}

	colors := make(map[string]string, len(providers))
	for _, p := range providers {
		colors[p.Name] = p.Color
	}
	return colors, nil
}

// GetCountry returns the catalog entry for code
func (s *SQLiteStore) GetCountry(ctx context.Context, code string) (*Country, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var c Country
	err := s.prepared["select_country"].QueryRowContext(ctx, strings.ToUpper(code)).
		Scan(&c.ID, &c.Code, &c.Name, &c.Continent, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("country %s: %w", code, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query country %s: %w", code, err)
	}
	return &c, nil
}

// CountriesByProvider returns the country codes where provider has an
// available zone
func (s *SQLiteStore) CountriesByProvider(ctx context.Context, provider string) ([]string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	rows, err := s.prepared["select_countries_by_provider"].QueryContext(ctx, provider)
	if err != nil {
		return nil, fmt.Errorf("failed to query countries for %s: %w", provider, err)
	}
	defer rows.Close()

	countries := []string{}
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("failed to scan country code: %w", err)
		}
		countries = append(countries, code)
	}
	return countries, rows.Err()
}

// CountriesWithProviders lists catalog countries with the providers covering
// them. An empty continent returns every country.
func (s *SQLiteStore) CountriesWithProviders(ctx context.Context, continent string) ([]CountryCoverage, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	rows, err := s.prepared["select_country_coverage"].QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query country coverage: %w", err)
	}
	defer rows.Close()

	coverage := []CountryCoverage{}
	for rows.Next() {
		var c CountryCoverage
		var providers string
		if err := rows.Scan(&c.Code, &c.Name, &c.Continent, &providers); err != nil {
			return nil, fmt.Errorf("failed to scan country coverage: %w", err)
		}
		if continent != "" && c.Continent != continent {
			continue
		}

		c.Providers = []string{}
		if providers != "" {
			c.Providers = strings.Split(providers, ",")
			sort.Strings(c.Providers)
		}
		coverage = append(coverage, c)
	}
	return coverage, rows.Err()
}

// GetZone returns the zone with the given id
func (s *SQLiteStore) GetZone(ctx context.Context, id int64) (*AvailabilityZone, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var z AvailabilityZone
	err := s.prepared["select_zone"].QueryRowContext(ctx, id).Scan(
		&z.ID, &z.ProviderID, &z.RegionID, &z.RegionName,
		&z.CountryCode, &z.Continent, &z.Status, &z.LastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("zone %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query zone %d: %w", id, err)
	}
	return &z, nil
}

// ListZones returns available zones ordered by provider then region,
// optionally restricted to the named providers
func (s *SQLiteStore) ListZones(ctx context.Context, providers ...string) ([]RegionView, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	query := `
		SELECT az.region_id, az.region_name, p.name, az.country_code, az.continent, az.status, az.last_updated
		FROM availability_zones az
		JOIN providers p ON az.provider_id = p.id
		WHERE az.status = 'available'`

	args := make([]any, 0, len(providers))
	if len(providers) > 0 {
		query += " AND p.name IN (" + strings.TrimSuffix(strings.Repeat("?,", len(providers)), ",") + ")"
		for _, p := range providers {
			args = append(args, p)
		}
	}
	query += " ORDER BY p.name, az.region_id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query zones: %w", err)
	}
	defer rows.Close()

	zones := []RegionView{}
	for rows.Next() {
		var v RegionView
		if err := rows.Scan(&v.RegionID, &v.RegionName, &v.Provider,
			&v.CountryCode, &v.Continent, &v.Status, &v.LastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan zone: %w", err)
		}
		zones = append(zones, v)
	}
	return zones, rows.Err()
}

// GetUpdateLog returns the audit row with the given id
func (s *SQLiteStore) GetUpdateLog(ctx context.Context, id int64) (*UpdateLog, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var l UpdateLog
	err := s.prepared["select_log"].QueryRowContext(ctx, id).
		Scan(&l.ID, &l.ProviderID, &l.UpdateTime, &l.Status, &l.Message)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update log %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query update log %d: %w", id, err)
	}
	return &l, nil
}

// RecentLogs returns up to limit audit rows, newest first
func (s *SQLiteStore) RecentLogs(ctx context.Context, limit int) ([]UpdateLog, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	rows, err := s.prepared["select_recent_logs"].QueryContext(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query update logs: %w", err)
	}
	defer rows.Close()

	logs := []UpdateLog{}
	for rows.Next() {
		var l UpdateLog
		if err := rows.Scan(&l.ID, &l.ProviderID, &l.UpdateTime, &l.Status, &l.Message); err != nil {
			return nil, fmt.Errorf("failed to scan update log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// Stats counts available zones overall, per provider and per continent
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	stats := &Stats{
		RegionsByProvider:  make(map[string]int),
		RegionsByContinent: make(map[string]int),
	}

	totals := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM availability_zones WHERE status = 'available'`, &stats.TotalRegions},
		{`SELECT COUNT(DISTINCT country_code) FROM availability_zones WHERE status = 'available'`, &stats.TotalCountries},
		{`SELECT COUNT(*) FROM providers`, &stats.TotalProviders},
	}
	for _, t := range totals {
		if err := s.db.QueryRowContext(ctx, t.query).Scan(t.dest); err != nil {
			return nil, fmt.Errorf("failed to compute statistics: %w", err)
		}
	}

	if err := s.countInto(ctx, stats.RegionsByProvider, `
		SELECT p.name, COUNT(az.id)
		FROM providers p
		LEFT JOIN availability_zones az ON p.id = az.provider_id AND az.status = 'available'
		GROUP BY p.id, p.name`); err != nil {
		return nil, err
	}

	if err := s.countInto(ctx, stats.RegionsByContinent, `
		SELECT continent, COUNT(*)
		FROM availability_zones
		WHERE status = 'available'
		GROUP BY continent`); err != nil {
		return nil, err
	}

	return stats, nil
}

func (s *SQLiteStore) countInto(ctx context.Context, dest map[string]int, query string) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to compute statistics: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("failed to scan statistics: %w", err)
		}
		dest[key] = count
	}
	return rows.Err()
}

// Close releases prepared statements and the database handle
func (s *SQLiteStore) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, stmt := range s.prepared {
		stmt.Close()
	}

	return s.db.Close()
}

func (s *SQLiteStore) now() time.Time {
	return s.clock.Now().UTC()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProvider(row rowScanner) (*Provider, error) {
	var p Provider
	err := row.Scan(&p.ID, &p.Name, &p.DisplayName, &p.Color, &p.APIEndpoint, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("provider: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan provider: %w", err)
	}
	return &p, nil
}
