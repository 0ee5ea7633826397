package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Config struct {
	host     string
	user     string
	password string
	port     string
	dbname   string
	sslmode  string
}

func (c Config) ConnStr() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", c.user, c.password, c.host, c.port, c.dbname, c.sslmode)
}

func NewConfig(host, user, password, port, dbname, sslmode string) Config {
	return Config{
		host:     host,
		user:     user,
		password: password,
		port:     port,
		dbname:   dbname,
		sslmode:  sslmode,
	}
}

func NewPool(ctx context.Context, config Config) (*pgxpool.Pool, error) {
	p, err := pgxpool.New(ctx, config.ConnStr())
	if err != nil {
		return nil, err
	}

	err = p.Ping(ctx)
	if err != nil {
		return nil, err
	}

	return p, nil
}

var (
	ErrNoRows      = errors.New("no rows in result set")
	ErrQueryRow    = errors.New("could not execute query")
	ErrStoreFailed = errors.New("could not store data")
	ErrNoID        = errors.New("data contains no id")
)

type Storage struct {
	pool *pgxpool.Pool
}

func NewWithPool(pool *pgxpool.Pool) *Storage {
	return &Storage{pool: pool}
}

func New(ctx context.Context, config Config) (*Storage, error) {
	pool, err := NewPool(ctx, config)
	if err != nil {
		return nil, err
	}

	return &Storage{pool: pool}, nil
}

func (s *Storage) Initialize(ctx context.Context) error {
	return s.createTables(ctx)
}

func (s *Storage) createTables(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS readings (
			reading_id		BIGSERIAL PRIMARY KEY,
			property_id		TEXT 	NOT NULL,
			source			TEXT 	NOT NULL,
			collected_at	timestamp with time zone NOT NULL DEFAULT CURRENT_TIMESTAMP,
			soc				NUMERIC NULL,
			voltage			NUMERIC NULL,
			pv_power		NUMERIC NULL,
			temperature		NUMERIC NULL,
			primary_temp	NUMERIC NULL,
			load_power		NUMERIC NULL,
			battery_current	NUMERIC NULL,
			vehicle_soc		NUMERIC NULL,
			vehicle_charging BOOLEAN NULL,
			vehicle_power_kw NUMERIC NULL,
			data 			JSONB	NOT NULL
		);

		CREATE TABLE IF NOT EXISTS devices (
			property_id		TEXT 	NOT NULL,
			entity_id		TEXT 	NOT NULL,
			friendly_name	TEXT 	NULL,
			battery_pct		NUMERIC NULL,
			device_type		TEXT 	NULL,
			last_activity	timestamp with time zone NULL,
			collected_at	timestamp with time zone NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT pkey_devices_unique PRIMARY KEY (property_id, entity_id)
		);

		CREATE TABLE IF NOT EXISTS alerts (
			alert_id		TEXT 	NOT NULL,
			property_id		TEXT 	NOT NULL,
			alert_type		TEXT 	NOT NULL,
			sensor_id		TEXT 	NULL,
			value			NUMERIC NULL,
			threshold		NUMERIC NULL,
			severity		TEXT 	NOT NULL,
			message			TEXT 	NULL,
			triggered_at	timestamp with time zone NOT NULL DEFAULT CURRENT_TIMESTAMP,
			notified		BOOLEAN NOT NULL DEFAULT FALSE,
			resolved_at		timestamp with time zone NULL,
			CONSTRAINT pkey_alerts_unique PRIMARY KEY (alert_id)
		);

		CREATE INDEX IF NOT EXISTS readings_property_time_idx ON readings (property_id, collected_at DESC);
		CREATE INDEX IF NOT EXISTS alerts_property_time_idx ON alerts (property_id, triggered_at DESC);
		CREATE INDEX IF NOT EXISTS alerts_unresolved_idx ON alerts (property_id, alert_type, sensor_id) WHERE resolved_at IS NULL;
	`)
	if err != nil {
		return err
	}

	return nil
}

func (s *Storage) Close() {
	s.pool.Close()
}
