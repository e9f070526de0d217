package server

import (
	"net/url"
	"strconv"

	"github.com/jmoiron/sqlx"
)

type DBConfig struct {
	User               string
	Password           string
	Host               string
	Name               string
	Port               int
	MaxIdleConns       int
	MaxOpenConns       int
	SSLMode            string
	StatementCacheMode string
}

// URL builds the postgres connection string, shared with migrations.
func (cfg DBConfig) URL() string {
	q := make(url.Values)
	q.Set("sslmode", cfg.SSLMode)
	q.Set("timezone", "utc")
	if cfg.StatementCacheMode != "" {
		q.Set("statement_cache_mode", cfg.StatementCacheMode)
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Path:     cfg.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

func OpenDB(cfg DBConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("pgx", cfg.URL())
	if err != nil {
		return nil, err
	}
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	return db, nil
}
