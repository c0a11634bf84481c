package persistence

import (
	"database/sql"
	"fmt"

	"social-publisher/infrastructure/configuration"

	_ "github.com/lib/pq"
)

// PostgresDSN renders a lib/pq keyword DSN.
func PostgresDSN(cfg configuration.Db) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, sslMode)
}

func NewPostgreSQLDB(cfg configuration.Db) (*sql.DB, error) {
	db, err := sql.Open("postgres", PostgresDSN(cfg))
	if err != nil {
		return nil, err
	}
	return tunePool(db)
}
