package persistence

import (
	"testing"

	"social-publisher/infrastructure/configuration"

	"github.com/stretchr/testify/assert"
)

func TestPostgresDSN(t *testing.T) {
	cfg := configuration.Db{Name: "publisher", Host: "db", Port: "5432", User: "app", Password: "secret"}
	assert.Equal(t, "host=db port=5432 user=app password=secret dbname=publisher sslmode=disable", PostgresDSN(cfg))

	cfg.SSLMode = "require"
	assert.Contains(t, PostgresDSN(cfg), "sslmode=require")
}
