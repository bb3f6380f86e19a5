package postgres_test

import (
	"net/url"
	"shareit/config"
	"shareit/infras/postgres"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpoints(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Postgres.Prefix = "test_"
	cfg.DB.Postgres.Read.Host = "replica"
	cfg.DB.Postgres.Read.Name = "shareit"
	cfg.DB.Postgres.Write.Host = "primary"
	cfg.DB.Postgres.Write.Name = "shareit"
	cfg.DB.Postgres.Write.Timezone = "UTC"

	read := postgres.ReadEndpoint(cfg)
	write := postgres.WriteEndpoint(cfg)

	assert.Equal(t, "replica", read.Host)
	assert.Equal(t, "test_shareit", read.Name)
	assert.Equal(t, "primary", write.Host)
	assert.Equal(t, "UTC", write.Timezone)
}

func TestEndpoint_DSN(t *testing.T) {
	endpoint := postgres.Endpoint{
		Host:     "db.internal",
		Port:     "5432",
		Username: "share it",
		Password: "p@ss/word",
		Name:     "shareit",
		Timezone: "Europe/Moscow",
		SSLMode:  "disable",
	}

	dsn := endpoint.DSN(url.Values{"x-migrations-table": {"schema_migrations"}})

	parsed, err := url.Parse(dsn)
	require.NoError(t, err)

	password, _ := parsed.User.Password()

	assert.Equal(t, "postgres", parsed.Scheme)
	assert.Equal(t, "share it", parsed.User.Username())
	assert.Equal(t, "p@ss/word", password)
	assert.Equal(t, "db.internal:5432", parsed.Host)
	assert.Equal(t, "/shareit", parsed.Path)
	assert.Equal(t, "disable", parsed.Query().Get("sslmode"))
	assert.Equal(t, "Europe/Moscow", parsed.Query().Get("timezone"))
	assert.Equal(t, "schema_migrations", parsed.Query().Get("x-migrations-table"))
}

func TestEndpoint_DSNWithoutOptionalParams(t *testing.T) {
	dsn := postgres.Endpoint{Host: "localhost", Port: "5432", Username: "u", Name: "db"}.DSN(nil)

	parsed, err := url.Parse(dsn)
	require.NoError(t, err)
	assert.Empty(t, parsed.RawQuery)
}

func TestConnection_CloseShared(t *testing.T) {
	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)

	conn := &postgres.Connection{Read: db, Write: db}

	require.NoError(t, conn.Close())
	assert.Error(t, db.Ping())
}
