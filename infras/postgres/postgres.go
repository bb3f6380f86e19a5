package postgres

//nolint:revive
import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"shareit/config"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 10

	driverName = "postgres"
)

// Connection holds the read and write pools. They may point at the same database.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

// Endpoint is one side of the database configuration with the name prefix already applied.
type Endpoint struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	Timezone string
	SSLMode  string
}

func New(config *config.Config) *Connection {
	pg := config.DB.Postgres

	read, err := Connect("read", ReadEndpoint(config), pg.MaxRetry, pg.RetryWaitTime)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to read database")
	}

	write, err := Connect("write", WriteEndpoint(config), pg.MaxRetry, pg.RetryWaitTime)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to write database")
	}

	return &Connection{
		Read:  read,
		Write: write,
	}
}

func ReadEndpoint(config *config.Config) Endpoint {
	read := config.DB.Postgres.Read

	return Endpoint{
		Host:     read.Host,
		Port:     read.Port,
		Username: read.Username,
		Password: read.Password,
		Name:     config.DB.Postgres.Prefix + read.Name,
		Timezone: read.Timezone,
		SSLMode:  read.SSLMode,
	}
}

func WriteEndpoint(config *config.Config) Endpoint {
	write := config.DB.Postgres.Write

	return Endpoint{
		Host:     write.Host,
		Port:     write.Port,
		Username: write.Username,
		Password: write.Password,
		Name:     config.DB.Postgres.Prefix + write.Name,
		Timezone: write.Timezone,
		SSLMode:  write.SSLMode,
	}
}

// DSN renders the endpoint as a postgres URL. extra is merged into the query string.
func (e Endpoint) DSN(extra url.Values) string {
	query := url.Values{}
	if e.SSLMode != "" {
		query.Set("sslmode", e.SSLMode)
	}

	if e.Timezone != "" {
		query.Set("timezone", e.Timezone)
	}

	for key, values := range extra {
		for _, value := range values {
			query.Add(key, value)
		}
	}

	dsn := url.URL{
		Scheme:   driverName,
		User:     url.UserPassword(e.Username, e.Password),
		Host:     net.JoinHostPort(e.Host, e.Port),
		Path:     "/" + e.Name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

// Connect retries until the database answers or maxRetry attempts have failed.
func Connect(name string, endpoint Endpoint, maxRetry, waitTime int) (*sqlx.DB, error) {
	var err error

	for attempt := range max(maxRetry, 1) {
		var db *sqlx.DB

		db, err = sqlx.Connect(driverName, endpoint.DSN(nil))
		if err == nil {
			log.
				Info().
				Str("name", name).
				Str("host", endpoint.Host).
				Str("port", endpoint.Port).
				Str("dbName", endpoint.Name).
				Msg("Connected to database")
			db.SetMaxIdleConns(postgresMaxIdleConnection)
			db.SetMaxOpenConns(postgresMaxOpenConnection)

			return db, nil
		}

		log.
			Error().
			Err(err).
			Str("name", name).
			Str("host", endpoint.Host).
			Str("dbName", endpoint.Name).
			Int("attempt", attempt+1).
			Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(waitTime) * time.Second)
	}

	return nil, fmt.Errorf("connecting to %s database %s: %w", name, endpoint.Name, err)
}

// Close closes both pools, once each when they are shared.
func (c *Connection) Close() error {
	var errs []error

	if c.Write != nil {
		errs = append(errs, c.Write.Close())
	}

	if c.Read != nil && c.Read != c.Write {
		errs = append(errs, c.Read.Close())
	}

	return errors.Join(errs...)
}
