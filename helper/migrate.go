package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net/url"
	"shareit/config"
	"shareit/infras/postgres"
	"shareit/migrations"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"
)

const (
	ActionUp     = "up"
	ActionDown   = "down"
	ActionDrop   = "drop"
	ActionStepUp = "step-up"
)

var errUnknownAction = errors.New("unknown migration action")

// DatabaseURL builds the write-side connection string golang-migrate expects.
func DatabaseURL(config *config.Config) string {
	extra := url.Values{}
	if config.DB.Postgres.MigrationTable != "" {
		extra.Set("x-migrations-table", config.DB.Postgres.MigrationTable)
	}

	return postgres.WriteEndpoint(config).DSN(extra)
}

func getConnection(config *config.Config) (*migrate.Migrate, error) {
	source, err := iofs.New(migrations.FS, migrations.Dir)
	if err != nil {
		return nil, fmt.Errorf("error creating migration source: %w", err)
	}

	mig, err := migrate.NewWithSourceInstance("iofs", source, DatabaseURL(config))
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return mig, nil
}

func Runner(config *config.Config, action string) error {
	mig, err := getConnection(config)
	if err != nil {
		return err
	}

	defer mig.Close()

	switch action {
	case ActionUp:
		err = mig.Up()
	case ActionDown:
		err = mig.Steps(-1)
	case ActionStepUp:
		err = mig.Steps(1)
	case ActionDrop:
		err = mig.Down()
	default:
		return fmt.Errorf("%w: %s", errUnknownAction, action)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running %s migrations: %w", action, err)
	}

	log.Info().Str("action", action).Msg("Database migrations completed successfully")

	return nil
}

func Up(config *config.Config) error {
	return Runner(config, ActionUp)
}

func StepUp(config *config.Config) error {
	return Runner(config, ActionStepUp)
}

func Down(config *config.Config) error {
	return Runner(config, ActionDown)
}

func Drop(config *config.Config) error {
	return Runner(config, ActionDrop)
}
