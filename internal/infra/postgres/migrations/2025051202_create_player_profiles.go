package migrations

import (
	"context"
	_ "embed"

	"github.com/uptrace/bun"
)

//go:embed 0002_create_player_profiles.sql
var createPlayerProfilesSQL string

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.Exec(createPlayerProfilesSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			if _, err := db.Exec(`DROP TABLE IF EXISTS player_resources`); err != nil {
				return err
			}
			_, err := db.Exec(`DROP TABLE IF EXISTS player_profiles`)
			return err
		},
	)
}
