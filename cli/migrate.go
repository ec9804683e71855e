package cli

import (
	"pubquiz/config"
	"pubquiz/models"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log := newLogger()

			db, err := config.InitDB(cfg)
			if err != nil {
				return err
			}
			if err := migrateModels(db); err != nil {
				return err
			}
			log.Info().Msg("migrations applied")
			return nil
		},
	}
}

func migrateModels(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.MagicToken{},
		&models.Round{},
		&models.Question{},
		&models.AnswerOption{},
		&models.PlayerSession{},
		&models.PlayerAnswer{},
	)
}
