package cli

import (
	"pubquiz/config"
	"pubquiz/models"
	"pubquiz/services"

	"github.com/spf13/cobra"
)

func newCreateAdminCmd() *cobra.Command {
	var email, name, language string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin user",
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

			user, err := services.NewUserService(db).Create(&services.CreateUserRequest{
				Email:       email,
				DisplayName: name,
				Role:        models.RoleAdmin,
				Language:    models.Language(language),
			})
			if err != nil {
				return err
			}
			log.Info().Uint("user_id", user.ID).Str("email", user.Email).Msg("admin user created")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email address")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&language, "language", "de", "preferred language (de or fr)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
