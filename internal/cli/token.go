package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/01moynul/reboot-golang/internal/auth"
)

var tokenEmail string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an access token for a registered user",
	Long:  "Looks the user up by email and prints a signed access token, the same one GET /jwt returns",
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenEmail == "" {
			return errors.New("--email is required")
		}

		cfg, _, err := loadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		st, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close(cmd.Context())

		tokens, err := auth.NewTokenService(cfg.TokenSecret, st.Users)
		if err != nil {
			return err
		}
		token, err := tokens.IssueToken(cmd.Context(), tokenEmail)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "email of an existing user")
	rootCmd.AddCommand(tokenCmd)
}
