package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var checkConfigCmd = &cobra.Command{
	Use:   "check-config",
	Short: "Show the resolved configuration",
	Long: `Display the resolved configuration in JSON format with secrets masked, followed
by whether the mail relay and reCAPTCHA verifier have the credentials they need.
Exits with a non-zero status when the mail relay is not ready.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(cfg.Masked(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))

		recaptcha := "ready"
		if cfg.Recaptcha.SecretKey == "" {
			recaptcha = "missing RECAPTCHA_SECRET_KEY"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "reCAPTCHA: %s\n", recaptcha)

		if err := cfg.MailReady(); err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Mail (%s): %v\n", cfg.Mail.Provider, err)
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Mail (%s): ready\n", cfg.Mail.Provider)
		return nil
	},
}

// initConfigCommands sets up all config-related commands
func initConfigCommands() {
	rootCmd.AddCommand(checkConfigCmd)
}
