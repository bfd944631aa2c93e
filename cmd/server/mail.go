package main

import (
	"context"
	"fmt"
	"time"

	"github.com/mesaverdecleaning/site/internal/service"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

var sendTestEmailCmd = &cobra.Command{
	Use:   "send-test-email",
	Short: "Send a test message through the configured mail provider",
	Long: `Send a short message to EMAIL_TO_ADDRESS to confirm that the mail provider
accepts the configured credentials and sender address.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		sender, err := service.NewSender(cfg)
		if err != nil {
			return err
		}
		svc := service.NewContactMailService(sender, cfg.Mail, cfg.SiteName)

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*cfg.Timeout)
		defer cancel()

		s := spinner.New(spinner.CharSets[14], 120*time.Millisecond)
		s.Suffix = fmt.Sprintf(" Sending test email via %s...", sender.Name())
		s.Start()
		err = svc.SendTestMessage(ctx)
		s.Stop()

		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Test email sent to %s\n", cfg.Mail.ToAddress)
		return nil
	},
}

// initMailCommands sets up all mail-related commands
func initMailCommands() {
	rootCmd.AddCommand(sendTestEmailCmd)
}
