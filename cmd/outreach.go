package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/webgap/leadscout/internal/outreach"
	"github.com/webgap/leadscout/internal/phone"
)

var outreachMessage string

var outreachCmd = &cobra.Command{
	Use:   "outreach <phone>",
	Short: "Build a WhatsApp outreach link for a phone number",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		number := args[0]
		if !phone.IsValidMobile(number) {
			fmt.Printf("warning: %q does not look like a valid mobile number\n", number)
		}

		message := outreachMessage
		if message == "" {
			message = cfg.Outreach.DefaultMessage
		}

		fmt.Println(outreach.BuildMessageLink(number, message))
		return nil
	},
}

func init() {
	outreachCmd.Flags().StringVarP(&outreachMessage, "message", "m", "", "pre-filled message (defaults to the configured template)")
	rootCmd.AddCommand(outreachCmd)
}
