package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(userCmd)
}

var userCmd = &cobra.Command{
	Use:   "user [username]",
	Short: "Roast a GitHub user (defaults to the authenticated user)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newSession()
		if err != nil {
			return err
		}

		username := ""
		if len(args) == 1 {
			username = args[0]
		}
		target := username
		if target == "" {
			target = "your profile"
		}
		fmt.Printf("Collecting data from: %s...\n", target)
		review, err := session.RoastUser(cmd.Context(), username)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Println(review)
		return nil
	},
}
