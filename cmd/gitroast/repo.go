package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var repoBranch string

func init() {
	repoCmd.Flags().StringVarP(&repoBranch, "branch", "b", "", "branch to roast (defaults to the repository's default branch)")
	rootCmd.AddCommand(repoCmd)
}

var repoCmd = &cobra.Command{
	Use:   "repo <owner/name>",
	Short: "Roast a GitHub repository",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newSession()
		if err != nil {
			return err
		}

		fmt.Printf("Collecting data from: %s...\n", args[0])
		review, err := session.RoastRepo(cmd.Context(), args[0], repoBranch)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Println(review)
		return nil
	},
}
