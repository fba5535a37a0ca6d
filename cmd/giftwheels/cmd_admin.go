package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/giftwheels/pkg/auth"
)

// giftwheels admin:hash-password <password>
var hashPasswordCmd = &cobra.Command{
	Use:   "admin:hash-password <password>",
	Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := auth.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}
