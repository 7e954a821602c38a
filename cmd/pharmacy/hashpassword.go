package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/s4m/pharmacy/auth"
)

func newHashPasswordCmd() *cobra.Command {
	var (
		scheme string
		cost   int
	)

	cmd := &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print the stored form of a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hasher, err := auth.NewHasher(scheme, cost)
			if err != nil {
				return err
			}
			hash, err := hasher.Hash(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	cmd.Flags().StringVar(&scheme, "scheme", auth.SchemeSHA256, "Hash scheme (sha256 or bcrypt)")
	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	return cmd
}
