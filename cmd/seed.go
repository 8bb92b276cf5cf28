/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/rekrut-id/apiserver/config"
	"github.com/rekrut-id/apiserver/internal/db"
	"github.com/rekrut-id/apiserver/internal/logging"
	"github.com/rekrut-id/apiserver/internal/seed"
	"github.com/rekrut-id/apiserver/internal/store"
	"github.com/spf13/cobra"
)

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace all jobs with the sample job postings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		logger := logging.New(cfg)

		conn, err := db.Open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer conn.Close()

		seeder := seed.New(store.NewJobRepository(conn), store.NewJobDetailRepository(conn), logger)
		count, err := seeder.Run(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d jobs\n", count)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
