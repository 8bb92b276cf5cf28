/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/rekrut-id/apiserver/config"
	"github.com/rekrut-id/apiserver/internal/mq"
	"github.com/spf13/cobra"
)

// eventsCmd represents the events command
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect domain events published by the server",
}

var eventsTailCmd = &cobra.Command{
	Use:   "tail <channel>",
	Short: "Print events from a channel such as rekrut.users or rekrut.jobs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		broker, err := mq.Open(cmd.Context(), cfg.MQ)
		if err != nil {
			return err
		}
		if broker == nil {
			return errors.New("MQ_BACKEND is not set")
		}
		defer broker.Close()

		out := cmd.OutOrStdout()
		err = broker.Subscribe(cmd.Context(), args[0], func(_ context.Context, msg mq.Message) error {
			_, err := fmt.Fprintf(out, "%s %s\n", msg.Attributes["type"], msg.Data)
			return err
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsTailCmd)
}
