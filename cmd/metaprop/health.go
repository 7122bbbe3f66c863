package main

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/metaprop"
	"github.com/zero-day-ai/metaprop/config"
	"github.com/zero-day-ai/metaprop/health"
)

func newHealthCmd(a *app) *cobra.Command {
	var slow time.Duration
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that the configured store backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var checks []health.Status
			backend, err := a.cfg.OpenBackend(cmd.Context(), a.logger)
			if err != nil {
				checks = append(checks, health.Unhealthy("failed to open backend", map[string]any{"error": err.Error()}))
			} else {
				defer metaprop.CloseWithLog(backend, a.logger, "backend")
				checks = append(checks, health.BackendCheck(cmd.Context(), backend, slow))
			}
			if a.cfg.Store.GetBackend() == config.BackendBolt {
				var bolt *config.BoltConfig
				if a.cfg.Store != nil {
					bolt = a.cfg.Store.Bolt
				}
				checks = append(checks, health.FileCheck(bolt.GetPath()))
			}

			status := health.Combine(checks...)
			data, err := json.MarshalIndent(status, "", "  ")
			if err != nil {
				return err
			}
			if err := a.writeOutput(data); err != nil {
				return err
			}
			if status.IsUnhealthy() {
				return errors.New(status.Message)
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&slow, "slow", time.Second, "Report degraded when the backend answers slower than this")
	return cmd
}
