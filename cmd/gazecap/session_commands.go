package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"gazecap/internal/ipc"
	"gazecap/internal/sequencer"
)

func newSessionCommand(ctx *commandContext) *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Capture session control",
	}

	sessionCmd.AddCommand(newSessionStartCommand(ctx))
	sessionCmd.AddCommand(newSessionCancelCommand(ctx))

	return sessionCmd
}

func newSessionStartCommand(ctx *commandContext) *cobra.Command {
	var wait bool
	cmd := &cobra.Command{
		Use:   "start [mode]",
		Short: "Start a capture session (single, repeated_random, or calibration_grid)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := string(sequencer.ModeSingle)
			if len(args) > 0 {
				mode = strings.TrimSpace(args[0])
			}
			if _, err := sequencer.ParseMode(mode); err != nil {
				return err
			}

			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SessionStart(mode)
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				if !resp.Started {
					if resp.Message != "" {
						return errors.New(resp.Message)
					}
					return errors.New("session could not be started")
				}
				fmt.Fprintf(stdout, "Session %s started in %s mode\n", resp.SessionID, mode)
				if !wait {
					return nil
				}
				return watchSession(cmd, client)
			})
		},
	}
	cmd.Flags().BoolVarP(&wait, "wait", "w", false, "Block until the session finishes and print the result")
	return cmd
}

// watchSession polls session status until the engine goes idle.
func watchSession(cmd *cobra.Command, client *ipc.Client) error {
	stdout := cmd.OutOrStdout()
	lastState := ""
	for {
		status, err := client.Status()
		if err != nil {
			return err
		}
		session := status.Session
		if session.Active {
			if session.State != lastState {
				lastState = session.State
				fmt.Fprintf(stdout, "  %s (point %d/%d)\n", session.State, session.PointIndex+1, session.TotalPoints)
			}
			select {
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			case <-time.After(250 * time.Millisecond):
			}
			continue
		}
		if result := session.Result; result != nil {
			fmt.Fprintf(stdout, "Session %s: %d/%d points captured\n",
				result.State, result.SuccessCount, result.TotalCount)
			for _, failure := range result.Failures {
				fmt.Fprintf(stdout, "  %s\n", failure)
			}
		}
		return nil
	}
}

func newSessionCancelCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel",
		Short: "Cancel the running capture session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SessionCancel()
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				if resp.Cancelled {
					fmt.Fprintln(stdout, "Session cancelled")
				} else {
					fmt.Fprintln(stdout, "No active session")
				}
				return nil
			})
		},
	}
}
