package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"gazecap/internal/config"
	"gazecap/internal/daemonctl"
	"gazecap/internal/ipc"
)

func newDaemonCommands(ctx *commandContext) []*cobra.Command {
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start the gazecap daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			exe, err := daemonExecutable()
			if err != nil {
				return err
			}

			result, err := daemonctl.EnsureStarted(
				ctx.socketPath(),
				exe,
				daemonLaunchOptions(ctx),
				10*time.Second,
			)
			if err != nil {
				return err
			}

			if result.Launched {
				fmt.Fprintln(stdout, "Daemon not running, launching...")
			}

			switch result.State {
			case daemonctl.StartStateStarted:
				fmt.Fprintln(stdout, "Daemon started")
			case daemonctl.StartStateAlreadyRunning:
				fmt.Fprintln(stdout, "Daemon already running")
			case daemonctl.StartStateRequested:
				if strings.TrimSpace(result.Message) != "" {
					fmt.Fprintln(stdout, result.Message)
					return nil
				}
				fmt.Fprintln(stdout, "Start request sent")
			}
			return nil
		},
	}

	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the gazecap daemon (completely terminates the process)",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			result, err := daemonctl.StopAndTerminate(ctx.socketPath(), ctx.configValue(), 5*time.Second)
			if errors.Is(err, daemonctl.ErrDaemonNotRunning) {
				fmt.Fprintln(stdout, "Daemon is not running")
				return nil
			}
			if err != nil {
				return err
			}
			if !result.StopAcknowledged {
				fmt.Fprintln(stdout, "Stop request sent")
			}
			if result.ForcedKill && result.PID > 0 {
				fmt.Fprintf(stdout, "Stopping daemon process (pid %d)...\n", result.PID)
			}
			fmt.Fprintln(stdout, "Daemon stopped")
			return nil
		},
	}

	restartCmd := &cobra.Command{
		Use:   "restart",
		Short: "Restart the gazecap daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			exe, err := daemonExecutable()
			if err != nil {
				return err
			}

			result, err := daemonctl.Restart(
				ctx.socketPath(),
				ctx.configValue(),
				exe,
				daemonLaunchOptions(ctx),
				5*time.Second,
				10*time.Second,
			)
			if err != nil {
				return err
			}

			if result.WasRunning {
				if result.Stop.ForcedKill && result.Stop.PID > 0 {
					fmt.Fprintf(stdout, "Stopping daemon process (pid %d)...\n", result.Stop.PID)
				}
				fmt.Fprintln(stdout, "Daemon stopped")
			}

			switch result.Start.State {
			case daemonctl.StartStateStarted, daemonctl.StartStateAlreadyRunning:
				fmt.Fprintln(stdout, "Daemon restarted")
			case daemonctl.StartStateRequested:
				if strings.TrimSpace(result.Start.Message) != "" {
					fmt.Fprintln(stdout, result.Start.Message)
					return nil
				}
				fmt.Fprintln(stdout, "Start request sent")
			}
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon and session status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			status := fetchStatus(ctx)

			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			for _, line := range renderSectionHeader("System Status", colorize) {
				fmt.Fprintln(stdout, line)
			}
			for _, line := range systemStatusLines(cfg, status, colorize) {
				fmt.Fprintln(stdout, line)
			}
			fmt.Fprintln(stdout)

			for _, line := range renderSectionHeader("Session", colorize) {
				fmt.Fprintln(stdout, line)
			}
			for _, line := range sessionStatusLines(status, colorize) {
				fmt.Fprintln(stdout, line)
			}
			return nil
		},
	}

	return []*cobra.Command{startCmd, stopCmd, restartCmd, statusCmd}
}

// fetchStatus tolerates an offline daemon: status commands still render with
// config-derived details.
func fetchStatus(ctx *commandContext) *ipc.StatusResponse {
	client, err := ctx.dialClient()
	if err != nil {
		return &ipc.StatusResponse{}
	}
	defer client.Close()
	resp, err := client.Status()
	if err != nil || resp == nil {
		return &ipc.StatusResponse{}
	}
	return resp
}

func systemStatusLines(cfg *config.Config, status *ipc.StatusResponse, colorize bool) []string {
	lines := make([]string, 0, 5)
	if status.Running {
		lines = append(lines, renderStatusLine("Gazecap", statusOK, fmt.Sprintf("Running (pid %d)", status.PID), colorize))
		lines = append(lines, renderStatusLine("Store", statusOK, status.StoreDBPath, colorize))
	} else {
		lines = append(lines, renderStatusLine("Gazecap", statusWarn, "Not running (run `gazecap start`)", colorize))
	}

	if cfg == nil {
		return lines
	}

	if strings.TrimSpace(cfg.Cameras.MainDevice) != "" {
		detail := cfg.Cameras.MainDevice
		if strings.TrimSpace(cfg.Cameras.SecondaryDevice) != "" {
			detail += ", " + cfg.Cameras.SecondaryDevice
		}
		lines = append(lines, renderStatusLine("Cameras", statusOK, detail, colorize))
	} else {
		lines = append(lines, renderStatusLine("Cameras", statusWarn, "No camera configured (screen capture only)", colorize))
	}

	if strings.TrimSpace(cfg.Notifications.NtfyTopic) != "" {
		lines = append(lines, renderStatusLine("Notifications", statusOK, "Configured", colorize))
	} else {
		lines = append(lines, renderStatusLine("Notifications", statusInfo, "Not configured", colorize))
	}

	lines = append(lines, renderStatusLine("Captures", statusInfo, cfg.Paths.CaptureDir, colorize))
	return lines
}

func sessionStatusLines(status *ipc.StatusResponse, colorize bool) []string {
	session := status.Session
	if session.Active {
		detail := fmt.Sprintf("%s (%s, point %d/%d)",
			session.State, session.Mode, session.PointIndex+1, session.TotalPoints)
		return []string{
			renderStatusLine("Session", statusOK, detail, colorize),
			renderStatusLine("ID", statusInfo, session.SessionID, colorize),
		}
	}
	if result := session.Result; result != nil {
		kind := statusOK
		if result.SuccessCount < result.TotalCount {
			kind = statusWarn
		}
		detail := fmt.Sprintf("%s: %d/%d points captured", result.State, result.SuccessCount, result.TotalCount)
		lines := []string{renderStatusLine("Last session", kind, detail, colorize)}
		for _, failure := range result.Failures {
			lines = append(lines, renderStatusLine("Failure", statusWarn, failure, colorize))
		}
		return lines
	}
	return []string{renderStatusLine("Session", statusInfo, "No session", colorize)}
}

func daemonExecutable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable: %w", err)
	}
	return exe, nil
}

func daemonLaunchOptions(ctx *commandContext) daemonctl.LaunchOptions {
	opts := daemonctl.LaunchOptions{}
	if ctx.socketFlag != nil {
		if socket := strings.TrimSpace(*ctx.socketFlag); socket != "" {
			opts.SocketPath = socket
		}
	}
	if ctx.configFlag != nil {
		if config := strings.TrimSpace(*ctx.configFlag); config != "" {
			opts.ConfigPath = config
		}
	}
	return opts
}
