package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"gazecap/internal/ipc"
)

func newCamerasCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "cameras",
		Short: "List attached video input devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.CameraList()
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, resp.Cameras)
				}
				stdout := cmd.OutOrStdout()
				if len(resp.Cameras) == 0 {
					fmt.Fprintln(stdout, "No cameras detected")
					return nil
				}
				rows := make([][]string, 0, len(resp.Cameras))
				for _, cam := range resp.Cameras {
					resolution := ""
					if cam.MaxWidth > 0 && cam.MaxHeight > 0 {
						resolution = strconv.Itoa(cam.MaxWidth) + "x" + strconv.Itoa(cam.MaxHeight)
					}
					rows = append(rows, []string{cam.ID, cam.Path, cam.Label, resolution})
				}
				fmt.Fprintln(stdout, renderTable(
					[]string{"ID", "Path", "Label", "Max Resolution"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
				))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}
