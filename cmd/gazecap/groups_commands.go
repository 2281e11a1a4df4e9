package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"gazecap/internal/ipc"
)

func newGroupsCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool
	groupsCmd := &cobra.Command{
		Use:   "groups",
		Short: "List stored capture groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.GroupList(limit)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, resp.Groups)
				}
				stdout := cmd.OutOrStdout()
				if len(resp.Groups) == 0 {
					fmt.Fprintln(stdout, "No capture groups stored")
					return nil
				}
				rows := make([][]string, 0, len(resp.Groups))
				for _, group := range resp.Groups {
					rows = append(rows, []string{
						strconv.FormatInt(group.SequenceNumber, 10),
						group.ID,
						group.Status,
						fmt.Sprintf("(%d, %d)", group.PointX, group.PointY),
						strconv.Itoa(group.ArtifactCount),
						group.CreatedAt,
					})
				}
				fmt.Fprintln(stdout, renderTable(
					[]string{"Seq", "Group", "Status", "Point", "Artifacts", "Created"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
	groupsCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum groups to list (0 for all)")
	groupsCmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")

	groupsCmd.AddCommand(newGroupsShowCommand(ctx))
	return groupsCmd
}

func newGroupsShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "show <group-id>",
		Short: "Show the artifacts of one capture group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.GroupArtifacts(args[0])
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, resp.Artifacts)
				}
				stdout := cmd.OutOrStdout()
				if len(resp.Artifacts) == 0 {
					fmt.Fprintln(stdout, "No artifacts stored for this group")
					return nil
				}
				rows := make([][]string, 0, len(resp.Artifacts))
				for _, artifact := range resp.Artifacts {
					rows = append(rows, []string{
						artifact.Kind,
						artifact.Filename,
						artifact.PreviewFilename,
						strconv.FormatInt(artifact.SizeBytes, 10),
						artifact.CreatedAt,
					})
				}
				fmt.Fprintln(stdout, renderTable(
					[]string{"Kind", "File", "Preview", "Bytes", "Created"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}
