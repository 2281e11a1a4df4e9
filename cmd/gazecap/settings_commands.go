package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"gazecap/internal/ipc"
	"gazecap/internal/settings"
)

func newSettingsCommand(ctx *commandContext) *cobra.Command {
	var user string
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Per-user capture setting overrides",
	}
	settingsCmd.PersistentFlags().StringVarP(&user, "user", "u", "", "User the settings apply to (defaults to the shared profile)")

	getCmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Show one setting override",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SettingGet(user, args[0])
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				if !resp.Found {
					fmt.Fprintf(stdout, "%s is not overridden (config default applies)\n", args[0])
					return nil
				}
				fmt.Fprintf(stdout, "%s = %s\n", args[0], resp.Value)
				return nil
			})
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store a setting override",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.SettingSet(user, args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
				return nil
			})
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored setting overrides",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SettingList(user)
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				if len(resp.Settings) == 0 {
					fmt.Fprintf(stdout, "No overrides stored; valid keys: %s\n", strings.Join(settings.Keys(), ", "))
					return nil
				}
				keys := make([]string, 0, len(resp.Settings))
				for key := range resp.Settings {
					keys = append(keys, key)
				}
				sort.Strings(keys)
				rows := make([][]string, 0, len(keys))
				for _, key := range keys {
					rows = append(rows, []string{key, resp.Settings[key]})
				}
				fmt.Fprintln(stdout, renderTable(
					[]string{"Key", "Value"},
					rows,
					[]columnAlignment{alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	settingsCmd.AddCommand(getCmd, setCmd, listCmd)
	return settingsCmd
}
