package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"command-api/client"
	"command-api/entities"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

const defaultAPI = "http://localhost:3536"

var (
	flagAPI  string
	flagJSON bool

	flagHowTo       string
	flagPlatform    string
	flagCommandLine string
)

var rootCmd = &cobra.Command{
	Use:           "commander",
	Short:         "Manage saved commands on a command API server",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all commands",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext()
		defer cancel()
		cmds, err := apiClient().List(ctx)
		if err != nil {
			return err
		}
		if flagJSON {
			return writeJSON(cmd.OutOrStdout(), cmds)
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderTable(cmds))
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get ID",
	Short: "Show one command",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		ctx, cancel := requestContext()
		defer cancel()
		c, err := apiClient().Get(ctx, id)
		if err != nil {
			return err
		}
		if flagJSON {
			return writeJSON(cmd.OutOrStdout(), c)
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderDetail(*c))
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Save a new command",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext()
		defer cancel()
		created, err := apiClient().Create(ctx, commandFromFlags())
		if err != nil {
			return err
		}
		if flagJSON {
			return writeJSON(cmd.OutOrStdout(), created)
		}
		fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("✓ Saved command %d", created.ID)))
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Replace the fields of a command",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		ctx, cancel := requestContext()
		defer cancel()
		if err := apiClient().Replace(ctx, id, commandFromFlags()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("✓ Updated command %d", id)))
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:     "rm ID",
	Aliases: []string{"delete"},
	Short:   "Delete a command",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		ctx, cancel := requestContext()
		defer cancel()
		if err := apiClient().Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("✓ Deleted command %d", id)))
		return nil
	},
}

func init() {
	api := os.Getenv("COMMANDER_API")
	if api == "" {
		api = defaultAPI
	}
	rootCmd.PersistentFlags().StringVar(&flagAPI, "api", api, "command API base URL (env COMMANDER_API)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	for _, c := range []*cobra.Command{addCmd, editCmd} {
		c.Flags().StringVar(&flagHowTo, "how-to", "", "what the command does")
		c.Flags().StringVar(&flagPlatform, "platform", "", "where the command runs")
		c.Flags().StringVar(&flagCommandLine, "command-line", "", "the command line itself")
	}

	rootCmd.AddCommand(listCmd, getCmd, addCmd, editCmd, rmCmd, browseCmd)
}

func apiClient() *client.Client {
	return client.New(flagAPI)
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 15*time.Second)
}

func commandFromFlags() entities.Command {
	return entities.Command{HowTo: flagHowTo, Platform: flagPlatform, CommandLine: flagCommandLine}
}

func parseID(s string) (uint, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", s)
	}
	return uint(n), nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderTable(cmds []entities.Command) string {
	if len(cmds) == 0 {
		return normalStyle.Render("No commands saved yet.")
	}
	rows := make([][]string, 0, len(cmds))
	for _, c := range cmds {
		rows = append(rows, []string{strconv.FormatUint(uint64(c.ID), 10), c.Platform, c.HowTo, c.CommandLine})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("ID", "PLATFORM", "HOW TO", "COMMAND LINE").
		Rows(rows...).
		String()
}

func renderDetail(c entities.Command) string {
	return fmt.Sprintf("%s\n%s %s\n%s %s",
		titleStyle.Render(fmt.Sprintf("#%d %s", c.ID, c.HowTo)),
		promptStyle.Render("Platform:"), c.Platform,
		promptStyle.Render("Command: "), inputStyle.Render(c.CommandLine),
	)
}
