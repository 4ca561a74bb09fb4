package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"AIToolbox/internal/app"
	"AIToolbox/internal/tool"
)

var clearYes bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print tool usage statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openLocal(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		printStats(cmd.OutOrStdout(), a)
		return nil
	},
}

var statsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all usage statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openLocal(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if !clearYes {
			return fmt.Errorf("%s (re-run with --yes)", a.Localizer.T("admin.confirmClear", nil))
		}
		a.Tracker.ClearAll()
		a.Logger.Info("usage statistics cleared")
		fmt.Fprintln(cmd.OutOrStdout(), a.Localizer.T("admin.noData", nil))
		return nil
	},
}

var translateCmd = &cobra.Command{
	Use:   "translate KEY [name=value...]",
	Short: "Print a localized message in the saved language",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openLocal(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		subs := make(map[string]any)
		for _, arg := range args[1:] {
			name, value, ok := strings.Cut(arg, "=")
			if !ok {
				return fmt.Errorf("substitution %q is not name=value", arg)
			}
			subs[name] = value
		}
		fmt.Fprintln(cmd.OutOrStdout(), a.Localizer.T(args[0], subs))
		return nil
	},
}

func init() {
	statsClearCmd.Flags().BoolVar(&clearYes, "yes", false, "Confirm deleting all statistics")
	statsCmd.AddCommand(statsClearCmd)
}

func openLocal(cmd *cobra.Command) (*app.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return app.NewLocal(cfg)
}

func printStats(w io.Writer, a *app.App) {
	counts := a.Tracker.ReadAll()
	fmt.Fprintln(w, a.Localizer.T("admin.stats", nil))
	if len(counts) == 0 {
		fmt.Fprintln(w, a.Localizer.T("admin.noData", nil))
		return
	}

	ids := make([]tool.ID, 0, len(counts))
	total := 0
	for id, n := range counts {
		ids = append(ids, id)
		total += n
	}
	sort.Slice(ids, func(i, j int) bool {
		if counts[ids[i]] != counts[ids[j]] {
			return counts[ids[i]] > counts[ids[j]]
		}
		return ids[i] < ids[j]
	})

	for _, id := range ids {
		fmt.Fprintf(w, "  %-20s %d\n", a.Localizer.T(id.TranslationKey(), nil), counts[id])
	}
	fmt.Fprintf(w, "  %-20s %d\n", a.Localizer.T("admin.total", nil), total)
}
