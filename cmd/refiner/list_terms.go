package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var listTermsCmd = &cobra.Command{
	Use:   "list-terms",
	Short: "List every known anatomical term grouped by body system",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}
		groups := engine.ListTerms()

		if cfg.Output == "json" {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(groups)
		}

		out := cmd.OutOrStdout()
		for i, group := range groups {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintln(out, headingStyle.Render(strings.ToUpper(string(group.System))))
			fmt.Fprintln(out, dimStyle.Render(group.Description))
			for _, term := range group.Terms {
				fmt.Fprintln(out, "  "+termStyle.Render(term))
			}
		}
		return nil
	},
}

var systemInfoCmd = &cobra.Command{
	Use:   "system-info [system]",
	Short: "Show the description and terms of one body system",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}
		info, err := engine.SystemInfo(args[0])
		if err != nil {
			return err
		}

		if cfg.Output == "json" {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, headingStyle.Render(strings.ToUpper(string(info.System))))
		fmt.Fprintln(out, info.Description)
		fmt.Fprintln(out, labelStyle.Render("Terms:"), strings.Join(info.Terms, ", "))
		return nil
	},
}
