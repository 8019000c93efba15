package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/siddharth-k03/prompt-refiner-anatomy/internal/logging"
	"github.com/siddharth-k03/prompt-refiner-anatomy/internal/refiner"
)

func runRefine(cmd *cobra.Command, args []string) error {
	focus, err := refiner.ParseFocus(cfg.Focus)
	if err != nil {
		return err
	}
	view, err := refiner.ParseViewType(cfg.ViewType)
	if err != nil {
		return err
	}

	engine, err := newEngine()
	if err != nil {
		return err
	}

	result, err := engine.Refine(refiner.PromptRequest{
		RawInput: args[0],
		Focus:    focus,
		ViewType: view,
	})
	if err != nil {
		return err
	}

	if cfg.Output == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		renderResult(cmd, result)
	}

	if result.Refused() {
		logging.Sync()
		os.Exit(exitRefused)
	}
	return nil
}

func renderResult(cmd *cobra.Command, result refiner.PromptResult) {
	out := cmd.OutOrStdout()

	if result.Refused() {
		fmt.Fprintln(out, refusedStyle.Render("Refused:"), "this term cannot be made age-appropriate")
	} else {
		fmt.Fprintln(out, labelStyle.Render("Positive:"), result.Positive)
	}
	fmt.Fprintln(out, labelStyle.Render("Negative:"), result.Negative)

	if result.MatchedTerm != "" {
		fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("matched %q (%s, %s)",
			result.MatchedTerm, result.BodySystem, result.MatchStatus)))
	} else {
		fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("match status: %s", result.MatchStatus)))
	}
	for _, w := range result.Warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), warningStyle.Render("Warning:"), w)
	}
}
