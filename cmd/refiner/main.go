// Command refiner turns short anatomical terms into positive and negative
// prompt pairs for image generation models, tuned for grade school education
// material.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/siddharth-k03/prompt-refiner-anatomy/internal/config"
	"github.com/siddharth-k03/prompt-refiner-anatomy/internal/logging"
	"github.com/siddharth-k03/prompt-refiner-anatomy/internal/refiner"
	"github.com/siddharth-k03/prompt-refiner-anatomy/internal/version"
)

// Exit codes: 1 for errors, 2 when the safety filter refuses a term.
const exitRefused = 2

var (
	cfgFile string
	cfg     = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "refiner [term]",
	Short: "Anatomy prompt refiner for image generation",
	Long: `refiner rewrites a short anatomical term (like "heart" or "skeleton") into a
positive and negative prompt pair suitable for diffusion image models.

Output prompts are age-appropriate, label-free, and friendly to 3D asset
workflows. Unknown terms fall back to a generic anatomical subject; terms that
cannot be made age-appropriate are refused with exit code 2.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(cmd); err != nil {
			return err
		}
		return logging.Initialize(cfg.Verbose)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: runRefine,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the refiner version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Version)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default $HOME/.refiner.yaml)")
	pf.String("focus", cfg.Focus, "prompt focus: education, 3d_modeling, scientific")
	pf.String("view-type", cfg.ViewType, "view type: standard, cross_section, system_overview")
	pf.String("output", cfg.Output, "output format: text, json")
	pf.String("vocab", "", "path to a vocabulary YAML file (overrides the embedded corpus)")
	pf.Bool("verbose", false, "enable debug logging")

	viper.BindPFlag("focus", pf.Lookup("focus"))
	viper.BindPFlag("view_type", pf.Lookup("view-type"))
	viper.BindPFlag("output", pf.Lookup("output"))
	viper.BindPFlag("vocab", pf.Lookup("vocab"))
	viper.BindPFlag("verbose", pf.Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(listTermsCmd)
	rootCmd.AddCommand(systemInfoCmd)
	rootCmd.AddCommand(vocabCmd)
}

func initConfig(cmd *cobra.Command) error {
	viper.SetEnvPrefix("REFINER")
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.SetConfigFile(filepath.Join(home, ".refiner.yaml"))
		_ = viper.ReadInConfig()
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to parse configuration: %w", err)
	}
	return cfg.Validate()
}

// newEngine loads the configured vocabulary and wraps it in an engine.
func newEngine() (*refiner.Engine, error) {
	store, err := cfg.LoadVocabulary()
	if err != nil {
		return nil, fmt.Errorf("failed to load vocabulary: %w", err)
	}
	return refiner.NewEngine(store), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, refusedStyle.Render("Error:"), err)
		os.Exit(1)
	}
}
