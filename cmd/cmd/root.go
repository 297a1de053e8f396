package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"digestly/internal/config"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "digestly",
	Short: "Digestly generates personalized audio digests from saved library items.",
	Long: `Digestly runs the digest generation pipeline: it selects recently saved
library items for a user, summarizes them with an LLM, renders the
summaries into text and audio chapters, and notifies the user.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.digestly.yaml)")
}

func initConfig() {
	if _, err := config.Load(cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
}
