package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"digestly/internal/config"
	"digestly/internal/definition"
)

var definitionCmd = &cobra.Command{
	Use:   "definition",
	Short: "Fetch and validate the configured digest definition document",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()

		loader := definition.NewLoader(cfg.Definition.URL, config.ParseDuration(cfg.Definition.Timeout, 0))
		def, err := loader.Load(context.Background())
		if err != nil {
			return err
		}

		fmt.Printf("definition: %s\n", def.Name)
		fmt.Printf("  preference selectors: %d\n", len(def.PreferenceSelectors))
		fmt.Printf("  candidate selectors:  %d\n", len(def.CandidateSelectors))
		for _, sel := range def.CandidateSelectors {
			fmt.Printf("    - %q (count %d): %s\n", sel.Query, sel.Count, sel.Reason)
		}
		if def.Model != "" {
			fmt.Printf("  default model: %s\n", def.Model)
		}
		if def.SummaryPrompt == "" {
			fmt.Println("  warning: summary prompt is empty")
		}
		if def.ZeroShot.RankPrompt == "" {
			fmt.Println("  warning: rank prompt is empty")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(definitionCmd)
}
