package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose      bool
	providerType string
	modelName    string
	useCLI       bool
	scriptPath   string
	guidePath    string
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "pond",
	Short: "A quiet pond for reflective journaling",
	Long: `Pond guides a short reflection ritual over a memory you offer it:
describe what happened, consider what it meant, and decide whether to
let the memory float, sink, or stay held awhile. Finished reflections
are archived and echo back into later rituals.`,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	RootCmd.PersistentFlags().StringVarP(&providerType, "provider", "p", "ollama", "AI Provider (ollama, openai, gemini, anthropic, stub)")
	RootCmd.PersistentFlags().StringVarP(&modelName, "model", "m", "", "Model name (default depends on provider)")
	RootCmd.PersistentFlags().BoolVar(&useCLI, "cli", false, "Use local CLI tool as provider if available")
	RootCmd.PersistentFlags().StringVar(&scriptPath, "script", "", "Ritual script file (YAML or JSON)")
	RootCmd.PersistentFlags().StringVar(&guidePath, "guide", "", "Guide plugin binary supplying the ritual script")
}
