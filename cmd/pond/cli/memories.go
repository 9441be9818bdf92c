package cli

import (
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pond/internal/store"
)

var (
	memoriesMatch string
	exportPath    string
)

var memoriesCmd = &cobra.Command{
	Use:   "memories",
	Short: "Browse and export archived reflections",
}

var memoriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived memories",
	Run: func(cmd *cobra.Command, args []string) {
		s := getStore()
		defer s.Close()

		memories, err := s.ListMemories()
		if err != nil {
			fmt.Printf("Failed to list memories: %v\n", err)
			os.Exit(1)
		}

		shown := 0
		for _, m := range memories {
			if !matchMemory(m) {
				continue
			}
			fmt.Printf("%s  %-40s %s\n", m.CreatedAt.Format("2006-01-02"), m.Key(), m.Artifact)
			shown++
		}
		if shown == 0 {
			fmt.Println("The pond is empty.")
		}
	},
}

var memoriesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export memories to a JSONL file",
	Run: func(cmd *cobra.Command, args []string) {
		s := getStore()
		defer s.Close()

		var match func(store.Memory) bool
		if memoriesMatch != "" {
			match = matchMemory
		}

		n, err := s.ExportJSONL(exportPath, match)
		if err != nil {
			fmt.Printf("Export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Exported %d memories to %s\n", n, exportPath)
	},
}

// matchMemory checks the memory's <choice>/<title-slug> key against the
// --match glob. Patterns like "float/**" or "*/ferry-*" work.
func matchMemory(m store.Memory) bool {
	if memoriesMatch == "" {
		return true
	}
	ok, err := doublestar.Match(memoriesMatch, m.Key())
	if err != nil {
		return false
	}
	return ok
}

func init() {
	RootCmd.AddCommand(memoriesCmd)
	memoriesCmd.AddCommand(memoriesListCmd)
	memoriesCmd.AddCommand(memoriesExportCmd)
	memoriesCmd.PersistentFlags().StringVar(&memoriesMatch, "match", "", "Glob over <choice>/<title-slug> keys (e.g. \"sink/**\")")
	memoriesExportCmd.Flags().StringVar(&exportPath, "out", "memories.jsonl", "Output JSONL file")
}
