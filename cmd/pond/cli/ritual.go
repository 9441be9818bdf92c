package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pond/internal/memory"
	"github.com/felixgeelhaar/pond/internal/observe"
	"github.com/felixgeelhaar/pond/internal/ritual"
	"github.com/felixgeelhaar/pond/internal/runtime"
	"github.com/felixgeelhaar/pond/internal/ui/tui"
)

var (
	ritualTitle    string
	ritualOffering string
	interactive    bool
)

var ritualCmd = &cobra.Command{
	Use:   "ritual",
	Short: "Run a reflection ritual in the terminal",
	Long: `Begins a ritual over the memory you offer. In line mode the pond's
turns print to stdout and your replies are read from stdin; with -i the
ritual runs in a full-screen conversation.`,
	Run: func(cmd *cobra.Command, args []string) {
		runRitual(cmd)
	},
}

func init() {
	RootCmd.AddCommand(ritualCmd)
	ritualCmd.Flags().StringVarP(&ritualTitle, "title", "t", "", "A short title for the memory (1-5 words)")
	ritualCmd.Flags().StringVarP(&ritualOffering, "offering", "o", "", "The memory you are offering to the pond")
	ritualCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Run the ritual in a full-screen TUI")
	_ = ritualCmd.MarkFlagRequired("title")
}

func runRitual(cmd *cobra.Command) {
	// Logs go to stderr so the conversation owns stdout.
	obs := observe.New(os.Stderr, verbose)
	defer obs.Close()

	storage := getStore()
	defer storage.Close()

	p, err := buildProvider(storage, providerType, modelName, useCLI)
	if err != nil {
		obs.Log().Fatal().Err(err).Msg("Failed to initialize provider")
	}

	sc, closeGuide, err := resolveScript()
	if err != nil {
		obs.Log().Fatal().Err(err).Msg("Failed to load ritual script")
	}
	defer closeGuide()

	pool := memory.NewPool(p, storage, obs)
	rt := runtime.New(storage, ritual.NewEngine(p, sc), pool, obs)

	if interactive {
		model := tui.NewModel(rt, ritualTitle, ritualOffering)
		program := tea.NewProgram(model, tea.WithAltScreen())
		rt.SetUI(tui.NewTUI(program))
		if _, err := program.Run(); err != nil {
			fmt.Printf("The pond clouded over: %v\n", err)
			os.Exit(1)
		}
		return
	}

	lineRitual(cmd.Context(), rt, obs)
}

// lineRitual is the plain stdin/stdout conversation.
func lineRitual(ctx context.Context, rt *runtime.Runtime, obs *observe.Observer) {
	sessionID, turn, err := rt.Begin(ctx, ritualTitle, ritualOffering)
	if err != nil {
		obs.Log().Fatal().Err(err).Msg("Failed to begin ritual")
	}
	printTurn(turn)

	scanner := bufio.NewScanner(os.Stdin)
	for !turn.Finished {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println("\nThe pond waits for another day.")
			return
		}
		reply := strings.TrimSpace(scanner.Text())
		if reply == "" {
			continue
		}

		turn, err = rt.Advance(ctx, sessionID, reply)
		if err != nil {
			obs.Log().Fatal().Err(err).Msg("Ritual failed")
		}
		printTurn(turn)
	}
}

func printTurn(turn ritual.Turn) {
	fmt.Printf("\n%s %s · %s\n%s\n\n", turn.Icon, turn.LevelName, turn.Round, turn.Body)
}
