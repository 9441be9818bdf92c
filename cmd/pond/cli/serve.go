package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pond/internal/api"
	"github.com/felixgeelhaar/pond/internal/memory"
	"github.com/felixgeelhaar/pond/internal/observe"
	"github.com/felixgeelhaar/pond/internal/provider"
	"github.com/felixgeelhaar/pond/internal/ritual"
	"github.com/felixgeelhaar/pond/internal/runtime"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the ritual over HTTP for a game client",
	Run: func(cmd *cobra.Command, args []string) {
		serve(cmd)
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides POND_ADDR)")
}

func serve(cmd *cobra.Command) {
	cfg, err := api.LoadServeConfig()
	if err != nil {
		cmd.PrintErrf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	obs := observe.NewJSON(os.Stdout, verbose || cfg.Verbose)
	defer obs.Close()

	storage := getStore()
	defer storage.Close()

	// Flags win over environment.
	if !cmd.Flags().Changed("provider") {
		providerType = cfg.Provider
	}
	if modelName == "" {
		modelName = cfg.Model
	}
	if serveAddr == "" {
		serveAddr = cfg.Addr
	}

	var p provider.Provider
	if providerType == "openai" && cfg.OpenAIBase != "" {
		p, err = provider.NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIBase, modelName)
	} else {
		p, err = buildProvider(storage, providerType, modelName, useCLI)
	}
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
	server := api.NewServer(rt, obs)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs.Log().Info().Str("provider", p.Name()).Str("model", modelName).Msg("starting pond server")
	if err := server.ListenAndServe(ctx, serveAddr); err != nil {
		obs.Log().Fatal().Err(err).Msg("Server failed")
	}
}
