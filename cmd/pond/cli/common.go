package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/felixgeelhaar/pond/internal/credential"
	"github.com/felixgeelhaar/pond/internal/plugin"
	"github.com/felixgeelhaar/pond/internal/provider"
	"github.com/felixgeelhaar/pond/internal/script"
	"github.com/felixgeelhaar/pond/internal/store"
)

func pondDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".pond")
}

func getStore() store.Storage {
	dir := pondDir()
	storeLayer, err := store.NewSQLiteStore(
		filepath.Join(dir, "pond.db"),
		filepath.Join(dir, "cards"),
	)
	if err != nil {
		fmt.Printf("Failed to init store: %v\n", err)
		os.Exit(1)
	}
	return storeLayer
}

// secretFromStore opens a sealed credential, falling back to the
// environment variable when the store has nothing.
func secretFromStore(s store.Storage, key, envVar string) string {
	stored, _ := s.GetConfig(key)
	if stored == "" {
		return os.Getenv(envVar)
	}
	keeper, err := credential.NewKeeper()
	if err != nil {
		return os.Getenv(envVar)
	}
	val, err := keeper.Open(stored)
	if err != nil {
		return os.Getenv(envVar)
	}
	return val
}

func buildProvider(s store.Storage, providerType, modelName string, useCLI bool) (provider.Provider, error) {
	if useCLI {
		return detectCLIProvider(s)
	}

	switch providerType {
	case "openai":
		base := os.Getenv("OPENAI_BASE")
		if stored, _ := s.GetConfig("openai.base_url"); stored != "" {
			base = stored
		}
		return provider.NewOpenAIProvider(secretFromStore(s, "openai.api_key", "OPENAI_API_KEY"), base, modelName)
	case "ollama":
		return provider.NewOllamaProvider(modelName)
	case "gemini":
		return provider.NewGeminiProvider(secretFromStore(s, "gemini.api_key", "GEMINI_API_KEY"), modelName)
	case "anthropic":
		return provider.NewAnthropicProvider(secretFromStore(s, "anthropic.api_key", "ANTHROPIC_API_KEY"), modelName)
	case "stub":
		return provider.NewStubProvider(), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", providerType)
	}
}

func detectCLIProvider(s store.Storage) (provider.Provider, error) {
	cliPath, _ := s.GetConfig("provider.cli.path")
	if cliPath != "" {
		return provider.NewCLIProvider(cliPath, []string{})
	}

	tools := []string{"claude", "codex", "gemini", "llm"}
	for _, t := range tools {
		path, err := exec.LookPath(t)
		if err == nil {
			return provider.NewCLIProvider(path, []string{})
		}
	}
	return nil, fmt.Errorf("no local CLI agents detected (tried claude, codex, gemini, llm)")
}

// loadScript picks the ritual script: a file when given, the built-in
// pond otherwise.
func loadScript(path string) (*script.Script, error) {
	if path == "" {
		return script.Default(), nil
	}
	sc, err := script.Load(path)
	if err != nil {
		return nil, err
	}
	if result := sc.Validate(); !result.Valid {
		return nil, fmt.Errorf("invalid script: %v", result.Errors)
	}
	return sc, nil
}

// resolveScript honors --guide over --script. The returned close
// function stops the guide plugin process when one was launched.
func resolveScript() (*script.Script, func(), error) {
	if guidePath != "" {
		guide, closeFn, err := plugin.LoadGuide(guidePath)
		if err != nil {
			return nil, nil, err
		}
		sc, err := guide.Script()
		if err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("guide %s: %w", guide.Name(), err)
		}
		if result := sc.Validate(); !result.Valid {
			closeFn()
			return nil, nil, fmt.Errorf("guide %s supplied an invalid script: %v", guide.Name(), result.Errors)
		}
		return sc, closeFn, nil
	}

	sc, err := loadScript(scriptPath)
	if err != nil {
		return nil, nil, err
	}
	return sc, func() {}, nil
}
