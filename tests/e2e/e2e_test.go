package e2e

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func buildPond(t *testing.T) string {
	t.Helper()
	rootDir, _ := filepath.Abs("../../")
	binPath := filepath.Join(rootDir, "pond_e2e")

	buildCmd := exec.Command("go", "build", "-o", binPath, "github.com/felixgeelhaar/pond/cmd/pond")
	buildCmd.Dir = rootDir
	if out, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build pond: %v\n%s", err, out)
	}
	t.Cleanup(func() { os.Remove(binPath) })
	return binPath
}

// ritualReplies walks all three levels and chooses to let the memory float.
const ritualReplies = `It was cold and the lights moved on the water.
We did not talk much.
yes
I think it mattered because it was the last trip.
It changed how the winter felt.
continue
It tells me I hold on to endings.
I want to keep the calm part of it.
float
`

func TestE2E_FullRitual(t *testing.T) {
	binPath := buildPond(t)
	tmpDir := t.TempDir()

	// HOME is overridden so pond writes its database under tmpDir/.pond.
	runCmd := exec.Command(binPath, "ritual",
		"--provider=stub",
		"--title", "The ferry crossing",
		"--offering", "We stood at the rail in the cold and watched the lights.")
	runCmd.Env = append(os.Environ(), "HOME="+tmpDir)
	runCmd.Stdin = strings.NewReader(ritualReplies)

	output, err := runCmd.CombinedOutput()
	outStr := string(output)
	t.Logf("Output:\n%s", outStr)
	if err != nil {
		t.Fatalf("pond ritual failed: %v", err)
	}

	for _, want := range []string{
		"Descriptive",
		"Analytic",
		"Reflexive",
		"float, sink, or hold",
		"held lightly",
	} {
		if !strings.Contains(outStr, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}

	pondDir := filepath.Join(tmpDir, ".pond")
	if _, err := os.Stat(filepath.Join(pondDir, "pond.db")); os.IsNotExist(err) {
		t.Error("pond.db not created")
	}
	if _, err := os.Stat(filepath.Join(pondDir, "cards")); os.IsNotExist(err) {
		t.Error("cards dir not created")
	}

	t.Run("memories list", func(t *testing.T) {
		listCmd := exec.Command(binPath, "memories", "list")
		listCmd.Env = append(os.Environ(), "HOME="+tmpDir)
		out, err := listCmd.CombinedOutput()
		if err != nil {
			t.Fatalf("memories list failed: %v\n%s", err, out)
		}
		if !strings.Contains(string(out), "float/the-ferry-crossing") {
			t.Errorf("expected archived memory in listing, got:\n%s", out)
		}
	})

	t.Run("memories export with match", func(t *testing.T) {
		exportPath := filepath.Join(tmpDir, "floaters.jsonl")
		exportCmd := exec.Command(binPath, "memories", "export",
			"--match", "float/**", "--out", exportPath)
		exportCmd.Env = append(os.Environ(), "HOME="+tmpDir)
		out, err := exportCmd.CombinedOutput()
		if err != nil {
			t.Fatalf("memories export failed: %v\n%s", err, out)
		}
		if !strings.Contains(string(out), "Exported 1 memories") {
			t.Errorf("expected one exported memory, got:\n%s", out)
		}

		data, err := os.ReadFile(exportPath)
		if err != nil {
			t.Fatalf("reading export failed: %v", err)
		}
		if !strings.Contains(string(data), `"archive_choice":"float"`) {
			t.Errorf("expected float choice in export, got:\n%s", data)
		}
	})
}

func TestE2E_Config(t *testing.T) {
	binPath := buildPond(t)
	tmpDir := t.TempDir()
	env := append(os.Environ(), "HOME="+tmpDir)

	setCmd := exec.Command(binPath, "config", "set", "openai.api_key", "sk-e2e-test-key-12345")
	setCmd.Env = env
	if out, err := setCmd.CombinedOutput(); err != nil {
		t.Fatalf("config set failed: %v\n%s", err, out)
	}

	getCmd := exec.Command(binPath, "config", "get", "openai.api_key")
	getCmd.Env = env
	out, err := getCmd.CombinedOutput()
	if err != nil {
		t.Fatalf("config get failed: %v\n%s", err, out)
	}

	// The key comes back masked, never in full.
	outStr := string(out)
	if strings.Contains(outStr, "sk-e2e-test-key-12345") {
		t.Error("expected credential to be masked")
	}
	if !strings.Contains(outStr, "sk-e") {
		t.Errorf("expected masked prefix, got %q", outStr)
	}
}
