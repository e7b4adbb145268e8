package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const cliSource = `<?xml version="1.0"?>
<TEI><text><body>
<!-- *** Fox Trot -->
<div type="hversion" xml:id="H1a"><div type="source">MS 123, f.2, recto</div><l>one</l></div>
<!-- *** Fox Hunt -->
<div type="hversion" xml:id="H1b"><l>two</l></div>
<!-- *** Wattle -->
<l>gold</l>
</body></text></TEI>
`

type cliEnv struct {
	base       string
	configPath string
	target     string
	source     string
}

func setupCLIEnv(t *testing.T, extra string) *cliEnv {
	t.Helper()
	base := t.TempDir()
	home := filepath.Join(base, "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)

	env := &cliEnv{
		base:       base,
		configPath: filepath.Join(base, "config.toml"),
		target:     filepath.Join(base, "poems"),
		source:     filepath.Join(base, "harpur.xml"),
	}
	content := fmt.Sprintf("[paths]\ntarget_dir = %q\nstaging_dir = %q\n\n[logging]\nlevel = \"error\"\n%s",
		env.target, filepath.Join(base, "staging"), extra)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := os.WriteFile(env.source, []byte(cliSource), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return env
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestSplitThenInspect(t *testing.T) {
	env := setupCLIEnv(t, "")

	out, _, err := runCLI(t, []string{"split", "-s", "-l", "/harpur", env.source}, env.configPath)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	requireContains(t, out, "Units: 3 (skipped 0)")
	requireContains(t, out, "Identities: 2 (0 from earlier runs)")
	requireContains(t, out, "Bucket\tIdentities\tFirst\tLast")

	out, _, err = runCLI(t, []string{"versions", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("versions list: %v", err)
	}
	requireContains(t, out, "harpur\tMS 123, f.2")

	out, _, err = runCLI(t, []string{"catalog", "show", "harpur"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog show: %v", err)
	}
	requireContains(t, out, "Description: MS 123, f.2")
	requireContains(t, out, "%2Fharpur%2F")

	// inspection leaves the stored catalog in place
	if _, _, err := runCLI(t, []string{"catalog", "show", "harpur"}, env.configPath); err != nil {
		t.Fatalf("second catalog show: %v", err)
	}
	if _, _, err := runCLI(t, []string{"catalog", "show", "missing"}, env.configPath); err == nil {
		t.Fatal("expected error for unknown catalog")
	}
}

func TestSplitJSONOutput(t *testing.T) {
	env := setupCLIEnv(t, "")
	out, _, err := runCLI(t, []string{"--json", "split", env.source}, env.configPath)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	var payload struct {
		Units      int  `json:"units"`
		Identities int  `json:"identities"`
		Empty      bool `json:"empty"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if payload.Units != 3 || payload.Identities != 2 || payload.Empty {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestSplitFolderFlag(t *testing.T) {
	env := setupCLIEnv(t, "")
	folder := filepath.Join(env.base, "elsewhere", "harpur")
	if _, _, err := runCLI(t, []string{"split", "-f", folder, env.source}, env.configPath); err != nil {
		t.Fatalf("split: %v", err)
	}
	if _, err := os.Stat(filepath.Join(folder, "%H1", "XML", "harpur#H1a.xml")); err != nil {
		t.Fatalf("identity not written to folder flag: %v", err)
	}
	out, _, err := runCLI(t, []string{"versions", "list", "-f", folder}, env.configPath)
	if err != nil {
		t.Fatalf("versions list: %v", err)
	}
	requireContains(t, out, "harpur")
}

func TestSplitJoinAndJoinCommand(t *testing.T) {
	env := setupCLIEnv(t, "")
	out, _, err := runCLI(t, []string{"split", "-j", env.source}, env.configPath)
	if err != nil {
		t.Fatalf("split -j: %v", err)
	}
	requireContains(t, out, "Joined 1 catalogs")

	misc := filepath.Join(env.target, "@misc")
	if _, err := os.Stat(filepath.Join(misc, "index")); err != nil {
		t.Fatalf("index missing: %v", err)
	}

	out, _, err = runCLI(t, []string{"--json", "join"}, env.configPath)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	requireContains(t, out, `"merged"`)

	out, _, err = runCLI(t, []string{"catalog", "show", "harpur"}, env.configPath)
	if err == nil {
		t.Fatalf("joined html catalog found through the mvd store: %s", out)
	}
}

func TestSplitRejectsInvalidInvocations(t *testing.T) {
	env := setupCLIEnv(t, "")
	if _, _, err := runCLI(t, []string{"split"}, env.configPath); err == nil {
		t.Fatal("expected error without source argument")
	}
	if _, _, err := runCLI(t, []string{"split", filepath.Join(env.base, "absent.xml")}, env.configPath); err == nil {
		t.Fatal("expected error for missing source")
	}
	_, _, err := runCLI(t, []string{"split", "-j", "--catalog-format", "mvd", env.source}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "catalog.join") {
		t.Fatalf("expected join validation error, got %v", err)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLIEnv(t, "")

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.target)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config exists")
	}

	out, _, err = runCLI(t, []string{"config", "validate"}, target)
	if err != nil {
		t.Fatalf("validate sample: %v", err)
	}
	requireContains(t, out, "Configuration valid")
}

func TestStagingCommands(t *testing.T) {
	env := setupCLIEnv(t, "")
	out, _, err := runCLI(t, []string{"staging", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("staging list: %v", err)
	}
	requireContains(t, out, "No staging directories found")

	stale := filepath.Join(env.base, "staging", "run-0b7a7d52-4c11-4d8b-9a53-0d5ad3b4f0a1")
	if err := os.MkdirAll(stale, 0o755); err != nil {
		t.Fatal(err)
	}
	out, _, err = runCLI(t, []string{"staging", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("staging list: %v", err)
	}
	requireContains(t, out, "Total: 1 directories")

	out, _, err = runCLI(t, []string{"staging", "clean"}, env.configPath)
	if err != nil {
		t.Fatalf("staging clean: %v", err)
	}
	requireContains(t, out, "No stale directories to clean")

	out, _, err = runCLI(t, []string{"staging", "clean", "--all"}, env.configPath)
	if err != nil {
		t.Fatalf("staging clean --all: %v", err)
	}
	requireContains(t, out, "Removed 1 run directories")
}
