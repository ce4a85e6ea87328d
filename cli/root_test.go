package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestRootCommand_Help(t *testing.T) {
	rootCmd.SetArgs([]string{"--help"})
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(buf.String(), "assault-core") {
		t.Errorf("expected help to mention assault-core, got %q", buf.String())
	}
}

func TestRootCommand_Version(t *testing.T) {
	SetVersion("1.2.3")
	rootCmd.SetArgs([]string{"version"})
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "1.2.3" {
		t.Errorf("version output = %q, want 1.2.3", got)
	}
}

func TestRootCommand_InvalidCommand(t *testing.T) {
	rootCmd.SetArgs([]string{"invalid-command"})
	var buf bytes.Buffer
	rootCmd.SetErr(&buf)

	if err := rootCmd.Execute(); err == nil {
		t.Error("expected error for invalid command")
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	for _, name := range []string{"serve", "replay", "version"} {
		t.Run(name, func(t *testing.T) {
			cmd, _, err := rootCmd.Find([]string{name})
			if err != nil || cmd.Name() != name {
				t.Errorf("subcommand %q not registered (got %v, %v)", name, cmd, err)
			}
		})
	}
}

func TestReplayFixture(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"replay", "--env-file", filepath.Join(t.TempDir(), "none.env"), "../scenario/testdata/duo_breach.yaml"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("replay failed: %v\n%s", err, buf.String())
	}
	out := buf.String()
	for _, want := range []string{"duo-breach (2 ticks)", "tick 100", "tick 101", "rangedAttack(h1)", "✓ duo-breach"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestReplayReportsMismatch(t *testing.T) {
	color.NoColor = true
	path := filepath.Join(t.TempDir(), "wrong.yaml")
	fixture := `name: wrong
missions:
  - name: solo
    data:
      mode: solo
ticks:
  - world:
      tick: 1
      units:
        - id: u1
          name: Alpha
          pos: {x: 10, y: 10, room: W1N1}
          hits: 100
          hitsMax: 100
          body: [{type: attack, hits: 100}]
          memory: {role: assault, missionName: solo}
    expect:
      - {mission: solo, unit: u1, phase: RETREAT}
`
	if err := os.WriteFile(path, []byte(fixture), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"replay", "--quiet", "--env-file", filepath.Join(t.TempDir(), "none.env"), path})

	if err := rootCmd.Execute(); err == nil {
		t.Fatalf("expected replay to fail, output:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "✗ tick 1") {
		t.Errorf("expected mismatch line, got:\n%s", buf.String())
	}
}

func TestReplayRequiresArgs(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"replay"})

	if err := rootCmd.Execute(); err == nil {
		t.Error("expected error without scenario paths")
	}
}
