package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

// isolate keeps the developer's real environment out of the tests
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("TODOTXT_DIR", "")
	t.Setenv("NVIM_LISTEN_ADDRESS", "")
	t.Setenv("TORUDO_DIR", "")
	t.Setenv("TORUDO_NVIM_SOCKET", "")
	return home
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load(filepath.Join(home, "none.toml"), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Dir != filepath.Join(home, "todotxt") {
		t.Errorf("dir = %q", cfg.Dir)
	}
	if cfg.TodoPath() != filepath.Join(home, "todotxt", "todo.txt") {
		t.Errorf("todo path = %q", cfg.TodoPath())
	}
	if cfg.DetailPath() != filepath.Join(home, "todotxt", "todos") {
		t.Errorf("detail path = %q", cfg.DetailPath())
	}
	if cfg.NvimSocket != "/tmp/nvim.sock" {
		t.Errorf("socket = %q", cfg.NvimSocket)
	}
	if cfg.RPCTimeout != 500*time.Millisecond || cfg.Debounce != 200*time.Millisecond || cfg.PreviewInterval != 2*time.Second {
		t.Errorf("timings = %v %v %v", cfg.RPCTimeout, cfg.Debounce, cfg.PreviewInterval)
	}
	if !cfg.Monitor.Enabled || cfg.Monitor.AgentCommand != "claude" || cfg.Monitor.PollInterval != time.Second {
		t.Errorf("monitor = %+v", cfg.Monitor)
	}
	want := Keymap{Up: "k", Down: "j", Left: "h", Right: "l", Complete: "x", Reload: "r", SwitchPane: "enter", Help: "?", Quit: "q"}
	if cfg.Keys != want {
		t.Errorf("keys = %+v", cfg.Keys)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	home := isolate(t)

	path := filepath.Join(home, "config.toml")
	content := `
nvim_socket = "/run/user/1000/nvim.sock"
debounce = "350ms"

[monitor]
enabled = false

[keys]
complete = "d"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TODOTXT_DIR", "/srv/todo")

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Dir != "/srv/todo" {
		t.Errorf("dir = %q", cfg.Dir)
	}
	if cfg.NvimSocket != "/run/user/1000/nvim.sock" {
		t.Errorf("socket = %q", cfg.NvimSocket)
	}
	if cfg.Debounce != 350*time.Millisecond {
		t.Errorf("debounce = %v", cfg.Debounce)
	}
	if cfg.Monitor.Enabled {
		t.Error("monitor should be disabled")
	}
	if cfg.Keys.Complete != "d" || cfg.Keys.Up != "k" {
		t.Errorf("keys = %+v", cfg.Keys)
	}
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	isolate(t)
	t.Setenv("NVIM_LISTEN_ADDRESS", "/tmp/from-env.sock")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("nvim-listen", "", "")
	flags.String("dir", "", "")
	flags.Bool("debug", false, "")
	if err := flags.Parse([]string{"--dir", "/data/todo", "--debug"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("", flags)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Dir != "/data/todo" || !cfg.Debug {
		t.Errorf("dir = %q debug = %v", cfg.Dir, cfg.Debug)
	}
	// unchanged flags do not shadow the environment
	if cfg.NvimSocket != "/tmp/from-env.sock" {
		t.Errorf("socket = %q", cfg.NvimSocket)
	}
}

func TestWriteDefault(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "nested", "config.toml")

	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[keys]") || !strings.Contains(string(data), "preview_interval") {
		t.Errorf("unexpected content:\n%s", data)
	}

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load of written defaults failed: %v", err)
	}
	if cfg.PreviewInterval != 2*time.Second || cfg.Keys.Quit != "q" {
		t.Errorf("cfg = %+v", cfg)
	}

	if err := WriteDefault(path); err == nil {
		t.Error("expected error when the file exists")
	}
}

func TestResolve(t *testing.T) {
	cfg := Config{Dir: "/base", TodoFile: "todo.txt", DoneFile: "/abs/done.txt"}
	if cfg.TodoPath() != "/base/todo.txt" {
		t.Errorf("todo path = %q", cfg.TodoPath())
	}
	if cfg.DonePath() != "/abs/done.txt" {
		t.Errorf("done path = %q", cfg.DonePath())
	}
}

func TestFlatten(t *testing.T) {
	got := flatten("", map[string]any{"a": 1, "b": map[string]any{"c": 2}})
	if got["a"] != 1 || got["b.c"] != 2 || len(got) != 2 {
		t.Errorf("flatten = %v", got)
	}
}
