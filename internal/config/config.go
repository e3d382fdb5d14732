package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultConfigFileName = "config.toml"
	EnvPrefix             = "TORUDO"
)

// Keymap lists the key bound to each action
type Keymap struct {
	Up         string `mapstructure:"up" toml:"up"`
	Down       string `mapstructure:"down" toml:"down"`
	Left       string `mapstructure:"left" toml:"left"`
	Right      string `mapstructure:"right" toml:"right"`
	Complete   string `mapstructure:"complete" toml:"complete"`
	Reload     string `mapstructure:"reload" toml:"reload"`
	SwitchPane string `mapstructure:"switch_pane" toml:"switch_pane"`
	Help       string `mapstructure:"help" toml:"help"`
	Quit       string `mapstructure:"quit" toml:"quit"`
}

// MonitorConfig controls the tmux session column
type MonitorConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	AgentCommand string        `mapstructure:"agent_command"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// Config is the resolved application configuration
type Config struct {
	Dir             string        `mapstructure:"dir"`
	TodoFile        string        `mapstructure:"todo_file"`
	DoneFile        string        `mapstructure:"done_file"`
	DetailDir       string        `mapstructure:"detail_dir"`
	DetailExt       string        `mapstructure:"detail_ext"`
	NvimSocket      string        `mapstructure:"nvim_socket"`
	RPCTimeout      time.Duration `mapstructure:"rpc_timeout"`
	Debounce        time.Duration `mapstructure:"debounce"`
	PreviewInterval time.Duration `mapstructure:"preview_interval"`
	TickInterval    time.Duration `mapstructure:"tick_interval"`
	Journal         string        `mapstructure:"journal"`
	LogFile         string        `mapstructure:"log_file"`
	Debug           bool          `mapstructure:"debug"`
	Monitor         MonitorConfig `mapstructure:"monitor"`
	Keys            Keymap        `mapstructure:"keys"`
}

// flag name to config key
var flagKeys = map[string]string{
	"dir":         "dir",
	"nvim-listen": "nvim_socket",
	"debug":       "debug",
}

// Load reads defaults, the optional config file, the environment and any
// bound flags, in increasing order of precedence. An empty path uses the
// default location; a missing file is not an error.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	for key, value := range flatten("", defaults()) {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("dir", EnvPrefix+"_DIR", "TODOTXT_DIR")
	_ = v.BindEnv("nvim_socket", EnvPrefix+"_NVIM_SOCKET", "NVIM_LISTEN_ADDRESS")

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	if path == "" {
		path = DefaultPath()
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("toml")
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to stat config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Dir = expandHome(cfg.Dir)
	return cfg, nil
}

// DefaultPath returns ~/.config/torudo/config.toml (or the platform equivalent)
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "torudo", DefaultConfigFileName)
}

// WriteDefault writes the default configuration to path. An existing file
// is left alone and reported as an error.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(defaults())
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// TodoPath is the absolute path of todo.txt
func (c Config) TodoPath() string { return c.resolve(c.TodoFile) }

// DonePath is the absolute path of done.txt
func (c Config) DonePath() string { return c.resolve(c.DoneFile) }

// DetailPath is the directory holding per-record detail files
func (c Config) DetailPath() string { return c.resolve(c.DetailDir) }

// JournalPath is the completion journal database
func (c Config) JournalPath() string { return c.resolve(c.Journal) }

// LogPath is the debug log written when debug mode is on
func (c Config) LogPath() string { return c.resolve(c.LogFile) }

func (c Config) resolve(p string) string {
	p = expandHome(p)
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir, p)
}

func defaults() map[string]any {
	home, _ := os.UserHomeDir()
	return map[string]any{
		"dir":              filepath.Join(home, "todotxt"),
		"todo_file":        "todo.txt",
		"done_file":        "done.txt",
		"detail_dir":       "todos",
		"detail_ext":       "md",
		"nvim_socket":      "/tmp/nvim.sock",
		"rpc_timeout":      "500ms",
		"debounce":         "200ms",
		"preview_interval": "2s",
		"tick_interval":    "100ms",
		"journal":          "journal.db",
		"log_file":         "debug.log",
		"debug":            false,
		"monitor": map[string]any{
			"enabled":       true,
			"agent_command": "claude",
			"poll_interval": "1s",
		},
		"keys": map[string]any{
			"up":          "k",
			"down":        "j",
			"left":        "h",
			"right":       "l",
			"complete":    "x",
			"reload":      "r",
			"switch_pane": "enter",
			"help":        "?",
			"quit":        "q",
		},
	}
}

// flatten turns nested maps into dotted viper keys
func flatten(prefix string, m map[string]any) map[string]any {
	out := make(map[string]any)
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := m[k].(map[string]any); ok {
			for nk, nv := range flatten(key, nested) {
				out[nk] = nv
			}
			continue
		}
		out[key] = m[k]
	}
	return out
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
