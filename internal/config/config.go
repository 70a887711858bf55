// Package config loads the shell's optional launcher configuration
// file, $HOME/.mshrc.toml. It only ever affects launcher behavior
// (history file location, prompt format) — never shell-language
// semantics, which are fixed by the grammar and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the decoded contents of .mshrc.toml. Every field is
// optional; an absent file or an absent field falls back to the
// default computed by Default.
type Config struct {
	// HistoryFile overrides the default $HOME/.msh_history path.
	HistoryFile string `toml:"history_file"`
	// Prompt is a fmt.Sprintf format string rendered with the current
	// working directory as its sole %s argument, re-rendered before
	// every Readline call so it tracks cd. Overrides the default
	// "%s $ " format.
	Prompt string `toml:"prompt"`
}

// Default returns the configuration used when no config file exists.
func Default(home string) Config {
	return Config{
		HistoryFile: filepath.Join(home, ".msh_history"),
		Prompt:      "%s $ ",
	}
}

// Load reads $HOME/.mshrc.toml, if present, and overlays it onto the
// default configuration. A missing file is not an error; a malformed
// one is.
func Load(home string) (Config, error) {
	cfg := Default(home)
	path := filepath.Join(home, ".mshrc.toml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: %w", err)
	}

	var overlay Config
	if err := toml.Unmarshal(data, &overlay); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	if overlay.HistoryFile != "" {
		cfg.HistoryFile = overlay.HistoryFile
	}
	if overlay.Prompt != "" {
		cfg.Prompt = overlay.Prompt
	}
	return cfg, nil
}
