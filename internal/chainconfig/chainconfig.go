package chainconfig

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Inline directive markers. They may appear anywhere in assistant output and
// take precedence over every configuration file.
const (
	DirectiveNoAuto      = "gsd:no-auto"
	DirectiveSkipDiscuss = "gsd:skip-discuss"
	DirectiveDiscuss     = "gsd:discuss"
)

// ChainConfig is the per-invocation snapshot of chaining behavior. It is
// rebuilt fresh on every triggering event and never persisted.
type ChainConfig struct {
	AutoChain          bool
	AutoChainDelay     time.Duration
	ConfirmBeforeChain bool
	SkipDiscuss        bool
}

// Default returns the built-in configuration: auto-chain on, 1 second delay,
// no confirm-only mode, discuss phase not skipped.
func Default() ChainConfig {
	return ChainConfig{
		AutoChain:          true,
		AutoChainDelay:     1000 * time.Millisecond,
		ConfirmBeforeChain: false,
		SkipDiscuss:        false,
	}
}

// globalFile is the on-disk shape of the global config. Pointer fields so a
// present key overrides the default field-by-field and an absent key does not.
type globalFile struct {
	AutoChain          *bool `json:"autoChain"`
	AutoChainDelayMs   *uint `json:"autoChainDelay"`
	ConfirmBeforeChain *bool `json:"confirmBeforeChain"`
	SkipDiscuss        *bool `json:"skipDiscuss"`
}

// projectFile is the on-disk shape of the project config. Only the skip flag
// is project-scoped; it may be flat or nested under an autoChain key.
type projectFile struct {
	SkipDiscuss *bool `json:"skipDiscuss" yaml:"skipDiscuss"`
	AutoChain   *struct {
		SkipDiscuss *bool `json:"skipDiscuss" yaml:"skipDiscuss"`
	} `json:"autoChain" yaml:"autoChain"`
}

// GlobalConfigPath returns the well-known global config location
// ($XDG_CONFIG_HOME/gsdchain/config.json).
func GlobalConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "gsdchain", "config.json")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gsdchain", "config.json")
}

// Resolve builds the effective ChainConfig for one triggering event.
// Layering, lowest to highest: built-in defaults, global config file,
// project config file (skip flag only), inline directives (skip flag only).
// Every load failure falls back silently to the current values.
func Resolve(projectDir, assistantText string) ChainConfig {
	return ResolveFrom(GlobalConfigPath(), projectDir, assistantText)
}

// ResolveFrom is Resolve with an explicit global config path.
func ResolveFrom(globalPath, projectDir, assistantText string) ChainConfig {
	cfg := Default()

	if gf, ok := loadGlobal(globalPath); ok {
		if gf.AutoChain != nil {
			cfg.AutoChain = *gf.AutoChain
		}
		if gf.AutoChainDelayMs != nil {
			cfg.AutoChainDelay = time.Duration(*gf.AutoChainDelayMs) * time.Millisecond
		}
		if gf.ConfirmBeforeChain != nil {
			cfg.ConfirmBeforeChain = *gf.ConfirmBeforeChain
		}
		if gf.SkipDiscuss != nil {
			cfg.SkipDiscuss = *gf.SkipDiscuss
		}
	}

	cfg.SkipDiscuss = resolveSkipDiscuss(assistantText, projectDir, cfg.SkipDiscuss)
	return cfg
}

// resolveSkipDiscuss applies the strict precedence chain for the skip flag:
// inline directive > project file > global value (already folded into the
// fallback argument). Directives short-circuit.
func resolveSkipDiscuss(assistantText, projectDir string, fallback bool) bool {
	if strings.Contains(assistantText, DirectiveSkipDiscuss) {
		return true
	}
	if strings.Contains(assistantText, DirectiveDiscuss) {
		return false
	}

	if skip, ok := projectSkipDiscuss(projectDir); ok {
		return skip
	}

	return fallback
}

func loadGlobal(path string) (globalFile, bool) {
	var gf globalFile
	if path == "" {
		return gf, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return gf, false
	}
	if err := json.Unmarshal(data, &gf); err != nil {
		return globalFile{}, false
	}
	return gf, true
}

// projectSkipDiscuss looks up the skip flag in <projectDir>/.gsd/config.json
// then <projectDir>/.gsd/config.yaml. The flat key wins over the nested one.
func projectSkipDiscuss(projectDir string) (bool, bool) {
	if projectDir == "" {
		return false, false
	}

	var pf projectFile
	loaded := false

	jsonPath := filepath.Join(projectDir, ".gsd", "config.json")
	if data, err := os.ReadFile(jsonPath); err == nil {
		if err := json.Unmarshal(data, &pf); err == nil {
			loaded = true
		}
	}
	if !loaded {
		yamlPath := filepath.Join(projectDir, ".gsd", "config.yaml")
		if data, err := os.ReadFile(yamlPath); err == nil {
			if err := yaml.Unmarshal(data, &pf); err == nil {
				loaded = true
			}
		}
	}
	if !loaded {
		return false, false
	}

	if pf.SkipDiscuss != nil {
		return *pf.SkipDiscuss, true
	}
	if pf.AutoChain != nil && pf.AutoChain.SkipDiscuss != nil {
		return *pf.AutoChain.SkipDiscuss, true
	}
	return false, false
}
