package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/jask/toshlbatch/internal/synth"
)

// Config holds application configuration. It is read once at startup.
type Config struct {
	// Account is the Toshl account id, emitted verbatim into every statement.
	Account   string
	Endpoint  string
	Currency  CurrencyConfig
	Lexicon   LexiconConfig
	Clipboard ClipboardConfig
	Log       LogConfig
	UI        UIConfig
}

type CurrencyConfig struct {
	Code string
}

// LexiconConfig points at an optional YAML file replacing the built-in tables.
type LexiconConfig struct {
	Path string
}

type ClipboardConfig struct {
	Backend string // auto, command, osc52, none
}

type LogConfig struct {
	Level string
	Path  string
}

type UIConfig struct {
	Theme string // auto, dark, light
}

// legacyAccountEnv is the variable name read from the legacy web form's .env.
const legacyAccountEnv = "VITE_ACCOUNT"

// Load reads configuration from .env, file and env. Env var overrides use
// prefix TOSHLBATCH_. An explicit path wins over TOSHLBATCH_CONFIG and the
// default location; only an explicit file has to exist.
func Load(path string) (Config, error) {
	// .env in the working directory is optional
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("account", "")
	v.SetDefault("endpoint", synth.DefaultEndpoint)
	v.SetDefault("currency.code", synth.DefaultCurrency)
	v.SetDefault("lexicon.path", "")
	v.SetDefault("clipboard.backend", "auto")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", filepath.Join(stateDir(), "toshlbatch.log"))
	v.SetDefault("ui.theme", "auto")

	v.SetConfigType("toml")

	explicit := path != ""
	if !explicit {
		path = os.Getenv("TOSHLBATCH_CONFIG")
		explicit = path != ""
	}
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(configDir())
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("TOSHLBATCH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, missing := err.(viper.ConfigFileNotFoundError); explicit || !missing {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Account == "" {
		c.Account = strings.TrimSpace(os.Getenv(legacyAccountEnv))
	}
	return c, nil
}

func configDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "toshlbatch")
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "toshlbatch")
}

func stateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "toshlbatch")
	}
	return filepath.Join(os.Getenv("HOME"), ".local", "state", "toshlbatch")
}
