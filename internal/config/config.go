package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/titanic-insights/internal/utils"
)

// EnvPrefix prefixes every environment override, e.g. TITANIC_DATA_PATH.
const EnvPrefix = "TITANIC"

// Global configuration structure.
type Global struct {
	DataPath string `mapstructure:"data_path" yaml:"data_path"`
	HTTPAddr string `mapstructure:"http_addr" yaml:"http_addr"`
	LogMode  string `mapstructure:"log_mode" yaml:"log_mode"`
	ChartDir string `mapstructure:"chart_dir" yaml:"chart_dir"`

	// Prediction
	PredictionEnabled bool    `mapstructure:"prediction_enabled" yaml:"prediction_enabled"`
	ModelEagerFit     bool    `mapstructure:"model_eager_fit" yaml:"model_eager_fit"`
	ModelLearningRate float64 `mapstructure:"model_learning_rate" yaml:"model_learning_rate"`
	ModelEpochs       int     `mapstructure:"model_epochs" yaml:"model_epochs"`
	ModelC            float64 `mapstructure:"model_c" yaml:"model_c"`

	// Charts
	AgeBins  int `mapstructure:"age_bins" yaml:"age_bins"`
	FareBins int `mapstructure:"fare_bins" yaml:"fare_bins"`

	// HTTP server
	CORSOrigins        []string `mapstructure:"cors_origins" yaml:"cors_origins"`
	ShutdownTimeoutSec int      `mapstructure:"shutdown_timeout_sec" yaml:"shutdown_timeout_sec"`
}

// Keys lists every configuration key in display order.
var Keys = []string{
	"data_path", "http_addr", "log_mode", "chart_dir",
	"prediction_enabled", "model_eager_fit", "model_learning_rate", "model_epochs", "model_c",
	"age_bins", "fare_bins", "cors_origins", "shutdown_timeout_sec",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_path", filepath.Join("data", "titanic.csv"))
	v.SetDefault("http_addr", ":8501")
	v.SetDefault("log_mode", "dev")
	v.SetDefault("chart_dir", "charts")
	v.SetDefault("prediction_enabled", true)
	v.SetDefault("model_eager_fit", false)
	v.SetDefault("model_learning_rate", 0.5)
	v.SetDefault("model_epochs", 1000)
	v.SetDefault("model_c", 1.0)
	v.SetDefault("age_bins", 30)
	v.SetDefault("fare_bins", 50)
	v.SetDefault("cors_origins", []string{"*"})
	v.SetDefault("shutdown_timeout_sec", 10)
}

// DefaultPath is ~/.titanic/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".titanic", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.titanic/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (applied by the caller) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, ".titanic"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Env lists arrive as a single comma-separated string.
	if len(c.CORSOrigins) == 1 && strings.Contains(c.CORSOrigins[0], ",") {
		c.CORSOrigins = splitList(c.CORSOrigins[0])
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects values no command could run with.
func (c *Global) Validate() error {
	switch {
	case c.ModelLearningRate <= 0:
		return fmt.Errorf("model_learning_rate must be > 0, got %g", c.ModelLearningRate)
	case c.ModelEpochs <= 0:
		return fmt.Errorf("model_epochs must be > 0, got %d", c.ModelEpochs)
	case c.ModelC < 0:
		return fmt.Errorf("model_c must be >= 0, got %g", c.ModelC)
	case c.AgeBins <= 0 || c.FareBins <= 0:
		return fmt.Errorf("age_bins and fare_bins must be > 0, got %d and %d", c.AgeBins, c.FareBins)
	case c.ShutdownTimeoutSec < 0:
		return fmt.Errorf("shutdown_timeout_sec must be >= 0, got %d", c.ShutdownTimeoutSec)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
