package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/dataset-explorer/internal/chart"
	"github.com/KaramelBytes/dataset-explorer/internal/schema"
)

// Global configuration structure.
type Global struct {
	DatasetPath string `mapstructure:"dataset_path" yaml:"dataset_path"`
	Delimiter   string `mapstructure:"delimiter" yaml:"delimiter"`

	// Artifacts
	OutputDir   string `mapstructure:"output_dir" yaml:"output_dir"`
	ScatterFile string `mapstructure:"scatter_file" yaml:"scatter_file"`
	LineFile    string `mapstructure:"line_file" yaml:"line_file"`
	HeatmapFile string `mapstructure:"heatmap_file" yaml:"heatmap_file"`

	// Server
	ListenAddr string `mapstructure:"listen_addr" yaml:"listen_addr"`
	LogLevel   string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat  string `mapstructure:"log_format" yaml:"log_format"`

	// Column roles; continuous_fields empty means every numeric non-categorical column.
	ContinuousFields  []string `mapstructure:"continuous_fields" yaml:"continuous_fields"`
	CategoricalFields []string `mapstructure:"categorical_fields" yaml:"categorical_fields"`
	GroupField        string   `mapstructure:"group_field" yaml:"group_field"`
	GroupOrder        []string `mapstructure:"group_order" yaml:"group_order"`
}

// Schema returns the column roles declared in the configuration.
func (c *Global) Schema() schema.Schema {
	return schema.Schema{
		Continuous:  append([]string(nil), c.ContinuousFields...),
		Categorical: append([]string(nil), c.CategoricalFields...),
		GroupField:  c.GroupField,
		GroupOrder:  append([]string(nil), c.GroupOrder...),
	}
}

// ChartOptions returns renderer options for the configured artifact paths.
func (c *Global) ChartOptions() chart.Options {
	return chart.Options{
		OutputDir:   c.OutputDir,
		ScatterFile: c.ScatterFile,
		LineFile:    c.LineFile,
		HeatmapFile: c.HeatmapFile,
	}
}

// DelimiterRune maps the delimiter setting to a rune; 0 means auto-detect.
func (c *Global) DelimiterRune() (rune, error) {
	switch c.Delimiter {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case ";":
		return ';', nil
	case "\t", "tab":
		return '\t', nil
	default:
		return 0, fmt.Errorf("unsupported delimiter: %q (use ',' | ';' | 'tab')", c.Delimiter)
	}
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.dsexplorer/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := defaultDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file (cfgFile or ~/.dsexplorer/config.yaml) > defaults.
// A .env file in the working directory is loaded into the environment first.
func Load(cfgFile string) (*Global, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	v := viper.New()
	v.SetEnvPrefix("DSEXPLORER")
	v.AutomaticEnv()

	def := schema.Default()
	opt := chart.DefaultOptions()
	v.SetDefault("dataset_path", "obesity_data_clean.csv")
	v.SetDefault("delimiter", "")
	v.SetDefault("output_dir", opt.OutputDir)
	v.SetDefault("scatter_file", opt.ScatterFile)
	v.SetDefault("line_file", opt.LineFile)
	v.SetDefault("heatmap_file", opt.HeatmapFile)
	v.SetDefault("listen_addr", "127.0.0.1:7860")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("continuous_fields", []string{})
	v.SetDefault("categorical_fields", def.Categorical)
	v.SetDefault("group_field", def.GroupField)
	v.SetDefault("group_order", def.GroupOrder)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := defaultDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".dsexplorer"), nil
}
