package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dataset-explorer/internal/chart"
	cfgpkg "github.com/KaramelBytes/dataset-explorer/internal/config"
	"github.com/KaramelBytes/dataset-explorer/internal/dataset"
	"github.com/KaramelBytes/dataset-explorer/internal/logging"
)

var (
	// Global flags (override config if set)
	cfgFile       string
	debug         bool
	flagDataset   string
	flagOutputDir string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "dsexplorer",
	Short: "Explore a tabular dataset through scatter, error-bar and correlation charts",
	Long: `dsexplorer loads a cleaned tabular dataset once and renders statistical charts
from user-selected columns: scatterplots, per-group means with standard-error bars,
and Spearman correlation heatmaps. Run "dsexplorer serve" for the browser UI.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("✗ Error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.dsexplorer/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagDataset, "dataset", "", "dataset file to load (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagOutputDir, "output-dir", "", "directory for chart artifacts (overrides config)")
}

func loadConfig() {
	if _, err := requireConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "%s failed to load config: %v\n", color.YellowString("⚠ Warning:"), err)
	}
}

// loadedConfig returns the configuration as read from file and environment,
// without flag overrides. It is what "config set" persists.
func loadedConfig() (*cfgpkg.Global, error) {
	if cfg == nil {
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = c
	}
	return cfg, nil
}

// requireConfig returns a copy of the loaded config with global flag overrides
// applied, or an error explaining why it is missing.
func requireConfig() (*cfgpkg.Global, error) {
	base, err := loadedConfig()
	if err != nil {
		return nil, err
	}
	c := *base
	f := rootCmd.PersistentFlags()
	if f.Changed("dataset") && flagDataset != "" {
		c.DatasetPath = flagDataset
	}
	if f.Changed("output-dir") && flagOutputDir != "" {
		c.OutputDir = flagOutputDir
	}
	if debug {
		c.LogLevel = logrus.DebugLevel.String()
	}
	return &c, nil
}

func newLogger(c *cfgpkg.Global) *logrus.Logger {
	return logging.New(c.LogLevel, c.LogFormat)
}

// loadRenderer loads the dataset, resolves the schema against it and builds a
// renderer. Any failure here is fatal for the calling command.
func loadRenderer(c *cfgpkg.Global, log logrus.FieldLogger) (*chart.Renderer, error) {
	delim, err := c.DelimiterRune()
	if err != nil {
		return nil, err
	}
	s := c.Schema()
	ds, err := dataset.Load(c.DatasetPath, dataset.Options{Delimiter: delim, Categorical: s.Categorical})
	if err != nil {
		return nil, err
	}
	s, err = s.Resolve(ds.Columns(), ds.NumericColumns())
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"dataset":    c.DatasetPath,
		"rows":       ds.Rows(),
		"columns":    len(ds.Columns()),
		"continuous": len(s.Continuous),
	}).Debug("dataset loaded")
	opt := c.ChartOptions()
	opt.Logger = log
	return chart.NewRenderer(ds, s, opt), nil
}
