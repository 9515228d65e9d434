package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/dataset-explorer/internal/config"
	"github.com/KaramelBytes/dataset-explorer/internal/logging"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set dsexplorer configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "dataset_path: %s\n", c.DatasetPath)
		if c.Delimiter != "" {
			fmt.Fprintf(out, "delimiter: %q\n", c.Delimiter)
		}
		fmt.Fprintf(out, "output_dir: %s\n", c.OutputDir)
		fmt.Fprintf(out, "scatter_file: %s\n", c.ScatterFile)
		fmt.Fprintf(out, "line_file: %s\n", c.LineFile)
		fmt.Fprintf(out, "heatmap_file: %s\n", c.HeatmapFile)
		fmt.Fprintf(out, "listen_addr: %s\n", c.ListenAddr)
		fmt.Fprintf(out, "log_level: %s\n", c.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", c.LogFormat)
		if len(c.ContinuousFields) > 0 {
			fmt.Fprintf(out, "continuous_fields: %s\n", strings.Join(c.ContinuousFields, ","))
		}
		fmt.Fprintf(out, "categorical_fields: %s\n", strings.Join(c.CategoricalFields, ","))
		fmt.Fprintf(out, "group_field: %s\n", c.GroupField)
		fmt.Fprintf(out, "group_order: %s\n", strings.Join(c.GroupOrder, ","))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Long: `Set a config value and save to disk.
List keys (continuous_fields, categorical_fields, group_order) take a comma-separated value.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c, err := loadedConfig()
		if err != nil {
			return err
		}
		switch key {
		case "dataset_path":
			c.DatasetPath = val
		case "delimiter":
			prev := c.Delimiter
			c.Delimiter = val
			if _, err := c.DelimiterRune(); err != nil {
				c.Delimiter = prev
				return err
			}
		case "output_dir":
			c.OutputDir = val
		case "scatter_file":
			c.ScatterFile = val
		case "line_file":
			c.LineFile = val
		case "heatmap_file":
			c.HeatmapFile = val
		case "listen_addr":
			c.ListenAddr = val
		case "log_level":
			if !logging.ValidLevel(val) {
				return fmt.Errorf("invalid log_level: %s (use debug, info, warn or error)", val)
			}
			c.LogLevel = strings.ToLower(val)
		case "log_format":
			switch strings.ToLower(val) {
			case "text", "json":
				c.LogFormat = strings.ToLower(val)
			default:
				return fmt.Errorf("invalid log_format: %s (use text or json)", val)
			}
		case "continuous_fields":
			c.ContinuousFields = splitList(val)
		case "categorical_fields":
			c.CategoricalFields = splitList(val)
		case "group_field":
			c.GroupField = val
		case "group_order":
			order := splitList(val)
			if len(order) == 0 {
				return fmt.Errorf("group_order must name at least one group")
			}
			c.GroupOrder = order
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
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
