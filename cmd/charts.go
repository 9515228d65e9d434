package cmd

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dataset-explorer/internal/chart"
)

var scatterCmd = &cobra.Command{
	Use:   "scatter <x> <y>",
	Short: "Render a scatterplot of two continuous columns",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return renderWith(cmd, func(r *chart.Renderer) chart.Result { return r.Scatter(args[0], args[1]) })
	},
}

var errorBarCmd = &cobra.Command{
	Use:   "errorbar <column>",
	Short: "Render the mean of a column per obesity group with ±1 SEM bars",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return renderWith(cmd, func(r *chart.Renderer) chart.Result { return r.GroupedErrorBar(args[0]) })
	},
}

var heatmapCmd = &cobra.Command{
	Use:   "heatmap <column> <column> [column...]",
	Short: "Render a Spearman correlation heatmap of the given columns",
	// Fewer than two columns is reported by the renderer, not by cobra.
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return renderWith(cmd, func(r *chart.Renderer) chart.Result { return r.CorrelationHeatmap(args) })
	},
}

// errRenderRejected marks a render whose message was already printed.
var errRenderRejected = errors.New("chart not rendered")

func renderWith(cmd *cobra.Command, render func(*chart.Renderer) chart.Result) error {
	c, err := requireConfig()
	if err != nil {
		return err
	}
	r, err := loadRenderer(c, newLogger(c))
	if err != nil {
		return err
	}
	res := render(r)
	if !res.OK() {
		fmt.Fprintln(cmd.ErrOrStderr(), res.Message)
		return errRenderRejected
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %s\n", color.GreenString("✓"), res.Path)
	return nil
}

func init() {
	rootCmd.AddCommand(scatterCmd)
	rootCmd.AddCommand(errorBarCmd)
	rootCmd.AddCommand(heatmapCmd)
}
