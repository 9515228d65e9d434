package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dataset-explorer/internal/dataset"
)

var (
	descOutputPath string
	descMarkdown   bool
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Summarize the dataset's columns and group sizes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		r, err := loadRenderer(c, newLogger(c))
		if err != nil {
			return err
		}
		sum := dataset.Describe(r.Dataset(), r.Schema())

		if descOutputPath != "" {
			if err := os.WriteFile(descOutputPath, []byte(sum.Markdown()), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote summary to %s\n", color.GreenString("✓"), descOutputPath)
			return nil
		}
		if descMarkdown {
			fmt.Fprintln(cmd.OutOrStdout(), sum.Markdown())
			return nil
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: %d rows, %d columns\n", sum.Name, sum.Rows, len(sum.Cols))
		table := tablewriter.NewWriter(out)
		table.SetHeader([]string{"Column", "Kind", "Non-null", "Missing", "Mean", "Std", "Min", "Max", "Top values"})
		for _, col := range sum.Cols {
			row := []string{col.Name, col.Kind, strconv.Itoa(col.NonNull), strconv.Itoa(col.Missing), "", "", "", "", ""}
			switch col.Kind {
			case dataset.KindContinuous:
				if col.NonNull > 0 {
					row[4], row[5], row[6], row[7] = num(col.Mean), num(col.Std), num(col.Min), num(col.Max)
				}
			case dataset.KindCategorical:
				parts := make([]string, len(col.TopValues))
				for i, kv := range col.TopValues {
					parts[i] = fmt.Sprintf("%s(%d)", kv.Value, kv.Count)
				}
				row[8] = strings.Join(parts, ", ")
			}
			table.Append(row)
		}
		table.Render()

		if len(sum.Groups) > 0 {
			fmt.Fprintf(out, "\nRows per %s\n", r.Schema().GroupField)
			gt := tablewriter.NewWriter(out)
			gt.SetHeader([]string{"Group", "Rows"})
			for _, g := range sum.Groups {
				gt.Append([]string{g.Group, strconv.Itoa(g.Rows)})
			}
			gt.Render()
			if sum.Skipped > 0 {
				fmt.Fprintf(out, "%s %d rows have a group outside the canonical order and are left out of error-bar charts\n", color.YellowString("⚠"), sum.Skipped)
			}
		}
		return nil
	},
}

func num(f float64) string { return strconv.FormatFloat(f, 'g', 4, 64) }

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().StringVarP(&descOutputPath, "output", "o", "", "write the summary as Markdown to this path")
	describeCmd.Flags().BoolVar(&descMarkdown, "markdown", false, "print the summary as Markdown instead of a table")
}
