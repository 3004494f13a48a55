package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/folio/pkg/diagram"
	"github.com/matzehuels/folio/pkg/graph"
	"github.com/matzehuels/folio/pkg/pipeline"
)

// inspectCommand creates the command that prints the graph and its settled
// positions.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		width, height float64
		compact       bool
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print nodes, categories, degrees and settled positions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), os.Stdout, width, height, compact)
		},
	}

	cmd.Flags().Float64Var(&width, "width", pipeline.DefaultWidth, "frame width")
	cmd.Flags().Float64Var(&height, "height", pipeline.DefaultHeight, "frame height")
	cmd.Flags().BoolVar(&compact, "compact", false, "use compact icons")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, w io.Writer, width, height float64, compact bool) error {
	cfg, path, err := c.config()
	if err != nil {
		return err
	}
	dopts, err := cfg.Options()
	if err != nil {
		return err
	}
	g := cfg.Graph()

	f, steps, err := pipeline.Settle(ctx, g, pipeline.Options{
		Width:   width,
		Height:  height,
		Compact: compact || dopts.Compact,
		Diagram: dopts,
		Logger:  loggerFromContext(ctx),
	})
	if err != nil {
		return err
	}

	source := path
	if source == "" {
		source = "built-in portfolio"
	}
	printKeyValue("Config", source)
	printKeyValue("Scene", f.SceneID)
	printKeyValue("Frame", fmt.Sprintf("%gx%g, radius %g, %d steps", f.Width, f.Height, f.Radius, steps))
	printKeyValue("Categories", categorySummary(g))
	fmt.Fprintln(w)
	fmt.Fprintln(w, nodeTable(g, f).Render())
	return nil
}

// categorySummary lists categories with their node counts in first-seen order.
func categorySummary(g graph.Graph) string {
	counts := g.CategoryCounts()
	var parts []string
	for _, cat := range g.Categories() {
		parts = append(parts, fmt.Sprintf("%s %d", cat, counts[cat]))
	}
	if n := len(g.Nodes) - sum(counts); n > 0 {
		parts = append(parts, fmt.Sprintf("uncategorized %d", n))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

func sum(counts map[string]int) int {
	n := 0
	for _, c := range counts {
		n += c
	}
	return n
}

func nodeTable(g graph.Graph, f diagram.Frame) *table.Table {
	degree := g.Degree()
	rows := make([][]string, 0, len(f.Nodes))
	for _, n := range f.Nodes {
		rows = append(rows, []string{
			strconv.Itoa(n.ID),
			n.Name,
			n.Category,
			strconv.Itoa(degree[n.ID]),
			strconv.FormatFloat(n.X, 'f', 1, 64),
			strconv.FormatFloat(n.Y, 'f', 1, 64),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Name", "Category", "Degree", "X", "Y").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			switch col {
			case 2:
				return cell.Foreground(categoryColor(f.Nodes[row].Category))
			case 3, 4, 5:
				return cell.Foreground(colorCyan).Align(lipgloss.Right)
			}
			return cell
		})
}
