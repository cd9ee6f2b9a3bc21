package outwriter

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/huangsam/fitstar/internal/contract"
	"github.com/huangsam/fitstar/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintBuildSummary prints the completion line, and the table summary when
// detail output is enabled.
func PrintBuildSummary(result *schema.BuildResult, cfg *contract.Config) error {
	return writeBuildSummary(os.Stdout, result, cfg)
}

// writeBuildSummary writes the build summary to w.
func writeBuildSummary(w io.Writer, result *schema.BuildResult, cfg *contract.Config) error {
	sprint := fmt.Sprint
	muted := fmt.Sprint
	if cfg.UseColors {
		sprint = contract.SuccessColor.Sprint
		muted = contract.MutedColor.Sprint
	}
	if _, err := fmt.Fprintln(w, sprint(contract.SuccessMessage)); err != nil {
		return err
	}
	if !cfg.Detail {
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Table", "Rows", "Path"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.PerColumn = []tw.Align{tw.AlignLeft, tw.AlignRight, tw.AlignLeft}
	})

	pathWidth := GetMaxTablePathWidth(cfg)
	var data [][]string
	for _, f := range result.Files {
		data = append(data, []string{
			string(f.Table),
			strconv.Itoa(f.Rows),
			contract.TruncatePath(f.Path, pathWidth),
		})
	}
	if err := table.Bulk(data); err != nil {
		return fmt.Errorf("failed to render summary table: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render summary table: %w", err)
	}

	warehouse := "skipped"
	if result.WarehouseLoaded {
		warehouse = "loaded"
	}
	_, err := fmt.Fprintln(w, muted(fmt.Sprintf("Run %s: %d rows in %v (warehouse %s)",
		result.RunKey, result.TotalRows, result.Duration.Round(time.Millisecond), warehouse)))
	return err
}
