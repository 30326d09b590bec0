package pipeline

import (
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/material-cli/material/internal/output"
)

// reportFiles are the per-component files listed in the build report,
// relative to the component dist.
var reportFiles = []string{"v2/index.js", "v3/index.js", "index.js", "index.mjs"}

// ReportRow is one component line of the build report.
type ReportRow struct {
	ID      string
	Version string

	// Sizes holds one entry per reportFiles path, -1 when missing.
	Sizes []int64
}

// Complete reports whether every listed file exists.
func (r ReportRow) Complete() bool {
	for _, s := range r.Sizes {
		if s < 0 {
			return false
		}
	}
	return true
}

// BuildReport inspects each component's dist for the files consumers load.
func BuildReport(res *Result) []ReportRow {
	rows := make([]ReportRow, 0, len(res.Components))
	for _, c := range res.Components {
		row := ReportRow{ID: c.Descriptor.ID, Version: c.Descriptor.Version}
		dist := c.Descriptor.DistDir()
		for _, f := range reportFiles {
			info, err := os.Stat(filepath.Join(dist, filepath.FromSlash(f)))
			if err != nil {
				row.Sizes = append(row.Sizes, -1)
				continue
			}
			row.Sizes = append(row.Sizes, info.Size())
		}
		rows = append(rows, row)
	}
	return rows
}

// ReportTable renders report rows as a table.
func ReportTable(rows []ReportRow) *output.Table {
	headers := append([]string{"COMPONENT", "VERSION"}, reportFiles...)
	headers = append(headers, "STATUS")
	tbl := output.NewTable(headers...).StatusColumn(len(headers) - 1)

	for _, r := range rows {
		cells := []string{r.ID, r.Version}
		for _, s := range r.Sizes {
			if s < 0 {
				cells = append(cells, output.StatusMissing)
				continue
			}
			cells = append(cells, humanize.Bytes(uint64(s)))
		}
		status := output.StatusBuilt
		if !r.Complete() {
			status = output.StatusMissing
		}
		tbl.Row(append(cells, status)...)
	}
	return tbl
}
