package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/kostecki-nokia/dashboard-export/ui"
)

type Lister struct {
	api dashboardAPI
	out io.Writer
}

func NewLister(api dashboardAPI, out io.Writer) *Lister {
	return &Lister{api: api, out: out}
}

// Run fetches all dashboards, system ones included, and prints them as a
// table sorted by ascending id.
func (l *Lister) Run() error {
	dashboards, err := l.api.ListDashboards()
	if err != nil {
		return err
	}

	if len(dashboards) == 0 {
		logger.Warn("No dashboards found")
		return nil
	}

	sort.Slice(dashboards, func(i, j int) bool {
		return dashboards[i].ID < dashboards[j].ID
	})

	table := ui.NewTable(
		ui.Column{Header: "ID", Width: 5},
		ui.Column{Header: "Name", Width: 40},
		ui.Column{Header: "Slug", Width: 35},
		ui.Column{Header: "Labels", Width: 25},
		ui.Column{Header: "System", Width: 8},
		ui.Column{Header: "Enabled", Width: 8},
	)
	for _, d := range dashboards {
		table.AddRow(
			strconv.FormatInt(d.ID, 10),
			d.Name,
			d.Slug,
			strings.Join(d.Labels, ", "),
			yesNo(d.System),
			yesNo(d.Enabled),
		)
	}

	rule := strings.Repeat("=", table.Width())
	fmt.Fprintln(l.out, rule)
	fmt.Fprintf(l.out, "Found %d dashboards:\n", len(dashboards))
	fmt.Fprintln(l.out, rule)
	fmt.Fprint(l.out, table.Render())
	fmt.Fprintln(l.out)
	fmt.Fprintln(l.out, "To export dashboards by slug, use:")
	fmt.Fprintln(l.out, "  dashboard-export --dashboard slug-1 slug-2 slug-3")
	return nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
