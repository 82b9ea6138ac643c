package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/benbjohnson/clock"
	"github.com/samber/oops"
	"github.com/sourcegraph/conc/iter"

	"github.com/kostecki-nokia/dashboard-export/errs"
	"github.com/kostecki-nokia/dashboard-export/models"
)

// dashboardAPI is the slice of the Deepfield API this tool consumes.
type dashboardAPI interface {
	ListDashboards() ([]models.DashboardSummary, error)
	GetDashboard(id int64) (*models.DashboardDetail, error)
}

// exportTarget is one dashboard queued for export. A resolution failure
// (unknown slug) rides along in err so the batch loop counts it like any
// other per-dashboard failure.
type exportTarget struct {
	slug string
	id   int64
	err  error
}

type Exporter struct {
	api       dashboardAPI
	backupDir string
	workers   int
	clock     clock.Clock
}

func NewExporter(api dashboardAPI, backupDir string, workers int) *Exporter {
	if workers < 1 {
		workers = 1
	}
	return &Exporter{
		api:       api,
		backupDir: backupDir,
		workers:   workers,
		clock:     clock.New(),
	}
}

// ExportAll exports every dashboard the product does not manage itself.
func (e *Exporter) ExportAll() (*models.ExportSummary, error) {
	dashboards, err := e.api.ListDashboards()
	if err != nil {
		return nil, err
	}

	var targets []exportTarget
	for _, d := range dashboards {
		if d.System {
			logger.Debug("Skipping system dashboard", "slug", d.Slug)
			continue
		}
		targets = append(targets, exportTarget{slug: d.Slug, id: d.ID})
	}

	if len(targets) == 0 {
		logger.Warn("No custom dashboards to export")
		return &models.ExportSummary{}, nil
	}

	return e.run(targets)
}

// ExportSelected exports the dashboards named by slug. Slugs are matched
// case-sensitively against a fresh listing; an unknown slug becomes a
// not_found failure without stopping the rest. System dashboards can be
// exported this way, naming one explicitly overrides the default filter.
func (e *Exporter) ExportSelected(slugs []string) (*models.ExportSummary, error) {
	dashboards, err := e.api.ListDashboards()
	if err != nil {
		return nil, err
	}

	bySlug := make(map[string]models.DashboardSummary, len(dashboards))
	for _, d := range dashboards {
		bySlug[d.Slug] = d
	}

	targets := make([]exportTarget, 0, len(slugs))
	for _, slug := range slugs {
		d, ok := bySlug[slug]
		if !ok {
			targets = append(targets, exportTarget{
				slug: slug,
				err: oops.
					In("ExportSelected").
					Code(errs.NotFound).
					With("slug", slug).
					Errorf("no dashboard with this slug"),
			})
			continue
		}
		targets = append(targets, exportTarget{slug: d.Slug, id: d.ID})
	}

	return e.run(targets)
}

func (e *Exporter) run(targets []exportTarget) (*models.ExportSummary, error) {
	if err := e.ensureBackupDir(); err != nil {
		return nil, err
	}

	logger.Info("Exporting dashboards", "count", len(targets), "backupDir", e.backupDir)

	results := make([]error, len(targets))
	if e.workers > 1 {
		it := iter.Iterator[exportTarget]{MaxGoroutines: e.workers}
		it.ForEachIdx(targets, func(i int, t *exportTarget) {
			results[i] = e.exportOne(*t)
		})
	} else {
		for i, t := range targets {
			results[i] = e.exportOne(t)
			// A rejected key fails every later call too, stop here.
			if errs.IsKind(results[i], errs.Auth) {
				results = results[:i+1]
				targets = targets[:i+1]
				break
			}
		}
	}

	summary := &models.ExportSummary{}
	var authErr error
	for i, err := range results {
		if err == nil {
			summary.RecordSuccess()
			continue
		}
		kind := errs.Kind(err)
		summary.RecordFailure(targets[i].slug, kind)
		logger.Warn("Export failed", "slug", targets[i].slug, "kind", kind, "err", err)
		if authErr == nil && kind == errs.Auth {
			authErr = err
		}
	}

	logger.Info(
		"Export finished",
		"attempted", summary.Attempted,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed(),
	)

	if authErr != nil {
		return summary, authErr
	}
	return summary, nil
}

func (e *Exporter) ensureBackupDir() error {
	if err := os.MkdirAll(e.backupDir, 0o755); err != nil {
		return oops.
			In("ensureBackupDir").
			Code(errs.Filesystem).
			With("backupDir", e.backupDir).
			Wrap(err)
	}
	return nil
}

func (e *Exporter) exportOne(t exportTarget) error {
	if t.err != nil {
		return t.err
	}

	oopsBuilder := oops.
		In("exportOne").
		With("slug", t.slug).
		With("id", t.id)

	detail, err := e.api.GetDashboard(t.id)
	if err != nil {
		return oopsBuilder.Wrap(err)
	}

	record := detail.Export()
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return oopsBuilder.Wrap(err)
	}

	path := filepath.Join(e.backupDir, record.Filename(e.clock.Now()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return oopsBuilder.
			Code(errs.Filesystem).
			With("path", path).
			Wrap(err)
	}

	logger.Info("Exported dashboard", "slug", record.Slug(), "file", path)
	return nil
}
