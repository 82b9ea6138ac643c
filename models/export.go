package models

// ExportFailure records one dashboard that could not be exported.
type ExportFailure struct {
	Slug string
	Kind string
}

// ExportSummary is the outcome of a whole export run.
type ExportSummary struct {
	Attempted int
	Succeeded int
	Failures  []ExportFailure
}

func (s *ExportSummary) RecordSuccess() {
	s.Attempted++
	s.Succeeded++
}

func (s *ExportSummary) RecordFailure(slug, kind string) {
	s.Attempted++
	s.Failures = append(s.Failures, ExportFailure{Slug: slug, Kind: kind})
}

func (s *ExportSummary) Failed() int { return len(s.Failures) }

// Ok reports whether every attempted export succeeded.
func (s *ExportSummary) Ok() bool { return len(s.Failures) == 0 }
