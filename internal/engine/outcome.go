package engine

import "github.com/goss-platform/reposync/internal/maven"

// Kind classifies what happened to one artifact during a run.
type Kind string

const (
	// KindUpdated: a newer version was resolved and downloaded. In
	// check-only mode it marks an available update instead.
	KindUpdated Kind = "updated"
	// KindUpToDate: the local version is at least the resolved one.
	KindUpToDate Kind = "up_to_date"
	// KindUnavailable: the coordinate is mapped but no source knows it.
	KindUnavailable Kind = "unavailable"
	// KindLocalOnly: the mapping explicitly marks the bundle local.
	KindLocalOnly Kind = "local_only"
	// KindNotMapped: the bundle identity has no mapping entry at all.
	KindNotMapped Kind = "not_mapped"
	// KindAlreadyExists: sync mode found the jar already on disk.
	KindAlreadyExists Kind = "already_exists"
	// KindError: resolution or download failed.
	KindError Kind = "error"
)

// Outcome is the per-artifact classification record. Fields that do not
// apply to a given kind are left zero. Outcomes are never mutated after
// creation.
type Outcome struct {
	Kind         Kind
	Identity     string
	Coordinate   maven.Coordinate
	LocalVersion string
	NewVersion   string
	Folder       string
	Source       string
	ContentURL   string
	Reason       string
}

// Results accumulates outcomes by kind. Exactly one outcome exists per
// processed artifact; the kinds are mutually exclusive.
type Results struct {
	Updated       []Outcome
	UpToDate      []Outcome
	Unavailable   []Outcome
	LocalOnly     []Outcome
	NotMapped     []Outcome
	AlreadyExists []Outcome
	Errors        []Outcome
}

func (r *Results) add(o Outcome) {
	switch o.Kind {
	case KindUpdated:
		r.Updated = append(r.Updated, o)
	case KindUpToDate:
		r.UpToDate = append(r.UpToDate, o)
	case KindUnavailable:
		r.Unavailable = append(r.Unavailable, o)
	case KindLocalOnly:
		r.LocalOnly = append(r.LocalOnly, o)
	case KindNotMapped:
		r.NotMapped = append(r.NotMapped, o)
	case KindAlreadyExists:
		r.AlreadyExists = append(r.AlreadyExists, o)
	case KindError:
		r.Errors = append(r.Errors, o)
	}
}

// Merge appends every outcome from other into r.
func (r *Results) Merge(other *Results) {
	if other == nil {
		return
	}
	r.Updated = append(r.Updated, other.Updated...)
	r.UpToDate = append(r.UpToDate, other.UpToDate...)
	r.Unavailable = append(r.Unavailable, other.Unavailable...)
	r.LocalOnly = append(r.LocalOnly, other.LocalOnly...)
	r.NotMapped = append(r.NotMapped, other.NotMapped...)
	r.AlreadyExists = append(r.AlreadyExists, other.AlreadyExists...)
	r.Errors = append(r.Errors, other.Errors...)
}

// Total returns the number of outcomes across all kinds.
func (r *Results) Total() int {
	return len(r.Updated) + len(r.UpToDate) + len(r.Unavailable) +
		len(r.LocalOnly) + len(r.NotMapped) + len(r.AlreadyExists) + len(r.Errors)
}
