// Package report renders the engine's classified outcomes: a console
// summary for the operator and the unavailable-dependencies markdown
// document checked into the repository.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/goss-platform/reposync/internal/engine"
)

const ruleWidth = 60

// Printer writes human-readable summaries to a single destination.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a Printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

// Heading prints a boxed section heading.
func (p *Printer) Heading(title string) {
	rule := strings.Repeat("=", ruleWidth)
	p.printf("\n%s\n%s\n%s\n", rule, title, rule)
}

// Summary prints the per-kind counts and the interesting detail lines
// for a reconciliation result set.
func (p *Printer) Summary(results *engine.Results) {
	p.Heading("SUMMARY REPORT")

	p.printf("\nUpdated: %d\n", len(results.Updated))
	for _, o := range results.Updated {
		if o.Identity != "" {
			p.printf("  - %s %s -> %s\n", o.Coordinate, o.LocalVersion, o.NewVersion)
		} else {
			p.printf("  - %s:%s -> %s/\n", o.Coordinate, o.NewVersion, o.Folder)
		}
	}

	p.printf("\nUp to date: %d\n", len(results.UpToDate))

	p.printf("\nUnavailable upstream: %d\n", len(results.Unavailable))
	for _, o := range results.Unavailable {
		p.printf("  - %s (local: %s)\n", o.Coordinate, o.LocalVersion)
	}

	p.printf("\nLocal/custom artifacts: %d\n", len(results.LocalOnly))
	for _, o := range results.LocalOnly {
		p.printf("  - %s (version: %s)\n", o.Identity, o.LocalVersion)
	}

	p.printf("\nNot mapped (need Maven coordinates): %d\n", len(results.NotMapped))
	for _, o := range results.NotMapped {
		p.printf("  - %s (version: %s)\n", o.Identity, o.LocalVersion)
	}

	if len(results.AlreadyExists) > 0 {
		p.printf("\nAlready exists: %d\n", len(results.AlreadyExists))
		for _, o := range results.AlreadyExists {
			p.printf("  - %s:%s in %s/\n", o.Coordinate, o.NewVersion, o.Folder)
		}
	}

	p.printf("\nErrors: %d\n", len(results.Errors))
	for _, o := range results.Errors {
		name := o.Identity
		if name == "" {
			name = o.Coordinate.String()
		}
		p.printf("  - %s: %s\n", name, o.Reason)
	}
}

// UpdateTable prints the check-only view: one row per available update,
// sorted by coordinate.
func (p *Printer) UpdateTable(results *engine.Results) {
	p.Heading("AVAILABLE UPDATES")

	if len(results.Updated) == 0 {
		p.printf("\nAll dependencies are up to date!\n")
	} else {
		p.printf("\n%-45s %-30s %-15s %-15s\n", "Group ID", "Artifact ID", "Current", "Latest")
		p.printf("%s\n", strings.Repeat("-", 110))

		rows := make([]engine.Outcome, len(results.Updated))
		copy(rows, results.Updated)
		sort.Slice(rows, func(i, j int) bool {
			return rows[i].Coordinate.String() < rows[j].Coordinate.String()
		})
		for _, o := range rows {
			p.printf("%-45s %-30s %-15s %-15s\n",
				clip(o.Coordinate.GroupID, 44), clip(o.Coordinate.ArtifactID, 29),
				clip(o.LocalVersion, 14), clip(o.NewVersion, 14))
		}
		p.printf("\nTotal updates available: %d\n", len(results.Updated))
	}

	p.printf("\nUpdates available: %d\n", len(results.Updated))
	p.printf("Up to date: %d\n", len(results.UpToDate))
	p.printf("Errors: %d\n", len(results.Errors))
}

// SyncSummary prints the outcome of a sync run: what was downloaded,
// what was already present, what failed, and the resulting coverage of
// the requested desired state.
func (p *Printer) SyncSummary(results *engine.Results, requested int) {
	p.Heading("SYNC SUMMARY")

	if len(results.Updated) > 0 {
		p.printf("\nDownloaded: %d\n", len(results.Updated))
		for _, o := range results.Updated {
			p.printf("  - %s:%s -> %s/\n", o.Coordinate, o.NewVersion, o.Folder)
		}
	}

	if len(results.AlreadyExists) > 0 {
		p.printf("\nAlready exists: %d\n", len(results.AlreadyExists))
		for _, o := range results.AlreadyExists {
			p.printf("  - %s:%s in %s/\n", o.Coordinate, o.NewVersion, o.Folder)
		}
	}

	if len(results.Errors) > 0 {
		p.printf("\nErrors: %d\n", len(results.Errors))
		for _, o := range results.Errors {
			p.printf("  - %s: %s\n", o.Coordinate, o.Reason)
		}
	}

	available := len(results.Updated) + len(results.AlreadyExists)
	p.printf("\nTotal dependencies requested: %d\n", requested)
	p.printf("Total dependencies available: %d\n", available)
	coverage := 0.0
	if requested > 0 {
		coverage = 100.0 * float64(available) / float64(requested)
	}
	p.printf("Coverage: %.1f%%\n", coverage)
}

func clip(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// WriteMarkdown writes the unavailable-dependencies report: everything
// an operator has to act on manually, plus what the run accomplished.
// results holds the index reconciliation outcomes, additional the
// desired-state download outcomes.
func WriteMarkdown(w io.Writer, results, additional *engine.Results) error {
	var b strings.Builder

	b.WriteString("# Unavailable Dependencies Report\n\n")
	fmt.Fprintf(&b, "Run ID: %s\n\n", uuid.NewString())

	b.WriteString("## Unavailable Upstream\n\n")
	if len(results.Unavailable) > 0 {
		b.WriteString("These dependencies could not be found upstream with the mapped coordinates.\n\n")
		b.WriteString("| Bundle Identity | Group ID | Artifact ID | Local Version |\n")
		b.WriteString("|-----------------|----------|-------------|---------------|\n")
		for _, o := range results.Unavailable {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				o.Identity, o.Coordinate.GroupID, o.Coordinate.ArtifactID, o.LocalVersion)
		}
	} else {
		b.WriteString("None\n")
	}

	b.WriteString("\n## Custom/Local Artifacts\n\n")
	if len(results.LocalOnly) > 0 {
		b.WriteString("| Bundle Identity | Local Version | URL |\n")
		b.WriteString("|-----------------|---------------|-----|\n")
		for _, o := range results.LocalOnly {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", o.Identity, o.LocalVersion, o.ContentURL)
		}
	} else {
		b.WriteString("None\n")
	}

	b.WriteString("\n## Not Mapped\n\n")
	if len(results.NotMapped) > 0 {
		b.WriteString("These bundles need Maven coordinates added to the bundles mapping.\n\n")
		b.WriteString("| Bundle Identity | Local Version | URL |\n")
		b.WriteString("|-----------------|---------------|-----|\n")
		for _, o := range results.NotMapped {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", o.Identity, o.LocalVersion, o.ContentURL)
		}
	} else {
		b.WriteString("None\n")
	}

	b.WriteString("\n## Errors\n\n")
	if len(results.Errors) > 0 {
		b.WriteString("| Bundle Identity | Reason |\n")
		b.WriteString("|-----------------|--------|\n")
		for _, o := range results.Errors {
			name := o.Identity
			if name == "" {
				name = o.Coordinate.String()
			}
			fmt.Fprintf(&b, "| %s | %s |\n", name, o.Reason)
		}
	} else {
		b.WriteString("None\n")
	}

	b.WriteString("\n## Successfully Updated\n\n")
	if len(results.Updated) > 0 {
		b.WriteString("| Group ID | Artifact ID | Old Version | New Version |\n")
		b.WriteString("|----------|-------------|-------------|-------------|\n")
		for _, o := range results.Updated {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				o.Coordinate.GroupID, o.Coordinate.ArtifactID, o.LocalVersion, o.NewVersion)
		}
	} else {
		b.WriteString("None\n")
	}

	fmt.Fprintf(&b, "\n## Up to Date\n\n%d dependencies are already at their latest version.\n",
		len(results.UpToDate))

	b.WriteString("\n## Additional Downloads\n\n")
	if additional != nil && len(additional.Updated) > 0 {
		b.WriteString("| Group ID | Artifact ID | Version | Folder |\n")
		b.WriteString("|----------|-------------|---------|--------|\n")
		for _, o := range additional.Updated {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				o.Coordinate.GroupID, o.Coordinate.ArtifactID, o.NewVersion, o.Folder)
		}
	} else {
		b.WriteString("None\n")
	}

	if additional != nil && len(additional.Errors) > 0 {
		b.WriteString("\n### Additional Download Errors\n\n")
		b.WriteString("| Group ID | Artifact ID | Reason |\n")
		b.WriteString("|----------|-------------|--------|\n")
		for _, o := range additional.Errors {
			fmt.Fprintf(&b, "| %s | %s | %s |\n",
				o.Coordinate.GroupID, o.Coordinate.ArtifactID, o.Reason)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
