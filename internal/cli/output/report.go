package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/polyglot/internal/ingest"
	"github.com/leapstack-labs/polyglot/pkg/core"
)

// RunOutput is the JSON form of a generate or compile run.
type RunOutput struct {
	RunID        string              `json:"run_id"`
	Command      string              `json:"command"`
	Status       core.RunStatus      `json:"status"`
	StartedAt    string              `json:"started_at"`
	ArchiveStamp string              `json:"archive_stamp"`
	DurationMS   int64               `json:"duration_ms"`
	Locales      []LocaleOutput      `json:"locales"`
	Archived     []core.ArchiveEntry `json:"archived"`
	Error        string              `json:"error,omitempty"`
}

// LocaleOutput is the JSON form of one locale summary.
type LocaleOutput struct {
	*core.LocaleSummary
	Error string `json:"error,omitempty"`
}

// ImportOutput is the JSON form of an import.
type ImportOutput struct {
	Locales []ImportLocaleOutput `json:"locales"`
}

// ImportLocaleOutput is the JSON form of one locale import.
type ImportLocaleOutput struct {
	*ingest.Summary
	Error string `json:"error,omitempty"`
}

// NewRunOutput converts a report for JSON rendering.
func NewRunOutput(report *core.RunReport, command string) RunOutput {
	out := RunOutput{
		RunID:        report.Run.ID,
		Command:      command,
		Status:       core.StatusOf(report),
		StartedAt:    report.Run.Stamp.UTC().Format(time.RFC3339),
		ArchiveStamp: report.Run.ArchiveStamp(),
		DurationMS:   report.Duration.Milliseconds(),
		Locales:      make([]LocaleOutput, 0, len(report.Locales)),
		Archived:     report.Archived,
	}
	if out.Archived == nil {
		out.Archived = []core.ArchiveEntry{}
	}
	if report.Aborted != nil {
		out.Error = report.Aborted.Error()
	}
	for _, l := range report.Locales {
		lo := LocaleOutput{LocaleSummary: l}
		if l.Err != nil {
			lo.Error = l.Err.Error()
		}
		out.Locales = append(out.Locales, lo)
	}
	return out
}

// RenderRun writes the summary of a run in the effective mode.
func (r *Renderer) RenderRun(report *core.RunReport, command string) error {
	switch r.EffectiveMode() {
	case ModeJSON:
		return r.JSON(NewRunOutput(report, command))
	case ModeMarkdown:
		r.renderRunMarkdown(report, command)
	default:
		r.renderRunText(report, command)
	}
	return nil
}

func runTable(report *core.RunReport) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Locale", "Pages", "Namespaces", "Unchanged", "Archived", "Translated", "Status"})
	for _, l := range report.Locales {
		status := "ok"
		if l.Failed() {
			status = "failed"
		}
		t.AppendRow(table.Row{
			l.Locale,
			l.PagesWritten,
			l.NamespacesWritten,
			l.Unchanged,
			len(l.Archived),
			fmt.Sprintf("%d/%d", l.Translated, l.Keys),
			status,
		})
	}
	return t
}

func (r *Renderer) renderRunText(report *core.RunReport, command string) {
	s := r.styles
	r.Header(1, fmt.Sprintf("polyglot %s", command))
	r.Println(s.Muted.Render(fmt.Sprintf("run %s · %s", report.Run.ID, report.Run.ArchiveStamp())))
	r.Println()

	if len(report.Locales) > 0 {
		t := runTable(report)
		t.SetStyle(table.StyleLight)
		r.Println(t.Render())
		r.Println()
	}

	for _, l := range report.Locales {
		if l.Err != nil {
			r.Println(s.StatusFailed.String() + " " + s.Locale.Render(l.Locale) + " " + s.Error.Render(l.Err.Error()))
		}
	}
	for _, a := range archivedEntries(report) {
		r.Println(s.Muted.Render(fmt.Sprintf("archived %s → %s", a.Source, a.Destination)))
	}
	if report.Aborted != nil {
		r.Println(s.StatusFailed.String() + " " + s.Error.Render("run aborted: "+report.Aborted.Error()))
	}

	summary := fmt.Sprintf("%d locale(s), %d archived, %s", len(report.Locales), report.ArchivedCount(), report.Duration.Round(time.Millisecond))
	switch core.StatusOf(report) {
	case core.RunStatusCompleted:
		r.Success(summary)
	default:
		r.Println(s.StatusFailed.String() + " " + s.Error.Render(summary))
	}
}

func (r *Renderer) renderRunMarkdown(report *core.RunReport, command string) {
	r.Println(FormatHeader(1, "polyglot "+command))
	r.Println(FormatKeyValue("Run", FormatCode(report.Run.ID)))
	r.Println(FormatKeyValue("Stamp", report.Run.ArchiveStamp()))
	r.Println(FormatKeyValue("Status", string(core.StatusOf(report))))
	r.Println(FormatKeyValue("Archived", fmt.Sprintf("%d", report.ArchivedCount())))
	r.Println(FormatKeyValue("Duration", report.Duration.Round(time.Millisecond).String()))
	r.Println()

	if len(report.Locales) > 0 {
		r.Println(FormatHeader(2, "Locales"))
		r.Println(runTable(report).RenderMarkdown())
		r.Println()
	}

	var failures []string
	if report.Aborted != nil {
		failures = append(failures, fmt.Sprintf("run aborted: %v", report.Aborted))
	}
	for _, l := range report.Locales {
		if l.Err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", FormatCode(l.Locale), l.Err))
		}
	}
	if len(failures) > 0 {
		r.Println(FormatHeader(2, "Errors"))
		r.Printf("%s", FormatList(failures))
	}

	var archived []string
	for _, a := range archivedEntries(report) {
		archived = append(archived, fmt.Sprintf("%s → %s", FormatCode(a.Source), FormatCode(a.Destination)))
	}
	if len(archived) > 0 {
		r.Println(FormatHeader(2, "Archived"))
		r.Printf("%s", FormatList(archived))
	}
}

// archivedEntries lists run-level entries followed by each locale's.
func archivedEntries(report *core.RunReport) []core.ArchiveEntry {
	entries := append([]core.ArchiveEntry(nil), report.Archived...)
	for _, l := range report.Locales {
		entries = append(entries, l.Archived...)
	}
	return entries
}

// RenderImport writes import summaries in the effective mode.
func (r *Renderer) RenderImport(summaries []*ingest.Summary) error {
	if r.EffectiveMode() == ModeJSON {
		out := ImportOutput{Locales: make([]ImportLocaleOutput, 0, len(summaries))}
		for _, s := range summaries {
			lo := ImportLocaleOutput{Summary: s}
			if s.Err != nil {
				lo.Error = s.Err.Error()
			}
			out.Locales = append(out.Locales, lo)
		}
		return r.JSON(out)
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Locale", "Received", "Filled", "Documents", "Status"})
	var failures []string
	for _, s := range summaries {
		status := "ok"
		switch {
		case s.Err != nil:
			status = "failed"
			failures = append(failures, fmt.Sprintf("%s: %v", s.Locale, s.Err))
		case s.Skipped:
			status = "skipped"
		}
		t.AppendRow(table.Row{s.Locale, s.Received, s.Filled, s.Documents, status})
	}

	if r.EffectiveMode() == ModeMarkdown {
		r.Println(FormatHeader(1, "polyglot import"))
		r.Println(t.RenderMarkdown())
		if len(failures) > 0 {
			r.Println()
			r.Println(FormatHeader(2, "Errors"))
			r.Printf("%s", FormatList(failures))
		}
		return nil
	}

	r.Header(1, "polyglot import")
	t.SetStyle(table.StyleLight)
	r.Println(t.Render())
	for _, f := range failures {
		r.Error(f)
	}
	return nil
}

// RenderHistory writes recorded runs in the effective mode.
func (r *Renderer) RenderHistory(records []*core.RunRecord) error {
	if r.EffectiveMode() == ModeJSON {
		if records == nil {
			records = []*core.RunRecord{}
		}
		return r.JSON(records)
	}

	if len(records) == 0 {
		msg := "No runs recorded yet."
		if r.EffectiveMode() == ModeText {
			msg = r.Muted(msg)
		}
		r.Println(msg)
		return nil
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Run", "Command", "Status", "Started", "Duration", "Locales", "Failed", "Archived"})
	for _, rec := range records {
		t.AppendRow(table.Row{
			shortID(rec.ID),
			rec.Command,
			string(rec.Status),
			rec.StartedAt.Local().Format("2006-01-02 15:04:05"),
			rec.Duration.Round(time.Millisecond).String(),
			rec.Locales,
			rec.Failed,
			rec.Archived,
		})
	}

	if r.EffectiveMode() == ModeMarkdown {
		r.Println(FormatHeader(1, "Run history"))
		r.Println(t.RenderMarkdown())
		return nil
	}

	r.Header(1, "Run history")
	t.SetStyle(table.StyleLight)
	r.Println(t.Render())
	return nil
}

// RenderWarnings writes configuration warnings to stderr.
func (r *Renderer) RenderWarnings(warnings []string) {
	for _, w := range warnings {
		r.Warning(w)
	}
}

func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
