package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/alchemist/internal/dataset"
	"github.com/roach88/alchemist/internal/store"
	"github.com/roach88/alchemist/internal/validate"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Journal   string
	SessionID string
	Action    string // optional - filter to one action
}

// TraceEvent represents a single journaled event in the timeline.
type TraceEvent struct {
	Seq      int64              `json:"seq"`
	Action   string             `json:"action"`
	Kind     string             `json:"kind"`
	Row      int                `json:"row,omitempty"` // 1-based; 0 when the event has no row
	Detail   map[string]string  `json:"detail,omitempty"`
	Findings []validate.Finding `json:"findings,omitempty"`
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	SessionID string       `json:"session_id"`
	Timeline  []TraceEvent `json:"timeline"`
	Stats     TraceStats   `json:"stats"`
}

// TraceStats holds summary statistics for the session.
type TraceStats struct {
	TotalEvents int            `json:"total_events"`
	Ingests     int            `json:"ingests"`
	Edits       int            `json:"edits"`
	Validations int            `json:"validations"`
	Open        map[string]int `json:"open_findings"` // latest findings per kind
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show the journal of a session",
		Long: `Show what a session did: every ingest, edit and validation pass in
order, with the findings the latest pass of each collection left open.

Without --session, lists the sessions stored in the journal.

Examples:
  alchemist trace --journal session.db
  alchemist trace --journal session.db --session 0190d6c4-...
  alchemist trace --journal session.db --session 0190d6c4-... --action edit --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", "", "path to SQLite journal (required)")
	_ = cmd.MarkFlagRequired("journal")
	cmd.Flags().StringVar(&opts.SessionID, "session", "", "session id to trace")
	cmd.Flags().StringVar(&opts.Action, "action", "", "filter to one action: ingest, edit or validate")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := opts.formatter(cmd)

	st, err := store.Open(opts.Journal)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeJournal, "failed to open journal", err)
	}
	defer st.Close()

	if opts.SessionID == "" {
		return listSessions(ctx, st, formatter)
	}

	events, err := st.ReadEvents(ctx, opts.SessionID)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeJournal, "failed to read events", err)
	}

	// Check if session exists
	if len(events) == 0 {
		if formatter.Format == "json" {
			return formatter.writeJSON(CLIResponse{
				Status: "ok",
				Data: TraceResult{
					SessionID: opts.SessionID,
					Timeline:  []TraceEvent{},
					Stats:     TraceStats{Open: map[string]int{}},
				},
			})
		}
		fmt.Fprintf(formatter.Writer, "No events found for session: %s\n", opts.SessionID)
		return nil
	}

	timeline, err := buildTimeline(ctx, st, opts.SessionID, events, opts.Action)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeJournal, "failed to read findings", err)
	}

	stats, err := buildStats(ctx, st, opts.SessionID, events)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeJournal, "failed to read findings", err)
	}

	result := TraceResult{
		SessionID: opts.SessionID,
		Timeline:  timeline,
		Stats:     stats,
	}

	if formatter.Format == "json" {
		return formatter.writeJSON(CLIResponse{Status: "ok", Data: result, SessionID: opts.SessionID})
	}
	outputTraceText(formatter, result)
	return nil
}

func listSessions(ctx context.Context, st *store.Store, formatter *OutputFormatter) error {
	sessions, err := st.Sessions(ctx)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeJournal, "failed to list sessions", err)
	}

	if formatter.Format == "json" {
		return formatter.writeJSON(CLIResponse{Status: "ok", Data: map[string]any{"sessions": sessions}})
	}
	if len(sessions) == 0 {
		fmt.Fprintln(formatter.Writer, "No sessions in journal.")
		return nil
	}
	for _, s := range sessions {
		fmt.Fprintln(formatter.Writer, s)
	}
	return nil
}

// buildTimeline converts journal events to timeline events. When
// actionFilter is set, only events of that action are kept.
func buildTimeline(ctx context.Context, st *store.Store, sessionID string, events []store.Event, actionFilter string) ([]TraceEvent, error) {
	timeline := []TraceEvent{}
	for _, ev := range events {
		if actionFilter != "" && string(ev.Action) != actionFilter {
			continue
		}
		te := TraceEvent{
			Seq:    ev.Seq,
			Action: string(ev.Action),
			Kind:   string(ev.Kind),
			Detail: ev.Detail,
		}
		if ev.RowID != store.NoRow {
			te.Row = ev.RowID + 1
		}
		if ev.Action == store.ActionValidate {
			findings, err := st.ReadFindings(ctx, sessionID, ev.Seq)
			if err != nil {
				return nil, err
			}
			te.Findings = findings
		}
		timeline = append(timeline, te)
	}
	return timeline, nil
}

func buildStats(ctx context.Context, st *store.Store, sessionID string, events []store.Event) (TraceStats, error) {
	stats := TraceStats{
		TotalEvents: len(events),
		Open:        make(map[string]int),
	}
	for _, ev := range events {
		switch ev.Action {
		case store.ActionIngest:
			stats.Ingests++
		case store.ActionEdit:
			stats.Edits++
		case store.ActionValidate:
			stats.Validations++
		}
	}

	for _, kind := range dataset.Kinds {
		seq, findings, err := st.LatestFindings(ctx, sessionID, kind)
		if err != nil {
			return TraceStats{}, err
		}
		if seq > 0 {
			stats.Open[string(kind)] = len(findings)
		}
	}
	return stats, nil
}

// outputTraceText outputs the trace as human-readable text.
func outputTraceText(formatter *OutputFormatter, result TraceResult) {
	w := formatter.Writer

	fmt.Fprintf(w, "Session: %s\n", result.SessionID)
	fmt.Fprintf(w, "Events: %d (%d ingest, %d edit, %d validate)\n",
		result.Stats.TotalEvents, result.Stats.Ingests, result.Stats.Edits, result.Stats.Validations)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Timeline:")
	for _, ev := range result.Timeline {
		fmt.Fprintf(w, "  [%d] %-8s %-8s", ev.Seq, strings.ToUpper(ev.Action), ev.Kind)
		if ev.Row > 0 {
			fmt.Fprintf(w, " row=%d", ev.Row)
		}
		if len(ev.Detail) > 0 {
			fmt.Fprintf(w, " %s", formatDetail(ev.Detail))
		}
		fmt.Fprintln(w)
		if formatter.Verbose {
			for _, f := range ev.Findings {
				fmt.Fprintf(w, "       [%s] %s\n", f.Code, f)
			}
		}
	}

	if len(result.Stats.Open) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Open findings:")
		kinds := make([]string, 0, len(result.Stats.Open))
		for k := range result.Stats.Open {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			fmt.Fprintf(w, "  %-8s %d\n", k, result.Stats.Open[k])
		}
	}
}

// formatDetail formats event detail for display.
// Uses sorted keys to ensure deterministic output.
func formatDetail(detail map[string]string) string {
	if len(detail) == 0 {
		return "{}"
	}

	keys := make([]string, 0, len(detail))
	for k := range detail {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, detail[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
