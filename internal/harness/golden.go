package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/alchemist/internal/report"
	"github.com/roach88/alchemist/internal/store"
	"github.com/roach88/alchemist/internal/validate"
)

// TraceSnapshot captures the complete trace for a scenario execution.
// All fields use canonical JSON serialization for deterministic comparison.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	SessionID    string       `json:"session_id,omitempty"`
	Trace        []TraceEvent `json:"trace"`
}

// toCanonicalMap converts a TraceSnapshot to a map[string]any for
// report.MarshalCanonical, which does not reflect over structs.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	traceList := make([]any, len(s.Trace))
	for i, event := range s.Trace {
		eventMap := map[string]any{
			"seq":    event.Seq,
			"action": event.Action,
			"kind":   event.Kind,
		}
		if event.RowID >= 0 {
			eventMap["row_id"] = event.RowID
		}
		if len(event.Detail) > 0 {
			eventMap["detail"] = event.Detail
		}
		if event.Action == string(store.ActionValidate) {
			findings := event.Findings
			if findings == nil {
				findings = []validate.Finding{}
			}
			eventMap["findings"] = findings
		}
		if event.Action == TraceFilter {
			matched := make([]any, len(event.Matched))
			for j, id := range event.Matched {
				matched[j] = id
			}
			eventMap["matched"] = matched
		}
		traceList[i] = eventMap
	}

	result := map[string]any{
		"scenario_name": s.ScenarioName,
		"trace":         traceList,
	}
	if s.SessionID != "" {
		result["session_id"] = s.SessionID
	}
	return result
}

// MarshalTrace renders a result's trace as canonical JSON.
func MarshalTrace(name, sessionID string, result *Result) ([]byte, error) {
	snapshot := TraceSnapshot{
		ScenarioName: name,
		SessionID:    sessionID,
		Trace:        result.Trace,
	}
	return report.MarshalCanonical(snapshot.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the trace doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario, opts ...Option) (*Result, error) {
	t.Helper()

	result, err := Run(scenario, opts...)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, scenario.Session(), result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the given result's trace against a golden file.
// This is useful when you've already run a scenario and want to compare
// the result against a golden file without re-running.
func AssertGolden(t *testing.T, name, sessionID string, result *Result) error {
	t.Helper()

	traceJSON, err := MarshalTrace(name, sessionID, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, traceJSON)
	return nil
}
