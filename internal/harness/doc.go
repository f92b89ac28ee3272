// Package harness runs scripted editing sessions against the engine and
// checks the outcome.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario checks"
//	session_id: fixed-session        # optional
//	duplicate_ids: per_column        # optional, default global
//	steps:
//	  - ingest: { kind: workers, file: workers.csv }
//	  - ingest:
//	      kind: tasks
//	      rows:
//	        - { TaskID: T1, RequiredSkills: "go, sql" }
//	  - edit: { kind: tasks, row_id: 0, set: { RequiredSkills: go } }
//	  - revalidate: { kind: tasks }
//	  - filter: { kind: tasks, query: "TaskID = T1" }
//	  - export: { path: tasks.xlsx }
//	assertions:
//	  - { type: finding_count, kind: tasks, code: V004, count: 0 }
//	  - { type: finding_at, kind: tasks, row: 0, column: RequiredSkills }
//	  - { type: view_count, kind: tasks, query: "go", count: 1 }
//	  - { type: cell_value, kind: tasks, row: 0, column: TaskID, value: T1 }
//
// Filter and export steps without a kind read the active collection, the
// one ingested last. Revalidate reruns validation of a collection that did
// not change itself, typically clients or tasks after workers changed.
//
// Inline rows keep their column order. YAML numbers become numeric cells,
// null becomes a missing cell and everything else is text.
//
// # Deterministic Testing
//
// Every run uses a fresh engine with an in-memory SQLite journal, a fixed
// session id and a logical clock starting at 1. The trace is read back from
// the journal after each step, so identical scenarios produce byte-identical
// traces for golden comparison (testdata/golden, via goldie).
package harness
