package validate

import "fmt"

// Finding codes (V001-V099)
const (
	CodeMissingValue  = "V001" // empty, null or absent cell
	CodeDuplicateID   = "V002" // repeated value in an id-like column
	CodePriorityRange = "V003" // PriorityLevel not an integer in [1,5]
	CodeUnknownSkill  = "V004" // required skill no worker has
)

// Finding messages.
const (
	MsgMissingValue  = "Missing value"
	MsgDuplicateID   = "Duplicate ID"
	MsgPriorityRange = "PriorityLevel must be between 1 and 5."
	msgUnknownSkill  = "No worker found with required skill: %s"
)

// Column names with dedicated rules.
const (
	ColumnPriorityLevel  = "PriorityLevel"
	ColumnRequiredSkills = "RequiredSkills"
	ColumnSkills         = "Skills"
)

// Finding is a single validation issue tied to a row and column.
//
// Findings are data, not errors: a validation pass always completes and
// reports everything it found.
type Finding struct {
	// RowID is the record's position in the collection passed to Validate.
	RowID   int    `json:"rowId"`
	Column  string `json:"column"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// String renders the finding the way the validation summary lists it,
// with a 1-based row number.
func (f Finding) String() string {
	return fmt.Sprintf("Row %d, Column %s: %s", f.RowID+1, f.Column, f.Message)
}

// UnknownSkillMessage formats the skill-coverage message for skill.
func UnknownSkillMessage(skill string) string {
	return fmt.Sprintf(msgUnknownSkill, skill)
}

// ForRow returns the findings reported for one row, in order.
func ForRow(findings []Finding, rowID int) []Finding {
	var out []Finding
	for _, f := range findings {
		if f.RowID == rowID {
			out = append(out, f)
		}
	}
	return out
}

// HasFinding reports whether any finding targets the given cell.
// Renderers use it to mark error cells.
func HasFinding(findings []Finding, rowID int, column string) bool {
	for _, f := range findings {
		if f.RowID == rowID && f.Column == column {
			return true
		}
	}
	return false
}
