// Package records describes the three record tables and converts their rows
// of cells to and from typed models.
package records

import "fmt"

// SchemaVersion is bumped whenever a table or header changes.
const SchemaVersion = 1

// TableDef names a table and its fixed header row.
type TableDef struct {
	Name    string   // logical name, also the collection name for document stores
	Sheet   string   // worksheet holding the table
	Table   string   // structured table name inside the sheet
	Headers []string // column order of every row
}

// Width is the number of cells in a well-formed row.
func (t TableDef) Width() int { return len(t.Headers) }

var (
	Leads = TableDef{
		Name:  "leads",
		Sheet: "Leads",
		Table: "LeadsTable",
		Headers: []string{
			"ID", "Created On", "Last Updated", "Owner", "Account", "Name", "Title/Role", "Email", "Phone",
			"City/State", "Source", "Priority", "Status", "Stage", "Est. Value ($)", "Close Date", "Notes",
		},
	}
	Activities = TableDef{
		Name:    "activities",
		Sheet:   "Activities",
		Table:   "ActivitiesTable",
		Headers: []string{"Timestamp", "Lead ID", "Owner", "Type", "Notes", "Next Step", "Due Date"},
	}
	Accounts = TableDef{
		Name:    "accounts",
		Sheet:   "Accounts",
		Table:   "AccountsTable",
		Headers: []string{"Account ID", "Account Name", "Type", "Owner", "City/State", "Website", "Priority", "Status", "Notes"},
	}
)

// Schema is the declared target layout applied by store migrations.
type Schema struct {
	Version int
	Tables  []TableDef
}

// Current returns the schema every store migrates to.
func Current() Schema {
	return Schema{Version: SchemaVersion, Tables: []TableDef{Leads, Activities, Accounts}}
}

// Lookup finds a table by logical name.
func (s Schema) Lookup(name string) (TableDef, error) {
	for _, t := range s.Tables {
		if t.Name == name {
			return t, nil
		}
	}
	return TableDef{}, fmt.Errorf("%w: %q", ErrUnknownTable, name)
}
