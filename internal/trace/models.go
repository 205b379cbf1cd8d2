// Package trace persists step-debugger sessions (spec.md §4.4) so they
// can be inspected after the run finishes, without re-executing the
// program. It is a domain-stack addition grounded on the teacher's
// db/sqlite.go Connect() pattern: one Store interface, backed by
// either a local SQLite file or a remote libSQL/Turso database picked
// by DSN shape.
package trace

import (
	"time"

	"gorm.io/datatypes"
)

// Run is one recorded execution of the debugger.
type Run struct {
	ID         string `gorm:"primaryKey;type:varchar(40)"`
	Source     string `gorm:"type:text"`
	StartedAt  time.Time
	FinishedAt *time.Time
	ExitCode   int
	Error      string `gorm:"type:text"`
}

// Step is one recorded debugger step (spec.md §4.4 step 1-2): the node
// description and a JSON snapshot of the scope chain at that point.
type Step struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	RunID       string `gorm:"type:varchar(40);index"`
	StepNumber  int
	Depth       int
	Description string         `gorm:"type:text"`
	Scope       datatypes.JSON `gorm:"type:jsonb"`
}
