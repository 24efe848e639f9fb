package models

import (
	"time"

	"github.com/lib/pq"
)

// DepartmentAssignment scopes one HOD's write access to a department and
// a set of years.
type DepartmentAssignment struct {
	ID         string        `db:"id" json:"id"`
	HODID      string        `db:"hod_id" json:"hodId"`
	Department string        `db:"department" json:"department"`
	Years      pq.Int64Array `db:"years" json:"years"`
	Batch      string        `db:"batch" json:"batch"`
	CreatedAt  time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time     `db:"updated_at" json:"updatedAt"`
}

// CoversYear reports whether year is within the assignment.
func (a DepartmentAssignment) CoversYear(year int) bool {
	for _, y := range a.Years {
		if int(y) == year {
			return true
		}
	}
	return false
}
