package access

import "gorm.io/gorm"

// Columns names the owning employee and department columns of the table being listed.
type Columns struct {
	Employee   string
	Department string
}

// EmployeeColumns targets the employees table itself.
var EmployeeColumns = Columns{Employee: "employees.id", Department: "employees.department_id"}

// Scope returns a gorm scope narrowing a query to d. A scope whose column is not
// configured matches nothing.
func (d ScopeDecision) Scope(cols Columns) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch d.Kind {
		case ScopeAll:
			return db
		case ScopeDepartmentOnly:
			if cols.Department == "" {
				return db.Where("1 = 0")
			}
			return db.Where(cols.Department+" = ?", d.DepartmentID)
		case ScopeSelfOnly:
			if cols.Employee == "" {
				return db.Where("1 = 0")
			}
			return db.Where(cols.Employee+" = ?", d.EmployeeID)
		default:
			return db.Where("1 = 0")
		}
	}
}
