package access

type Category string

const (
	CategoryEmployee   Category = "Employee"
	CategoryDepartment Category = "Department"
	CategorySchedule   Category = "Schedule"
	CategoryAttendance Category = "Attendance"
	CategorySystem     Category = "System"
	CategoryReport     Category = "Report"
)

const (
	PermEmployeeView     = "EMPLOYEE_VIEW"
	PermEmployeeViewTeam = "EMPLOYEE_VIEW_TEAM"
	PermEmployeeCreate   = "EMPLOYEE_CREATE"
	PermEmployeeUpdate   = "EMPLOYEE_UPDATE"
	PermEmployeeDelete   = "EMPLOYEE_DELETE"

	PermDepartmentView      = "DEPARTMENT_VIEW"
	PermDepartmentCreate    = "DEPARTMENT_CREATE"
	PermDepartmentUpdate    = "DEPARTMENT_UPDATE"
	PermDepartmentDelete    = "DEPARTMENT_DELETE"
	PermDepartmentManageAll = "DEPARTMENT_MANAGE_ALL"

	PermScheduleView       = "SCHEDULE_VIEW"
	PermScheduleCreate     = "SCHEDULE_CREATE"
	PermScheduleCreateTeam = "SCHEDULE_CREATE_TEAM"
	PermScheduleCreateAll  = "SCHEDULE_CREATE_ALL"
	PermScheduleUpdate     = "SCHEDULE_UPDATE"
	PermScheduleDelete     = "SCHEDULE_DELETE"

	PermAttendanceView     = "ATTENDANCE_VIEW"
	PermAttendanceViewTeam = "ATTENDANCE_VIEW_TEAM"
	PermAttendanceViewAll  = "ATTENDANCE_VIEW_ALL"
	PermAttendanceCreate   = "ATTENDANCE_CREATE"
	PermAttendanceUpdate   = "ATTENDANCE_UPDATE"

	PermUserManagement      = "USER_MANAGEMENT"
	PermRoleManagement      = "ROLE_MANAGEMENT"
	PermSystemConfiguration = "SYSTEM_CONFIGURATION"

	PermReportView     = "REPORT_VIEW"
	PermReportViewTeam = "REPORT_VIEW_TEAM"
	PermReportViewAll  = "REPORT_VIEW_ALL"
	PermReportExport   = "REPORT_EXPORT"
)

// PermissionDef documents a permission code. Category carries no runtime behavior.
type PermissionDef struct {
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
}

// Catalog is the closed set of valid permission codes.
type Catalog struct {
	byCode map[string]PermissionDef
	order  []string
}

func NewCatalog(defs []PermissionDef) *Catalog {
	c := &Catalog{byCode: make(map[string]PermissionDef, len(defs))}
	for _, d := range defs {
		if _, dup := c.byCode[d.Code]; dup {
			continue
		}
		c.byCode[d.Code] = d
		c.order = append(c.order, d.Code)
	}
	return c
}

func DefaultCatalog() *Catalog {
	return NewCatalog(defaultPermissions())
}

func (c *Catalog) IsKnown(code string) bool {
	_, ok := c.byCode[code]
	return ok
}

func (c *Catalog) Lookup(code string) (PermissionDef, bool) {
	d, ok := c.byCode[code]
	return d, ok
}

// All returns every definition in declaration order.
func (c *Catalog) All() []PermissionDef {
	out := make([]PermissionDef, 0, len(c.order))
	for _, code := range c.order {
		out = append(out, c.byCode[code])
	}
	return out
}

func (c *Catalog) ByCategory(cat Category) []PermissionDef {
	var out []PermissionDef
	for _, code := range c.order {
		if d := c.byCode[code]; d.Category == cat {
			out = append(out, d)
		}
	}
	return out
}

func defaultPermissions() []PermissionDef {
	return []PermissionDef{
		{PermEmployeeView, "View Employees", "View employee records", CategoryEmployee},
		{PermEmployeeViewTeam, "View Team Employees", "View employees of the own department", CategoryEmployee},
		{PermEmployeeCreate, "Create Employees", "Create employee records", CategoryEmployee},
		{PermEmployeeUpdate, "Update Employees", "Update employee records", CategoryEmployee},
		{PermEmployeeDelete, "Delete Employees", "Delete employee records", CategoryEmployee},

		{PermDepartmentView, "View Departments", "View departments", CategoryDepartment},
		{PermDepartmentCreate, "Create Departments", "Create departments", CategoryDepartment},
		{PermDepartmentUpdate, "Update Departments", "Update departments", CategoryDepartment},
		{PermDepartmentDelete, "Delete Departments", "Delete departments", CategoryDepartment},
		{PermDepartmentManageAll, "Manage All Departments", "Manage every department", CategoryDepartment},

		{PermScheduleView, "View Schedules", "View shift assignments", CategorySchedule},
		{PermScheduleCreate, "Create Schedules", "Create shift assignments", CategorySchedule},
		{PermScheduleCreateTeam, "Create Team Schedules", "Create shift assignments for the own department", CategorySchedule},
		{PermScheduleCreateAll, "Create All Schedules", "Create shift assignments for any department", CategorySchedule},
		{PermScheduleUpdate, "Update Schedules", "Update shift assignments", CategorySchedule},
		{PermScheduleDelete, "Delete Schedules", "Delete shift assignments", CategorySchedule},

		{PermAttendanceView, "View Attendance", "View own attendance", CategoryAttendance},
		{PermAttendanceViewTeam, "View Team Attendance", "View attendance of the own department", CategoryAttendance},
		{PermAttendanceViewAll, "View All Attendance", "View attendance of every department", CategoryAttendance},
		{PermAttendanceCreate, "Record Attendance", "Check in and check out", CategoryAttendance},
		{PermAttendanceUpdate, "Update Attendance", "Correct attendance records", CategoryAttendance},

		{PermUserManagement, "User Management", "Manage user accounts", CategorySystem},
		{PermRoleManagement, "Role Management", "Manage roles and grants", CategorySystem},
		{PermSystemConfiguration, "System Configuration", "Change system settings", CategorySystem},

		{PermReportView, "View Reports", "View own reports", CategoryReport},
		{PermReportViewTeam, "View Team Reports", "View reports of the own department", CategoryReport},
		{PermReportViewAll, "View All Reports", "View reports of every department", CategoryReport},
		{PermReportExport, "Export Reports", "Export reports", CategoryReport},
	}
}
