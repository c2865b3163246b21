package access

// DefaultGrants is the permission set each built-in role receives when the database is
// seeded. Operators may change grants afterwards; requests only see what the token carries.
func DefaultGrants() map[string][]string {
	all := make([]string, 0, len(defaultPermissions()))
	for _, d := range defaultPermissions() {
		all = append(all, d.Code)
	}

	return map[string][]string{
		RoleSuperAdmin: all,
		RoleAdmin:      all,
		RoleDirector: {
			PermEmployeeView, PermEmployeeViewTeam, PermEmployeeCreate, PermEmployeeUpdate,
			PermDepartmentView, PermDepartmentManageAll,
			PermScheduleView, PermScheduleCreate, PermScheduleCreateAll, PermScheduleUpdate, PermScheduleDelete,
			PermAttendanceView, PermAttendanceViewAll, PermAttendanceUpdate,
			PermReportView, PermReportViewAll, PermReportExport,
		},
		RoleManager: {
			PermEmployeeViewTeam, PermEmployeeUpdate,
			PermDepartmentView,
			PermScheduleView, PermScheduleCreate, PermScheduleCreateTeam, PermScheduleUpdate, PermScheduleDelete,
			PermAttendanceView, PermAttendanceViewTeam, PermAttendanceUpdate,
			PermReportView, PermReportViewTeam,
		},
		RoleHR: {
			PermEmployeeView, PermEmployeeCreate, PermEmployeeUpdate, PermEmployeeDelete,
			PermDepartmentView, PermDepartmentCreate, PermDepartmentUpdate,
			PermScheduleView, PermScheduleCreate, PermScheduleCreateAll, PermScheduleUpdate,
			PermAttendanceView, PermAttendanceViewAll, PermAttendanceUpdate,
			PermReportView, PermReportViewAll, PermReportExport,
		},
		RoleTeamLeader: {
			PermEmployeeViewTeam, PermEmployeeUpdate,
			PermDepartmentView,
			PermScheduleView, PermScheduleCreate, PermScheduleCreateTeam, PermScheduleUpdate,
			PermAttendanceView, PermAttendanceViewTeam, PermAttendanceCreate,
			PermReportView, PermReportViewTeam,
		},
		RoleEmployee: {
			PermEmployeeView,
			PermDepartmentView,
			PermScheduleView,
			PermAttendanceView, PermAttendanceCreate,
		},
		RoleUser: {
			PermDepartmentView,
		},
	}
}

// DefaultRoleFor is the role an account linked to an employee starts with when none is
// given. Department leaders become Managers; otherwise the work position level decides.
func DefaultRoleFor(leadsDepartment bool, positionLevel int) string {
	if leadsDepartment {
		return RoleManager
	}
	switch positionLevel {
	case 3:
		return RoleTeamLeader
	case 4:
		return RoleDirector
	case 5:
		return RoleManager
	default:
		return RoleEmployee
	}
}
