package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/frahmantamala/staff-attendance/internal/access"
	"github.com/frahmantamala/staff-attendance/internal/core/datamodel"
	departmentModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/department"
	employeeModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/employee"
	shiftModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/shift"
	userModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/user"
	workpositionModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/workposition"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var seedPassword string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed roles, the permission catalog, default grants and a sample organisation for development and testing.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		db, err := openGorm(sqlDB)
		if err != nil {
			log.Fatal(err)
		}

		hierarchy, err := cfg.Authorization.Hierarchy()
		if err != nil {
			log.Fatal(err)
		}

		if err := db.Transaction(func(tx *gorm.DB) error {
			if clearData {
				if err := clearSeededData(tx); err != nil {
					return err
				}
				fmt.Println("Cleared existing data")
			}
			return seed(tx, hierarchy, cfg.Security.BCryptCost)
		}); err != nil {
			log.Fatalf("seeding failed: %v", err)
		}
		fmt.Println("Seeding completed")
	},
}

var roleDescriptions = map[string]string{
	access.RoleSuperAdmin: "Super Administrator with full system access",
	access.RoleAdmin:      "Administrator with system management access",
	access.RoleDirector:   "Director with organisation wide access; schedules any employee",
	access.RoleManager:    "Manager with departmental access and team management",
	access.RoleHR:         "Human Resources with employee management access",
	access.RoleTeamLeader: "Team Leader who schedules staff of their own department",
	access.RoleEmployee:   "Employee with access to personal data and schedules",
	access.RoleUser:       "Basic user with read-only access",
}

type seedUser struct {
	Email        string
	FullName     string
	Roles        []string
	EmployeeCode string
}

var seedUsers = []seedUser{
	{Email: "admin@staff.local", FullName: "System Administrator", Roles: []string{access.RoleSuperAdmin, access.RoleAdmin}},
	{Email: "director@staff.local", FullName: "Robert Director", Roles: []string{access.RoleDirector, access.RoleUser}, EmployeeCode: "EMP003"},
	{Email: "manager@staff.local", FullName: "John Manager", Roles: []string{access.RoleManager, access.RoleUser}, EmployeeCode: "EMP004"},
	{Email: "teamleader@staff.local", FullName: "Sarah TeamLeader", Roles: []string{access.RoleTeamLeader, access.RoleUser}, EmployeeCode: "EMP002"},
	{Email: "hr@staff.local", FullName: "Jane HR", Roles: []string{access.RoleHR, access.RoleUser}, EmployeeCode: "EMP005"},
	{Email: "employee@staff.local", FullName: "John Developer", Roles: []string{access.RoleEmployee, access.RoleUser}, EmployeeCode: "EMP001"},
	{Email: "user@staff.local", FullName: "Alice User", Roles: []string{access.RoleUser}},
}

func seed(tx *gorm.DB, hierarchy *access.Hierarchy, bcryptCost int) error {
	roleIDs, err := seedRoles(tx, hierarchy)
	if err != nil {
		return err
	}
	permissionIDs, err := seedPermissions(tx)
	if err != nil {
		return err
	}
	if err := seedGrants(tx, roleIDs, permissionIDs); err != nil {
		return err
	}
	if err := seedOrganisation(tx); err != nil {
		return err
	}
	if err := seedShifts(tx); err != nil {
		return err
	}
	return seedAccounts(tx, roleIDs, bcryptCost)
}

func seedRoles(tx *gorm.DB, hierarchy *access.Hierarchy) (map[string]int64, error) {
	for _, name := range hierarchy.Roles() {
		role := userModel.Role{Name: name, Rank: hierarchy.RankOf(name), Description: roleDescriptions[name]}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"rank", "description"}),
		}).Create(&role).Error
		if err != nil {
			return nil, fmt.Errorf("seed role %s: %w", name, err)
		}
	}

	var roles []userModel.Role
	if err := tx.Find(&roles).Error; err != nil {
		return nil, err
	}
	ids := make(map[string]int64, len(roles))
	for _, r := range roles {
		ids[r.Name] = r.ID
	}
	fmt.Printf("Seeded %d roles\n", len(ids))
	return ids, nil
}

func seedPermissions(tx *gorm.DB) (map[string]int64, error) {
	for _, def := range access.DefaultCatalog().All() {
		p := userModel.Permission{Code: def.Code, Name: def.Name, Description: def.Description, Category: string(def.Category)}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "description", "category"}),
		}).Create(&p).Error
		if err != nil {
			return nil, fmt.Errorf("seed permission %s: %w", def.Code, err)
		}
	}

	var perms []userModel.Permission
	if err := tx.Find(&perms).Error; err != nil {
		return nil, err
	}
	ids := make(map[string]int64, len(perms))
	for _, p := range perms {
		ids[p.Code] = p.ID
	}
	fmt.Printf("Seeded %d permissions\n", len(ids))
	return ids, nil
}

func seedGrants(tx *gorm.DB, roleIDs, permissionIDs map[string]int64) error {
	var rows []userModel.RolePermission
	for role, codes := range access.DefaultGrants() {
		roleID, ok := roleIDs[role]
		if !ok {
			continue
		}
		for _, code := range codes {
			rows = append(rows, userModel.RolePermission{RoleID: roleID, PermissionID: permissionIDs[code]})
		}
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
		return fmt.Errorf("seed grants: %w", err)
	}
	fmt.Printf("Granted %d role permissions\n", len(rows))
	return nil
}

func seedOrganisation(tx *gorm.DB) error {
	departments := []departmentModel.Department{
		{Code: "IT", Name: "Information Technology", Description: "Software and infrastructure", IsActive: true},
		{Code: "HR", Name: "Human Resources", Description: "People operations", IsActive: true},
		{Code: "FIN", Name: "Finance", Description: "Accounting and payroll", IsActive: true},
		{Code: "MKT", Name: "Marketing", Description: "Brand and campaigns", IsActive: true},
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&departments).Error; err != nil {
		return fmt.Errorf("seed departments: %w", err)
	}

	positions := []workpositionModel.WorkPosition{
		{Code: "INT", Name: "Intern", Level: workpositionModel.LevelStaff, BaseSalary: salary(20000), IsActive: true},
		{Code: "DEV", Name: "Developer", Level: workpositionModel.LevelStaff, BaseSalary: salary(50000), IsActive: true},
		{Code: "TL", Name: "Team Leader", Level: workpositionModel.LevelLeader, BaseSalary: salary(60000), IsActive: true},
		{Code: "PM", Name: "Project Manager", Level: workpositionModel.LevelManager, BaseSalary: salary(75000), IsActive: true},
		{Code: "DIR", Name: "Director", Level: workpositionModel.LevelDirector, BaseSalary: salary(120000), IsActive: true},
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&positions).Error; err != nil {
		return fmt.Errorf("seed work positions: %w", err)
	}

	dept := lookupIDs(tx, &departmentModel.Department{})
	pos := lookupIDs(tx, &workpositionModel.WorkPosition{})

	employees := []employeeModel.Employee{
		newSeedEmployee("EMP001", "John Developer", 1990, 1, 15, "john.dev@staff.local", dept["IT"], pos["DEV"]),
		newSeedEmployee("EMP002", "Sarah TeamLeader", 1988, 3, 20, "sarah.tl@staff.local", dept["IT"], pos["TL"]),
		newSeedEmployee("EMP003", "Robert Director", 1985, 7, 10, "robert.dir@staff.local", dept["IT"], pos["DIR"]),
		newSeedEmployee("EMP004", "John Manager", 1987, 11, 2, "john.mgr@staff.local", dept["FIN"], pos["PM"]),
		newSeedEmployee("EMP005", "Jane HR", 1992, 5, 8, "jane.hr@staff.local", dept["HR"], pos["DEV"]),
		newSeedEmployee("EMP006", "Ian Intern", 2002, 9, 30, "ian.intern@staff.local", dept["IT"], pos["INT"]),
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&employees).Error; err != nil {
		return fmt.Errorf("seed employees: %w", err)
	}

	// Sarah leads IT
	var leader employeeModel.Employee
	if err := tx.Where("code = ?", "EMP002").First(&leader).Error; err != nil {
		return fmt.Errorf("lookup IT leader: %w", err)
	}
	if err := tx.Model(&departmentModel.Department{}).Where("code = ? AND leader_id IS NULL", "IT").
		Update("leader_id", leader.ID).Error; err != nil {
		return fmt.Errorf("assign IT leader: %w", err)
	}

	fmt.Printf("Seeded %d departments, %d work positions, %d employees\n", len(departments), len(positions), len(employees))
	return nil
}

func seedShifts(tx *gorm.DB) error {
	var count int64
	if err := tx.Model(&shiftModel.Shift{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		fmt.Println("shifts already exist; skipping")
		return nil
	}

	shifts := []shiftModel.Shift{
		{Name: "Morning Shift", Type: shiftModel.TypeMorning, StartTime: "08:00", EndTime: "16:00", IsActive: true},
		{Name: "Afternoon Shift", Type: shiftModel.TypeAfternoon, StartTime: "14:00", EndTime: "22:00", IsActive: true},
		{Name: "Night Shift", Type: shiftModel.TypeNight, StartTime: "22:00", EndTime: "06:00", IsActive: true},
		{Name: "Overtime", Type: shiftModel.TypeOvertime, StartTime: "18:00", EndTime: "21:00", IsActive: true},
	}
	if err := tx.Create(&shifts).Error; err != nil {
		return fmt.Errorf("seed shifts: %w", err)
	}
	fmt.Printf("Seeded %d shifts\n", len(shifts))
	return nil
}

func seedAccounts(tx *gorm.DB, roleIDs map[string]int64, bcryptCost int) error {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	for _, su := range seedUsers {
		var existing int64
		if err := tx.Model(&userModel.User{}).Where("email = ?", su.Email).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			fmt.Println(su.Email, "already exists; skipping")
			continue
		}

		u := userModel.User{Email: su.Email, FullName: su.FullName, PasswordHash: string(hash), IsActive: true}
		if su.EmployeeCode != "" {
			var emp employeeModel.Employee
			if err := tx.Where("code = ?", su.EmployeeCode).First(&emp).Error; err == nil {
				u.EmployeeID = &emp.ID
			}
		}
		if err := tx.Omit(clause.Associations).Create(&u).Error; err != nil {
			return fmt.Errorf("seed user %s: %w", su.Email, err)
		}

		links := make([]userModel.UserRole, 0, len(su.Roles))
		for _, role := range su.Roles {
			links = append(links, userModel.UserRole{UserID: u.ID, RoleID: roleIDs[role]})
		}
		if err := tx.Create(&links).Error; err != nil {
			return fmt.Errorf("assign roles to %s: %w", su.Email, err)
		}
		fmt.Println("Seeded user:", su.Email, su.Roles)
	}
	return nil
}

func clearSeededData(tx *gorm.DB) error {
	for _, table := range []string{
		"access_audit_logs", "shift_assignments", "user_roles", "role_permissions",
		"users", "permissions", "roles", "shifts", "employees", "work_positions", "departments",
	} {
		if err := tx.Exec("TRUNCATE TABLE " + table + " RESTART IDENTITY CASCADE").Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

// lookupIDs maps code to id for a table with a code column.
func lookupIDs(tx *gorm.DB, model any) map[string]int64 {
	var rows []struct {
		ID   int64
		Code string
	}
	tx.Model(model).Select("id", "code").Scan(&rows)
	ids := make(map[string]int64, len(rows))
	for _, r := range rows {
		ids[r.Code] = r.ID
	}
	return ids
}

func newSeedEmployee(code, name string, year int, month time.Month, day int, email string, departmentID, positionID int64) employeeModel.Employee {
	return employeeModel.Employee{
		Code:           code,
		FullName:       name,
		DateOfBirth:    datamodel.NewDate(time.Date(year, month, day, 0, 0, 0, 0, time.UTC)),
		Email:          email,
		DepartmentID:   departmentID,
		WorkPositionID: positionID,
		IsActive:       true,
	}
}

func salary(amount int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(amount))
}

func init() {
	seedCmd.Flags().StringVar(&seedPassword, "password", "Password123!", "Password given to every seeded account")
}
