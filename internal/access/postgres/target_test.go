package postgres_test

import (
	"context"

	"github.com/frahmantamala/staff-attendance/internal/access"
	accessPostgres "github.com/frahmantamala/staff-attendance/internal/access/postgres"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("TargetRepository", func() {
	var (
		db   *sqlx.DB
		repo *accessPostgres.TargetRepository
		ctx  context.Context
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, err = sqlx.Open("sqlite3", ":memory:")
		Expect(err).NotTo(HaveOccurred())
		db.SetMaxOpenConns(1)

		db.MustExec(`CREATE TABLE work_positions (id INTEGER PRIMARY KEY, level INTEGER NOT NULL)`)
		db.MustExec(`CREATE TABLE employees (id INTEGER PRIMARY KEY, department_id INTEGER NOT NULL, work_position_id INTEGER)`)
		db.MustExec(`INSERT INTO work_positions (id, level) VALUES (1, 1), (3, 3)`)
		db.MustExec(`INSERT INTO employees (id, department_id, work_position_id) VALUES (10, 5, 3), (11, 5, 99)`)

		repo = accessPostgres.NewTargetRepository(db)
	})

	AfterEach(func() {
		Expect(db.Close()).To(Succeed())
	})

	It("should load department and position level", func() {
		// When
		target, err := repo.EmployeeTarget(ctx, 10)

		// Then
		Expect(err).NotTo(HaveOccurred())
		Expect(target).To(Equal(access.Target{}.WithEmployee(10).WithDepartment(5).WithPositionLevel(3)))
	})

	It("should leave the level unset when the position is missing", func() {
		target, err := repo.EmployeeTarget(ctx, 11)

		Expect(err).NotTo(HaveOccurred())
		Expect(target.PositionLevel).To(BeNil())
		Expect(*target.DepartmentID).To(Equal(int64(5)))
	})

	It("should report unknown employees", func() {
		_, err := repo.EmployeeTarget(ctx, 404)
		Expect(err).To(MatchError(accessPostgres.ErrTargetNotFound))
	})

	It("should feed the write rules", func() {
		// Given a team leader of department 5
		leader := access.BuildContext(access.StaticPrincipal{
			Roles:  []string{access.RoleTeamLeader},
			Claims: access.ClaimSet{access.ClaimDepartmentID: {"5"}},
		})
		authz := access.NewAuthorizer(nil, nil)

		manager, err := repo.EmployeeTarget(ctx, 10)
		Expect(err).NotTo(HaveOccurred())
		unpositioned, err := repo.EmployeeTarget(ctx, 11)
		Expect(err).NotTo(HaveOccurred())

		// Then the level 3 employee is out of reach and the unpositioned one counts as level 1
		Expect(authz.AuthorizeScope(leader, manager, access.Write)).To(BeFalse())
		Expect(authz.AuthorizeScope(leader, unpositioned, access.Write)).To(BeTrue())
	})
})
