package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/frahmantamala/staff-attendance/internal/access"
	"github.com/spf13/cobra"
)

var authzCmd = &cobra.Command{
	Use:   "authz",
	Short: "Inspect authorization decisions",
	Long:  `Evaluate the built-in role hierarchy and scope rules for a principal without a running server`,
}

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Explain what a principal may see and change",
	Example: `  staff-attendance authz explain --role TeamLeader --employee 7 --department 3 --level 2 \
    --target-employee 9 --target-department 3 --target-level 1 --check SCHEDULE_CREATE_TEAM`,
	RunE: runExplain,
}

var grantsCmd = &cobra.Command{
	Use:   "grants",
	Short: "Print the default role to permission grants",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(access.DefaultGrants())
	},
}

var (
	explainRoles       []string
	explainPermissions []string
	explainChecks      []string
	explainEmployee    int64
	explainDepartment  int64
	explainLevel       int
	targetEmployee     int64
	targetDepartment   int64
	targetLevel        int
)

type explanation struct {
	Roles        []string               `json:"roles"`
	Permissions  []string               `json:"permissions"`
	Definitions  []access.PermissionDef `json:"definitions,omitempty"`
	ListingScope string                 `json:"listing_scope"`
	Checks       map[string]bool        `json:"checks,omitempty"`
	Read         *access.Decision       `json:"read,omitempty"`
	Write        *access.Decision       `json:"write,omitempty"`
	Schedule     *access.Decision       `json:"schedule,omitempty"`
	Claims       access.ClaimSet        `json:"claims"`
	Target       map[string]string      `json:"target,omitempty"`
}

func runExplain(cmd *cobra.Command, _ []string) error {
	authorizer := access.NewAuthorizer(nil, nil)
	for _, role := range explainRoles {
		if !authorizer.Hierarchy().Knows(role) {
			return fmt.Errorf("unknown role %q", role)
		}
	}
	defs, err := permissionDefs(authorizer.Catalog(), append(append([]string{}, explainPermissions...), explainChecks...))
	if err != nil {
		return err
	}

	claims := access.ClaimSet{}
	for _, code := range explainPermissions {
		claims.Add(access.ClaimPermission, code)
	}
	flags := cmd.Flags()
	if flags.Changed("employee") {
		claims.Add(access.ClaimEmployeeID, strconv.FormatInt(explainEmployee, 10))
	}
	if flags.Changed("department") {
		claims.Add(access.ClaimDepartmentID, strconv.FormatInt(explainDepartment, 10))
	}
	if flags.Changed("level") {
		claims.Add(access.ClaimPositionLevel, strconv.Itoa(explainLevel))
	}

	ac := access.BuildContext(access.StaticPrincipal{Roles: explainRoles, Claims: claims})
	out := explanation{
		Roles:        ac.Roles(),
		Permissions:  ac.Permissions(),
		Definitions:  defs,
		ListingScope: authorizer.ResolveListingScope(ac).String(),
		Claims:       claims,
	}

	if len(explainChecks) > 0 {
		out.Checks = make(map[string]bool, len(explainChecks))
		for _, code := range explainChecks {
			out.Checks[code] = authorizer.Authorize(ac, code)
		}
	}

	var target access.Target
	hasTarget := false
	out.Target = map[string]string{}
	if flags.Changed("target-employee") {
		target = target.WithEmployee(targetEmployee)
		out.Target["employee_id"] = strconv.FormatInt(targetEmployee, 10)
		hasTarget = true
	}
	if flags.Changed("target-department") {
		target = target.WithDepartment(targetDepartment)
		out.Target["department_id"] = strconv.FormatInt(targetDepartment, 10)
		hasTarget = true
	}
	if flags.Changed("target-level") {
		target = target.WithPositionLevel(targetLevel)
		out.Target["position_level"] = strconv.Itoa(targetLevel)
		hasTarget = true
	}
	if hasTarget {
		read := authorizer.Explain(ac, target, access.Read)
		write := authorizer.Explain(ac, target, access.Write)
		schedule := authorizer.ExplainSchedule(ac, target)
		out.Read, out.Write, out.Schedule = &read, &write, &schedule
	}

	return printJSON(out)
}

// permissionDefs resolves each distinct code to its catalog entry, in first-seen order.
func permissionDefs(catalog *access.Catalog, codes []string) ([]access.PermissionDef, error) {
	seen := make(map[string]struct{}, len(codes))
	var defs []access.PermissionDef
	for _, code := range codes {
		def, ok := catalog.Lookup(code)
		if !ok {
			return nil, fmt.Errorf("unknown permission code %q", code)
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		defs = append(defs, def)
	}
	return defs, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

func init() {
	f := explainCmd.Flags()
	f.StringSliceVar(&explainRoles, "role", nil, "role held by the principal (repeatable)")
	f.StringSliceVar(&explainPermissions, "permission", nil, "permission claim held by the principal (repeatable)")
	f.StringSliceVar(&explainChecks, "check", nil, "permission code to evaluate (repeatable)")
	f.Int64Var(&explainEmployee, "employee", 0, "principal's employee id")
	f.Int64Var(&explainDepartment, "department", 0, "principal's department id")
	f.IntVar(&explainLevel, "level", 0, "principal's position level")
	f.Int64Var(&targetEmployee, "target-employee", 0, "target employee id")
	f.Int64Var(&targetDepartment, "target-department", 0, "target department id")
	f.IntVar(&targetLevel, "target-level", 0, "target position level; unset counts as 1")

	authzCmd.AddCommand(explainCmd)
	authzCmd.AddCommand(grantsCmd)

	rootCmd.AddCommand(authzCmd)
}
