package constants

import "fmt"

const (
	RoleStudent    = "student"
	RoleCounsellor = "counsellor"
	RoleAdmin      = "admin"
)

// Role error templates
const (
	ErrOnlyCounsellorsCanAccess = "only counsellors or admins may access %s"
	ErrOnlyAdminsCanAccess      = "only admins may access %s"
)

func RoleErrorCounsellor(feature string) string {
	return fmt.Sprintf(ErrOnlyCounsellorsCanAccess, feature)
}

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleStudent,
		RoleCounsellor,
		RoleAdmin,
	}

	CounsellorAndAbove = []string{
		RoleCounsellor,
		RoleAdmin,
	}

	AdminOnly = []string{
		RoleAdmin,
	}
)
