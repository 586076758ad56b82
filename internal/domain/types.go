package domain

import (
	"fmt"
	"strings"
)

// Role decides which dashboard a signed-in user lands on.
type Role string

const (
	RolePassenger Role = "passenger"
	RoleAdmin     Role = "admin"
	RoleOperator  Role = "operator"
	RoleSupport   Role = "support"
)

// Roles lists every role in display order.
var Roles = []Role{RolePassenger, RoleAdmin, RoleOperator, RoleSupport}

// ParseRole normalizes s; empty input means passenger.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return RolePassenger, nil
	case RolePassenger, RoleAdmin, RoleOperator, RoleSupport:
		return r, nil
	default:
		return "", ValidationError{Field: "role", Msg: fmt.Sprintf("unknown role %q", s)}
	}
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil && r != ""
}

// DashboardRoute is where a user is sent after authentication.
// Every Role constant must have a case here; the panic catches a new role
// that was added without a route.
func DashboardRoute(r Role) string {
	switch r {
	case RolePassenger:
		return "/profile"
	case RoleAdmin:
		return "/admin"
	case RoleOperator:
		return "/operator"
	case RoleSupport:
		return "/support"
	}
	panic(fmt.Sprintf("domain: no dashboard route for role %q", string(r)))
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func ParseGender(s string) (Gender, error) {
	switch g := Gender(strings.ToLower(strings.TrimSpace(s))); g {
	case GenderMale, GenderFemale, GenderOther:
		return g, nil
	default:
		return "", ValidationError{Field: "gender", Msg: fmt.Sprintf("invalid gender option %q", s)}
	}
}
