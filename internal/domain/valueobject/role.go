package valueobject

import (
	"errors"
	"strings"
)

var (
	ErrRoleUnknown = errors.New("role must be ADMIN or USER")
	ErrPlanUnknown = errors.New("plan must be STANDARD or PREMIUM")
)

// Role is the authorization role of a user.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleUser:
		return RoleUser, nil
	}
	return "", ErrRoleUnknown
}

func (r Role) String() string { return string(r) }

// Plan is the subscription tier of a user.
type Plan string

const (
	PlanStandard Plan = "STANDARD"
	PlanPremium  Plan = "PREMIUM"
)

func ParsePlan(raw string) (Plan, error) {
	switch Plan(strings.ToUpper(strings.TrimSpace(raw))) {
	case PlanStandard:
		return PlanStandard, nil
	case PlanPremium:
		return PlanPremium, nil
	}
	return "", ErrPlanUnknown
}

func (p Plan) String() string { return string(p) }
