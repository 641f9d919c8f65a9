package identity

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/classhub/core"
)

type Role string

// Roles, lowest tier first
const (
	RoleStudent Role = "STUDENT" // regular
	RoleAdmin   Role = "ADMIN"   // super-operator
	RoleDev     Role = "DEV"     // elevated-operator
)

var (
	AllRoles = []Role{RoleStudent, RoleAdmin, RoleDev}

	rolePriorities = map[Role]int{
		RoleDev:     30,
		RoleAdmin:   20,
		RoleStudent: 10,
	}

	RoleOptions = []RoleOption{
		{Name: "Student", Value: RoleStudent},
		{Name: "Admin", Value: RoleAdmin},
		{Name: "Dev", Value: RoleDev},
	}
)

type RoleOption struct {
	Name  string `json:"name"`
	Value Role   `json:"value"`
}

// RolePriority returns 0 for unknown roles.
func RolePriority(role Role) int {
	return rolePriorities[role]
}

func (r Role) Valid() bool {
	_, ok := rolePriorities[r]
	return ok
}

// ParseRole rejects any tag that is not one of AllRoles.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", core.NewValidationError(nil, core.FieldError{Field: "role", Error: errInvalidRoleText})
	}
	return r, nil
}

// Capabilities are the boolean flags derived from a Role.
type Capabilities struct {
	// Elevated is granted to the highest tier only (DEV).
	Elevated bool `json:"isDev"`
	// Super is granted to ADMIN and to everything above it.
	Super bool `json:"isAdmin"`
}

// CapabilitiesOf derives the capabilities of role. It is pure and never cached.
func CapabilitiesOf(role Role) Capabilities {
	p := RolePriority(role)
	return Capabilities{
		Elevated: p >= RolePriority(RoleDev),
		Super:    p >= RolePriority(RoleAdmin),
	}
}

type Identity struct {
	ID            string    `json:"id" validate:"required"`
	Email         string    `json:"email" validate:"required,email"`
	Name          string    `json:"name" validate:"required"`
	Role          Role      `json:"role" validate:"role"`
	StudentNumber string    `json:"studentNumber,omitempty"`
	CreatedAt     time.Time `json:"createdAt"` // UTC
}

func (i Identity) Capabilities() Capabilities {
	return CapabilitiesOf(i.Role)
}

func (i Identity) LogPerson() (id, name, email string) {
	return i.ID, i.Name, i.Email
}

// NewIdentity contains information needed to register a new Identity.
type NewIdentity struct {
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Secret string `json:"secret"`
}

func (ni *NewIdentity) Validate(validate *validator.Validate) error {
	ni.Name = core.CleanString(ni.Name)
	ni.Email = core.CleanEmail(ni.Email)
	return validate.Struct(ni)
}

// Search matches term against names and student numbers, ignoring case.
// An empty term matches everyone.
func Search(identities []Identity, term string) []Identity {
	term = strings.ToLower(strings.TrimSpace(term))
	r := make([]Identity, 0)
	for _, idt := range identities {
		if term == "" ||
			strings.Contains(strings.ToLower(idt.Name), term) ||
			strings.Contains(strings.ToLower(idt.StudentNumber), term) {
			r = append(r, idt)
		}
	}
	return r
}
