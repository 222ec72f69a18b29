package clinic

import "strings"

// Provider is a therapist appointments are assigned to.
// The color token is resolved by the active theme and is purely visual.
type Provider struct {
	ID    string
	Name  string
	Color string // theme color token, e.g. "blue", "peach"
}

// DisplayName returns the provider name or a placeholder.
func (p *Provider) DisplayName() string {
	if p == nil || strings.TrimSpace(p.Name) == "" {
		return UnknownName
	}
	return p.Name
}

// Role determines which appointments a user may see.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleProvider Role = "provider"
	RolePatient  Role = "patient"
)

// User is the current identity consumed from the auth collaborator.
// SubjectID is the provider id for RoleProvider and the patient id for
// RolePatient; it is ignored for RoleAdmin.
type User struct {
	SubjectID string
	Role      Role
}

// CanSee applies the role-based visibility floor.
func (u User) CanSee(a *Appointment) bool {
	switch u.Role {
	case RoleProvider:
		return a.ProviderID == u.SubjectID
	case RolePatient:
		return a.PatientID == u.SubjectID
	default:
		return true
	}
}
