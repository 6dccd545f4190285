// Package models holds the domain rows stored in the data store.
package models

// RoleType defines the account role stored on a profile
type RoleType string

const (
	RoleGraduate      RoleType = "graduado"
	RoleFacilitator   RoleType = "facilitador"
	RoleAdministrator RoleType = "administrador"
)

// Valid reports whether r is one of the known roles
func (r RoleType) Valid() bool {
	switch r {
	case RoleGraduate, RoleFacilitator, RoleAdministrator:
		return true
	}
	return false
}
