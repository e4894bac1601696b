package handler

import (
	"net/http"

	"github.com/snapcloud/identity-api/internal/domain"
)

// RoleEnvelope describes one role and the authority labels it grants.
type RoleEnvelope struct {
	Name        domain.Role `json:"name"`
	Authorities []string    `json:"authorities"`
}

// ListRoles returns the closed set of roles and their authority mappings.
func ListRoles(w http.ResponseWriter, _ *http.Request) {
	roles := []RoleEnvelope{
		{Name: domain.RoleUser, Authorities: domain.RoleUser.Authorities()},
		{Name: domain.RoleAdmin, Authorities: domain.RoleAdmin.Authorities()},
	}
	writeJSON(w, http.StatusOK, roles)
}
