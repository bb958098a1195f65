// Package authroles maps identity provider groups to application roles.
package authroles

import (
	"strings"

	domainauth "github.com/target/jobboard-api/internal/domain/auth"
)

// StaticRoleMapper grants RoleAdmin to members of AdminGroup and RoleUser to
// members of UserGroup. Group names compare case-insensitively. An empty
// UserGroup lets every authenticated identity in as RoleUser.
type StaticRoleMapper struct {
	AdminGroup string
	UserGroup  string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	if m.AdminGroup != "" && hasGroup(groups, m.AdminGroup) {
		return domainauth.RoleAdmin
	}
	if m.UserGroup == "" || hasGroup(groups, m.UserGroup) {
		return domainauth.RoleUser
	}
	return domainauth.RoleGuest
}

func hasGroup(groups []string, want string) bool {
	want = strings.TrimSpace(want)
	for _, g := range groups {
		if strings.EqualFold(strings.TrimSpace(g), want) {
			return true
		}
	}
	return false
}
