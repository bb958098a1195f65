package authroles

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/target/jobboard-api/internal/domain/auth"
)

func TestStaticRoleMapper_Map(t *testing.T) {
	tests := []struct {
		name   string
		mapper StaticRoleMapper
		groups []string
		want   domainauth.Role
	}{
		{
			name:   "admin wins over user",
			mapper: StaticRoleMapper{AdminGroup: "jobboard-admins", UserGroup: "staff"},
			groups: []string{"staff", "jobboard-admins"},
			want:   domainauth.RoleAdmin,
		},
		{
			name:   "case insensitive",
			mapper: StaticRoleMapper{AdminGroup: "Jobboard-Admins", UserGroup: "staff"},
			groups: []string{"JOBBOARD-ADMINS"},
			want:   domainauth.RoleAdmin,
		},
		{
			name:   "user group member",
			mapper: StaticRoleMapper{AdminGroup: "jobboard-admins", UserGroup: "staff"},
			groups: []string{"staff"},
			want:   domainauth.RoleUser,
		},
		{
			name:   "not in any group",
			mapper: StaticRoleMapper{AdminGroup: "jobboard-admins", UserGroup: "staff"},
			groups: []string{"contractors"},
			want:   domainauth.RoleGuest,
		},
		{
			name:   "empty user group admits everyone",
			mapper: StaticRoleMapper{AdminGroup: "jobboard-admins"},
			groups: nil,
			want:   domainauth.RoleUser,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.mapper.Map(tt.groups))
		})
	}
}
