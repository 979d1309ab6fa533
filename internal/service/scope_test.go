package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/observation-analytics-api/internal/models"
	appErrors "github.com/noah-isme/observation-analytics-api/pkg/errors"
)

func TestResolveScope(t *testing.T) {
	location := models.Location{ZoneID: "z-1", ProvinceID: "p-1", ClusterID: "c-1", SchoolID: "s-1"}
	cases := []struct {
		name  string
		actor models.Actor
		want  models.ScopePredicate
	}{
		{name: "admin", actor: models.Actor{ID: "a", Role: models.RoleAdmin}, want: models.UnrestrictedScope()},
		{name: "zone manager", actor: models.Actor{ID: "z", Role: models.RoleZoneManager, Location: location}, want: models.SubtreeScope(models.LevelZone, "z-1")},
		{name: "cluster manager", actor: models.Actor{ID: "c", Role: models.RoleClusterManager, Location: location}, want: models.SubtreeScope(models.LevelCluster, "c-1")},
		{name: "director", actor: models.Actor{ID: "d", Role: models.RoleSchoolDirector, Location: location}, want: models.SubtreeScope(models.LevelSchool, "s-1")},
		{name: "manager without assignment", actor: models.Actor{ID: "m", Role: models.RoleDepartmentManager, Location: location}, want: models.ObserverScope("m")},
		{name: "observer", actor: models.Actor{ID: "o", Role: models.RoleObserver, Location: location}, want: models.ObserverScope("o")},
		{name: "teacher", actor: models.Actor{ID: "t", Role: models.RoleTeacher}, want: models.ObserverScope("t")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ResolveScope(tc.actor)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.False(t, got.Empty())
		})
	}
}

func TestResolveScopeRejectsUnknownRoleAndAnonymous(t *testing.T) {
	_, err := ResolveScope(models.Actor{ID: "x", Role: "STUDENT"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))

	_, err = ResolveScope(models.Actor{Role: models.RoleObserver})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
}

func TestAudienceParseEntityType(t *testing.T) {
	aud, err := ResolveAudience(models.Actor{ID: "c", Role: models.RoleClusterManager, Location: models.Location{ClusterID: "c-1"}})
	require.NoError(t, err)

	level, err := aud.parseEntityType("School")
	require.NoError(t, err)
	assert.Equal(t, models.LevelSchool, level)

	_, err = aud.parseEntityType("province")
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))

	_, err = aud.parseEntityType("blimp")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidArgument))
	assert.Equal(t, `invalid entityType "blimp": must be one of zone, province, department, cluster, school`, appErrors.FromError(err).Message)
}
