package models

import "strings"

// UserRole is the closed set of roles recognised by the analytics engine.
type UserRole string

const (
	RoleSuperAdmin        UserRole = "SUPERADMIN"
	RoleAdmin             UserRole = "ADMIN"
	RoleZoneManager       UserRole = "ZONE_MANAGER"
	RoleProvinceManager   UserRole = "PROVINCE_MANAGER"
	RoleDepartmentManager UserRole = "DEPARTMENT_MANAGER"
	RoleClusterManager    UserRole = "CLUSTER_MANAGER"
	RoleSchoolDirector    UserRole = "SCHOOL_DIRECTOR"
	RoleObserver          UserRole = "OBSERVER"
	RoleTeacher           UserRole = "TEACHER"
)

// AllRoles lists every role in privilege order.
var AllRoles = []UserRole{
	RoleSuperAdmin,
	RoleAdmin,
	RoleZoneManager,
	RoleProvinceManager,
	RoleDepartmentManager,
	RoleClusterManager,
	RoleSchoolDirector,
	RoleObserver,
	RoleTeacher,
}

// ParseUserRole resolves a role name case-insensitively.
func ParseUserRole(value string) (UserRole, bool) {
	candidate := UserRole(strings.ToUpper(strings.TrimSpace(value)))
	_, ok := capabilities[candidate]
	return candidate, ok
}

// RoleNames returns the role names for error messages.
func RoleNames() []string {
	out := make([]string, len(AllRoles))
	for i, r := range AllRoles {
		out[i] = string(r)
	}
	return out
}

// Capability is the row of the capability table for a role.
type Capability struct {
	// Unrestricted roles see every record.
	Unrestricted bool
	// Level is the hierarchy level the role is assigned to. Empty for unrestricted roles and
	// for observer-scoped roles.
	Level HierarchyLevel
	// EntityTypes are the geographic levels the role may break metrics down by.
	EntityTypes []HierarchyLevel
	// Templates are the report templates the role may generate.
	Templates []ReportTemplateID
}

var allTemplates = []ReportTemplateID{TemplateSummary, TemplateDetailed, TemplateTrend, TemplateComparison}

var capabilities = map[UserRole]Capability{
	RoleSuperAdmin:        {Unrestricted: true, EntityTypes: HierarchyLevels, Templates: allTemplates},
	RoleAdmin:             {Unrestricted: true, EntityTypes: HierarchyLevels, Templates: allTemplates},
	RoleZoneManager:       {Level: LevelZone, EntityTypes: LevelZone.AndBelow(), Templates: allTemplates},
	RoleProvinceManager:   {Level: LevelProvince, EntityTypes: LevelProvince.AndBelow(), Templates: allTemplates},
	RoleDepartmentManager: {Level: LevelDepartment, EntityTypes: LevelDepartment.AndBelow(), Templates: allTemplates},
	RoleClusterManager:    {Level: LevelCluster, EntityTypes: LevelCluster.AndBelow(), Templates: allTemplates},
	RoleSchoolDirector:    {Level: LevelSchool, EntityTypes: LevelSchool.AndBelow(), Templates: []ReportTemplateID{TemplateSummary, TemplateDetailed}},
	RoleObserver:          {EntityTypes: []HierarchyLevel{LevelSchool}, Templates: []ReportTemplateID{TemplateSummary}},
	RoleTeacher:           {EntityTypes: []HierarchyLevel{LevelSchool}, Templates: []ReportTemplateID{TemplateSummary}},
}

// Capability returns the capability row for the role. Unknown roles get an empty row.
func (r UserRole) Capability() Capability {
	return capabilities[r]
}

// CanSee reports whether the role may aggregate by the given level.
func (c Capability) CanSee(level HierarchyLevel) bool {
	for _, l := range c.EntityTypes {
		if l == level {
			return true
		}
	}
	return false
}

// CanUseTemplate reports whether the role may generate the template.
func (c Capability) CanUseTemplate(id ReportTemplateID) bool {
	for _, t := range c.Templates {
		if t == id {
			return true
		}
	}
	return false
}

// Location holds the organisational assignment of an actor.
type Location struct {
	ZoneID       string `json:"zone_id,omitempty"`
	ProvinceID   string `json:"province_id,omitempty"`
	DepartmentID string `json:"department_id,omitempty"`
	ClusterID    string `json:"cluster_id,omitempty"`
	SchoolID     string `json:"school_id,omitempty"`
}

// EntityFor returns the assigned entity id at the level.
func (l Location) EntityFor(level HierarchyLevel) string {
	switch level {
	case LevelZone:
		return l.ZoneID
	case LevelProvince:
		return l.ProvinceID
	case LevelDepartment:
		return l.DepartmentID
	case LevelCluster:
		return l.ClusterID
	case LevelSchool:
		return l.SchoolID
	}
	return ""
}

// Actor is the authenticated caller of an analytics operation.
type Actor struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Role     UserRole `json:"role"`
	Location Location `json:"location"`
}
