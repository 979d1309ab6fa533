package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID       string   `json:"user_id"`
	Role         UserRole `json:"role"`
	Email        string   `json:"email"`
	FullName     string   `json:"full_name"`
	ZoneID       string   `json:"zone_id,omitempty"`
	ProvinceID   string   `json:"province_id,omitempty"`
	DepartmentID string   `json:"department_id,omitempty"`
	ClusterID    string   `json:"cluster_id,omitempty"`
	SchoolID     string   `json:"school_id,omitempty"`
	jwt.RegisteredClaims
}

// Actor projects the claims onto the caller identity used by analytics.
func (c *JWTClaims) Actor() Actor {
	return Actor{
		ID:   c.UserID,
		Name: c.FullName,
		Role: c.Role,
		Location: Location{
			ZoneID:       c.ZoneID,
			ProvinceID:   c.ProvinceID,
			DepartmentID: c.DepartmentID,
			ClusterID:    c.ClusterID,
			SchoolID:     c.SchoolID,
		},
	}
}
