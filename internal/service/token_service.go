package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"

	"github.com/noah-isme/observation-analytics-api/internal/models"
	appErrors "github.com/noah-isme/observation-analytics-api/pkg/errors"
)

// TokenService validates bearer tokens issued by the identity provider and maps them to actors.
type TokenService struct {
	secret []byte
	clock  clockwork.Clock
}

// NewTokenService constructs a TokenService for HS256 tokens.
func NewTokenService(secret string, clock clockwork.Clock) *TokenService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &TokenService{secret: []byte(secret), clock: clock}
}

// ValidateToken parses and validates an access token returning the claims.
func (s *TokenService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.clock.Now))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	role, ok := models.ParseUserRole(string(claims.Role))
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unknown role in token")
	}
	claims.Role = role
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	return claims, nil
}

// Issue signs a token for the actor. It backs local tooling and tests; production tokens come
// from the identity provider.
func (s *TokenService) Issue(actor models.Actor, ttl time.Duration) (string, error) {
	issuedAt := s.clock.Now().UTC()
	claims := &models.JWTClaims{
		UserID:       actor.ID,
		Role:         actor.Role,
		FullName:     actor.Name,
		ZoneID:       actor.Location.ZoneID,
		ProvinceID:   actor.Location.ProvinceID,
		DepartmentID: actor.Location.DepartmentID,
		ClusterID:    actor.Location.ClusterID,
		SchoolID:     actor.Location.SchoolID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
