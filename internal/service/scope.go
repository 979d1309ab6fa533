package service

import (
	"github.com/noah-isme/observation-analytics-api/internal/models"
	appErrors "github.com/noah-isme/observation-analytics-api/pkg/errors"
)

// Audience is an actor with its capability row and scope predicate. It is resolved once per
// request and threaded through every aggregation.
type Audience struct {
	Actor      models.Actor
	Capability models.Capability
	Scope      models.ScopePredicate
}

// ResolveScope derives the predicate for an actor. Managers are restricted to the subtree of
// their assigned entity; roles without an assigned entity fall back to their own observations.
func ResolveScope(actor models.Actor) (models.ScopePredicate, error) {
	if _, ok := models.ParseUserRole(string(actor.Role)); !ok {
		return models.ScopePredicate{}, appErrors.Clone(appErrors.ErrForbidden, "unknown role")
	}
	capability := actor.Role.Capability()
	if capability.Unrestricted {
		return models.UnrestrictedScope(), nil
	}
	if capability.Level != "" {
		if entityID := actor.Location.EntityFor(capability.Level); entityID != "" {
			return models.SubtreeScope(capability.Level, entityID), nil
		}
	}
	if actor.ID != "" {
		return models.ObserverScope(actor.ID), nil
	}
	return models.ScopePredicate{}, appErrors.Clone(appErrors.ErrForbidden, "actor has no visible scope")
}

// ResolveAudience resolves the scope and capability of an actor.
func ResolveAudience(actor models.Actor) (Audience, error) {
	scope, err := ResolveScope(actor)
	if err != nil {
		return Audience{}, err
	}
	return Audience{Actor: actor, Capability: actor.Role.Capability(), Scope: scope}, nil
}

// parseEntityType validates an entity type name and checks the audience may see it.
func (a Audience) parseEntityType(raw string) (models.HierarchyLevel, error) {
	level, ok := models.ParseHierarchyLevel(raw)
	if !ok {
		return "", appErrors.InvalidArgument("entityType", raw, models.HierarchyLevelNames())
	}
	if !a.Capability.CanSee(level) {
		return "", appErrors.Clone(appErrors.ErrForbidden, "entity type "+string(level)+" is not visible to role "+string(a.Actor.Role))
	}
	return level, nil
}
