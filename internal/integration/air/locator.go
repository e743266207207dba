package air

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tombee/conductor-air/internal/operation"
)

// LocatorMode discriminates the ResourceLocator variants.
type LocatorMode string

const (
	// LocatorModeList selects a value picked from a list; the value is an ID.
	LocatorModeList LocatorMode = "list"
	// LocatorModeID supplies a raw ID.
	LocatorModeID LocatorMode = "id"
	// LocatorModeName supplies a display name that must be resolved to an
	// ID before it can reach any remote call.
	LocatorModeName LocatorMode = "name"
)

// ResourceLocator is the unresolved phase of a host parameter that lets the
// caller pick a target by list selection, raw ID, or name. Name variants
// require asynchronous resolution; consumption sites accept only the
// resolved OrganizationRef.
type ResourceLocator struct {
	Mode  LocatorMode
	Value string
}

// OrganizationRef is the resolved phase of an organization locator. The ID
// is numeric when the source value was numeric-looking, string otherwise
// (heterogeneous org ID typing is a server quirk, preserved intentionally).
type OrganizationRef struct {
	ID interface{}
}

// orgResolver resolves an organization display name to its numeric ID.
type orgResolver interface {
	resolveOrganizationByName(ctx context.Context, name string) (int, error)
}

// ParseLocator converts a host parameter value into a ResourceLocator.
// Accepted shapes: a {mode, value} object, or a bare string treated as a
// raw ID.
func ParseLocator(value interface{}) (*ResourceLocator, error) {
	switch v := value.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, operation.NewValidationError("resource locator value is empty")
		}
		return &ResourceLocator{Mode: LocatorModeID, Value: strings.TrimSpace(v)}, nil

	case map[string]interface{}:
		mode, _ := v["mode"].(string)
		raw, ok := v["value"]
		if !ok {
			return nil, operation.NewValidationError("resource locator has no value")
		}
		val := strings.TrimSpace(fmt.Sprint(raw))
		if val == "" {
			return nil, operation.NewValidationError("resource locator value is empty")
		}

		switch LocatorMode(mode) {
		case LocatorModeList, LocatorModeID, LocatorModeName:
			return &ResourceLocator{Mode: LocatorMode(mode), Value: val}, nil
		default:
			return nil, operation.NewValidationError("unknown resource locator mode %q", mode)
		}

	default:
		return nil, operation.NewValidationError("resource locator must be a string or {mode, value} object, got %T", value)
	}
}

// ResolveOrganization converts the locator into a resolved OrganizationRef.
// List and ID variants use the value verbatim (numeric coercion applied);
// the name variant goes through the resolver and must not reach a remote
// call unresolved.
func (l *ResourceLocator) ResolveOrganization(ctx context.Context, resolver orgResolver) (*OrganizationRef, error) {
	switch l.Mode {
	case LocatorModeList, LocatorModeID:
		return &OrganizationRef{ID: coerceOrgID(l.Value)}, nil

	case LocatorModeName:
		id, err := resolver.resolveOrganizationByName(ctx, l.Value)
		if err != nil {
			return nil, err
		}
		return &OrganizationRef{ID: id}, nil

	default:
		return nil, operation.NewValidationError("unknown resource locator mode %q", l.Mode)
	}
}

// coerceOrgID converts numeric-looking organization IDs to numbers and
// keeps everything else as a string.
func coerceOrgID(token string) interface{} {
	if n, err := strconv.Atoi(token); err == nil {
		return n
	}
	return token
}
