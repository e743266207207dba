package air

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/tombee/conductor-air/internal/operation"
)

var (
	numericIDPattern = regexp.MustCompile(`^[0-9]+$`)
	uuidIDPattern    = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	slugIDPattern    = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// NormalizeID validates and trims a raw ID string. It is the single gate
// before any ID is interpolated into a URL path.
//
// Accepted forms: purely numeric, lowercase UUID, or alphanumeric with
// hyphens/underscores. Anything else (spaces, slashes, empty) is rejected.
func NormalizeID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", operation.NewValidationError("ID is empty")
	}

	if numericIDPattern.MatchString(id) || uuidIDPattern.MatchString(id) || slugIDPattern.MatchString(id) {
		return id, nil
	}

	return "", operation.NewValidationError("invalid ID %q: expected a numeric, UUID, or alphanumeric identifier", raw)
}

// ExtractEntityID pulls an identifier out of a generic entity record,
// probing _id, id, <entityType>Id, and Id in that order. A missing, null,
// empty, or zero value at every probe is an error enumerating the fields
// that were present.
func ExtractEntityID(entity map[string]interface{}, entityType string) (string, error) {
	probes := []string{"_id", "id", entityType + "Id", "Id"}

	for _, key := range probes {
		value, ok := entity[key]
		if !ok {
			continue
		}
		if id := idToString(value); id != "" {
			return id, nil
		}
	}

	fields := make([]string, 0, len(entity))
	for k := range entity {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	return "", operation.NewValidationError(
		"entity has no usable ID field (probed %s); available fields: %s",
		strings.Join(probes, ", "), strings.Join(fields, ", "))
}

// idToString converts an ID value to a string, treating null, empty, and
// zero as absent.
func idToString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		if v == 0 {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		if v == 0 {
			return ""
		}
		return fmt.Sprintf("%d", v)
	default:
		return ""
	}
}

// ValidEntity reports whether an entity has a usable ID and non-empty
// values for every required field. Used to filter candidate lists before
// presenting them as selectable options.
func ValidEntity(entity map[string]interface{}, entityType string, requiredFields []string) bool {
	if _, err := ExtractEntityID(entity, entityType); err != nil {
		return false
	}

	for _, field := range requiredFields {
		value, ok := entity[field]
		if !ok || value == nil {
			return false
		}
		if s, isString := value.(string); isString && strings.TrimSpace(s) == "" {
			return false
		}
	}

	return true
}
