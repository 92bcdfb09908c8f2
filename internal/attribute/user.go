package attribute

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/stratumlabs/stratum/pkg/domain"
)

// UserResolver resolves attributes in the "user" namespace through an
// ordered chain of sources. The first source that reports existence wins;
// later ones are not consulted.
type UserResolver struct{}

// NewUserResolver creates the user-namespace resolver.
func NewUserResolver() *UserResolver {
	return &UserResolver{}
}

// Resolve walks, in order: the request-local attribute bag, the scope as a
// map, the scalar scope under the literal name "scope", the identity's
// well-known fields, and finally reflective property access on an arbitrary
// scope object.
func (u *UserResolver) Resolve(ec *domain.EvaluationContext, attribute string) (any, bool) {
	// 1. Explicit request-local bag, checked first so callers can
	// short-circuit expensive lookups.
	if ec.Attributes != nil {
		if v, ok := ec.Attributes[attribute]; ok {
			return v, true
		}
	}

	// 2. Map scope: direct key lookup.
	if m, ok := normalizeMap(ec.Scope); ok {
		if v, found := m[attribute]; found {
			return v, true
		}
	} else if isScalar(ec.Scope) && attribute == "scope" {
		// 3. Scalar scope answers only the literal attribute "scope".
		return ec.Scope, true
	}

	// 4. Authenticated-identity fields.
	if ec.Identity != nil {
		switch attribute {
		case "id":
			if ec.Identity.ID != "" {
				return ec.Identity.ID, true
			}
		case "email":
			if ec.Identity.Email != "" {
				return ec.Identity.Email, true
			}
		}
	}

	// 5. Generic property or index access on an arbitrary scope object.
	if ec.Scope != nil && !isScalar(ec.Scope) {
		if v, ok := reflectLookup(ec.Scope, attribute); ok {
			return v, true
		}
	}

	return nil, false
}

// normalizeMap accepts the common map shapes a scope arrives in.
func normalizeMap(scope any) (map[string]any, bool) {
	switch m := scope.(type) {
	case map[string]any:
		return m, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[k] = v
		}
		return out, true
	default:
		return nil, false
	}
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}

// reflectLookup reads an exported struct field by name (exact match first,
// then case-insensitive) or indexes a slice/array when the attribute is a
// decimal index. Maps with non-string keys and everything else report
// absence.
func reflectLookup(scope any, attribute string) (any, bool) {
	v := reflect.ValueOf(scope)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		if field := v.FieldByName(attribute); field.IsValid() && field.CanInterface() {
			return field.Interface(), true
		}
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.IsExported() && strings.EqualFold(f.Name, attribute) {
				return v.Field(i).Interface(), true
			}
		}
	case reflect.Slice, reflect.Array:
		idx, err := strconv.Atoi(attribute)
		if err != nil || idx < 0 || idx >= v.Len() {
			return nil, false
		}
		return v.Index(idx).Interface(), true
	case reflect.Map:
		if v.Type().Key().Kind() == reflect.String {
			elem := v.MapIndex(reflect.ValueOf(attribute))
			if elem.IsValid() {
				return elem.Interface(), true
			}
		}
	}

	return nil, false
}
