package attribute

import (
	"fmt"
	"hash/fnv"
	"reflect"
	"sort"
)

// Fingerprint derives a memoization key from a scope's identity: scalars by
// string form, maps by content hash over sorted pairs, pointers by referent
// identity, anything else by content hash of its printed form. Two calls
// with the same scope inside one resolution always agree.
func Fingerprint(scope any) string {
	if scope == nil {
		return "nil"
	}

	if isScalar(scope) {
		return "s:" + fmt.Sprintf("%v", scope)
	}

	if m, ok := normalizeMap(scope); ok {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		h := fnv.New64a()
		for _, k := range keys {
			fmt.Fprintf(h, "%s=%v;", k, m[k])
		}
		return fmt.Sprintf("m:%x", h.Sum64())
	}

	v := reflect.ValueOf(scope)
	if v.Kind() == reflect.Pointer {
		return fmt.Sprintf("p:%p", scope)
	}

	h := fnv.New64a()
	fmt.Fprintf(h, "%#v", scope)
	return fmt.Sprintf("o:%x", h.Sum64())
}
