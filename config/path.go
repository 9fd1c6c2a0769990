package config

import (
	"fmt"
	"strconv"
	"strings"
)

// setPath writes value into doc at a simple jsonpath-shaped location, e.g.
// "$.lot_tracking.risk_pairs[0]" or "$.reporting_currency". Only the subset
// of jsonpath needed for configuration overrides is supported: dotted field
// access and a single numeric index per segment. jsonpath.Get in
// ApplyOverrides is what validates the full expression is actually
// meaningful; this function only needs to know where to write.
func setPath(doc map[string]any, path string, value any) error {
	segments, err := splitPath(path)
	if err != nil {
		return err
	}
	if len(segments) == 0 {
		return fmt.Errorf("empty path")
	}

	var cur any = doc
	for i, seg := range segments {
		last := i == len(segments)-1

		m, ok := cur.(map[string]any)
		if !ok {
			return fmt.Errorf("%s: not an object", seg.field)
		}

		if seg.index == nil {
			if last {
				m[seg.field] = value
				return nil
			}
			next, ok := m[seg.field]
			if !ok {
				return fmt.Errorf("%s: not found", seg.field)
			}
			cur = next
			continue
		}

		// The segment names a field holding an array, then indexes into it.
		fieldVal, ok := m[seg.field]
		if !ok {
			return fmt.Errorf("%s: not found", seg.field)
		}
		arr, ok := fieldVal.([]any)
		if !ok {
			return fmt.Errorf("%s: not an array", seg.field)
		}
		idx := *seg.index
		if idx < 0 || idx >= len(arr) {
			return fmt.Errorf("%s[%d]: index out of range", seg.field, idx)
		}
		if last {
			arr[idx] = value
			return nil
		}
		cur = arr[idx]
	}
	return nil
}

type pathSegment struct {
	field string
	index *int
}

// splitPath parses "$.a.b[2].c" into [{a} {b,2} {c}], stripping the leading "$".
func splitPath(path string) ([]pathSegment, error) {
	trimmed := strings.TrimPrefix(path, "$")
	trimmed = strings.TrimPrefix(trimmed, ".")
	if trimmed == "" {
		return nil, nil
	}

	var segments []pathSegment
	for _, part := range strings.Split(trimmed, ".") {
		field := part
		var idx *int
		if open := strings.IndexByte(part, '['); open >= 0 {
			close := strings.IndexByte(part, ']')
			if close < open {
				return nil, fmt.Errorf("malformed index in %q", part)
			}
			field = part[:open]
			n, err := strconv.Atoi(part[open+1 : close])
			if err != nil {
				return nil, fmt.Errorf("malformed index in %q: %w", part, err)
			}
			idx = &n
		}
		segments = append(segments, pathSegment{field: field, index: idx})
	}
	return segments, nil
}
