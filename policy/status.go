package policy

import (
	"math"

	"github.com/s0up4200/catalogprobe/catalog"
)

// StatusField is the attribute CheckActiveStatusFilter inspects
const StatusField = "status"

// CheckActiveStatusFilter returns false if any item carries a status outside
// the active set (LIVE, PRE_ORDER). Items without a status are not evaluated,
// so an empty sequence or one with no statuses passes.
func CheckActiveStatusFilter(items []map[string]any) bool {
	for _, item := range items {
		status, ok := item[StatusField]
		if !ok {
			continue
		}
		if !IsActiveStatus(status) {
			return false
		}
	}
	return true
}

// IsActiveStatus reports whether a decoded status value is LIVE or PRE_ORDER.
// Non-numeric and fractional values are never active.
func IsActiveStatus(v any) bool {
	code, ok := statusCode(v)
	if !ok {
		return false
	}
	return catalog.ReleaseStatus(code).IsActive()
}

func statusCode(v any) (int, bool) {
	switch n := v.(type) {
	case catalog.ReleaseStatus:
		return int(n), true
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), true
	case float32:
		return floatCode(float64(n))
	case float64:
		return floatCode(n)
	case interface{ Int64() (int64, error) }:
		// json.Number
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}

func floatCode(f float64) (int, bool) {
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}
