package inline

import (
	"encoding/json"
	"regexp"
	"sort"
)

var timeRe = regexp.MustCompile(`^\d{1,2}:\d{2}$`)

// DefaultSlotParser is a tolerant walk over the capacities payload. It
// collects HH:MM strings anywhere in the document, skipping any object
// explicitly marked unavailable (available=false or status="FULL").
//
// The upstream schema is not contractually pinned down; swap in a stricter
// SlotParser once it has been validated against live traffic. Downstream
// only cares about empty vs non-empty, so over-collection here costs a
// notification at worst, never a crash.
func DefaultSlotParser(body []byte) []string {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil
	}

	seen := map[string]bool{}
	collectTimes(doc, seen)

	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func collectTimes(v any, seen map[string]bool) {
	switch x := v.(type) {
	case string:
		if timeRe.MatchString(x) {
			seen[x] = true
		}
	case []any:
		for _, e := range x {
			collectTimes(e, seen)
		}
	case map[string]any:
		if unavailable(x) {
			return
		}
		for _, e := range x {
			collectTimes(e, seen)
		}
	}
}

func unavailable(m map[string]any) bool {
	if b, ok := m["available"].(bool); ok && !b {
		return true
	}
	if s, ok := m["status"].(string); ok && s == "FULL" {
		return true
	}
	return false
}
