package robots

import "strings"

// resolveGroup returns the most specific group among parsed.groups that
// applies to targetUserAgent. Exact (case-insensitive) matches win
// outright; otherwise the longest user-agent prefix match wins; "*" is
// the fallback of last resort. Returns nil if nothing matches — the
// caller treats that as allow-all (§4.1: "rules not matching any URL
// are treated as allowed").
func resolveGroup(parsed parsedRobots, targetUserAgent string) *group {
	targetLower := strings.ToLower(targetUserAgent)

	var best *group
	bestLen := -1

	for i := range parsed.groups {
		g := &parsed.groups[i]
		for _, ua := range g.userAgents {
			uaLower := strings.ToLower(ua)
			if uaLower == targetLower {
				return g
			}
			if ua == "*" {
				if bestLen < 0 {
					best = g
					bestLen = 0
				}
				continue
			}
			if strings.HasPrefix(targetLower, uaLower) && len(uaLower) > bestLen {
				best = g
				bestLen = len(uaLower)
			}
		}
	}

	return best
}

// isAllowedByGroup decides whether pathname is permitted under g. The longest
// matching rule prefix wins; a tie between an allow and a disallow rule
// of equal length favors allow (fail-open on ambiguity). No matching
// rule at all means allowed.
func isAllowedByGroup(g *group, pathname string) bool {
	if g == nil {
		return true
	}

	matchedLen := -1
	allowed := true

	for _, rule := range g.rules {
		if !strings.HasPrefix(pathname, rule.prefix) {
			continue
		}
		length := len(rule.prefix)
		switch {
		case length > matchedLen:
			matchedLen = length
			allowed = rule.allow
		case length == matchedLen && rule.allow:
			allowed = true
		}
	}

	return allowed
}
