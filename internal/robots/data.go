package robots

import "time"

// pathRule is a single allow/disallow prefix rule from a robots.txt
// group, already normalized to start with "/".
type pathRule struct {
	prefix string
	allow  bool
}

// group is one User-agent block: the agent names it applies to, its
// rules in file order, and an optional Crawl-delay.
type group struct {
	userAgents []string
	rules      []pathRule
	crawlDelay *time.Duration
}

// parsedRobots is the structured form of a fetched robots.txt, before
// a target user-agent has been resolved against it.
type parsedRobots struct {
	groups   []group
	sitemaps []string
}

// ruleSet is the cached, per-origin decision surface: either "allow
// everything" (origin unreachable, malformed, or no matching group),
// or the matched group's rules plus its crawl delay.
type ruleSet struct {
	allowAll   bool
	matched    *group
	crawlDelay *time.Duration
	fetchedAt  time.Time
}
