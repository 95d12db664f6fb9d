package robots

import (
	"bufio"
	"fmt"
	"strings"
	"time"
)

// parseRobotsTxt parses robots.txt content into groups. Malformed lines
// (no colon, unknown field) are skipped rather than treated as errors —
// robots.txt parsing is best-effort by convention.
func parseRobotsTxt(content string) parsedRobots {
	var parsed parsedRobots
	var current *group

	flush := func() {
		if current != nil {
			parsed.groups = append(parsed.groups, *current)
			current = nil
		}
	}

	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := scanner.Text()
		if idx := strings.Index(line, "#"); idx != -1 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		colon := strings.Index(line, ":")
		if colon == -1 {
			continue
		}
		field := strings.ToLower(strings.TrimSpace(line[:colon]))
		value := strings.TrimSpace(line[colon+1:])

		switch field {
		case "user-agent":
			if current == nil || len(current.rules) > 0 || current.crawlDelay != nil {
				flush()
				current = &group{userAgents: []string{value}}
			} else {
				current.userAgents = append(current.userAgents, value)
			}
		case "allow":
			if current != nil && value != "" {
				current.rules = append(current.rules, pathRule{prefix: normalizePath(value), allow: true})
			}
		case "disallow":
			if current != nil && value != "" {
				current.rules = append(current.rules, pathRule{prefix: normalizePath(value), allow: false})
			}
		case "crawl-delay":
			if current != nil {
				var seconds float64
				if _, err := fmt.Sscanf(value, "%f", &seconds); err == nil && seconds >= 0 {
					delay := time.Duration(seconds * float64(time.Second))
					current.crawlDelay = &delay
				}
			}
		case "sitemap":
			if value != "" {
				parsed.sitemaps = append(parsed.sitemaps, value)
			}
		}
	}
	flush()

	return parsed
}

func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}
