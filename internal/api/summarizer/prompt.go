package summarizer

import "fmt"

// Trail catalog sites get a stricter, templated summary because their pages
// carry structured trail facts worth preserving verbatim.
var trailCatalogDomains = []string{
	"alltrails.com",
	"hikingproject.com",
	"trailforks.com",
}

func trailPrompt(content, title, sourceURL string) string {
	return fmt.Sprintf(`You are helping someone plan an outdoor adventure from a trail page they found.

Page title: %s
Page URL: %s

Page content:
%s

Write a summary following this template: trail name, distance, difficulty, elevation gain, and typical duration. Prioritize trail-specific facts (terrain, exposure, water, permits, season) in the detailed extract.

Rules:
- The summary must be a human-readable description, NEVER a URL and never just the link itself.
- The detailed extract should keep every concrete fact useful for planning and safety.
- If a fact is not on the page, leave it out. Do not invent numbers.`, title, sourceURL, content)
}

func genericPrompt(content, title, sourceURL string) string {
	return fmt.Sprintf(`You are helping someone plan a trip from a webpage they found.

Page title: %s
Page URL: %s

Page content:
%s

Describe this trip like you are telling a friend what it is: where it goes, what you do there, how long it takes, anything notable.

Rules:
- The summary must be a human-readable description, NEVER a URL and never just the link itself.
- The detailed extract should keep every concrete fact useful for planning and safety.
- Only describe what the page says. Do not invent details.`, title, sourceURL, content)
}
