package extract

import (
	"regexp"
	"sort"
	"strings"
)

// Four vocabulary categories: languages, frameworks, cloud/devops tooling,
// data stores. Matching is case-insensitive; output uses canonical casing.
var skillPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(Python|Java|JavaScript|TypeScript|C\+\+|C#|Ruby|PHP|Go|Rust|Kotlin|Swift)\b`),
	regexp.MustCompile(`(?i)\b(React|Angular|Vue|Django|Flask|Spring|Node\.js|Express)\b`),
	regexp.MustCompile(`(?i)\b(AWS|Azure|GCP|Docker|Kubernetes|Git|Jenkins)\b`),
	regexp.MustCompile(`(?i)\b(SQL|MySQL|PostgreSQL|MongoDB|Redis|Elasticsearch)\b`),
}

var canonicalSkill = map[string]string{}

func init() {
	for _, name := range []string{
		"Python", "Java", "JavaScript", "TypeScript", "C++", "C#", "Ruby", "PHP",
		"Go", "Rust", "Kotlin", "Swift",
		"React", "Angular", "Vue", "Django", "Flask", "Spring", "Node.js", "Express",
		"AWS", "Azure", "GCP", "Docker", "Kubernetes", "Git", "Jenkins",
		"SQL", "MySQL", "PostgreSQL", "MongoDB", "Redis", "Elasticsearch",
	} {
		canonicalSkill[strings.ToLower(name)] = name
	}
}

// Skills extracts the deduplicated, sorted skill vocabulary present in a
// description.
func Skills(description string) []string {
	seen := make(map[string]struct{})
	var skills []string
	for _, p := range skillPatterns {
		for _, m := range p.FindAllString(description, -1) {
			name, ok := canonicalSkill[strings.ToLower(m)]
			if !ok {
				name = m
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			skills = append(skills, name)
		}
	}
	sort.Strings(skills)
	return skills
}
