package extraction

import (
	"regexp"
	"sort"
	"strings"
)

// vocabulary is the fixed list of skills the scanner recognises.
var vocabulary = []string{
	"python", "java", "javascript", "typescript", "react", "angular", "vue",
	"node.js", "express", "django", "flask", "fastapi", "spring", "sql",
	"postgresql", "mysql", "mongodb", "redis", "docker", "kubernetes",
	"aws", "azure", "gcp", "git", "linux", "html", "css", "tailwind",
	"figma", "photoshop", "excel", "power bi", "tableau", "machine learning",
	"deep learning", "nlp", "tensorflow", "pytorch", "pandas", "numpy",
	"data analysis", "data science", "communication", "leadership",
	"project management", "agile", "scrum", "ci/cd", "rest api",
	"graphql", "c++", "c#", ".net", "ruby", "go", "rust", "swift",
	"kotlin", "flutter", "react native", "next.js", "svelte",
}

type term struct {
	name    string
	pattern *regexp.Regexp
}

var vocabularyPatterns = compileTerms(vocabulary)

// compileTerms builds one matcher per term. Terms are bounded by non
// alphanumeric characters so symbol-ended terms like c++ still match. A term
// that starts with a symbol, like .net, is its own left boundary and matches
// inside asp.net.
func compileTerms(terms []string) []term {
	compiled := make([]term, 0, len(terms))
	for _, name := range terms {
		left := `(?:^|[^a-z0-9_])`
		if !isWordByte(name[0]) {
			left = ""
		}
		compiled = append(compiled, term{
			name:    name,
			pattern: regexp.MustCompile(left + regexp.QuoteMeta(name) + `(?:$|[^a-z0-9_])`),
		})
	}
	return compiled
}

func isWordByte(b byte) bool {
	return b == '_' || ('a' <= b && b <= 'z') || ('0' <= b && b <= '9')
}

// ScanSkills returns the sorted vocabulary terms present in text.
func ScanSkills(text string) []string {
	lower := strings.ToLower(text)
	found := make([]string, 0)
	for _, t := range vocabularyPatterns {
		if t.pattern.MatchString(lower) {
			found = append(found, t.name)
		}
	}
	sort.Strings(found)
	return found
}

// Vocabulary returns a copy of the recognised skill terms.
func Vocabulary() []string {
	out := make([]string, len(vocabulary))
	copy(out, vocabulary)
	return out
}

// mergeSkills case-folds and trims every skill, then returns the sorted union.
func mergeSkills(groups ...[]string) []string {
	seen := make(map[string]struct{})
	merged := make([]string, 0)
	for _, group := range groups {
		for _, skill := range group {
			skill = strings.ToLower(strings.TrimSpace(skill))
			if skill == "" {
				continue
			}
			if _, ok := seen[skill]; ok {
				continue
			}
			seen[skill] = struct{}{}
			merged = append(merged, skill)
		}
	}
	sort.Strings(merged)
	return merged
}
