// Package ranking scores normalised job postings against a candidate profile.
package ranking

import (
	"math"
	"sort"
	"strings"

	"github.com/spigell/career-pilot/internal/model"
)

const (
	// MaxResults caps the ranked list.
	MaxResults = 20

	maxSkillScore     = 60
	locationMatch     = 20
	remoteMatch       = 15
	entryLevelFit     = 20
	defaultSeniority  = entryLevelFit
	seniorityMismatch = 0
)

var (
	seniorMarkers = []string{"5+ years", "4+ years", "3+ years", "senior", "lead", "principal"}
	juniorMarkers = []string{"entry level", "fresher", "0-1 year", "junior", "intern", "graduate"}
)

// Rank scores every posting and returns the best MaxResults, highest first.
// The input slice is left untouched.
func Rank(postings []model.JobCandidate, skills []string, location string) []model.JobCandidate {
	userSkills := normalizeSkills(skills)
	location = strings.ToLower(strings.TrimSpace(location))

	ranked := make([]model.JobCandidate, 0, len(postings))
	for _, posting := range postings {
		details := model.MatchDetails{
			Skill:     round1(SkillScore(posting, userSkills)),
			Location:  LocationScore(posting, location),
			Seniority: SeniorityScore(posting.Description),
		}
		posting.Details = details
		posting.MatchScore = round1(details.Skill + details.Location + details.Seniority)
		ranked = append(ranked, posting)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MatchScore > ranked[j].MatchScore
	})

	if len(ranked) > MaxResults {
		ranked = ranked[:MaxResults]
	}
	return ranked
}

// SkillScore is the share of user skills found in the title or description, scaled to 60.
// userSkills must already be lower case.
func SkillScore(posting model.JobCandidate, userSkills []string) float64 {
	title := strings.ToLower(posting.Title)
	description := strings.ToLower(posting.Description)

	hits := 0
	for _, skill := range userSkills {
		if strings.Contains(description, skill) || strings.Contains(title, skill) {
			hits++
		}
	}

	score := float64(hits) / float64(max(len(userSkills), 1)) * maxSkillScore
	return math.Min(maxSkillScore, score)
}

// LocationScore rewards postings in the preferred location, then remote ones.
// An empty preference scores zero.
func LocationScore(posting model.JobCandidate, preference string) float64 {
	preference = strings.ToLower(strings.TrimSpace(preference))
	if preference == "" {
		return 0
	}
	if strings.Contains(strings.ToLower(posting.Location), preference) {
		return locationMatch
	}
	if posting.Remote {
		return remoteMatch
	}
	return 0
}

// SeniorityScore assumes an entry-level fit unless the description asks for
// seniority. Entry-level markers are checked last and always win.
func SeniorityScore(description string) float64 {
	description = strings.ToLower(description)

	score := float64(defaultSeniority)
	if containsAny(description, seniorMarkers) {
		score = seniorityMismatch
	}
	if containsAny(description, juniorMarkers) {
		score = entryLevelFit
	}
	return score
}

func containsAny(text string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

func normalizeSkills(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
