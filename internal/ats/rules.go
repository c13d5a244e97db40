package ats

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spigell/career-pilot/internal/model"
)

var actionVerbs = []string{
	"achieved", "analyzed", "built", "collaborated", "created", "delivered",
	"designed", "developed", "drove", "enhanced", "established", "executed",
	"generated", "implemented", "improved", "increased", "integrated",
	"launched", "led", "managed", "optimized", "orchestrated", "reduced",
	"resolved", "spearheaded", "streamlined", "supervised", "transformed",
}

var roleKeywords = map[string][]string{
	"frontend developer": {
		"react", "javascript", "typescript", "html", "css", "responsive",
		"component", "ui", "ux", "webpack", "api", "state management",
	},
	"backend developer": {
		"api", "database", "sql", "python", "java", "microservices",
		"rest", "authentication", "server", "scalable", "performance",
	},
	"full stack developer": {
		"frontend", "backend", "api", "database", "deployment", "full stack",
		"react", "node", "python", "docker", "ci/cd",
	},
	"data analyst": {
		"analysis", "dashboard", "sql", "python", "excel", "visualization",
		"insights", "metrics", "reporting", "data",
	},
	"data scientist": {
		"machine learning", "model", "python", "statistics", "prediction",
		"classification", "regression", "nlp", "deep learning", "feature engineering",
	},
}

var defaultKeywords = []string{
	"project", "team", "developed", "implemented", "built", "designed",
	"managed", "improved", "analyzed", "created", "results",
}

var sectionHeaders = []string{"experience", "education", "skills", "projects", "summary"}

var quantifiedPattern = regexp.MustCompile(`\d+[%+]|\$\d+|\d+\s*(users|clients|projects|customers|team|members|revenue)`)

const (
	maxKeyword     = 40
	maxActionVerb  = 20
	maxAchievement = 20
	maxFormat      = 20
	maxHeaderBonus = 10

	pointsPerVerb        = 3
	pointsPerAchievement = 5
	pointsPerHeader      = 2

	minWords = 200
	maxWords = 800

	keywordThreshold     = 25
	verbThreshold        = 10
	achievementThreshold = 10
	minHeaders           = 3

	// Only the first verbs of the vocabulary are suggested when missing.
	suggestedVerbs = 10
)

// Fixed suggestion texts.
const (
	SuggestQuantify  = "Quantify your achievements (e.g., 'Improved load time by 30%')"
	SuggestTooShort  = "Your resume is too short. Add more detail about your projects and skills."
	SuggestTooLong   = "Consider trimming your resume to keep it concise (under 2 pages)."
	SuggestHeaders   = "Add clear section headers: Experience, Education, Skills, Projects"
	SuggestNoText    = "No resume text available"
	SuggestNoScoring = "Scoring failed"
)

// Keywords returns the keyword list used for role, falling back to the generic list.
func Keywords(role string) []string {
	keywords, ok := roleKeywords[strings.ToLower(strings.TrimSpace(role))]
	if !ok {
		keywords = defaultKeywords
	}
	out := make([]string, len(keywords))
	copy(out, keywords)
	return out
}

// Rules scores text with fixed weighted rules. It is a pure function of its inputs.
func Rules(text, role string) model.ScoreBreakdown {
	lower := strings.ToLower(text)
	wordCount := len(strings.Fields(lower))

	keywords := Keywords(role)
	missing := make([]string, 0)
	found := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			found++
		} else {
			missing = append(missing, kw)
		}
	}
	keywordScore := min(maxKeyword, found*maxKeyword/max(len(keywords), 1))

	verbsFound := make([]string, 0)
	for _, verb := range actionVerbs {
		if strings.Contains(lower, verb) {
			verbsFound = append(verbsFound, verb)
		}
	}
	verbsMissing := make([]string, 0)
	for _, verb := range actionVerbs[:suggestedVerbs] {
		if !strings.Contains(lower, verb) {
			verbsMissing = append(verbsMissing, verb)
		}
	}
	verbScore := min(maxActionVerb, len(verbsFound)*pointsPerVerb)

	achievements := len(quantifiedPattern.FindAllStringIndex(lower, -1))
	achievementScore := min(maxAchievement, achievements*pointsPerAchievement)

	formatScore := 10
	switch {
	case wordCount < minWords:
		formatScore = 3
	case wordCount > maxWords:
		formatScore = 5
	}
	headers := 0
	for _, h := range sectionHeaders {
		if strings.Contains(lower, h) {
			headers++
		}
	}
	formatScore += min(maxHeaderBonus, headers*pointsPerHeader)

	suggestions := make([]string, 0)
	if keywordScore < keywordThreshold {
		suggestions = append(suggestions, fmt.Sprintf("Add more role-specific keywords: %s", strings.Join(head(missing, 5), ", ")))
	}
	if verbScore < verbThreshold {
		suggestions = append(suggestions, fmt.Sprintf("Use more action verbs like: %s", strings.Join(head(verbsMissing, 5), ", ")))
	}
	if achievementScore < achievementThreshold {
		suggestions = append(suggestions, SuggestQuantify)
	}
	if wordCount < minWords {
		suggestions = append(suggestions, SuggestTooShort)
	} else if wordCount > maxWords {
		suggestions = append(suggestions, SuggestTooLong)
	}
	if headers < minHeaders {
		suggestions = append(suggestions, SuggestHeaders)
	}

	return model.ScoreBreakdown{
		Total:           keywordScore + verbScore + achievementScore + formatScore,
		Keyword:         keywordScore,
		ActionVerb:      verbScore,
		Achievement:     achievementScore,
		Format:          formatScore,
		MissingKeywords: missing,
		Suggestions:     suggestions,
		VerbsFound:      verbsFound,
		VerbsMissing:    verbsMissing,
		Source:          model.SourceRules,
	}
}

func head(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
