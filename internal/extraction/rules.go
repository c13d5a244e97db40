package extraction

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spigell/career-pilot/internal/model"
)

type region int

const (
	regionNone region = iota
	regionExperience
	regionEducation
)

// Lines longer than this are headers only when they start with a header keyword.
const maxHeaderWords = 5

var (
	experienceHeaders = regexp.MustCompile(`(?i)experience|work\s*history|employment|professional\s*experience`)
	educationHeaders  = regexp.MustCompile(`(?i)education|academic|qualification`)
	experienceLead    = regexp.MustCompile(`(?i)^(?:(?:work|professional|relevant|industry)\s+)?(?:experience|employment|work\s*history|internships?)\b`)
	educationLead     = regexp.MustCompile(`(?i)^(?:education|academic|qualifications?)\b`)
	otherHeaders      = regexp.MustCompile(`(?i)^(skills|technical skills|projects|summary|objective|certifications?|achievements|awards|interests|languages|hobbies)\s*:?$`)

	degreePatterns = compilePatterns(
		`(?i)b\.?\s?tech`, `(?i)b\.?\s?e\b`, `(?i)b\.?\s?sc`,
		`(?i)m\.?\s?tech`, `(?i)m\.?\s?sc`, `(?i)m\.?\s?ba`,
		`(?i)b\.?\s?ba`, `(?i)b\.?\s?com`, `(?i)m\.?\s?com`,
		`(?i)ph\.?\s?d`, `(?i)diploma`, `(?i)bca`, `(?i)mca`,
		`(?i)b\.?\s?des`, `(?i)m\.?\s?des`,
		`(?i)bachelor`, `(?i)master`, `(?i)associate`,
	)

	yearPattern      = regexp.MustCompile(`(20\d{2}|19\d{2})`)
	monthYearPattern = regexp.MustCompile(`(?i)(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s*\d{4}`)
	rangePattern     = regexp.MustCompile(`(?i)(20\d{2}|19\d{2})\s*[-–—to]+\s*(20\d{2}|19\d{2}|present|current)`)
)

func compilePatterns(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(p))
	}
	return compiled
}

// Rules extracts structured data from text using pattern rules only.
func Rules(text string, now time.Time) Result {
	experience, education := segment(text)
	return Result{
		RawText:              text,
		Skills:               ScanSkills(text),
		Experience:           experience,
		Education:            education,
		TotalExperienceYears: EstimateYears(text, now),
		Source:               model.SourceRules,
	}
}

// headerRegion reports which region a line opens, if it is a header line at all.
func headerRegion(line string) (region, bool) {
	if len(strings.Fields(line)) > maxHeaderWords {
		switch {
		case strings.HasSuffix(line, "."):
			return regionNone, false
		case experienceLead.MatchString(line):
			return regionExperience, true
		case educationLead.MatchString(line):
			return regionEducation, true
		default:
			return regionNone, false
		}
	}

	exp := experienceHeaders.FindStringIndex(line)
	edu := educationHeaders.FindStringIndex(line)
	switch {
	case exp != nil && (edu == nil || exp[0] <= edu[0]):
		return regionExperience, true
	case edu != nil:
		return regionEducation, true
	case otherHeaders.MatchString(line):
		return regionNone, true
	default:
		return regionNone, false
	}
}

// segment walks the document once, switching regions on header lines, and
// collects education entries and experience blocks.
func segment(text string) ([]model.ExperienceEntry, []model.EducationEntry) {
	experience := make([]model.ExperienceEntry, 0)
	education := make([]model.EducationEntry, 0)

	var current []string
	flush := func() {
		if len(current) > 0 {
			experience = append(experience, model.ExperienceEntry{Detail: strings.Join(current, " ")})
			current = nil
		}
	}

	active := regionNone
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if next, ok := headerRegion(line); ok {
			if active == regionExperience {
				flush()
			}
			active = next
			continue
		}

		switch active {
		case regionEducation:
			if entry, ok := educationEntry(line); ok {
				education = append(education, entry)
			}
		case regionExperience:
			if monthYearPattern.MatchString(line) {
				flush()
			}
			current = append(current, line)
		}
	}
	flush()

	return experience, education
}

func educationEntry(line string) (model.EducationEntry, bool) {
	for _, p := range degreePatterns {
		degree := p.FindString(line)
		if degree == "" {
			continue
		}
		return model.EducationEntry{
			Degree: degree,
			Detail: line,
			Year:   yearPattern.FindString(line),
		}, true
	}
	return model.EducationEntry{}, false
}

// EstimateYears sums the positive length of every year range in text.
// Overlapping ranges are counted separately.
func EstimateYears(text string, now time.Time) float64 {
	total := 0
	for _, match := range rangePattern.FindAllStringSubmatch(text, -1) {
		start, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}

		end := now.Year()
		switch strings.ToLower(match[2]) {
		case "present", "current":
		default:
			if end, err = strconv.Atoi(match[2]); err != nil {
				continue
			}
		}

		if end > start {
			total += end - start
		}
	}
	return float64(total)
}
