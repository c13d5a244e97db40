package roadmap

import (
	"fmt"
	"time"

	"github.com/spigell/career-pilot/internal/model"
)

var focuses = []string{
	"Mass Apply Day",
	"Networking Day",
	"Skill Polish Day",
	"LinkedIn Outreach Day",
	"Portfolio Day",
}

// Template is the deterministic plan. Weekends are review days with lighter
// targets; weekdays rotate through the focus themes.
func Template(role string, days int, start time.Time) []Day {
	plan := make([]Day, 0, max(days, 0))
	for offset := 0; offset < days; offset++ {
		date := start.AddDate(0, 0, offset)
		dayNum := offset + 1

		if weekday := date.Weekday(); weekday == time.Saturday || weekday == time.Sunday {
			plan = append(plan, Day{
				Date:  date,
				Focus: "Weekend Review",
				Tasks: []string{
					"Review applications sent this week",
					"Update resume based on feedback",
					fmt.Sprintf("Research 3 companies hiring for %s", role),
				},
				JobsToApply:         3,
				ReferralsToSend:     1,
				RecruitersToConnect: 1,
				Source:              model.SourceRules,
			})
			continue
		}

		plan = append(plan, Day{
			Date:                date,
			Focus:               focuses[(dayNum-1)%len(focuses)],
			Tasks:               tasks(dayNum, role),
			JobsToApply:         defaultJobs + dayNum%3,
			ReferralsToSend:     defaultReferrals,
			RecruitersToConnect: defaultRecruiters,
			Source:              model.SourceRules,
		})
	}
	return plan
}

func tasks(dayNum int, role string) []string {
	rotating := [][]string{
		{fmt.Sprintf("Update LinkedIn headline to target %s", role), "Join 2 relevant LinkedIn groups"},
		{"Practice 3 common interview questions", "Write a cover letter template"},
		{fmt.Sprintf("Identify 5 companies actively hiring %ss", role), "Set up job alerts on LinkedIn"},
		{"Update GitHub/portfolio with recent project", "Write a short blog post about a project"},
		{"Review and optimize resume keywords", "Prepare a 60-second elevator pitch"},
	}

	return append([]string{
		fmt.Sprintf("Apply to top-matched %s jobs", role),
		"Send personalized connection requests to recruiters",
		"Follow up on yesterday's applications",
	}, rotating[(dayNum-1)%len(rotating)]...)
}
