package prompts

import (
	"fmt"
	"strings"

	"github.com/jonathan/docgen/internal/types"
)

// GenerationFile is the embedded prompt file for document generation.
const GenerationFile = "generation.json"

// Inputs carries everything a generation prompt may draw on. All fields come
// from the immutable snapshots on the generation record; the prompt rules
// forbid the model from going beyond them.
type Inputs struct {
	Job          types.Job
	PersonalInfo types.PersonalInfo
	Experience   types.ExperienceSnapshot
	Preferences  *types.Preferences
	Insight      string
}

// BuildResumePrompt assembles the resume generation prompt.
func BuildResumePrompt(in Inputs) (string, error) {
	template, err := Get(GenerationFile, "resume")
	if err != nil {
		return "", err
	}
	return Format(template, promptData(in)), nil
}

// BuildCoverLetterPrompt assembles the cover letter generation prompt.
func BuildCoverLetterPrompt(in Inputs) (string, error) {
	template, err := Get(GenerationFile, "cover_letter")
	if err != nil {
		return "", err
	}
	return Format(template, promptData(in)), nil
}

func promptData(in Inputs) map[string]string {
	return map[string]string{
		"Job":        renderJob(in.Job),
		"Candidate":  renderCandidate(in.PersonalInfo, in.Experience),
		"StyleRules": renderStyleRules(in.Preferences),
		"Insight":    renderInsight(in.Insight),
	}
}

func renderJob(job types.Job) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Role: %s\nCompany: %s\n", job.Role, job.Company)
	if job.CompanyWebsite != "" {
		fmt.Fprintf(&sb, "Company website: %s\n", job.CompanyWebsite)
	}
	if job.JobDescriptionText != "" {
		fmt.Fprintf(&sb, "\n%s\n", job.JobDescriptionText)
	}
	return sb.String()
}

func renderCandidate(info types.PersonalInfo, exp types.ExperienceSnapshot) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Name: %s\nEmail: %s\n", info.Name, info.Email)
	if info.Location != "" {
		fmt.Fprintf(&sb, "Location: %s\n", info.Location)
	}

	if len(exp.Skills) > 0 {
		fmt.Fprintf(&sb, "\nSkills: %s\n", strings.Join(exp.Skills, ", "))
	}

	for _, entry := range exp.Entries {
		fmt.Fprintf(&sb, "\n%s — %s (%s–%s)\n", entry.Title, entry.Company, entry.StartDate, orPresent(entry.EndDate))
		for _, h := range entry.Highlights {
			fmt.Fprintf(&sb, "- %s\n", h)
		}
	}

	for _, edu := range exp.Education {
		fmt.Fprintf(&sb, "\nEducation: %s, %s %s\n", edu.Degree, edu.Institution, edu.Year)
	}

	for _, blurb := range exp.Blurbs {
		fmt.Fprintf(&sb, "\n%s:\n%s\n", blurb.Label, blurb.Text)
	}

	return sb.String()
}

func renderStyleRules(prefs *types.Preferences) string {
	if prefs == nil {
		return ""
	}
	var rules []string
	if prefs.Tone != "" {
		rules = append(rules, fmt.Sprintf("- Write in a %s tone.", prefs.Tone))
	}
	if prefs.Emphasis != "" {
		rules = append(rules, fmt.Sprintf("- Emphasize: %s.", prefs.Emphasis))
	}
	if prefs.CustomInstructions != "" {
		rules = append(rules, "- "+prefs.CustomInstructions)
	}
	if len(rules) == 0 {
		return ""
	}
	return strings.Join(rules, "\n") + "\n"
}

func renderInsight(insight string) string {
	if insight == "" {
		return ""
	}
	return fmt.Sprintf("\nMatch insight (use to prioritize content selection only):\n\"\"\"\n%s\n\"\"\"\n", insight)
}

func orPresent(end string) string {
	if end == "" {
		return "present"
	}
	return end
}
