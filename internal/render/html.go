package render

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/jonathan/docgen/internal/types"
)

const baseStyle = `
	body { font-family: {{.Branding.FontFamily}}; color: #1b1b1b; margin: 48px 56px; font-size: 11pt; line-height: 1.45; }
	h1 { color: {{.Branding.AccentColor}}; font-size: 20pt; margin: 0 0 2px 0; }
	h2 { color: {{.Branding.AccentColor}}; font-size: 12pt; border-bottom: 1px solid {{.Branding.AccentColor}}; padding-bottom: 2px; margin: 18px 0 8px 0; text-transform: uppercase; letter-spacing: 1px; }
	.contact { color: #555; font-size: 9.5pt; margin-bottom: 4px; }
	ul { margin: 4px 0 10px 18px; padding: 0; }
	li { margin-bottom: 3px; }
`

var resumeTemplate = template.Must(template.New("resume").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><style>` + baseStyle + `
	.role { display: flex; justify-content: space-between; font-weight: bold; }
	.dates { color: #555; font-weight: normal; font-size: 9.5pt; }
	.skills { margin: 4px 0; }
</style></head>
<body>
	<h1>{{.Info.Name}}</h1>
	<div class="contact">{{.Info.Email}}{{if .Info.Phone}} · {{.Info.Phone}}{{end}}{{if .Info.Location}} · {{.Info.Location}}{{end}}{{if .Info.LinkedIn}} · {{.Info.LinkedIn}}{{end}}</div>

	<h2>Summary</h2>
	<p>{{.Content.Summary}}</p>

	{{if .Content.Skills}}
	<h2>Skills</h2>
	<div class="skills">{{.SkillsLine}}</div>
	{{end}}

	<h2>Experience</h2>
	{{range .Content.Experience}}
	<div class="role"><span>{{.Title}} — {{.Company}}</span><span class="dates">{{.Dates}}</span></div>
	<ul>
		{{range .Bullets}}<li>{{.}}</li>{{end}}
	</ul>
	{{end}}

	{{if .Content.Education}}
	<h2>Education</h2>
	{{range .Content.Education}}
	<div>{{.Degree}}, {{.Institution}}{{if .Year}} ({{.Year}}){{end}}</div>
	{{end}}
	{{end}}
</body>
</html>`))

var coverLetterTemplate = template.Must(template.New("cover_letter").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><style>` + baseStyle + `
	p { margin: 0 0 12px 0; }
	.header { margin-bottom: 28px; }
	.closing { margin-top: 24px; white-space: pre-line; }
</style></head>
<body>
	<div class="header">
		<h1>{{.Info.Name}}</h1>
		<div class="contact">{{.Info.Email}}{{if .Info.Phone}} · {{.Info.Phone}}{{end}}</div>
		<div class="contact">Re: {{.Job.Role}} at {{.Job.Company}}</div>
	</div>

	<p>{{.Content.Greeting}}</p>
	{{range .Content.Paragraphs}}<p>{{.}}</p>{{end}}
	<p class="closing">{{.Content.Closing}}</p>
</body>
</html>`))

// brandingCSS marks the branding values as trusted CSS so the template does
// not mangle font lists. Branding comes from server configuration, never
// from user input.
type brandingCSS struct {
	AccentColor template.CSS
	FontFamily  template.CSS
}

func (b Branding) css() brandingCSS {
	b = b.withDefaults()
	return brandingCSS{
		AccentColor: template.CSS(b.AccentColor),
		FontFamily:  template.CSS(b.FontFamily),
	}
}

type resumeData struct {
	Content    *types.ResumeContent
	Info       types.PersonalInfo
	Branding   brandingCSS
	SkillsLine string
}

type coverLetterData struct {
	Content  *types.CoverLetterContent
	Info     types.PersonalInfo
	Job      types.Job
	Branding brandingCSS
}

// ResumeHTML lays out resume content as a standalone HTML document.
func ResumeHTML(content *types.ResumeContent, info types.PersonalInfo, branding Branding) (string, error) {
	if content == nil {
		return "", fmt.Errorf("resume content is nil")
	}
	var sb strings.Builder
	err := resumeTemplate.Execute(&sb, resumeData{
		Content:    content,
		Info:       info,
		Branding:   branding.css(),
		SkillsLine: strings.Join(content.Skills, " · "),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render resume template: %w", err)
	}
	return sb.String(), nil
}

// CoverLetterHTML lays out cover letter content as a standalone HTML document.
func CoverLetterHTML(content *types.CoverLetterContent, info types.PersonalInfo, job types.Job, branding Branding) (string, error) {
	if content == nil {
		return "", fmt.Errorf("cover letter content is nil")
	}
	var sb strings.Builder
	err := coverLetterTemplate.Execute(&sb, coverLetterData{
		Content:  content,
		Info:     info,
		Job:      job,
		Branding: branding.css(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render cover letter template: %w", err)
	}
	return sb.String(), nil
}
