// internal/workers/health/notify-health-report/templates.go
package notifyhealthreport

import (
	"bytes"
	htmltemplate "html/template"
	"text/template"

	"financial-health-workers/internal/healthscore"
)

var (
	subjectTmpl = template.Must(template.New("subject").Parse(
		`Your financial health score: {{.Score}} ({{.Label}})`))

	textTmpl = template.Must(template.New("text").Parse(
		`Hi {{.Name}},

Your financial health score is {{.Score}} out of 100 ({{.Label}}).
{{range .Suggestions}}
- {{.Title}}: {{.Description}}{{end}}

Report reference: {{.ReportID}}
`))

	htmlTmpl = htmltemplate.Must(htmltemplate.New("html").Parse(
		`<p>Hi {{.Name}},</p>
<p>Your financial health score is <strong>{{.Score}}</strong> out of 100 ({{.Label}}).</p>
{{if .Suggestions}}<ul>{{range .Suggestions}}<li><strong>{{.Title}}</strong>: {{.Description}}</li>{{end}}</ul>{{end}}
<p style="color:#888">Report reference: {{.ReportID}}</p>`))

	smsTmpl = template.Must(template.New("sms").Parse(
		`Your financial health score is {{.Score}}/100 ({{.Label}}). Open the planner to see how to improve it.`))
)

type messageData struct {
	Name        string
	Score       int
	Label       string
	ReportID    string
	Suggestions []healthscore.Suggestion
}

func newMessageData(input *Input) messageData {
	name := input.Name
	if name == "" {
		name = "there"
	}
	return messageData{
		Name:        name,
		Score:       input.Score,
		Label:       healthscore.Interpret(input.Score).Label,
		ReportID:    input.ReportID,
		Suggestions: input.Suggestions,
	}
}


func render(t *template.Template, data messageData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderHTML(t *htmltemplate.Template, data messageData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
