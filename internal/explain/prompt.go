package explain

import (
	"bytes"
	"text/template"

	"github.com/abhisek/emtquiz/internal/knowledge"
)

const explainSystemPrompt = `You are an expert EMT instructor. Based on the provided EMT knowledge base, explain the answer to the student's quiz question. Structure the explanation for easy learning and keep it concise. Reply in plain text.`

var explainUserTemplate = template.Must(template.New("explain").Parse(`Knowledge Base Context:
{{range $i, $t := .Topics}}{{if $i}}
---

{{end}}Topic: {{$t.Name}}
Content: {{$t.Content}}
{{end}}
Quiz Question:
"{{.QuestionText}}"

Options:
{{range .Options}}- {{.Text}}
{{end}}
The Correct Answer is:
"{{.Correct}}"

The student answered:
"{{.Chosen}}"

Please provide a clear and concise explanation for why the correct answer is right. If the student's answer was incorrect, also explain why their choice was wrong.`))

type explainData struct {
	Topics       []knowledge.Topic
	QuestionText string
	Options      []struct{ Text string }
	Correct      string
	Chosen       string
}

func buildExplainMessage(req Request, topics []knowledge.Topic) (string, error) {
	data := explainData{
		Topics:       topics,
		QuestionText: req.Question.QuestionText,
		Chosen:       "Not answered",
	}
	for _, o := range req.Question.Options {
		data.Options = append(data.Options, struct{ Text string }{o.Text})
	}
	if c, ok := req.Question.CorrectOption(); ok {
		data.Correct = c.Text
	}
	if req.Chosen != nil && *req.Chosen != "" {
		data.Chosen = *req.Chosen
	}

	var buf bytes.Buffer
	if err := explainUserTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
