package ritual

import (
	"html/template"
	"strings"
)

// cardTmpl renders one pond turn as a self-contained HTML fragment.
// Level classes (pond-l0..pond-l2) let a host page theme the water depth.
var cardTmpl = template.Must(template.New("card").Parse(
	`<div class="pond-card pond-l{{.Level}}">
  <div class="pond-title">{{.Icon}} {{.LevelName}} · {{.Round}}</div>
  <div class="pond-metaphor">{{.Metaphor}}</div>
  <div class="pond-body">{{.Body}}</div>
</div>`))

type cardData struct {
	Level     int
	Icon      string
	LevelName string
	Round     string
	Metaphor  string
	Body      template.HTML
}

// Card renders a turn as an HTML pond card. The body text is escaped
// before newlines become <br> tags.
func (t Turn) Card() (string, error) {
	body := template.HTMLEscapeString(t.Body)
	body = strings.ReplaceAll(body, "\n", "<br>")

	var b strings.Builder
	err := cardTmpl.Execute(&b, cardData{
		Level:     t.Level,
		Icon:      t.Icon,
		LevelName: t.LevelName,
		Round:     t.Round,
		Metaphor:  t.Metaphor,
		Body:      template.HTML(body),
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
