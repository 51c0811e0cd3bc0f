package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/ngo-atlas/pkg/models/domain"
)

type TableConfig struct {
	OrgWidth   int
	RankWidth  int
	ScoreWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		OrgWidth:   14,
		RankWidth:  6,
		ScoreWidth: 11,
	}
}

// Reporter renders a rank run as a per-band text table on a terminal.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) Handle(run *domain.RankRun) error {
	funcMap := template.FuncMap{
		"formatRow": func(org, rank, growth, balance, stability, composite string) string {
			return fmt.Sprintf("| %-*s | %-*s | %-*s | %-*s | %-*s | %-*s |",
				c.config.OrgWidth, org,
				c.config.RankWidth, rank,
				c.config.ScoreWidth, growth,
				c.config.ScoreWidth, balance,
				c.config.ScoreWidth, stability,
				c.config.ScoreWidth, composite)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.OrgWidth+2),
				strings.Repeat("-", c.config.RankWidth+2),
				strings.Repeat("-", c.config.ScoreWidth+2),
				strings.Repeat("-", c.config.ScoreWidth+2),
				strings.Repeat("-", c.config.ScoreWidth+2),
				strings.Repeat("-", c.config.ScoreWidth+2))
		},
		"metric": FormatMetric,
		"rank":   func(r int) string { return fmt.Sprintf("%d", r) },
		"score":  func(v float64) string { return fmt.Sprintf("%.4f", v) },
	}

	tmpl := `
Ranking run {{.Run.ID}} ({{.Run.GeneratedAt.Format "2006-01-02 15:04:05"}} UTC)
Organizations: {{len .Run.Results}}, rejected records: {{len .Run.Warnings}}
{{range .Bands}}
=== {{.Name}} ===
{{separator}}
{{formatRow "Organization" "Rank" "Growth" "Balance" "Stability" "Composite"}}
{{separator}}
{{range .Results}}{{formatRow .OrgID (rank .Rank) (metric .GrowthScore) (metric .BalanceScore) (metric .StabilityScore) (score .Composite)}}
{{end}}{{separator}}
{{end}}{{range .Run.Warnings}}
warning: rejected record {{.OrgID}}/{{.Year}}: {{.Reason}}{{end}}
`

	t, err := template.New("ranking").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, struct {
		Run   *domain.RankRun
		Bands []bandSection
	}{Run: run, Bands: groupByBand(run.Results)})
}

type bandSection struct {
	Name    string
	Results []domain.RankedResult
}

// groupByBand splits the already band-then-rank ordered results into sections,
// preserving their order.
func groupByBand(results []domain.RankedResult) []bandSection {
	var sections []bandSection
	for _, r := range results {
		if len(sections) == 0 || sections[len(sections)-1].Name != r.Band {
			sections = append(sections, bandSection{Name: r.Band})
		}
		last := &sections[len(sections)-1]
		last.Results = append(last.Results, r)
	}
	return sections
}

// FormatMetric renders undefined as a visible marker, never as a zero.
func FormatMetric(m domain.Metric) string {
	if !m.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", m.Value)
}
