package report

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/flosch/pongo2/v6"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// reportRow is the per-outcome view model handed to the template.
type reportRow struct {
	Title       string
	File        string
	Project     string
	Status      string
	StatusClass string
	Duration    string
	Retry       int
	Error       string
	Stack       string
	Attachments []reportLink
}

type reportLink struct {
	Name string
	Href string
}

// Render produces the static HTML report for a finished run. It is a
// pure function of its inputs: identical summaries and outcome
// sequences render byte-identical documents, so golden files stay
// stable. All test-controlled strings (titles, error messages, stacks)
// pass through the template engine's autoescaping; the pre-rendered
// chart fragments are the only markup let through unescaped.
func Render(summary Summary, outcomes []Outcome) (string, error) {
	rows := make([]reportRow, 0, len(outcomes))
	for _, o := range outcomes {
		rows = append(rows, rowFor(o))
	}

	statuses, err := statusChart(summary)
	if err != nil {
		return "", err
	}
	durations, err := durationChart(outcomes)
	if err != nil {
		return "", err
	}

	out, err := reportTemplate.Execute(pongo2.Context{
		"summary":        summary,
		"pass_rate":      summary.PassRateString(),
		"started":        formatTime(summary.StartTime),
		"finished":       formatTime(summary.EndTime),
		"duration":       summary.Duration().Round(time.Millisecond).String(),
		"rows":           rows,
		"status_chart":   statuses,
		"duration_chart": durations,
	})
	if err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return out, nil
}

func rowFor(o Outcome) reportRow {
	row := reportRow{
		Title:       o.Title,
		File:        o.File,
		Project:     o.Project,
		Status:      string(o.Status),
		StatusClass: statusClass(o.Status),
		Duration:    FormatDuration(o.DurationMs),
		Retry:       o.Retry,
		Error:       o.ErrorMessage,
		Stack:       o.ErrorStack,
	}
	for _, att := range o.Attachments {
		row.Attachments = append(row.Attachments, reportLink{Name: att.Name, Href: att.Path})
	}
	return row
}

func statusClass(s Status) string {
	if s.Valid() {
		return string(s)
	}
	return "unknown"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02 15:04:05 MST")
}

// statusChart renders the per-status pie. The chart id is fixed so the
// emitted markup stays deterministic.
func statusChart(s Summary) (string, error) {
	if s.Total == 0 {
		return "", nil
	}
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:   "420px",
			Height:  "280px",
			ChartID: "status-pie",
		}),
		charts.WithTitleOpts(opts.Title{Title: "Outcomes by status"}),
	)
	pie.AddSeries("outcomes", []opts.PieData{
		{Name: "passed", Value: s.Passed},
		{Name: "failed", Value: s.Failed},
		{Name: "skipped", Value: s.Skipped},
		{Name: "flaky", Value: s.Flaky},
	})
	return renderChart(pie)
}

// durationChart renders a bar chart of the slowest tests. Ordering is
// stable: ties keep arrival order.
func durationChart(outcomes []Outcome) (string, error) {
	if len(outcomes) == 0 {
		return "", nil
	}
	slowest := make([]Outcome, len(outcomes))
	copy(slowest, outcomes)
	sort.SliceStable(slowest, func(i, j int) bool {
		return slowest[i].DurationMs > slowest[j].DurationMs
	})
	if len(slowest) > 5 {
		slowest = slowest[:5]
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:   "620px",
			Height:  "280px",
			ChartID: "slowest-bar",
		}),
		charts.WithTitleOpts(opts.Title{Title: "Slowest tests (ms)"}),
	)

	names := make([]string, len(slowest))
	values := make([]opts.BarData, len(slowest))
	for i, o := range slowest {
		names[i] = truncate(o.Title, 32)
		values[i] = opts.BarData{Value: o.DurationMs}
	}
	bar.SetXAxis(names).AddSeries("duration", values)
	return renderChart(bar)
}

type chartRenderer interface {
	Render(w io.Writer) error
}

func renderChart(c chartRenderer) (string, error) {
	var buf bytes.Buffer
	if err := c.Render(&buf); err != nil {
		return "", fmt.Errorf("render chart: %w", err)
	}
	return buf.String(), nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

var reportTemplate = pongo2.Must(pongo2.FromString(reportTemplateSource))

const reportTemplateSource = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Swag Shop E2E Report</title>
<style>
:root { --ok:#2e7d32; --bad:#c62828; --skip:#f9a825; --flaky:#6a1b9a; }
* { box-sizing: border-box; }
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; margin: 0; background: #f6f7f9; color: #1f2933; }
header { background: #132a3a; color: #fff; padding: 24px 32px; }
header h1 { margin: 0 0 4px; font-size: 22px; }
header .meta { margin: 0; color: #9fb3c8; font-size: 13px; }
main { padding: 24px 32px; max-width: 1100px; margin: 0 auto; }
.summary { display: flex; gap: 12px; flex-wrap: wrap; margin-bottom: 24px; }
.stat { background: #fff; border-radius: 8px; padding: 14px 18px; min-width: 110px; box-shadow: 0 1px 2px rgba(0,0,0,.08); }
.stat .num { display: block; font-size: 26px; font-weight: 600; }
.stat.passed .num { color: var(--ok); }
.stat.failed .num { color: var(--bad); }
.stat.skipped .num { color: var(--skip); }
.stat.flaky .num { color: var(--flaky); }
.charts { display: flex; gap: 16px; flex-wrap: wrap; margin-bottom: 24px; }
table { width: 100%; border-collapse: collapse; background: #fff; border-radius: 8px; overflow: hidden; box-shadow: 0 1px 2px rgba(0,0,0,.08); }
th, td { text-align: left; padding: 10px 14px; border-bottom: 1px solid #e4e7eb; vertical-align: top; font-size: 14px; }
th { background: #f0f2f5; font-size: 12px; text-transform: uppercase; letter-spacing: .04em; color: #52606d; }
tr.failed { background: #fff5f5; }
tr.flaky { background: #faf5ff; }
.badge { display: inline-block; padding: 2px 8px; border-radius: 10px; font-size: 12px; font-weight: 600; color: #fff; }
.badge.passed { background: var(--ok); }
.badge.failed { background: var(--bad); }
.badge.skipped { background: var(--skip); color: #1f2933; }
.badge.flaky { background: var(--flaky); }
.badge.unknown { background: #9aa5b1; }
.file { color: #52606d; font-size: 12px; margin-top: 2px; }
pre.error { background: #2d2d2d; color: #ff8a80; padding: 8px 10px; border-radius: 6px; font-size: 12px; white-space: pre-wrap; margin: 8px 0 0; }
details pre { background: #2d2d2d; color: #e0e0e0; padding: 8px 10px; border-radius: 6px; font-size: 11px; white-space: pre-wrap; }
.missing { color: #9aa5b1; font-style: italic; font-size: 12px; }
td.attachments a { display: block; font-size: 12px; }
footer { text-align: center; color: #9aa5b1; font-size: 12px; padding: 16px; }
</style>
</head>
<body>
<header>
<h1>Swag Shop E2E Report</h1>
<p class="meta">started {{ started }} | finished {{ finished }} | took {{ duration }}</p>
</header>
<main>
<section class="summary">
<div class="stat"><span class="num">{{ summary.Total }}</span>total</div>
<div class="stat passed"><span class="num">{{ summary.Passed }}</span>passed</div>
<div class="stat failed"><span class="num">{{ summary.Failed }}</span>failed</div>
<div class="stat skipped"><span class="num">{{ summary.Skipped }}</span>skipped</div>
<div class="stat flaky"><span class="num">{{ summary.Flaky }}</span>flaky</div>
<div class="stat"><span class="num">{{ pass_rate }}%</span>pass rate</div>
</section>
{% if status_chart %}
<section class="charts">
{{ status_chart|safe }}
{{ duration_chart|safe }}
</section>
{% endif %}
<table>
<thead>
<tr><th>Status</th><th>Test</th><th>Duration</th><th>Retry</th><th>Artifacts</th></tr>
</thead>
<tbody>
{% for row in rows %}
<tr class="{{ row.StatusClass }}">
<td><span class="badge {{ row.StatusClass }}">{{ row.Status }}</span></td>
<td>
<div class="title">{{ row.Title }}</div>
{% if row.File %}<div class="file">{{ row.File }}{% if row.Project %} ({{ row.Project }}){% endif %}</div>{% endif %}
{% if row.Error %}<pre class="error">{{ row.Error }}</pre>{% endif %}
{% if row.Stack %}<details><summary>stack</summary><pre>{{ row.Stack }}</pre></details>{% endif %}
</td>
<td>{{ row.Duration }}</td>
<td>{{ row.Retry }}</td>
<td class="attachments">
{% for att in row.Attachments %}{% if att.Href %}<a href="{{ att.Href }}">{{ att.Name }}</a>{% else %}<span class="missing">{{ att.Name }}: not captured</span>{% endif %}
{% endfor %}</td>
</tr>
{% endfor %}
{% if not rows %}
<tr><td colspan="5" class="missing">No tests were recorded in this run.</td></tr>
{% endif %}
</tbody>
</table>
</main>
<footer>swag shop e2e suite</footer>
</body>
</html>
`
