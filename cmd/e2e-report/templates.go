package main

import "github.com/flosch/pongo2/v6"

// Dashboard pages share one small stylesheet; the full report keeps its
// own styling in internal/report.
const pageStyle = `<style>
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; margin: 0; background: #f6f7f9; color: #1f2933; }
header { background: #132a3a; color: #fff; padding: 20px 32px; }
header h1 { margin: 0; font-size: 20px; }
nav a { color: #9fb3c8; margin-right: 16px; font-size: 13px; text-decoration: none; }
nav a:hover { color: #fff; }
main { padding: 24px 32px; max-width: 960px; margin: 0 auto; }
.summary { display: flex; gap: 12px; flex-wrap: wrap; margin-bottom: 24px; }
.stat { background: #fff; border-radius: 8px; padding: 14px 18px; min-width: 100px; box-shadow: 0 1px 2px rgba(0,0,0,.08); }
.stat .num { display: block; font-size: 24px; font-weight: 600; }
.stat.passed .num { color: #2e7d32; }
.stat.failed .num { color: #c62828; }
.stat.flaky .num { color: #6a1b9a; }
table { width: 100%; border-collapse: collapse; background: #fff; border-radius: 8px; overflow: hidden; box-shadow: 0 1px 2px rgba(0,0,0,.08); }
th, td { text-align: left; padding: 9px 14px; border-bottom: 1px solid #e4e7eb; font-size: 14px; }
th { background: #f0f2f5; font-size: 12px; text-transform: uppercase; letter-spacing: .04em; color: #52606d; }
.muted { color: #9aa5b1; font-size: 13px; }
</style>`

const pageHeader = `<header>
<h1>Swag Shop E2E Results</h1>
<nav><a href="/">summary</a><a href="/report">full report</a><a href="/trends">trends</a><a href="/flaky">flaky tests</a></nav>
</header>`

var indexTemplate = pongo2.Must(pongo2.FromString(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>E2E Results</title>` + pageStyle + `</head>
<body>` + pageHeader + `
<main>
<p class="muted">latest run finished {{ finished }}{% if run_ids %} | run id{{ run_ids|length|pluralize }}: {% for id in run_ids %}{{ id }} {% endfor %}{% endif %}</p>
<section class="summary">
<div class="stat"><span class="num">{{ summary.Total }}</span>total</div>
<div class="stat passed"><span class="num">{{ summary.Passed }}</span>passed</div>
<div class="stat failed"><span class="num">{{ summary.Failed }}</span>failed</div>
<div class="stat"><span class="num">{{ summary.Skipped }}</span>skipped</div>
<div class="stat flaky"><span class="num">{{ summary.Flaky }}</span>flaky</div>
<div class="stat"><span class="num">{{ pass_rate }}%</span>pass rate</div>
</section>
{% if has_history %}
<h2>Recent runs</h2>
<table>
<thead><tr><th>Run</th><th>Project</th><th>Finished</th><th>Total</th><th>Passed</th><th>Failed</th><th>Pass rate</th></tr></thead>
<tbody>
{% for run in recent %}
<tr><td>{{ run.RunID }}</td><td>{{ run.Project }}</td><td>{{ run.FinishedAt|date:"2006-01-02 15:04" }}</td><td>{{ run.Total }}</td><td>{{ run.Passed }}</td><td>{{ run.Failed }}</td><td>{{ run.PassRate|floatformat:1 }}%</td></tr>
{% endfor %}
{% if not recent %}<tr><td colspan="7" class="muted">No runs recorded yet.</td></tr>{% endif %}
</tbody>
</table>
{% endif %}
</main>
</body>
</html>`))

var trendsTemplate = pongo2.Must(pongo2.FromString(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>E2E Trends</title>` + pageStyle + `</head>
<body>` + pageHeader + `
<main>
{% if chart %}{{ chart|safe }}{% else %}<p class="muted">No runs recorded in the last 30 days.</p>{% endif %}
<table>
<thead><tr><th>Day</th><th>Runs</th><th>Avg pass rate</th></tr></thead>
<tbody>
{% for p in points %}
<tr><td>{{ p.Day }}</td><td>{{ p.Runs }}</td><td>{{ p.PassRate|floatformat:1 }}%</td></tr>
{% endfor %}
</tbody>
</table>
</main>
</body>
</html>`))

var flakyTemplate = pongo2.Must(pongo2.FromString(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Flaky Tests</title>` + pageStyle + `</head>
<body>` + pageHeader + `
<main>
<table>
<thead><tr><th>Test</th><th>Flaky runs</th><th>Failures</th><th>Recorded attempts</th></tr></thead>
<tbody>
{% for row in rows %}
<tr><td>{{ row.Title }}</td><td>{{ row.Flakes }}</td><td>{{ row.Failures }}</td><td>{{ row.Attempts }}</td></tr>
{% endfor %}
{% if not rows %}<tr><td colspan="4" class="muted">No flaky tests on record.</td></tr>{% endif %}
</tbody>
</table>
</main>
</body>
</html>`))
