package main

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/flosch/pongo2/v6"
	"github.com/fsnotify/fsnotify"
	"github.com/gin-gonic/gin"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/xeonx/timeago"

	"github.com/XivasNguyen/Thuc-Web-Playwright/internal/artifacts"
	"github.com/XivasNguyen/Thuc-Web-Playwright/internal/history"
	"github.com/XivasNguyen/Thuc-Web-Playwright/internal/report"
)

var (
	serveAddr      string
	serveHistory   string
	serveRetention time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a local dashboard over the results directory",
	Long: `Serve starts a local web server over the results directory: the latest
run summary, the rendered HTML report, raw artifacts, and (when a history
database is available) pass-rate trends and flaky tests across runs.

The outcome stream is re-read when it changes on disk, so a dashboard left
open during a suite run stays current. With --retention set, artifacts
older than the given age are swept every hour.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8077", "listen address")
	serveCmd.Flags().StringVar(&serveHistory, "history", "", "sqlite history database for trends (default <results>/history.db when present)")
	serveCmd.Flags().DurationVar(&serveRetention, "retention", 0, "sweep artifacts older than this age every hour (0 disables)")
}

// dashboard caches the parsed outcome stream between requests and drops
// the cache when the file changes on disk.
type dashboard struct {
	store *artifacts.Store
	hist  *history.DB

	mu    sync.Mutex
	recs  []report.StreamRecord
	fresh bool
}

func (d *dashboard) records() []report.StreamRecord {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.fresh {
		recs, err := report.ReadStream(d.store.OutcomesPath())
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			cliLog.Printf("warning: %v", err)
		}
		d.recs = recs
		d.fresh = true
	}
	return d.recs
}

func (d *dashboard) invalidate() {
	d.mu.Lock()
	d.fresh = false
	d.mu.Unlock()
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := os.MkdirAll(resultsDir, 0755); err != nil {
		return fmt.Errorf("create results dir: %w", err)
	}
	dash := &dashboard{store: artifacts.NewStore(resultsDir)}

	histPath := serveHistory
	if histPath == "" {
		candidate := filepath.Join(resultsDir, "history.db")
		if _, err := os.Stat(candidate); err == nil {
			histPath = candidate
		}
	}
	if histPath != "" {
		db, err := history.Open(histPath)
		if err != nil {
			return err
		}
		defer db.Close()
		dash.hist = db
		cliLog.Printf("history database: %s", histPath)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start results watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(resultsDir); err != nil {
		return fmt.Errorf("watch %s: %w", resultsDir, err)
	}
	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) == filepath.Base(dash.store.OutcomesPath()) &&
					ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					dash.invalidate()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				cliLog.Printf("watcher: %v", err)
			}
		}
	}()

	if serveRetention > 0 {
		c := cron.New()
		_, err := c.AddFunc("@hourly", func() {
			removed, err := dash.store.Sweep(serveRetention)
			if err != nil {
				cliLog.Printf("retention sweep: %v", err)
				return
			}
			if removed > 0 {
				cliLog.Printf("retention sweep removed %d artifact(s)", removed)
			}
		})
		if err != nil {
			return fmt.Errorf("schedule retention sweep: %w", err)
		}
		c.Start()
		defer c.Stop()
		cliLog.Printf("retention sweep every hour, max age %s", serveRetention)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/", dash.indexHandler)
	router.GET("/report", dash.reportHandler)
	router.GET("/trends", dash.trendsHandler)
	router.GET("/flaky", dash.flakyHandler)
	router.GET("/api/summary", dash.summaryHandler)
	router.Static("/artifacts", resultsDir)

	cliLog.Printf("dashboard on %s over %s", serveAddr, resultsDir)
	return router.Run(serveAddr)
}

func (d *dashboard) indexHandler(c *gin.Context) {
	records := d.records()
	outcomes := report.MergeRecords(records)
	start, end := report.Span(outcomes)
	summary := report.Summarize(outcomes, start, end)

	finished := "never"
	if !summary.EndTime.IsZero() {
		finished = timeago.English.Format(summary.EndTime)
	}

	var recent []history.RunRow
	if d.hist != nil {
		rows, err := d.hist.RecentRuns(10)
		if err != nil {
			cliLog.Printf("warning: %v", err)
		}
		recent = rows
	}

	renderPage(c, indexTemplate, pongo2.Context{
		"summary":     summary,
		"pass_rate":   summary.PassRateString(),
		"finished":    finished,
		"run_ids":     report.RunIDs(records),
		"recent":      recent,
		"has_history": d.hist != nil,
	})
}

func (d *dashboard) reportHandler(c *gin.Context) {
	outcomes := report.MergeRecords(d.records())
	start, end := report.Span(outcomes)
	summary := report.Summarize(outcomes, start, end)
	html, err := report.Render(summary, outcomes)
	if err != nil {
		c.String(http.StatusInternalServerError, "render report: %v", err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func (d *dashboard) summaryHandler(c *gin.Context) {
	records := d.records()
	outcomes := report.MergeRecords(records)
	start, end := report.Span(outcomes)
	summary := report.Summarize(outcomes, start, end)
	c.JSON(http.StatusOK, gin.H{
		"runIds":   report.RunIDs(records),
		"passRate": summary.PassRateString(),
		"summary":  summary,
	})
}

func (d *dashboard) trendsHandler(c *gin.Context) {
	if d.hist == nil {
		c.String(http.StatusNotFound, "no history database; run merge --history first")
		return
	}
	points, err := d.hist.Trends(30)
	if err != nil {
		c.String(http.StatusInternalServerError, "%v", err)
		return
	}

	chart := ""
	if len(points) > 0 {
		chart, err = trendChart(points)
		if err != nil {
			c.String(http.StatusInternalServerError, "%v", err)
			return
		}
	}
	renderPage(c, trendsTemplate, pongo2.Context{
		"points": points,
		"chart":  chart,
	})
}

func (d *dashboard) flakyHandler(c *gin.Context) {
	if d.hist == nil {
		c.String(http.StatusNotFound, "no history database; run merge --history first")
		return
	}
	rows, err := d.hist.FlakyTests(1)
	if err != nil {
		c.String(http.StatusInternalServerError, "%v", err)
		return
	}
	renderPage(c, flakyTemplate, pongo2.Context{"rows": rows})
}

// trendChart renders the daily pass-rate line as an embeddable fragment.
func trendChart(points []history.TrendPoint) (string, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:   "720px",
			Height:  "320px",
			ChartID: "trend-line",
		}),
		charts.WithTitleOpts(opts.Title{Title: "Pass rate by day"}),
	)
	days := make([]string, len(points))
	rates := make([]opts.LineData, len(points))
	for i, p := range points {
		days[i] = p.Day
		rates[i] = opts.LineData{Value: p.PassRate}
	}
	line.SetXAxis(days).AddSeries("pass rate %", rates)

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return "", fmt.Errorf("render trend chart: %w", err)
	}
	return buf.String(), nil
}

func renderPage(c *gin.Context, tpl *pongo2.Template, ctx pongo2.Context) {
	out, err := tpl.Execute(ctx)
	if err != nil {
		c.String(http.StatusInternalServerError, "render page: %v", err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(out))
}
