package report

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
)

// JUnit document shapes, matching the classic testsuites layout that CI
// systems ingest.
type JUnitTestSuites struct {
	XMLName  xml.Name         `xml:"testsuites"`
	Tests    int              `xml:"tests,attr"`
	Failures int              `xml:"failures,attr"`
	Skipped  int              `xml:"skipped,attr"`
	Time     string           `xml:"time,attr"`
	Suites   []JUnitTestSuite `xml:"testsuite"`
}

type JUnitTestSuite struct {
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Skipped   int             `xml:"skipped,attr"`
	Time      string          `xml:"time,attr"`
	TestCases []JUnitTestCase `xml:"testcase"`
}

type JUnitTestCase struct {
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Time      string        `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
}

type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Content string `xml:",chardata"`
}

type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// JUnitFromOutcomes maps a finished run onto a single-suite junit
// document. Flaky outcomes count as passing cases; the failed attempts
// that preceded them are separate entries and keep their failure
// elements.
func JUnitFromOutcomes(summary Summary, outcomes []Outcome) JUnitTestSuites {
	suite := JUnitTestSuite{
		Name:     "swag-shop-e2e",
		Tests:    summary.Total,
		Failures: summary.Failed,
		Skipped:  summary.Skipped,
		Time:     junitSeconds(summary.Duration().Milliseconds()),
	}
	for _, o := range outcomes {
		tc := JUnitTestCase{
			Name:      o.Title,
			Classname: junitClassname(o),
			Time:      junitSeconds(o.DurationMs),
		}
		switch o.Status {
		case StatusFailed:
			tc.Failure = &JUnitFailure{
				Message: o.ErrorMessage,
				Content: o.ErrorStack,
			}
		case StatusSkipped:
			tc.Skipped = &JUnitSkipped{}
		}
		suite.TestCases = append(suite.TestCases, tc)
	}
	return JUnitTestSuites{
		Tests:    suite.Tests,
		Failures: suite.Failures,
		Skipped:  suite.Skipped,
		Time:     suite.Time,
		Suites:   []JUnitTestSuite{suite},
	}
}

func junitClassname(o Outcome) string {
	if o.File != "" {
		return o.File
	}
	if o.Project != "" {
		return o.Project
	}
	return "e2e"
}

func junitSeconds(ms int64) string {
	return fmt.Sprintf("%.3f", float64(ms)/1000)
}

// WriteJUnit marshals the run as junit XML at path.
func WriteJUnit(path string, summary Summary, outcomes []Outcome) error {
	doc := JUnitFromOutcomes(summary, outcomes)
	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal junit: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	payload := append([]byte(xml.Header), data...)
	payload = append(payload, '\n')
	if err := os.WriteFile(path, payload, 0644); err != nil {
		return fmt.Errorf("write junit: %w", err)
	}
	return nil
}
