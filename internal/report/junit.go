package report

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"ctp/internal/domain"
)

type junitTestSuites struct {
	XMLName  xml.Name         `xml:"testsuites"`
	Name     string           `xml:"name,attr"`
	Tests    int              `xml:"tests,attr"`
	Failures int              `xml:"failures,attr"`
	Time     string           `xml:"time,attr"`
	Suites   []junitTestSuite `xml:"testsuite"`
}

type junitTestSuite struct {
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Time      string          `xml:"time,attr"`
	Timestamp string          `xml:"timestamp,attr,omitempty"`
	Cases     []junitTestCase `xml:"testcase"`
}

type junitTestCase struct {
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	File      string        `xml:"file,attr,omitempty"`
	Time      string        `xml:"time,attr"`
	Failure   *junitFailure `xml:"failure,omitempty"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}

// WriteJUnit renders run results as JUnit XML, one testsuite per case suite
func WriteJUnit(w io.Writer, run Run) error {
	bySuite := make(map[string][]domain.CaseResult)
	for _, r := range run.Results {
		bySuite[r.Suite] = append(bySuite[r.Suite], r)
	}
	names := make([]string, 0, len(bySuite))
	for name := range bySuite {
		names = append(names, name)
	}
	sort.Strings(names)

	doc := junitTestSuites{
		Name:  "ctp",
		Tests: len(run.Results),
		Time:  seconds(run.Duration),
	}
	for _, name := range names {
		results := bySuite[name]
		sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })

		suite := junitTestSuite{Name: name, Tests: len(results)}
		if !run.Finished.IsZero() {
			suite.Timestamp = run.Finished.UTC().Format("2006-01-02T15:04:05")
		}
		var elapsed time.Duration
		for _, r := range results {
			elapsed += r.Duration
			tc := junitTestCase{
				Name:      fmt.Sprintf("%s [%s]", r.Name, r.Partition),
				ClassName: r.Suite,
				File:      r.Source,
				Time:      seconds(r.Duration),
			}
			if !r.Passed {
				suite.Failures++
				kind := "mismatch"
				if r.TimedOut {
					kind = "timeout"
				}
				tc.Failure = &junitFailure{
					Message: fmt.Sprintf("expected %s, got %s", r.Expected, r.Actual),
					Type:    kind,
					Body:    r.Detail,
				}
			}
			suite.Cases = append(suite.Cases, tc)
		}
		suite.Time = seconds(elapsed)
		doc.Failures += suite.Failures
		doc.Suites = append(doc.Suites, suite)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode junit report: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteJUnitFile writes the JUnit report to path, creating parent directories
func WriteJUnitFile(path string, run Run) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create junit dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create junit report: %w", err)
	}
	if err := WriteJUnit(f, run); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
