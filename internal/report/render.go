package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"benchse/domain/stats"
	"benchse/internal/errors"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

var columns = []string{"series", "n", "mean", "std err", "naive std err", "eff. n", "lag-1 r", "ci lower", "ci upper", "status"}

// Render writes report in format: text, json, markdown or html
func Render(w io.Writer, report *Report, format string) error {
	switch strings.ToLower(format) {
	case "text", "":
		return renderText(w, report)
	case "json":
		return renderJSON(w, report)
	case "markdown", "md":
		_, err := io.WriteString(w, Markdown(report))
		return err
	case "html":
		_, err := w.Write(HTML(report))
		return err
	default:
		return errors.Unsupported(format)
	}
}

func cells(row Row) []string {
	s := row.Summary
	est := s.Estimation
	return []string{
		s.Name,
		strconv.Itoa(est.N),
		formatFloat(est.Mean),
		formatFloat(est.StdErr),
		formatFloat(est.NaiveStdErr),
		formatFloat(est.EffectiveN),
		formatFloat(s.Lag1Corr),
		formatFloat(s.CILower),
		formatFloat(s.CIUpper),
		row.Status,
	}
}

func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "n/a"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func renderText(w io.Writer, report *Report) error {
	fmt.Fprintf(w, "run %s, %.0f%% confidence\n\n", report.RunID, report.Confidence*100)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(columns, "\t"))
	for _, row := range report.Rows {
		fmt.Fprintln(tw, strings.Join(cells(row), "\t"))
	}
	return tw.Flush()
}

// Markdown renders the report as a markdown document with one table
func Markdown(report *Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Benchmark uncertainty\n\nRun `%s`, %.0f%% confidence intervals.\n\n", report.RunID, report.Confidence*100)
	b.WriteString("| " + strings.Join(columns, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(columns)) + "\n")
	for _, row := range report.Rows {
		c := cells(row)
		for i := range c {
			c[i] = strings.ReplaceAll(c[i], "|", `\|`)
		}
		b.WriteString("| " + strings.Join(c, " | ") + " |\n")
	}
	return b.String()
}

// HTML renders the markdown report as a complete HTML page
func HTML(report *Report) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage | html.SkipHTML,
		Title: "Benchmark uncertainty " + report.RunID,
	})
	return markdown.ToHTML([]byte(Markdown(report)), p, renderer)
}

// jsonNumber encodes NaN and infinities as null
type jsonNumber float64

func (n jsonNumber) MarshalJSON() ([]byte, error) {
	v := float64(n)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

type jsonRow struct {
	Name        string     `json:"name"`
	Status      string     `json:"status"`
	N           int        `json:"n"`
	MaxLag      int        `json:"max_lag"`
	Mean        jsonNumber `json:"mean"`
	Variance    jsonNumber `json:"variance"`
	StdDev      jsonNumber `json:"std_dev"`
	Min         jsonNumber `json:"min"`
	Max         jsonNumber `json:"max"`
	Median      jsonNumber `json:"median"`
	StdErr      jsonNumber `json:"std_err"`
	NaiveStdErr jsonNumber `json:"naive_std_err"`
	EffectiveN  jsonNumber `json:"effective_n"`
	Lag1Corr    jsonNumber `json:"lag1_autocorrelation"`
	CILower     jsonNumber `json:"ci_lower"`
	CIUpper     jsonNumber `json:"ci_upper"`
}

type jsonReport struct {
	RunID       string    `json:"run_id"`
	GeneratedAt string    `json:"generated_at"`
	Confidence  float64   `json:"confidence"`
	Rows        []jsonRow `json:"rows"`
}

func renderJSON(w io.Writer, report *Report) error {
	out := jsonReport{
		RunID:       report.RunID,
		GeneratedAt: report.GeneratedAt.Format(time.RFC3339),
		Confidence:  report.Confidence,
		Rows:        make([]jsonRow, len(report.Rows)),
	}
	for i, row := range report.Rows {
		s := row.Summary
		est := s.Estimation
		out.Rows[i] = jsonRow{
			Name:        s.Name,
			Status:      row.Status,
			N:           est.N,
			MaxLag:      est.MaxLag,
			Mean:        jsonNumber(est.Mean),
			Variance:    jsonNumber(est.Variance),
			StdDev:      jsonNumber(s.StdDev),
			Min:         jsonNumber(s.Min),
			Max:         jsonNumber(s.Max),
			Median:      jsonNumber(s.Median),
			StdErr:      jsonNumber(est.StdErr),
			NaiveStdErr: jsonNumber(est.NaiveStdErr),
			EffectiveN:  jsonNumber(est.EffectiveN),
			Lag1Corr:    jsonNumber(s.Lag1Corr),
			CILower:     jsonNumber(s.CILower),
			CIUpper:     jsonNumber(s.CIUpper),
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// WriteEstimation writes a single estimation as aligned key/value text or
// as JSON
func WriteEstimation(w io.Writer, name string, est stats.Estimation, format string) error {
	switch strings.ToLower(format) {
	case "text", "":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "series\t%s\n", name)
		fmt.Fprintf(tw, "n\t%d\n", est.N)
		fmt.Fprintf(tw, "max lag\t%d\n", est.MaxLag)
		fmt.Fprintf(tw, "mean\t%s\n", formatFloat(est.Mean))
		fmt.Fprintf(tw, "variance\t%s\n", formatFloat(est.Variance))
		fmt.Fprintf(tw, "autocovariance\t%s\n", formatFloat(est.Autocovariance))
		fmt.Fprintf(tw, "std err\t%s\n", formatFloat(est.StdErr))
		fmt.Fprintf(tw, "naive std err\t%s\n", formatFloat(est.NaiveStdErr))
		fmt.Fprintf(tw, "effective n\t%s\n", formatFloat(est.EffectiveN))
		return tw.Flush()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Name           string     `json:"name"`
			N              int        `json:"n"`
			MaxLag         int        `json:"max_lag"`
			Mean           jsonNumber `json:"mean"`
			Variance       jsonNumber `json:"variance"`
			Autocovariance jsonNumber `json:"autocovariance"`
			StdErr         jsonNumber `json:"std_err"`
			NaiveStdErr    jsonNumber `json:"naive_std_err"`
			EffectiveN     jsonNumber `json:"effective_n"`
		}{
			Name:           name,
			N:              est.N,
			MaxLag:         est.MaxLag,
			Mean:           jsonNumber(est.Mean),
			Variance:       jsonNumber(est.Variance),
			Autocovariance: jsonNumber(est.Autocovariance),
			StdErr:         jsonNumber(est.StdErr),
			NaiveStdErr:    jsonNumber(est.NaiveStdErr),
			EffectiveN:     jsonNumber(est.EffectiveN),
		})
	default:
		return errors.Unsupported(format)
	}
}
