package samples

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"

	"benchse/domain/stats"
	"benchse/internal/errors"
)

// TextReader reads one series of newline-separated numbers. Blank lines and
// lines starting with '#' are skipped.
type TextReader struct {
	r    io.Reader
	name string
}

// NewTextReader creates a new text reader
func NewTextReader(r io.Reader, name string) *TextReader {
	return &TextReader{r: r, name: name}
}

// ReadSeries reads the whole stream as a single series
func (t *TextReader) ReadSeries(ctx context.Context) ([]stats.Series, error) {
	values, err := ParseValues(ctx, t.r)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", t.name)
	}
	return []stats.Series{stats.NewSeries(t.name, values)}, nil
}

// ParseValues parses newline-separated numbers in order
func ParseValues(ctx context.Context, r io.Reader) ([]float64, error) {
	var values []float64
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		if line%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, errors.Newf(errors.CodeInvalidInput, "line %d: %q is not a number", line, text)
		}
		values = append(values, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scan failed")
	}
	return values, nil
}
