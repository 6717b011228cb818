package sample

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jsphweid/gyrotone/model"
)

// Header is the column order of recorded samples. Temperature is optional.
var Header = []string{"ax", "ay", "az", "gx", "gy", "gz", "temp"}

// CSVSource reads samples written as ax,ay,az,gx,gy,gz[,temp]. A first line
// starting with "ax" is taken as a header and skipped. Lines starting with #
// are comments.
type CSVSource struct {
	r    *csv.Reader
	line int
}

func NewCSVSource(r io.Reader) *CSVSource {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return &CSVSource{r: cr}
}

func (s *CSVSource) Next(ctx context.Context) (model.MotionSample, error) {
	for {
		if err := ctx.Err(); err != nil {
			return model.MotionSample{}, err
		}
		record, err := s.r.Read()
		if errors.Is(err, io.EOF) {
			return model.MotionSample{}, ErrExhausted
		}
		if err != nil {
			return model.MotionSample{}, fmt.Errorf("read sample: %w", err)
		}
		s.line++
		if s.line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), Header[0]) {
			continue
		}
		m, err := parseRecord(record)
		if err != nil {
			return model.MotionSample{}, fmt.Errorf("sample line %v: %w", s.line, err)
		}
		return m, nil
	}
}

func parseRecord(record []string) (model.MotionSample, error) {
	if len(record) < 6 || len(record) > 7 {
		return model.MotionSample{}, fmt.Errorf("want 6 or 7 fields, got %v", len(record))
	}
	var vals [7]float64
	for i, field := range record {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return model.MotionSample{}, fmt.Errorf("field %v: %w", Header[i], err)
		}
		vals[i] = v
	}
	return model.MotionSample{
		Ax: vals[0], Ay: vals[1], Az: vals[2],
		Gx: vals[3], Gy: vals[4], Gz: vals[5],
		Temp: vals[6],
	}, nil
}

// OpenCSV opens a recorded sample file. The caller closes the returned file.
func OpenCSV(path string) (*CSVSource, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open samples: %w", err)
	}
	return NewCSVSource(f), f, nil
}

// WriteCSV writes samples with a header, in the format CSVSource reads.
func WriteCSV(w io.Writer, samples []model.MotionSample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, m := range samples {
		record := []string{
			formatFloat(m.Ax), formatFloat(m.Ay), formatFloat(m.Az),
			formatFloat(m.Gx), formatFloat(m.Gy), formatFloat(m.Gz),
			formatFloat(m.Temp),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
