package store

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/luki/sensorsim/internal/sensor"
)

// The data file holds one record per line:
//
//	timestamp,name,value,unit
//
// Fields are not quoted or escaped. A comma inside timestamp, name or value
// shifts the fields and corrupts the record on reload; a comma inside the
// unit survives because everything after the third comma is the unit.

var errNotFinite = errors.New("value is not a finite number")

// ParseError reports a record whose value field is not a finite number.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: invalid value in %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// LoadReport summarises a load.
type LoadReport struct {
	Loaded    int           // records appended
	Skipped   int           // lines with missing or empty fields
	Malformed []*ParseError // records with a non-numeric or non-finite value
}

// Err joins the per-record parse errors, or returns nil.
func (r LoadReport) Err() error {
	errs := make([]error, len(r.Malformed))
	for i, e := range r.Malformed {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// FormatRecord renders m as a data file line without the trailing newline.
func FormatRecord(m sensor.Measurement) string {
	return m.Timestamp + "," + m.Name + "," + strconv.FormatFloat(m.Value, 'g', -1, 64) + "," + m.Unit
}

// Encode writes every measurement as a record.
func Encode(w io.Writer, ms []sensor.Measurement) error {
	bw := bufio.NewWriter(w)
	for _, m := range ms {
		if _, err := bw.WriteString(FormatRecord(m) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Decode reads records from r. Lines with fewer than four fields or an
// empty field are skipped; lines with a non-numeric value are skipped and
// listed in the report. The returned error is only for read failures.
func Decode(r io.Reader) ([]sensor.Measurement, LoadReport, error) {
	var (
		out    []sensor.Measurement
		report LoadReport
	)

	br := bufio.NewReader(r)
	for lineNo := 1; ; lineNo++ {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, report, err
		}
		atEOF := err != nil

		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) != "" {
			m, perr, ok := parseRecord(line, lineNo)
			switch {
			case perr != nil:
				report.Malformed = append(report.Malformed, perr)
			case !ok:
				report.Skipped++
			default:
				out = append(out, m)
			}
		}

		if atEOF {
			break
		}
	}

	report.Loaded = len(out)
	return out, report, nil
}

func parseRecord(line string, lineNo int) (sensor.Measurement, *ParseError, bool) {
	fields := strings.SplitN(line, ",", 4)
	if len(fields) < 4 {
		return sensor.Measurement{}, nil, false
	}
	for _, f := range fields {
		if f == "" {
			return sensor.Measurement{}, nil, false
		}
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
	if err != nil {
		return sensor.Measurement{}, &ParseError{Line: lineNo, Text: line, Err: err}, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sensor.Measurement{}, &ParseError{Line: lineNo, Text: line, Err: errNotFinite}, false
	}

	return sensor.Measurement{
		Timestamp: fields[0],
		Name:      fields[1],
		Value:     v,
		Unit:      fields[3],
	}, nil, true
}

// Save overwrites path with every stored measurement in insertion order.
func (s *Storage) Save(path string) error {
	return WriteFile(path, s.data)
}

// WriteFile overwrites path with ms. Callers that hand ms to another
// goroutine should pass a copy from Storage.All.
func WriteFile(path string, ms []sensor.Measurement) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", path, err)
	}

	if err := Encode(f, ms); err != nil {
		f.Close()
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("cannot close %s: %w", path, err)
	}
	return nil
}

// Load appends the records in path to the storage. If the file cannot be
// opened or read, the storage is left unchanged and an error is returned.
// Malformed records do not fail the load; see LoadReport.
func (s *Storage) Load(path string) (LoadReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return LoadReport{}, fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer f.Close()

	ms, report, err := Decode(f)
	if err != nil {
		return LoadReport{}, fmt.Errorf("cannot read %s: %w", path, err)
	}

	s.data = append(s.data, ms...)
	return report, nil
}
