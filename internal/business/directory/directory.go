// Package directory serves lookups over the bundled phone-directory CSVs:
// a comma-separated country-code sheet and a semicolon-separated number
// sheet. Matches are re-rendered as CSV with the source header preserved.
package directory

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"

	"github.com/scamadvisory/verify-api/pkg/util"
)

var (
	// ErrNotFound means the sheet loaded fine but no row matched.
	ErrNotFound = errors.New("directory: no matching rows")
	// ErrMissingColumn means the sheet lacks the lookup column.
	ErrMissingColumn = errors.New("directory: lookup column not found")
)

const (
	countryCodeColumn = "Phone Code"
	phoneNumberColumn = "PhoneNumber"
)

// Service answers lookups against the two directory sheets.
type Service struct {
	countryPath string
	numPath     string
}

// NewService creates a directory service over the given CSV paths.
func NewService(countryPath, numPath string) *Service {
	return &Service{countryPath: countryPath, numPath: numPath}
}

// ByCountryCode returns the country-code sheet rows whose Phone Code matches
// the normalized code, rendered as CSV.
func (s *Service) ByCountryCode(code string) (string, error) {
	return lookup(s.countryPath, ',', countryCodeColumn, code)
}

// ByNumber returns the number sheet rows whose PhoneNumber matches the
// normalized number, rendered as CSV.
func (s *Service) ByNumber(number string) (string, error) {
	return lookup(s.numPath, ';', phoneNumberColumn, number)
}

func lookup(path string, delim rune, column, value string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open directory sheet: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = delim
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return "", fmt.Errorf("read directory sheet: %w", err)
	}
	if len(records) == 0 {
		return "", ErrNotFound
	}

	header := records[0]
	col := -1
	for i, name := range header {
		if name == column {
			col = i
			break
		}
	}
	if col < 0 {
		return "", fmt.Errorf("%w: %s", ErrMissingColumn, column)
	}

	want := util.NormalizeDialCode(value)
	matched := [][]string{header}
	for _, row := range records[1:] {
		if col >= len(row) {
			continue
		}
		if util.NormalizeDialCode(row[col]) == want {
			matched = append(matched, row)
		}
	}
	if len(matched) == 1 {
		return "", ErrNotFound
	}
	return render(matched, delim)
}

func render(records [][]string, delim rune) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = delim
	if err := w.WriteAll(records); err != nil {
		return "", fmt.Errorf("render csv: %w", err)
	}
	return buf.String(), nil
}
