// Package roster reads and writes the attendee list kept in a tabular file.
//
// The format is picked from the file extension: ".xlsx" is a spreadsheet whose first
// sheet holds the rows, anything else is CSV. The first row is a header; the "Email"
// column is required and a "Name" column is optional. Files written by this package
// always carry the header "Name,Email".
package roster

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"eventmgr/internal/lib/atomicfile"
	"eventmgr/internal/lib/logger/sl"
	"eventmgr/internal/models"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Attendees"

var ErrDuplicate = errors.New("attendee already on the roster")

var header = []string{"Name", "Email"}

type File struct {
	path string
	log  *slog.Logger
}

func New(log *slog.Logger, path string) *File {
	return &File{
		path: path,
		log:  log.With(slog.String("component", "roster")),
	}
}

func (f *File) Path() string {
	return f.path
}

func (f *File) isXLSX() bool {
	return strings.EqualFold(filepath.Ext(f.path), ".xlsx")
}

// Load returns every attendee in file order. A missing file is an empty roster.
// Rows without an email are skipped; rows with an invalid email are logged and skipped.
func (f *File) Load() ([]models.Attendee, error) {
	const op = "roster.Load"

	var (
		rows [][]string
		err  error
	)
	if f.isXLSX() {
		rows, err = f.readXLSX()
	} else {
		rows, err = f.readCSV()
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %s: %w", op, f.path, err)
	}

	return f.parse(rows), nil
}

func (f *File) parse(rows [][]string) []models.Attendee {
	if len(rows) == 0 {
		return nil
	}

	nameCol, emailCol := -1, 0
	body := rows
	if hasHeader(rows[0]) {
		for i, cell := range rows[0] {
			switch strings.ToLower(strings.TrimSpace(cell)) {
			case "email", "e-mail":
				emailCol = i
			case "name":
				nameCol = i
			}
		}
		body = rows[1:]
	}

	seen := make(map[string]struct{})
	var out []models.Attendee
	for i, row := range body {
		a := models.Attendee{Email: cell(row, emailCol), Name: cell(row, nameCol)}
		if strings.TrimSpace(a.Email) == "" {
			continue
		}

		a, err := models.NormalizeAttendee(a)
		if err != nil {
			f.log.Warn("skipping roster row", slog.Int("row", i+1), sl.Err(err))
			continue
		}
		if _, dup := seen[a.Email]; dup {
			continue
		}
		seen[a.Email] = struct{}{}
		out = append(out, a)
	}
	return out
}

// hasHeader treats the first row as a header unless it already looks like data.
func hasHeader(row []string) bool {
	for _, c := range row {
		if strings.Contains(c, "@") {
			return false
		}
	}
	return true
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// Save replaces the roster with attendees.
func (f *File) Save(attendees []models.Attendee) error {
	const op = "roster.Save"

	rows := [][]string{header}
	for _, a := range attendees {
		rows = append(rows, []string{a.Name, a.Email})
	}

	var (
		data []byte
		err  error
	)
	if f.isXLSX() {
		data, err = encodeXLSX(rows)
	} else {
		data, err = encodeCSV(rows)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := atomicfile.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Add appends a to the roster, creating the file on first use.
func (f *File) Add(a models.Attendee) (models.Attendee, error) {
	const op = "roster.Add"

	a, err := models.NormalizeAttendee(a)
	if err != nil {
		return models.Attendee{}, fmt.Errorf("%s: %w", op, err)
	}

	current, err := f.Load()
	if err != nil {
		return models.Attendee{}, err
	}
	for _, existing := range current {
		if existing.Email == a.Email {
			return models.Attendee{}, fmt.Errorf("%s: %s: %w", op, a.Email, ErrDuplicate)
		}
	}

	if err := f.Save(append(current, a)); err != nil {
		return models.Attendee{}, err
	}

	f.log.Info("attendee added", slog.String("email", a.Email))

	return a, nil
}

// Remove drops the attendee with email and reports whether one was removed.
func (f *File) Remove(email string) (bool, error) {
	current, err := f.Load()
	if err != nil {
		return false, err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	kept := current[:0]
	for _, a := range current {
		if a.Email != email {
			kept = append(kept, a)
		}
	}
	if len(kept) == len(current) {
		return false, nil
	}

	if err := f.Save(kept); err != nil {
		return false, err
	}

	f.log.Info("attendee removed", slog.String("email", email))

	return true, nil
}

func (f *File) readCSV() ([][]string, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
}

func encodeCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (f *File) readXLSX() ([][]string, error) {
	if _, err := os.Stat(f.path); err != nil {
		return nil, err
	}

	book, err := excelize.OpenFile(f.path)
	if err != nil {
		return nil, err
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	return book.GetRows(sheets[0])
}

func encodeXLSX(rows [][]string) ([]byte, error) {
	book := excelize.NewFile()
	defer book.Close()

	if err := book.SetSheetName(book.GetSheetName(0), sheetName); err != nil {
		return nil, err
	}

	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := book.SetSheetRow(sheetName, cellRef, &values); err != nil {
			return nil, err
		}
	}

	buf, err := book.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
