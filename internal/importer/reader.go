package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/AlibekovAA/book-review/internal/catalog/domain"
)

const columns = 4

var ErrMalformedRow = errors.New("malformed csv row")

// ReadBooks parses isbn, title, author, year rows positionally. The first
// row is skipped only when skipHeader is set.
func ReadBooks(src io.Reader, skipHeader bool) ([]domain.Book, error) {
	r := csv.NewReader(src)
	r.FieldsPerRecord = columns
	r.ReuseRecord = true

	var books []domain.Book
	line := 0
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			return books, nil
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRow, err)
		}
		if line == 1 && skipHeader {
			continue
		}

		book, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedRow, line, err)
		}
		books = append(books, book)
	}
}

func parseRecord(record []string) (domain.Book, error) {
	year, err := strconv.Atoi(strings.TrimSpace(record[3]))
	if err != nil {
		return domain.Book{}, fmt.Errorf("year %q is not a number", record[3])
	}

	return domain.Book{
		ISBN:   strings.TrimSpace(record[0]),
		Title:  record[1],
		Author: record[2],
		Year:   year,
	}, nil
}
