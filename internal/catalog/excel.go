package catalog

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/niteru/internal/models"
)

var xlsxHeader = []string{"title", "description", "genres", "year", "rating"}

const xlsxSheet = "Movies"

// decodeXLSX reads movies from the first sheet. The first row is a header naming the
// title, description, genres (comma-separated), year, and rating columns in any order.
func decodeXLSX(content []byte) ([]models.Movie, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open Excel: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("get rows for sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	cols := headerIndex(rows[0])
	if _, ok := cols["title"]; !ok {
		return nil, fmt.Errorf("sheet %q: header has no title column", sheets[0])
	}
	cell := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var movies []models.Movie
	for n, row := range rows[1:] {
		title := cell(row, "title")
		if title == "" {
			continue
		}
		m := models.Movie{
			Title:       title,
			Description: cell(row, "description"),
			Genres:      ParseGenres(cell(row, "genres")),
		}
		if v := cell(row, "year"); v != "" {
			if m.Year, err = strconv.Atoi(v); err != nil {
				return nil, fmt.Errorf("sheet %q row %d: invalid year %q", sheets[0], n+2, v)
			}
		}
		if v := cell(row, "rating"); v != "" {
			if m.Rating, err = strconv.ParseFloat(v, 64); err != nil {
				return nil, fmt.Errorf("sheet %q row %d: invalid rating %q", sheets[0], n+2, v)
			}
		}
		movies = append(movies, m)
	}
	return movies, nil
}

// writeXLSX saves movies as a single-sheet workbook readable by decodeXLSX.
func writeXLSX(path string, movies []models.Movie) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	header := make([]interface{}, len(xlsxHeader))
	for i, h := range xlsxHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, m := range movies {
		cellName, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{m.Title, m.Description, m.GenreString(), m.Year, m.Rating}
		if err := f.SetSheetRow(xlsxSheet, cellName, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
