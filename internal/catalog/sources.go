package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// LoadProductsCSV reads the product source file. Expected header:
// product_id,name,category,price,description (any column order).
func LoadProductsCSV(path string) ([]ProductRecord, error) {
	rows, cols, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	for _, want := range []string{"product_id", "name", "category", "price", "description"} {
		if _, ok := cols[want]; !ok {
			return nil, fmt.Errorf("products csv %s: missing column %q", path, want)
		}
	}
	out := make([]ProductRecord, 0, len(rows))
	for i, row := range rows {
		price, err := strconv.ParseFloat(row[cols["price"]], 64)
		if err != nil {
			return nil, fmt.Errorf("products csv %s row %d: bad price: %w", path, i+2, err)
		}
		out = append(out, ProductRecord{
			ID:          row[cols["product_id"]],
			Name:        row[cols["name"]],
			Category:    row[cols["category"]],
			Price:       price,
			Description: row[cols["description"]],
		})
	}
	return out, nil
}

// LoadContentCSV reads the digital-content source file. Expected header:
// content_id,title,genre,type,description.
func LoadContentCSV(path string) ([]ContentRecord, error) {
	rows, cols, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	for _, want := range []string{"content_id", "title", "genre", "type", "description"} {
		if _, ok := cols[want]; !ok {
			return nil, fmt.Errorf("content csv %s: missing column %q", path, want)
		}
	}
	out := make([]ContentRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, ContentRecord{
			ID:          row[cols["content_id"]],
			Title:       row[cols["title"]],
			Genre:       row[cols["genre"]],
			Type:        row[cols["type"]],
			Description: row[cols["description"]],
		})
	}
	return out, nil
}

func readCSV(path string) ([][]string, map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("csv %s: empty file", path)
	}
	cols := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		cols[name] = i
	}
	return records[1:], cols, nil
}
