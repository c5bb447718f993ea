package seed

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"growthai/internal/catalog"
	"growthai/internal/store"
)

// Run generates the full dataset, writes the catalog source files under
// dir, and loads customers, interactions, and transactions into the store.
func Run(dir string, st store.Store, seed int64, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("seed: create data dir: %w", err)
	}
	g := New(seed)
	customers := g.Customers()
	products := g.Products()
	content := g.Content()
	interactions, txs := g.History(customers, products, content)

	if err := WriteProductsCSV(filepath.Join(dir, "products.csv"), products); err != nil {
		return err
	}
	if err := WriteContentCSV(filepath.Join(dir, "content.csv"), content); err != nil {
		return err
	}
	for _, c := range customers {
		if err := st.UpsertCustomer(c); err != nil {
			return fmt.Errorf("seed: upsert customer %s: %w", c.ID, err)
		}
	}
	for _, in := range interactions {
		if err := st.AddInteraction(in); err != nil {
			return fmt.Errorf("seed: add interaction for %s: %w", in.CustomerID, err)
		}
	}
	for _, tx := range txs {
		if err := st.AddTransaction(tx); err != nil {
			return fmt.Errorf("seed: add transaction %s: %w", tx.ID, err)
		}
	}
	logger.Info("seed data generated",
		zap.Int("customers", len(customers)),
		zap.Int("products", len(products)),
		zap.Int("content", len(content)),
		zap.Int("interactions", len(interactions)),
		zap.Int("transactions", len(txs)),
		zap.String("dir", dir))
	return nil
}

// WriteProductsCSV writes the product source in the layout LoadProductsCSV
// expects.
func WriteProductsCSV(path string, products []catalog.ProductRecord) error {
	rows := make([][]string, 0, len(products)+1)
	rows = append(rows, []string{"product_id", "name", "category", "price", "description"})
	for _, p := range products {
		rows = append(rows, []string{p.ID, p.Name, p.Category, strconv.FormatFloat(p.Price, 'f', 2, 64), p.Description})
	}
	return writeCSV(path, rows)
}

// WriteContentCSV writes the digital-content source in the layout
// LoadContentCSV expects.
func WriteContentCSV(path string, content []catalog.ContentRecord) error {
	rows := make([][]string, 0, len(content)+1)
	rows = append(rows, []string{"content_id", "title", "genre", "type", "description"})
	for _, ct := range content {
		rows = append(rows, []string{ct.ID, ct.Title, ct.Genre, ct.Type, ct.Description})
	}
	return writeCSV(path, rows)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("seed: create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("seed: write %s: %w", path, err)
	}
	return f.Close()
}
