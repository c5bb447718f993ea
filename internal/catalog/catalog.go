package catalog

import (
	"errors"
	"fmt"

	"growthai/internal/models"
)

// ErrDuplicateItemID signals an id collision across sources. The service
// must refuse to start on it.
var ErrDuplicateItemID = errors.New("duplicate item id")

// ProductRecord is one raw row of the product source.
type ProductRecord struct {
	ID          string
	Name        string
	Category    string
	Price       float64
	Description string
}

// ContentRecord is one raw row of the digital-content source.
type ContentRecord struct {
	ID          string
	Title       string
	Genre       string
	Type        string
	Description string
}

// Catalog is the unified, ordered item space. Built once; immutable for
// the process lifetime. Index positions are stable across rebuilds given
// identical inputs: products first in source row order, then content.
type Catalog struct {
	items []models.Item
	index map[string]int
}

// Build merges the two sources into one catalog. Content maps genre to
// category and carries no price; meta holds display-only data (a formatted
// price for products, the media type for content) and never participates
// in embedding text.
func Build(products []ProductRecord, content []ContentRecord) (*Catalog, error) {
	c := &Catalog{
		items: make([]models.Item, 0, len(products)+len(content)),
		index: make(map[string]int, len(products)+len(content)),
	}
	for _, p := range products {
		if err := c.add(models.Item{
			ID:          p.ID,
			Type:        models.TypeProduct,
			Title:       p.Name,
			Category:    p.Category,
			Description: p.Description,
			Price:       p.Price,
			Meta:        fmt.Sprintf("Price: $%.2f", p.Price),
		}); err != nil {
			return nil, err
		}
	}
	for _, ct := range content {
		if err := c.add(models.Item{
			ID:          ct.ID,
			Type:        models.TypeContent,
			Title:       ct.Title,
			Category:    ct.Genre,
			Description: ct.Description,
			Meta:        ct.Type,
		}); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Catalog) add(it models.Item) error {
	if _, ok := c.index[it.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateItemID, it.ID)
	}
	c.index[it.ID] = len(c.items)
	c.items = append(c.items, it)
	return nil
}

func (c *Catalog) Len() int { return len(c.items) }

// Items returns the ordered item sequence. Callers must not mutate it.
func (c *Catalog) Items() []models.Item { return c.items }

// At returns the item at catalog index i.
func (c *Catalog) At(i int) models.Item { return c.items[i] }

// Get looks an item up by id.
func (c *Catalog) Get(id string) (models.Item, bool) {
	i, ok := c.index[id]
	if !ok {
		return models.Item{}, false
	}
	return c.items[i], true
}

// IndexOf returns the catalog index for an item id.
func (c *Catalog) IndexOf(id string) (int, bool) {
	i, ok := c.index[id]
	return i, ok
}
