package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"growthai/internal/catalog"
	"growthai/internal/models"
)

// Generator produces the synthetic demo dataset: customers, a two-source
// catalog, and a plausible interaction history. Fully deterministic for a
// given seed so tests and demos are reproducible.
type Generator struct {
	rnd *rand.Rand
}

func New(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

const (
	numCustomers = 45
	numProducts  = 120
	numContent   = 200
)

var (
	countries = []string{"US", "India", "UK", "Canada", "Germany", "Japan"}
	segments  = []string{"Budget", "Premium", "Tech-Savvy", "Casual"}

	productCategories = map[string][]string{
		"Electronics":   {"Wireless Earbuds", "Smart Watch", "4K Monitor", "Gaming Mouse", "Mechanical Keyboard", "Drone", "VR Headset"},
		"Fashion":       {"Running Shoes", "Denim Jacket", "Smart Backpack", "Designer Sunglasses", "Winter Coat"},
		"Home":          {"Smart Bulb", "Robot Vacuum", "Air Purifier", "Coffee Maker", "Standing Desk"},
		"Entertainment": {"Gaming Console", "Portable Projector", "Bluetooth Speaker", "Vinyl Player"},
	}
	categoryNames = []string{"Electronics", "Fashion", "Home", "Entertainment"}
	adjectives    = []string{"Pro", "Ultra", "Lite", "Max", "Series X", "2025 Edition", "Eco"}

	contentGenres = []string{"Action", "Sci-Fi", "Documentary", "Comedy", "Drama", "Tech Review"}
	contentTypes  = []string{"Movie", "Series", "Article", "Podcast"}
	contentTitles = map[string][]string{
		"Action":      {"The Last Stand", "Crypto Heist", "Speed Run", "Battlefield Earth"},
		"Sci-Fi":      {"Mars Colony", "AI Uprising", "Cyber Soul", "Star Warp"},
		"Documentary": {"Nature Unbound", "History of Tech", "Deep Ocean", "Space Race"},
		"Comedy":      {"Office Pranks", "Standup Special", "Funny Fails", "Sitcom Life"},
		"Drama":       {"The CEO", "Family Secrets", "Courtroom Justice", "Medical Ward"},
		"Tech Review": {"Latest GPU Test", "Smartphone War", "Coding 101", "Future of AI"},
	}

	contentActions = []models.Action{models.ActionView, models.ActionLike, models.ActionWatchLate}
	productActions = []models.Action{models.ActionView, models.ActionCart, models.ActionPurchase}
)

func (g *Generator) pick(ss []string) string { return ss[g.rnd.Intn(len(ss))] }

// Customers generates the demo customer base.
func (g *Generator) Customers() []models.Customer {
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.Customer, 0, numCustomers)
	for i := 1; i <= numCustomers; i++ {
		id := fmt.Sprintf("C%03d", i)
		out = append(out, models.Customer{
			ID:         id,
			Name:       "User_" + id,
			Age:        18 + g.rnd.Intn(47),
			Country:    g.pick(countries),
			Segment:    g.pick(segments),
			Email:      fmt.Sprintf("user_%s@example.com", id),
			SignupDate: base.AddDate(0, 0, g.rnd.Intn(501)),
		})
	}
	return out
}

// Products generates the physical-item source rows.
func (g *Generator) Products() []catalog.ProductRecord {
	out := make([]catalog.ProductRecord, 0, numProducts)
	for i := 1; i <= numProducts; i++ {
		cat := g.pick(categoryNames)
		base := g.pick(productCategories[cat])
		price := 20 + g.rnd.Float64()*1480
		out = append(out, catalog.ProductRecord{
			ID:          fmt.Sprintf("P%03d", i),
			Name:        fmt.Sprintf("%s %s", base, g.pick(adjectives)),
			Category:    cat,
			Price:       float64(int(price*100)) / 100,
			Description: fmt.Sprintf("High quality %s suitable for %s enthusiasts. Features state-of-the-art technology.", strings.ToLower(base), strings.ToLower(cat)),
		})
	}
	return out
}

// Content generates the digital-media source rows.
func (g *Generator) Content() []catalog.ContentRecord {
	out := make([]catalog.ContentRecord, 0, numContent)
	for i := 1; i <= numContent; i++ {
		genre := g.pick(contentGenres)
		ctype := g.pick(contentTypes)
		base := g.pick(contentTitles[genre])
		out = append(out, catalog.ContentRecord{
			ID:          fmt.Sprintf("CT%03d", i),
			Title:       fmt.Sprintf("%s - %d", base, 1+g.rnd.Intn(99)),
			Genre:       genre,
			Type:        ctype,
			Description: fmt.Sprintf("An engaging %s %s about %s.", strings.ToLower(genre), strings.ToLower(ctype), base),
		})
	}
	return out
}

// History generates 5-25 interactions per customer, roughly 60% content and
// 40% product, and mirrors every purchase into a transaction priced from
// the product.
func (g *Generator) History(customers []models.Customer, products []catalog.ProductRecord, content []catalog.ContentRecord) ([]models.Interaction, []models.Transaction) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var interactions []models.Interaction
	var txs []models.Transaction
	orderSeq := 1000
	for _, c := range customers {
		n := 5 + g.rnd.Intn(21)
		for j := 0; j < n; j++ {
			ts := base.AddDate(0, 0, g.rnd.Intn(181))
			if g.rnd.Float64() > 0.4 {
				it := content[g.rnd.Intn(len(content))]
				interactions = append(interactions, models.Interaction{
					CustomerID: c.ID,
					ItemID:     it.ID,
					Action:     contentActions[g.rnd.Intn(len(contentActions))],
					Timestamp:  ts,
				})
				continue
			}
			p := products[g.rnd.Intn(len(products))]
			act := productActions[g.rnd.Intn(len(productActions))]
			interactions = append(interactions, models.Interaction{
				CustomerID: c.ID,
				ItemID:     p.ID,
				Action:     act,
				Timestamp:  ts,
			})
			if act == models.ActionPurchase {
				txs = append(txs, models.Transaction{
					ID:         fmt.Sprintf("ORD%d", orderSeq),
					CustomerID: c.ID,
					Amount:     p.Price,
					Category:   p.Category,
					OrderDate:  ts,
				})
				orderSeq++
			}
		}
	}
	return interactions, txs
}

