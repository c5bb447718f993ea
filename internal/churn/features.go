package churn

import (
	"time"

	"growthai/internal/models"
)

// Features is the tabular input of the churn model, one row per customer.
// Mirrors the schema the model was trained on.
type Features struct {
	Age               int     `json:"age"`
	RecencyDays       float64 `json:"recency_days"`
	FrequencyTotal    int     `json:"frequency_total"`
	Frequency30d      int     `json:"frequency_30d"`
	AvgOrderValue     float64 `json:"avg_order_value"`
	CategoryDiversity int     `json:"category_diversity"`
	LoginCount14d     int     `json:"login_count_14d"`
	Country           string  `json:"country"`
}

// neverPurchased is the recency sentinel for customers with no orders.
const neverPurchased = 999

// ActivitySource supplies the raw records features are derived from.
type ActivitySource interface {
	TransactionsByCustomer(customerID string) []models.Transaction
	InteractionsByCustomer(customerID string) []models.Interaction
}

// BuildFeatures derives the RFM-style feature row for one customer as of
// the reference time. Interaction counts stand in for login events in the
// 14-day engagement window.
func BuildFeatures(src ActivitySource, c models.Customer, ref time.Time) Features {
	f := Features{
		Age:         c.Age,
		Country:     c.Country,
		RecencyDays: neverPurchased,
	}
	txs := src.TransactionsByCustomer(c.ID)
	var total float64
	var last time.Time
	cats := make(map[string]struct{})
	cutoff30 := ref.AddDate(0, 0, -30)
	for _, tx := range txs {
		f.FrequencyTotal++
		total += tx.Amount
		cats[tx.Category] = struct{}{}
		if tx.OrderDate.After(last) {
			last = tx.OrderDate
		}
		if !tx.OrderDate.Before(cutoff30) {
			f.Frequency30d++
		}
	}
	if f.FrequencyTotal > 0 {
		f.AvgOrderValue = total / float64(f.FrequencyTotal)
		f.RecencyDays = ref.Sub(last).Hours() / 24
		if f.RecencyDays < 0 {
			f.RecencyDays = 0
		}
	}
	f.CategoryDiversity = len(cats)
	cutoff14 := ref.AddDate(0, 0, -14)
	for _, in := range src.InteractionsByCustomer(c.ID) {
		if !in.Timestamp.Before(cutoff14) {
			f.LoginCount14d++
		}
	}
	return f
}
