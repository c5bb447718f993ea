package churn

import (
	"math"
	"testing"
	"time"

	"growthai/internal/models"
	"growthai/internal/store"
)

func TestScoreBoundsAndMonotonicity(t *testing.T) {
	s := NewLogisticScorer()
	active := Features{Age: 30, RecencyDays: 3, FrequencyTotal: 14, Frequency30d: 4, AvgOrderValue: 120, CategoryDiversity: 5, LoginCount14d: 10, Country: "US"}
	dormant := Features{Age: 30, RecencyDays: 150, FrequencyTotal: 2, Frequency30d: 0, AvgOrderValue: 40, CategoryDiversity: 1, LoginCount14d: 0, Country: "US"}
	pa, pd := s.Score(active), s.Score(dormant)
	for _, p := range []float64{pa, pd} {
		if p <= 0 || p >= 1 || math.IsNaN(p) {
			t.Fatalf("probability out of (0,1): %v", p)
		}
	}
	if pa >= pd {
		t.Fatalf("active customer (%v) should score below dormant (%v)", pa, pd)
	}
	if pd <= 0.7 {
		t.Fatalf("dormant customer should land in HIGH, got %v", pd)
	}
	// staying away longer only raises the risk
	worse := dormant
	worse.RecencyDays = 300
	if s.Score(worse) < pd {
		t.Fatal("recency should be monotone")
	}
}

func TestSegmentThresholds(t *testing.T) {
	cases := map[float64]string{0.95: SegmentHigh, 0.71: SegmentHigh, 0.7: SegmentMedium, 0.41: SegmentMedium, 0.4: SegmentLow, 0.05: SegmentLow}
	for prob, want := range cases {
		if got := Segment(prob); got != want {
			t.Fatalf("Segment(%v) = %s, want %s", prob, got, want)
		}
	}
}

func TestBuildFeatures(t *testing.T) {
	ref := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	s := store.NewMem()
	c := models.Customer{ID: "C1", Age: 40, Country: "UK"}
	_ = s.AddTransaction(models.Transaction{ID: "T1", CustomerID: "C1", Amount: 100, Category: "Books", OrderDate: ref.AddDate(0, 0, -10)})
	_ = s.AddTransaction(models.Transaction{ID: "T2", CustomerID: "C1", Amount: 50, Category: "Home", OrderDate: ref.AddDate(0, 0, -90)})
	_ = s.AddTransaction(models.Transaction{ID: "T3", CustomerID: "C1", Amount: 30, Category: "Books", OrderDate: ref.AddDate(0, 0, -5)})
	_ = s.AddInteraction(models.Interaction{CustomerID: "C1", ItemID: "P1", Action: models.ActionView, Timestamp: ref.AddDate(0, 0, -2)})
	_ = s.AddInteraction(models.Interaction{CustomerID: "C1", ItemID: "P2", Action: models.ActionCart, Timestamp: ref.AddDate(0, 0, -20)})

	f := BuildFeatures(s, c, ref)
	if f.Age != 40 || f.Country != "UK" {
		t.Fatalf("identity fields: %+v", f)
	}
	if f.RecencyDays != 5 {
		t.Fatalf("recency = %v, want 5", f.RecencyDays)
	}
	if f.FrequencyTotal != 3 || f.Frequency30d != 2 {
		t.Fatalf("frequency: %+v", f)
	}
	if f.AvgOrderValue != 60 {
		t.Fatalf("aov = %v, want 60", f.AvgOrderValue)
	}
	if f.CategoryDiversity != 2 {
		t.Fatalf("diversity = %d, want 2", f.CategoryDiversity)
	}
	if f.LoginCount14d != 1 {
		t.Fatalf("logins = %d, want 1", f.LoginCount14d)
	}
}

func TestBuildFeaturesNeverPurchased(t *testing.T) {
	s := store.NewMem()
	f := BuildFeatures(s, models.Customer{ID: "C9"}, time.Now())
	if f.RecencyDays != 999 || f.FrequencyTotal != 0 || f.AvgOrderValue != 0 {
		t.Fatalf("empty-history features: %+v", f)
	}
}
