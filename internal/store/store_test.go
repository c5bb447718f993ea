package store

import (
	"path/filepath"
	"testing"
	"time"

	"growthai/internal/models"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	sq, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() { sq.Close() })
	return map[string]Store{"mem": NewMem(), "sqlite": sq}
}

func TestStoreRoundTrip(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			signup := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
			if err := s.UpsertCustomer(models.Customer{ID: "C001", Name: "User_C001", Age: 31, Country: "UK", Segment: "Premium", SignupDate: signup}); err != nil {
				t.Fatalf("UpsertCustomer: %v", err)
			}
			// upsert overwrites
			if err := s.UpsertCustomer(models.Customer{ID: "C001", Name: "User_C001", Age: 32, Country: "UK", SignupDate: signup}); err != nil {
				t.Fatal(err)
			}
			c, ok := s.GetCustomer("C001")
			if !ok || c.Age != 32 {
				t.Fatalf("GetCustomer: %+v %v", c, ok)
			}
			if _, ok := s.GetCustomer("missing"); ok {
				t.Fatal("expected miss")
			}
			_ = s.UpsertCustomer(models.Customer{ID: "C002", SignupDate: signup})
			ids := s.ListCustomerIDs()
			if len(ids) != 2 || ids[0] != "C001" || ids[1] != "C002" {
				t.Fatalf("ListCustomerIDs: %v", ids)
			}

			when := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
			if err := s.AddTransaction(models.Transaction{ID: "T1", CustomerID: "C001", Amount: 49.9, Category: "Books", OrderDate: when}); err != nil {
				t.Fatalf("AddTransaction: %v", err)
			}
			txs := s.TransactionsByCustomer("C001")
			if len(txs) != 1 || txs[0].Amount != 49.9 || !txs[0].OrderDate.Equal(when) {
				t.Fatalf("TransactionsByCustomer: %+v", txs)
			}

			if err := s.AddInteraction(models.Interaction{CustomerID: "C001", ItemID: "P001", Action: models.ActionView, Timestamp: when}); err != nil {
				t.Fatalf("AddInteraction: %v", err)
			}
			if err := s.AddInteraction(models.Interaction{CustomerID: "C001", ItemID: "CT001", Action: models.ActionLike, Timestamp: when.Add(time.Hour)}); err != nil {
				t.Fatal(err)
			}
			ins := s.InteractionsByCustomer("C001")
			if len(ins) != 2 || ins[0].ItemID != "P001" || ins[1].Action != models.ActionLike {
				t.Fatalf("InteractionsByCustomer: %+v", ins)
			}
			if got := s.InteractionsByCustomer("C002"); len(got) != 0 {
				t.Fatalf("expected no interactions, got %+v", got)
			}

			rec := models.CampaignRecord{ID: "CM1", CustomerID: "C001", RiskSegment: "HIGH", Subject: "s", Body: "b", Strategy: "st", CreatedAt: when}
			if err := s.SaveCampaign(rec); err != nil {
				t.Fatalf("SaveCampaign: %v", err)
			}
			recs := s.CampaignsByCustomer("C001")
			if len(recs) != 1 || recs[0].RiskSegment != "HIGH" {
				t.Fatalf("CampaignsByCustomer: %+v", recs)
			}
		})
	}
}

func TestInteractionSnapshotIsCopy(t *testing.T) {
	s := NewMem()
	_ = s.AddInteraction(models.Interaction{CustomerID: "C1", ItemID: "A", Action: models.ActionView, Timestamp: time.Now()})
	snap := s.InteractionsByCustomer("C1")
	snap[0].ItemID = "mutated"
	if got := s.InteractionsByCustomer("C1"); got[0].ItemID != "A" {
		t.Fatalf("store state leaked through snapshot: %+v", got)
	}
}
