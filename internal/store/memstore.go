package store

import (
	"sort"
	"sync"

	"growthai/internal/models"
)

// MemStore is the in-memory Store used by tests and by serve runs without
// a database path.
type MemStore struct {
	mu           sync.RWMutex
	customers    map[string]models.Customer
	transactions map[string][]models.Transaction
	interactions map[string][]models.Interaction
	campaigns    map[string][]models.CampaignRecord
}

func NewMem() *MemStore {
	return &MemStore{
		customers:    make(map[string]models.Customer),
		transactions: make(map[string][]models.Transaction),
		interactions: make(map[string][]models.Interaction),
		campaigns:    make(map[string][]models.CampaignRecord),
	}
}

func (s *MemStore) UpsertCustomer(c models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[c.ID] = c
	return nil
}

func (s *MemStore) GetCustomer(id string) (models.Customer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[id]
	return c, ok
}

func (s *MemStore) ListCustomerIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.customers))
	for id := range s.customers {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s *MemStore) AddTransaction(tx models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[tx.CustomerID] = append(s.transactions[tx.CustomerID], tx)
	return nil
}

func (s *MemStore) TransactionsByCustomer(customerID string) []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	txs := s.transactions[customerID]
	out := make([]models.Transaction, len(txs))
	copy(out, txs)
	return out
}

func (s *MemStore) AddInteraction(in models.Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interactions[in.CustomerID] = append(s.interactions[in.CustomerID], in)
	return nil
}

func (s *MemStore) InteractionsByCustomer(customerID string) []models.Interaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ins := s.interactions[customerID]
	out := make([]models.Interaction, len(ins))
	copy(out, ins)
	return out
}

func (s *MemStore) SaveCampaign(rec models.CampaignRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.campaigns[rec.CustomerID] = append(s.campaigns[rec.CustomerID], rec)
	return nil
}

func (s *MemStore) CampaignsByCustomer(customerID string) []models.CampaignRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := s.campaigns[customerID]
	out := make([]models.CampaignRecord, len(recs))
	copy(out, recs)
	return out
}
