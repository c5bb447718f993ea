package store

import "growthai/internal/models"

// Store persists customers, transactions, interactions and generated
// campaigns. The interaction read side is the recommendation engine's
// history source; it only ever reads. Reads return empty results on
// backend failure rather than surfacing an error; writes report theirs.
type Store interface {
	UpsertCustomer(c models.Customer) error
	GetCustomer(id string) (models.Customer, bool)
	ListCustomerIDs() []string

	AddTransaction(tx models.Transaction) error
	TransactionsByCustomer(customerID string) []models.Transaction

	AddInteraction(in models.Interaction) error
	InteractionsByCustomer(customerID string) []models.Interaction

	SaveCampaign(rec models.CampaignRecord) error
	CampaignsByCustomer(customerID string) []models.CampaignRecord
}
