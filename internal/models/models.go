package models

import "time"

// ItemType distinguishes the two catalog sources after unification.
type ItemType string

const (
	TypeProduct ItemType = "Product"
	TypeContent ItemType = "Content"
)

// Item is one unit of the unified catalog. Its position in the catalog is
// assigned once at build time and never reassigned.
type Item struct {
	ID          string   `json:"item_id"`
	Type        ItemType `json:"type"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Meta        string   `json:"meta,omitempty"`
}

// Action is what a customer did with an item.
type Action string

const (
	ActionView      Action = "view"
	ActionCart      Action = "cart"
	ActionPurchase  Action = "purchase"
	ActionLike      Action = "like"
	ActionWatchLate Action = "watch_later"
)

// Interaction is an append-only record of a customer-item action. Created
// externally; the recommendation engine only reads them.
type Interaction struct {
	CustomerID string    `json:"customerID"`
	ItemID     string    `json:"itemID"`
	Action     Action    `json:"action"`
	Timestamp  time.Time `json:"timestamp"`
}

// Recommendation is an item plus its similarity score. Score is zero on the
// cold-start path, where no preference vector exists.
type Recommendation struct {
	Item
	Score float64 `json:"score"`
}

type Customer struct {
	ID         string    `json:"customerID"`
	Name       string    `json:"name"`
	Age        int       `json:"age"`
	Country    string    `json:"country"`
	Segment    string    `json:"segment,omitempty"`
	Email      string    `json:"email,omitempty"`
	SignupDate time.Time `json:"signupDate"`
}

type Transaction struct {
	ID         string    `json:"transactionID"`
	CustomerID string    `json:"customerID"`
	Amount     float64   `json:"amount"`
	Category   string    `json:"category"`
	OrderDate  time.Time `json:"orderDate"`
}

// Campaign is a generated retention email plus the strategy explanation.
type Campaign struct {
	SubjectLine string `json:"subject_line"`
	EmailBody   string `json:"email_body"`
	Strategy    string `json:"strategy"`
}

// CampaignRecord is a stored campaign, kept for human-in-the-loop review
// and copy A/B testing.
type CampaignRecord struct {
	ID          string    `json:"id"`
	CustomerID  string    `json:"customerID"`
	RiskSegment string    `json:"riskSegment"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	Strategy    string    `json:"strategy"`
	CreatedAt   time.Time `json:"createdAt"`
}
