package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"growthai/internal/models"
)

// SQLiteStore is the durable Store implementation.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite path required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err := migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) UpsertCustomer(c models.Customer) error {
	_, err := s.db.Exec(`INSERT INTO customers(customer_id,name,age,country,segment,email,signup_date)
        VALUES(?,?,?,?,?,?,?)
        ON CONFLICT(customer_id) DO UPDATE SET name=excluded.name, age=excluded.age,
            country=excluded.country, segment=excluded.segment, email=excluded.email,
            signup_date=excluded.signup_date`,
		c.ID, c.Name, c.Age, c.Country, c.Segment, c.Email, c.SignupDate.Format(time.RFC3339))
	return err
}

func (s *SQLiteStore) GetCustomer(id string) (models.Customer, bool) {
	var c models.Customer
	var signup string
	err := s.db.QueryRow(`SELECT customer_id,name,age,country,segment,email,signup_date
        FROM customers WHERE customer_id=?`, id).
		Scan(&c.ID, &c.Name, &c.Age, &c.Country, &c.Segment, &c.Email, &signup)
	if err != nil {
		return models.Customer{}, false
	}
	c.SignupDate, _ = time.Parse(time.RFC3339, signup)
	return c, true
}

func (s *SQLiteStore) ListCustomerIDs() []string {
	rows, err := s.db.Query(`SELECT customer_id FROM customers ORDER BY customer_id`)
	if err != nil {
		return nil
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if rows.Scan(&id) == nil {
			out = append(out, id)
		}
	}
	return out
}

func (s *SQLiteStore) AddTransaction(tx models.Transaction) error {
	_, err := s.db.Exec(`INSERT INTO transactions(transaction_id,customer_id,amount,category,order_date)
        VALUES(?,?,?,?,?)`,
		tx.ID, tx.CustomerID, tx.Amount, tx.Category, tx.OrderDate.Format(time.RFC3339))
	return err
}

func (s *SQLiteStore) TransactionsByCustomer(customerID string) []models.Transaction {
	rows, err := s.db.Query(`SELECT transaction_id,customer_id,amount,category,order_date
        FROM transactions WHERE customer_id=? ORDER BY order_date`, customerID)
	if err != nil {
		return nil
	}
	defer rows.Close()
	var out []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		var date string
		if rows.Scan(&tx.ID, &tx.CustomerID, &tx.Amount, &tx.Category, &date) != nil {
			continue
		}
		tx.OrderDate, _ = time.Parse(time.RFC3339, date)
		out = append(out, tx)
	}
	return out
}

func (s *SQLiteStore) AddInteraction(in models.Interaction) error {
	_, err := s.db.Exec(`INSERT INTO interactions(customer_id,item_id,action,ts) VALUES(?,?,?,?)`,
		in.CustomerID, in.ItemID, string(in.Action), in.Timestamp.Format(time.RFC3339))
	return err
}

func (s *SQLiteStore) InteractionsByCustomer(customerID string) []models.Interaction {
	rows, err := s.db.Query(`SELECT customer_id,item_id,action,ts
        FROM interactions WHERE customer_id=? ORDER BY ts`, customerID)
	if err != nil {
		return nil
	}
	defer rows.Close()
	var out []models.Interaction
	for rows.Next() {
		var in models.Interaction
		var action, ts string
		if rows.Scan(&in.CustomerID, &in.ItemID, &action, &ts) != nil {
			continue
		}
		in.Action = models.Action(action)
		in.Timestamp, _ = time.Parse(time.RFC3339, ts)
		out = append(out, in)
	}
	return out
}

func (s *SQLiteStore) SaveCampaign(rec models.CampaignRecord) error {
	_, err := s.db.Exec(`INSERT INTO marketing_campaigns(id,customer_id,risk_segment,subject,body,strategy,created_at)
        VALUES(?,?,?,?,?,?,?)`,
		rec.ID, rec.CustomerID, rec.RiskSegment, rec.Subject, rec.Body, rec.Strategy,
		rec.CreatedAt.Format(time.RFC3339))
	return err
}

func (s *SQLiteStore) CampaignsByCustomer(customerID string) []models.CampaignRecord {
	rows, err := s.db.Query(`SELECT id,customer_id,risk_segment,subject,body,strategy,created_at
        FROM marketing_campaigns WHERE customer_id=? ORDER BY created_at`, customerID)
	if err != nil {
		return nil
	}
	defer rows.Close()
	var out []models.CampaignRecord
	for rows.Next() {
		var r models.CampaignRecord
		var created string
		if rows.Scan(&r.ID, &r.CustomerID, &r.RiskSegment, &r.Subject, &r.Body, &r.Strategy, &created) != nil {
			continue
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, r)
	}
	return out
}
