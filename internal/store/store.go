package store

import (
	"errors"

	"github.com/zynordev/okurundan/internal/models"
)

// Document is the entire durable state: five ordered collections that
// round-trip losslessly through a single JSON file.
type Document struct {
	Users           []models.User           `json:"users"`
	Books           []models.Book           `json:"books"`
	Transactions    []models.Transaction    `json:"transactions"`
	Messages        []models.Message        `json:"messages"`
	GeneralRequests []models.GeneralRequest `json:"general_requests"`

	// Per-collection id counters, seeded from max(id) at load time and
	// advanced under the store's write lock. Not persisted; a reload
	// recomputes them, which yields the same max+1 sequence for these
	// deletion-free collections.
	nextBookID        int
	nextTransactionID int
	nextMessageID     int
	nextRequestID     int
}

// ErrNoChange can be returned from an Update closure to commit nothing:
// the update succeeds without flushing the document.
var ErrNoChange = errors.New("store: no change")

// Store serializes all access to the document. Update runs its closure under
// an exclusive lock and flushes the whole document before returning, so
// check-then-act sequences (request dedup, id assignment) are atomic with
// respect to every other mutation.
type Store interface {
	View(fn func(doc *Document))
	Update(fn func(doc *Document) error) error
}

// SeedCounters initializes the id counters from the loaded collections.
func (d *Document) SeedCounters() {
	d.nextBookID = maxBookID(d.Books) + 1
	d.nextTransactionID = maxTransactionID(d.Transactions) + 1
	d.nextMessageID = maxMessageID(d.Messages) + 1
	d.nextRequestID = maxRequestID(d.GeneralRequests) + 1
}

// Normalize replaces nil collections with empty ones so the persisted
// document always carries all five top-level arrays.
func (d *Document) Normalize() {
	if d.Users == nil {
		d.Users = []models.User{}
	}
	if d.Books == nil {
		d.Books = []models.Book{}
	}
	if d.Transactions == nil {
		d.Transactions = []models.Transaction{}
	}
	if d.Messages == nil {
		d.Messages = []models.Message{}
	}
	if d.GeneralRequests == nil {
		d.GeneralRequests = []models.GeneralRequest{}
	}
}

func (d *Document) NextBookID() int {
	id := d.nextBookID
	d.nextBookID++
	return id
}

func (d *Document) NextTransactionID() int {
	id := d.nextTransactionID
	d.nextTransactionID++
	return id
}

func (d *Document) NextMessageID() int {
	id := d.nextMessageID
	d.nextMessageID++
	return id
}

func (d *Document) NextGeneralRequestID() int {
	id := d.nextRequestID
	d.nextRequestID++
	return id
}

// UserByID returns the user with the given id, or nil.
func (d *Document) UserByID(id int) *models.User {
	for i := range d.Users {
		if d.Users[i].ID == id {
			return &d.Users[i]
		}
	}
	return nil
}

// BookByID returns the book with the given id, or nil.
func (d *Document) BookByID(id int) *models.Book {
	for i := range d.Books {
		if d.Books[i].ID == id {
			return &d.Books[i]
		}
	}
	return nil
}

// TransactionByID returns the transaction with the given id, or nil.
func (d *Document) TransactionByID(id int) *models.Transaction {
	for i := range d.Transactions {
		if d.Transactions[i].ID == id {
			return &d.Transactions[i]
		}
	}
	return nil
}

func maxBookID(items []models.Book) int {
	max := 0
	for _, it := range items {
		if it.ID > max {
			max = it.ID
		}
	}
	return max
}

func maxTransactionID(items []models.Transaction) int {
	max := 0
	for _, it := range items {
		if it.ID > max {
			max = it.ID
		}
	}
	return max
}

func maxMessageID(items []models.Message) int {
	max := 0
	for _, it := range items {
		if it.ID > max {
			max = it.ID
		}
	}
	return max
}

func maxRequestID(items []models.GeneralRequest) int {
	max := 0
	for _, it := range items {
		if it.ID > max {
			max = it.ID
		}
	}
	return max
}
