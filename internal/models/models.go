package models

import "time"

// Role values carried on User. Role is returned on login but no endpoint
// currently checks it.
const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

// BookAvailable is the only status the catalog ever assigns. Other states
// exist in the data model but nothing in this service transitions to them.
const BookAvailable = "Available"

// TransactionPending is the only reachable transaction status. A
// Pending -> Fulfilled -> Closed lifecycle is a planned extension.
const TransactionPending = "Pending"

type User struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Class    string `json:"class"`
}

type Book struct {
	ID        int       `json:"id"`
	OwnerID   int       `json:"ownerId"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Category  string    `json:"category"`
	Condition string    `json:"condition"`
	Image     *string   `json:"image"`
	Status    string    `json:"status"`
	Requests  int       `json:"requests"`
	CreatedAt time.Time `json:"createdAt"`
}

// Transaction is a conversation thread opened by a request for a book.
// At most one exists per (BookID, RequesterID) pair.
type Transaction struct {
	ID          int    `json:"id"`
	BookID      int    `json:"bookId"`
	RequesterID int    `json:"requesterId"`
	OwnerID     int    `json:"ownerId"`
	Status      string `json:"status"`
	ChatName    string `json:"chatName"`
}

// Participant reports whether userID is one of the two sides of the thread.
func (t Transaction) Participant(userID int) bool {
	return t.RequesterID == userID || t.OwnerID == userID
}

type Message struct {
	ID            int    `json:"id"`
	TransactionID int    `json:"transactionId"`
	SenderID      int    `json:"senderId"`
	Text          string `json:"text"`
	Timestamp     int64  `json:"timestamp"` // milliseconds since epoch
}

// GeneralRequest is a free-form "book wanted" entry, independent of the
// catalog. RequesterName is a snapshot of the user's name at creation time.
type GeneralRequest struct {
	ID            int       `json:"id"`
	RequesterID   int       `json:"requesterId"`
	RequesterName string    `json:"requesterName"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Category      string    `json:"category"`
	Urgency       string    `json:"urgency"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}
