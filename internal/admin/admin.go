// Package admin computes the dashboard aggregates over general requests.
// The natural-language insight text is produced by a Narrator injected at
// construction; the aggregation itself knows nothing about the wording.
package admin

import (
	"github.com/zynordev/okurundan/internal/models"
	"github.com/zynordev/okurundan/internal/store"
)

// unknownClass labels requests whose requester no longer resolves.
const unknownClass = "Bilinmeyen Sınıf"

// Summary is the aggregate handed to the Narrator.
type Summary struct {
	RequestCount  int
	TopClass      string
	TopTitle      string
	TopTitleCount int
}

// Narrator renders one descriptive paragraph from the aggregates.
type Narrator interface {
	Narrate(Summary) string
}

// Stats is the dashboard payload.
type Stats struct {
	TotalBooks         int                     `json:"totalBooks"`
	ActiveTransactions int                     `json:"activeTransactions"`
	Requests           []models.GeneralRequest `json:"requests"`
	AIInsight          string                  `json:"aiInsight"`
}

type Service struct {
	store    store.Store
	narrator Narrator
}

func NewService(s store.Store, n Narrator) *Service {
	return &Service{store: s, narrator: n}
}

// Dashboard aggregates general requests by requester class (resolved
// against users at call time, not snapshot) and by title, and returns the
// totals with the request list newest first. Ties for the top class or
// title break arbitrarily; callers must not rely on the order.
func (s *Service) Dashboard() Stats {
	var stats Stats
	s.store.View(func(doc *store.Document) {
		stats.TotalBooks = len(doc.Books)
		stats.ActiveTransactions = len(doc.Transactions)

		stats.Requests = make([]models.GeneralRequest, 0, len(doc.GeneralRequests))
		for i := len(doc.GeneralRequests) - 1; i >= 0; i-- {
			stats.Requests = append(stats.Requests, doc.GeneralRequests[i])
		}

		summary := Summary{RequestCount: len(doc.GeneralRequests)}
		classCounts := map[string]int{}
		titleCounts := map[string]int{}
		for _, r := range doc.GeneralRequests {
			class := unknownClass
			if u := doc.UserByID(r.RequesterID); u != nil {
				class = u.Class
			}
			classCounts[class]++
			titleCounts[r.Title]++
		}
		for class, n := range classCounts {
			if n > classCounts[summary.TopClass] {
				summary.TopClass = class
			}
		}
		for title, n := range titleCounts {
			if n > titleCounts[summary.TopTitle] {
				summary.TopTitle = title
				summary.TopTitleCount = n
			}
		}
		stats.AIInsight = s.narrator.Narrate(summary)
	})
	return stats
}
