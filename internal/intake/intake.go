// Package intake records free-form "book wanted" entries. They are
// append-only, independent of the catalog, and read back only by the admin
// aggregation.
package intake

import (
	"time"

	"github.com/zynordev/okurundan/internal/apperr"
	"github.com/zynordev/okurundan/internal/models"
	"github.com/zynordev/okurundan/internal/store"
)

const (
	defaultAuthor  = "Bilinmiyor"
	defaultUrgency = "Normal"
	pendingStatus  = "Beklemede"
	fallbackName   = "Öğrenci"
)

type Service struct {
	store store.Store
	now   func() time.Time
}

func NewService(s store.Store) *Service {
	return &Service{store: s, now: time.Now}
}

type CreateInput struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Category string `json:"category"`
	Urgency  string `json:"urgency"`
}

// Create appends a general request for user. No dedup: every call records a
// new entry.
func (s *Service) Create(user *models.User, in CreateInput) (int, error) {
	if in.Title == "" || in.Category == "" {
		return 0, apperr.New(apperr.Validation, "Başlık ve kategori zorunludur.")
	}

	author := in.Author
	if author == "" {
		author = defaultAuthor
	}
	urgency := in.Urgency
	if urgency == "" {
		urgency = defaultUrgency
	}
	name := user.Name
	if name == "" {
		name = fallbackName
	}

	var id int
	err := s.store.Update(func(doc *store.Document) error {
		id = doc.NextGeneralRequestID()
		doc.GeneralRequests = append(doc.GeneralRequests, models.GeneralRequest{
			ID:            id,
			RequesterID:   user.ID,
			RequesterName: name,
			Title:         in.Title,
			Author:        author,
			Category:      in.Category,
			Urgency:       urgency,
			Status:        pendingStatus,
			CreatedAt:     s.now().UTC(),
		})
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}
