// Package catalog owns book listings: creation, the available-books view and
// the privacy-redacted detail view.
package catalog

import (
	"math/rand"
	"time"

	"github.com/zynordev/okurundan/internal/apperr"
	"github.com/zynordev/okurundan/internal/models"
	"github.com/zynordev/okurundan/internal/store"
)

// UnknownAuthor is the fallback label when a book has no author recorded.
const UnknownAuthor = "Bilinmiyor"

// maskedOwnerName replaces the real owner name on the detail view.
const maskedOwnerName = "Gizli Kullanıcı"

type Service struct {
	store store.Store
	now   func() time.Time
}

func NewService(s store.Store) *Service {
	return &Service{store: s, now: time.Now}
}

// BookView is a listing entry: the book plus a cosmetic relevance score.
// AIMatch is computed per call and never persisted.
type BookView struct {
	models.Book
	AIMatch int `json:"aiMatch"`
}

// BookDetail is the single-book view. OwnerName is always the masked
// placeholder; OwnerID stays visible because the threaded-request flow
// echoes it back.
type BookDetail struct {
	models.Book
	OwnerName string `json:"ownerName"`
}

type CreateInput struct {
	Title     string `json:"title"`
	Author    string `json:"author"`
	Category  string `json:"category"`
	Condition string `json:"condition"`
	Image     string `json:"image"`
}

// ListAvailable returns every book with status Available, authors defaulted
// and each entry decorated with a relevance score in [50,100].
func (s *Service) ListAvailable() []BookView {
	views := []BookView{}
	s.store.View(func(doc *store.Document) {
		for _, b := range doc.Books {
			if b.Status != models.BookAvailable {
				continue
			}
			if b.Author == "" {
				b.Author = UnknownAuthor
			}
			views = append(views, BookView{Book: b, AIMatch: rand.Intn(50) + 50})
		}
	})
	return views
}

// Create validates the input and appends a new Available book owned by user.
func (s *Service) Create(user *models.User, in CreateInput) (int, error) {
	if in.Title == "" || in.Category == "" || in.Condition == "" {
		return 0, apperr.New(apperr.Validation, "Zorunlu alanları doldurun.")
	}
	author := in.Author
	if author == "" {
		author = UnknownAuthor
	}
	// An absent image is persisted as an explicit null.
	var image *string
	if in.Image != "" {
		image = &in.Image
	}

	var id int
	err := s.store.Update(func(doc *store.Document) error {
		id = doc.NextBookID()
		doc.Books = append(doc.Books, models.Book{
			ID:        id,
			OwnerID:   user.ID,
			Title:     in.Title,
			Author:    author,
			Category:  in.Category,
			Condition: in.Condition,
			Image:     image,
			Status:    models.BookAvailable,
			Requests:  0,
			CreatedAt: s.now().UTC(),
		})
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Get returns the detail view for one book with the owner name masked.
func (s *Service) Get(id int) (*BookDetail, error) {
	var detail *BookDetail
	s.store.View(func(doc *store.Document) {
		if b := doc.BookByID(id); b != nil {
			book := *b
			if book.Author == "" {
				book.Author = UnknownAuthor
			}
			detail = &BookDetail{Book: book, OwnerName: maskedOwnerName}
		}
	})
	if detail == nil {
		return nil, apperr.New(apperr.NotFound, "Kitap bulunamadı.")
	}
	return detail, nil
}
