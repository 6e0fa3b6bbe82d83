// Package exchange turns book requests into durable conversation threads.
// A thread (transaction) is created at most once per (book, requester) pair;
// repeated requests are redirected to the existing thread. Only the thread's
// requester and owner may read it or post to it.
package exchange

import (
	"sort"
	"time"

	"github.com/zynordev/okurundan/internal/apperr"
	"github.com/zynordev/okurundan/internal/models"
	"github.com/zynordev/okurundan/internal/store"
)

const (
	deletedBookTitle = "Silinmiş Kitap"
	unknownBookTitle = "Bilinmiyor"
	noMessagesText   = "Mesaj yok"
	chatNamePrefix   = "Talep: "
)

type Service struct {
	store store.Store
	now   func() time.Time
}

func NewService(s store.Store) *Service {
	return &Service{store: s, now: time.Now}
}

type OpenThreadInput struct {
	BookID         int    `json:"bookId"`
	OwnerID        int    `json:"ownerId"`
	InitialMessage string `json:"initialMessage"`
}

type OpenThreadResult struct {
	TransactionID int
	// Existing is true when the request was collapsed onto an already
	// open thread; nothing was created or persisted in that case.
	Existing bool
}

// OpenThread creates the conversation for a book request, or redirects to
// the one already open for this (book, requester) pair.
//
// The recorded ownerId is the caller-supplied value, not re-derived from the
// book record; the detail view masks the owner's name but echoes the id, and
// the wire contract keeps that round trip intact.
func (s *Service) OpenThread(user *models.User, in OpenThreadInput) (OpenThreadResult, error) {
	if in.BookID == 0 || in.OwnerID == 0 || in.InitialMessage == "" {
		return OpenThreadResult{}, apperr.New(apperr.Validation, "İlan talebi için eksik bilgi.")
	}

	var res OpenThreadResult
	err := s.store.Update(func(doc *store.Document) error {
		book := doc.BookByID(in.BookID)
		if book == nil {
			return apperr.New(apperr.NotFound, "Kitap bulunamadı.")
		}
		if user.ID == in.OwnerID {
			return apperr.New(apperr.SelfReference, "Kendi kitabınızı isteyemezsiniz.")
		}

		for _, t := range doc.Transactions {
			if t.BookID == in.BookID && t.RequesterID == user.ID {
				res = OpenThreadResult{TransactionID: t.ID, Existing: true}
				return store.ErrNoChange
			}
		}

		tx := models.Transaction{
			ID:          doc.NextTransactionID(),
			BookID:      in.BookID,
			RequesterID: user.ID,
			OwnerID:     in.OwnerID,
			Status:      models.TransactionPending,
			ChatName:    chatNamePrefix + book.Title,
		}
		doc.Transactions = append(doc.Transactions, tx)
		doc.Messages = append(doc.Messages, models.Message{
			ID:            doc.NextMessageID(),
			TransactionID: tx.ID,
			SenderID:      user.ID,
			Text:          in.InitialMessage,
			Timestamp:     s.now().UnixMilli(),
		})
		book.Requests++

		res = OpenThreadResult{TransactionID: tx.ID}
		return nil
	})
	if err != nil {
		return OpenThreadResult{}, err
	}
	return res, nil
}

// ThreadSummary is one entry of the conversation list: the thread plus its
// most recent message.
type ThreadSummary struct {
	TransactionID          int    `json:"transactionId"`
	BookTitle              string `json:"bookTitle"`
	LatestMessageText      string `json:"latestMessageText"`
	LatestMessageTimestamp int64  `json:"latestMessageTimestamp"`
}

// Threads lists every conversation the user participates in, most recently
// active first.
func (s *Service) Threads(user *models.User) []ThreadSummary {
	summaries := []ThreadSummary{}
	s.store.View(func(doc *store.Document) {
		for _, t := range doc.Transactions {
			if !t.Participant(user.ID) {
				continue
			}

			title := deletedBookTitle
			if b := doc.BookByID(t.BookID); b != nil {
				title = b.Title
			}

			var msgs []models.Message
			for _, m := range doc.Messages {
				if m.TransactionID == t.ID {
					msgs = append(msgs, m)
				}
			}
			// Stable descending sort: timestamp ties resolve to the
			// earliest-inserted message.
			sort.SliceStable(msgs, func(i, j int) bool {
				return msgs[i].Timestamp > msgs[j].Timestamp
			})

			// Creation always seeds a first message, but tolerate an
			// empty thread anyway.
			summary := ThreadSummary{
				TransactionID:     t.ID,
				BookTitle:         title,
				LatestMessageText: noMessagesText,
			}
			if len(msgs) > 0 {
				summary.LatestMessageText = msgs[0].Text
				summary.LatestMessageTimestamp = msgs[0].Timestamp
			}
			summaries = append(summaries, summary)
		}
	})
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].LatestMessageTimestamp > summaries[j].LatestMessageTimestamp
	})
	return summaries
}

// ThreadMessage is a message annotated for the requesting user. IsSentByMe
// is computed per request and never stored.
type ThreadMessage struct {
	Text       string `json:"text"`
	Timestamp  int64  `json:"timestamp"`
	IsSentByMe bool   `json:"isSentByMe"`
}

type ThreadDetail struct {
	Transaction models.Transaction `json:"transaction"`
	BookTitle   string             `json:"bookTitle"`
	Messages    []ThreadMessage    `json:"messages"`
}

// Thread returns a full conversation, messages oldest first. A missing
// thread and a thread the user does not participate in are both Forbidden.
func (s *Service) Thread(user *models.User, transactionID int) (*ThreadDetail, error) {
	var detail *ThreadDetail
	s.store.View(func(doc *store.Document) {
		t := doc.TransactionByID(transactionID)
		if t == nil || !t.Participant(user.ID) {
			return
		}

		title := unknownBookTitle
		if b := doc.BookByID(t.BookID); b != nil {
			title = b.Title
		}

		ordered := []models.Message{}
		for _, m := range doc.Messages {
			if m.TransactionID == transactionID {
				ordered = append(ordered, m)
			}
		}
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].Timestamp < ordered[j].Timestamp
		})

		msgs := make([]ThreadMessage, 0, len(ordered))
		for _, m := range ordered {
			msgs = append(msgs, ThreadMessage{
				Text:       m.Text,
				Timestamp:  m.Timestamp,
				IsSentByMe: m.SenderID == user.ID,
			})
		}
		detail = &ThreadDetail{Transaction: *t, BookTitle: title, Messages: msgs}
	})
	if detail == nil {
		return nil, apperr.New(apperr.Forbidden, "Yetkisiz işlem.")
	}
	return detail, nil
}

// PostMessage appends a message from user to the thread and persists it.
func (s *Service) PostMessage(user *models.User, transactionID int, text string) (models.Message, error) {
	var msg models.Message
	err := s.store.Update(func(doc *store.Document) error {
		t := doc.TransactionByID(transactionID)
		if t == nil || !t.Participant(user.ID) {
			return apperr.New(apperr.Forbidden, "Yetkisiz işlem.")
		}
		msg = models.Message{
			ID:            doc.NextMessageID(),
			TransactionID: transactionID,
			SenderID:      user.ID,
			Text:          text,
			Timestamp:     s.now().UnixMilli(),
		}
		doc.Messages = append(doc.Messages, msg)
		return nil
	})
	if err != nil {
		return models.Message{}, err
	}
	return msg, nil
}
