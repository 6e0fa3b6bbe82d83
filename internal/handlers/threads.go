package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/zynordev/okurundan/internal/exchange"
	"github.com/zynordev/okurundan/internal/intake"
	"github.com/zynordev/okurundan/internal/middleware"
)

type ThreadHandler struct {
	Exchange *exchange.Service
	Intake   *intake.Service
}

// CreateGeneralRequest records a free-form "book wanted" entry.
func (h *ThreadHandler) CreateGeneralRequest(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	var in intake.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondFailure(w, http.StatusBadRequest, "Geçersiz istek gövdesi.")
		return
	}

	id, err := h.Intake.Create(user, in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Talebiniz kütüphane havuzuna eklendi.",
		"requestId": id,
	})
}

// RequestBook opens (or redirects to) the conversation thread for a book.
func (h *ThreadHandler) RequestBook(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	var in exchange.OpenThreadInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondFailure(w, http.StatusBadRequest, "Geçersiz istek gövdesi.")
		return
	}

	res, err := h.Exchange.OpenThread(user, in)
	if err != nil {
		respondError(w, err)
		return
	}

	message := "Talep başarıyla gönderildi."
	if res.Existing {
		message = "Mevcut sohbete yönlendiriliyorsunuz."
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"message":       message,
		"transactionId": res.TransactionID,
	})
}

// ListThreads returns the user's conversation summaries, newest active first.
func (h *ThreadHandler) ListThreads(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	respondJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"messages": h.Exchange.Threads(user),
	})
}

// GetThread returns one conversation with its messages oldest first.
func (h *ThreadHandler) GetThread(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	id, _ := strconv.Atoi(mux.Vars(r)["transactionId"])

	detail, err := h.Exchange.Thread(user, id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"chat":    detail,
	})
}

// SendMessage appends a message to a thread the user participates in.
func (h *ThreadHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	var in struct {
		TransactionID int    `json:"transactionId"`
		Text          string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondFailure(w, http.StatusBadRequest, "Geçersiz istek gövdesi.")
		return
	}

	msg, err := h.Exchange.PostMessage(user, in.TransactionID, in.Text)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"message":     "Gönderildi",
		"sentMessage": msg,
	})
}
