package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/zynordev/okurundan/internal/catalog"
	"github.com/zynordev/okurundan/internal/middleware"
)

type BookHandler struct {
	Catalog *catalog.Service
}

// List returns the available books as a bare array, each enriched with the
// cosmetic relevance score.
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.Catalog.ListAvailable())
}

func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	var in catalog.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondFailure(w, http.StatusBadRequest, "Geçersiz istek gövdesi.")
		return
	}

	id, err := h.Catalog.Create(user, in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Kitap başarıyla eklendi.",
		"bookId":  id,
	})
}

func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	book, err := h.Catalog.Get(id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"book":    book,
	})
}
