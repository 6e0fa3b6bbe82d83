package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/zynordev/okurundan/internal/store"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthHandler struct {
	Store store.Store
}

// Login matches email and password against the user collection. Passwords
// are opaque comparison strings; hashing them is out of scope here. The
// session token is a marker only — protected endpoints authorize by bearer
// user id, not by this token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		respondFailure(w, http.StatusBadRequest, "Geçersiz istek gövdesi.")
		return
	}

	var userID int
	var role string
	found := false
	h.Store.View(func(doc *store.Document) {
		for _, u := range doc.Users {
			if u.Email == creds.Email && u.Password == creds.Password {
				userID = u.ID
				role = u.Role
				found = true
				return
			}
		}
	})
	if !found {
		respondFailure(w, http.StatusUnauthorized, "E-posta veya şifre hatalı.")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"userId":       userID,
		"role":         role,
		"sessionToken": uuid.NewString(),
		"message":      "Giriş başarılı.",
	})
}

// Logout is stateless; the client discards its credential.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Oturum kapatıldı.",
	})
}
