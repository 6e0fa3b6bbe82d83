package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zynordev/okurundan/internal/admin"
	"github.com/zynordev/okurundan/internal/apperr"
	"github.com/zynordev/okurundan/internal/catalog"
	"github.com/zynordev/okurundan/internal/exchange"
	"github.com/zynordev/okurundan/internal/identity"
	"github.com/zynordev/okurundan/internal/intake"
	"github.com/zynordev/okurundan/internal/middleware"
	"github.com/zynordev/okurundan/internal/store/jsonstore"
)

// newTestRouter wires the full API the same way main does, minus logging
// and rate limiting.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	st, err := jsonstore.New(filepath.Join(t.TempDir(), "db.json"), zerolog.Nop())
	require.NoError(t, err)

	authHandler := &AuthHandler{Store: st}
	bookHandler := &BookHandler{Catalog: catalog.NewService(st)}
	threadHandler := &ThreadHandler{
		Exchange: exchange.NewService(st),
		Intake:   intake.NewService(st),
	}
	adminHandler := &AdminHandler{Admin: admin.NewService(st, admin.NewCannedNarrator())}

	r := mux.NewRouter()
	public := r.PathPrefix("/api").Subrouter()
	public.HandleFunc("/login", authHandler.Login).Methods("POST")
	public.HandleFunc("/logout", authHandler.Logout).Methods("POST")

	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(middleware.Auth(identity.NewBearerResolver(st)))
	protected.HandleFunc("/books", bookHandler.List).Methods("GET")
	protected.HandleFunc("/add-book", bookHandler.Create).Methods("POST")
	protected.HandleFunc("/book/{id}", bookHandler.Get).Methods("GET")
	protected.HandleFunc("/new-request", threadHandler.CreateGeneralRequest).Methods("POST")
	protected.HandleFunc("/request-book", threadHandler.RequestBook).Methods("POST")
	protected.HandleFunc("/messages", threadHandler.ListThreads).Methods("GET")
	protected.HandleFunc("/messages/{transactionId}", threadHandler.GetThread).Methods("GET")
	protected.HandleFunc("/send-message", threadHandler.SendMessage).Methods("POST")
	protected.HandleFunc("/admin/dashboard", adminHandler.Dashboard).Methods("GET")
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
	return out
}

func TestLogin(t *testing.T) {
	h := newTestRouter(t)

	rr := doJSON(t, h, "POST", "/api/login", "", map[string]string{
		"email": "ahmet@okul.k12.tr", "password": "123",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(101), body["userId"])
	assert.Equal(t, "student", body["role"])
	assert.NotEmpty(t, body["sessionToken"])
}

func TestLoginInvalidCredentials(t *testing.T) {
	h := newTestRouter(t)

	rr := doJSON(t, h, "POST", "/api/login", "", map[string]string{
		"email": "ahmet@okul.k12.tr", "password": "yanlış",
	})
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, false, decodeBody(t, rr)["success"])
}

func TestProtectedEndpointsRejectMissingCredential(t *testing.T) {
	h := newTestRouter(t)

	paths := []struct{ method, path string }{
		{"GET", "/api/books"},
		{"POST", "/api/add-book"},
		{"GET", "/api/book/1"},
		{"POST", "/api/new-request"},
		{"POST", "/api/request-book"},
		{"GET", "/api/messages"},
		{"GET", "/api/messages/1"},
		{"POST", "/api/send-message"},
		{"GET", "/api/admin/dashboard"},
	}
	for _, p := range paths {
		rr := doJSON(t, h, p.method, p.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s", p.method, p.path)
	}
}

func TestAddBookValidation(t *testing.T) {
	h := newTestRouter(t)

	rr := doJSON(t, h, "POST", "/api/add-book", "Bearer 101", map[string]string{
		"title": "Nutuk",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRequestToConversationFlow(t *testing.T) {
	h := newTestRouter(t)

	// Owner 101 lists a book.
	rr := doJSON(t, h, "POST", "/api/add-book", "Bearer 101", map[string]string{
		"title": "Nutuk", "author": "Atatürk", "category": "Tarih", "condition": "İyi",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	bookID := int(decodeBody(t, rr)["bookId"].(float64))

	// Detail view masks the owner name but keeps the id.
	rr = doJSON(t, h, "GET", "/api/book/1", "Bearer 102", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	book := decodeBody(t, rr)["book"].(map[string]any)
	assert.Equal(t, "Gizli Kullanıcı", book["ownerName"])
	assert.Equal(t, float64(101), book["ownerId"])

	// Requester 102 opens the thread.
	rr = doJSON(t, h, "POST", "/api/request-book", "Bearer 102", map[string]any{
		"bookId": bookID, "ownerId": 101, "initialMessage": "merhaba",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	txID := int(decodeBody(t, rr)["transactionId"].(float64))

	// A second identical request redirects to the same thread.
	rr = doJSON(t, h, "POST", "/api/request-book", "Bearer 102", map[string]any{
		"bookId": bookID, "ownerId": 101, "initialMessage": "hala müsait mi?",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	dup := decodeBody(t, rr)
	assert.Equal(t, float64(txID), dup["transactionId"])
	assert.Equal(t, "Mevcut sohbete yönlendiriliyorsunuz.", dup["message"])

	// Owner answers.
	time.Sleep(2 * time.Millisecond)
	rr = doJSON(t, h, "POST", "/api/send-message", "Bearer 101", map[string]any{
		"transactionId": txID, "text": "evet, müsait",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	// Both sides see the thread in their lists; outsider 103 does not.
	for _, bearer := range []string{"Bearer 101", "Bearer 102"} {
		rr = doJSON(t, h, "GET", "/api/messages", bearer, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		threads := decodeBody(t, rr)["messages"].([]any)
		require.Len(t, threads, 1, bearer)
		assert.Equal(t, "evet, müsait", threads[0].(map[string]any)["latestMessageText"])
	}
	rr = doJSON(t, h, "GET", "/api/messages", "Bearer 103", nil)
	assert.Empty(t, decodeBody(t, rr)["messages"])

	// Thread detail: ascending messages, sender annotation per viewer.
	rr = doJSON(t, h, "GET", "/api/messages/1", "Bearer 102", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	chat := decodeBody(t, rr)["chat"].(map[string]any)
	assert.Equal(t, "Nutuk", chat["bookTitle"])
	msgs := chat["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, true, msgs[0].(map[string]any)["isSentByMe"])
	assert.Equal(t, false, msgs[1].(map[string]any)["isSentByMe"])

	// Outsider is forbidden from reading and posting.
	rr = doJSON(t, h, "GET", "/api/messages/1", "Bearer 103", nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	rr = doJSON(t, h, "POST", "/api/send-message", "Bearer 103", map[string]any{
		"transactionId": txID, "text": "ben de",
	})
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestSelfRequestRejected(t *testing.T) {
	h := newTestRouter(t)

	rr := doJSON(t, h, "POST", "/api/add-book", "Bearer 101", map[string]string{
		"title": "Nutuk", "category": "Tarih", "condition": "İyi",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, h, "POST", "/api/request-book", "Bearer 101", map[string]any{
		"bookId": 1, "ownerId": 101, "initialMessage": "benim kitabım",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Kendi kitabınızı isteyemezsiniz.", decodeBody(t, rr)["message"])
}

func TestGeneralRequestAndDashboard(t *testing.T) {
	h := newTestRouter(t)

	rr := doJSON(t, h, "POST", "/api/new-request", "Bearer 102", map[string]string{
		"title": "LGS Deneme", "category": "Sınav",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, float64(1), decodeBody(t, rr)["requestId"])

	rr = doJSON(t, h, "GET", "/api/admin/dashboard", "Bearer 1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	stats := decodeBody(t, rr)["stats"].(map[string]any)
	assert.Equal(t, float64(0), stats["totalBooks"])
	requests := stats["requests"].([]any)
	require.Len(t, requests, 1)
	assert.Equal(t, "LGS Deneme", requests[0].(map[string]any)["title"])
	assert.Contains(t, stats["aiInsight"], "7B")
}

func TestListBooks(t *testing.T) {
	h := newTestRouter(t)

	rr := doJSON(t, h, "POST", "/api/add-book", "Bearer 101", map[string]string{
		"title": "Nutuk", "category": "Tarih", "condition": "İyi",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, h, "GET", "/api/books", "Bearer 102", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var books []map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&books))
	require.Len(t, books, 1)
	assert.Equal(t, "Nutuk", books[0]["title"])
	match := books[0]["aiMatch"].(float64)
	assert.GreaterOrEqual(t, match, float64(50))
	assert.LessOrEqual(t, match, float64(100))

	// An imageless book still carries the key, as an explicit null.
	require.Contains(t, books[0], "image")
	assert.Nil(t, books[0]["image"])
}

func TestRespondErrorMapsPersistenceToInternalError(t *testing.T) {
	rr := httptest.NewRecorder()
	respondError(rr, apperr.Wrap(apperr.Persistence, "Veri kaydedilemedi.", assert.AnError))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Veri kaydedilemedi.", body["message"])
}

func TestBookNotFound(t *testing.T) {
	h := newTestRouter(t)

	rr := doJSON(t, h, "GET", "/api/book/42", "Bearer 101", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestLogout(t *testing.T) {
	h := newTestRouter(t)

	rr := doJSON(t, h, "POST", "/api/logout", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, true, decodeBody(t, rr)["success"])
}
