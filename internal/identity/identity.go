// Package identity resolves a bearer credential to a user. The credential is
// simply "Bearer <user id>" — possession of an id grants that identity. This
// is deliberately weak and kept behind an interface so a real token scheme
// can replace it without touching the services.
package identity

import (
	"strconv"
	"strings"

	"github.com/zynordev/okurundan/internal/models"
	"github.com/zynordev/okurundan/internal/store"
)

type Resolver interface {
	// Resolve maps a credential string to a user. A wrong scheme, an
	// unparsable id, or an unknown user all resolve to nothing.
	Resolve(credential string) (*models.User, bool)
}

type BearerResolver struct {
	store store.Store
}

func NewBearerResolver(s store.Store) *BearerResolver {
	return &BearerResolver{store: s}
}

func (r *BearerResolver) Resolve(credential string) (*models.User, bool) {
	scheme, rest, ok := strings.Cut(credential, " ")
	if !ok || scheme != "Bearer" {
		return nil, false
	}
	id, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil {
		return nil, false
	}

	var user *models.User
	r.store.View(func(doc *store.Document) {
		if u := doc.UserByID(id); u != nil {
			clone := *u
			user = &clone
		}
	})
	return user, user != nil
}
