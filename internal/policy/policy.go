// Package policy decides whether an actor may read or change an invitation
// and the rows hanging off it.
//
// The rules are the same for every child resource:
//
//   - no actor                          -> ErrUnauthenticated
//   - invitation missing or not owned   -> ErrNotFoundOrUnauthorized
//   - admin-only action by a non-admin  -> ErrForbidden
//
// Missing and not-owned are deliberately indistinguishable to the caller.
package policy

import (
	"context"
	"errors"

	"github.com/iliyamo/undangan-builder/internal/model"
	"github.com/iliyamo/undangan-builder/internal/repository"
)

var (
	ErrUnauthenticated        = errors.New("unauthenticated")
	ErrNotFoundOrUnauthorized = errors.New("not found or unauthorized")
	ErrForbidden              = errors.New("forbidden")
)

// Actor is the authenticated caller.  A nil *Actor means anonymous.
type Actor struct {
	UserID uint64
	Role   string
}

func (a *Actor) IsAdmin() bool { return a != nil && a.Role == model.RoleAdmin }

// ReadScope selects who may list an invitation's child rows.
type ReadScope int

const (
	// ReadPublic lets anyone read the children of an existing invitation,
	// so guests can open the page without an account.
	ReadPublic ReadScope = iota
	// ReadOwner applies the write rules to reads as well.
	ReadOwner
)

func (s ReadScope) String() string {
	if s == ReadOwner {
		return "owner"
	}
	return "public"
}

// InvitationOwners resolves the owner of an invitation.  Implementations
// return repository.ErrNotFound for unknown ids.
type InvitationOwners interface {
	OwnerOf(ctx context.Context, invitationID uint64) (uint64, error)
}

// Authorizer applies the ownership rules.  It only reads.
type Authorizer struct {
	owners InvitationOwners
	reads  ReadScope
}

func NewAuthorizer(owners InvitationOwners, reads ReadScope) *Authorizer {
	if owners == nil {
		panic("nil InvitationOwners passed to NewAuthorizer")
	}
	return &Authorizer{owners: owners, reads: reads}
}

// ReadScope reports the configured child read scope.
func (a *Authorizer) ReadScope() ReadScope { return a.reads }

// Invitation allows the actor to change invitationID or any of its children.
func (a *Authorizer) Invitation(ctx context.Context, actor *Actor, invitationID uint64) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	owner, err := a.owners.OwnerOf(ctx, invitationID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFoundOrUnauthorized
	}
	if err != nil {
		return err
	}
	if owner != actor.UserID {
		return ErrNotFoundOrUnauthorized
	}
	return nil
}

// Child authorizes a write on a row that belongs to invitationID.  When the
// request names an invitation (claimed != nil) it must be the row's own.
func (a *Authorizer) Child(ctx context.Context, actor *Actor, invitationID uint64, claimed *uint64) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if claimed != nil && *claimed != invitationID {
		return ErrNotFoundOrUnauthorized
	}
	return a.Invitation(ctx, actor, invitationID)
}

// ReadChildren allows listing the children of invitationID under the
// configured read scope.  Public reads still require the invitation to exist.
func (a *Authorizer) ReadChildren(ctx context.Context, actor *Actor, invitationID uint64) error {
	if a.reads == ReadOwner {
		return a.Invitation(ctx, actor, invitationID)
	}
	_, err := a.owners.OwnerOf(ctx, invitationID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFoundOrUnauthorized
	}
	return err
}

// Admin allows actions on the template marketplace and the bank list.
func Admin(actor *Actor) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// Authenticated only requires an actor.
func Authenticated(actor *Actor) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	return nil
}
