// internal/adapters/out/firestore/profile_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	authdom "storefront/internal/domain/auth"
)

// ProfileRepositoryFS stores users/{uid}.
type ProfileRepositoryFS struct {
	Client *firestore.Client
}

func NewProfileRepositoryFS(client *firestore.Client) *ProfileRepositoryFS {
	return &ProfileRepositoryFS{Client: client}
}

func (r *ProfileRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("users")
}

type profileDoc struct {
	FirstName  string    `firestore:"firstName,omitempty"`
	LastName   string    `firestore:"lastName,omitempty"`
	Username   string    `firestore:"username,omitempty"`
	Email      string    `firestore:"email,omitempty"`
	Phone      string    `firestore:"phone,omitempty"`
	Address    string    `firestore:"address,omitempty"`
	City       string    `firestore:"city,omitempty"`
	PostalCode string    `firestore:"postalCode,omitempty"`
	CreatedAt  time.Time `firestore:"createdAt,omitempty"`
	UpdatedAt  time.Time `firestore:"updatedAt,omitempty"`
}

func (r *ProfileRepositoryFS) GetByUID(ctx context.Context, uid string) (authdom.Profile, error) {
	if r == nil || r.Client == nil {
		return authdom.Profile{}, errors.New("profile_repository_fs: firestore client is nil")
	}
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return authdom.Profile{}, authdom.ErrInvalidProfile
	}

	snap, err := r.col().Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return authdom.Profile{}, authdom.ErrNotFound
		}
		return authdom.Profile{}, err
	}

	var d profileDoc
	if err := snap.DataTo(&d); err != nil {
		return authdom.Profile{}, err
	}
	return authdom.Profile{
		UID:        uid,
		Email:      d.Email,
		FirstName:  d.FirstName,
		LastName:   d.LastName,
		Username:   d.Username,
		Phone:      d.Phone,
		Address:    d.Address,
		City:       d.City,
		PostalCode: d.PostalCode,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}, nil
}

// Save overwrites users/{uid}.
func (r *ProfileRepositoryFS) Save(ctx context.Context, p authdom.Profile) error {
	if r == nil || r.Client == nil {
		return errors.New("profile_repository_fs: firestore client is nil")
	}
	uid := strings.TrimSpace(p.UID)
	if uid == "" {
		return authdom.ErrInvalidProfile
	}

	_, err := r.col().Doc(uid).Set(ctx, profileDoc{
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Username:   p.Username,
		Email:      p.Email,
		Phone:      p.Phone,
		Address:    p.Address,
		City:       p.City,
		PostalCode: p.PostalCode,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	})
	return err
}
