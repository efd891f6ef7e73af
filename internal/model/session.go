package model

import "context"

// SessionStore persists the device session so the app can restore the logged
// in user and their selected family across launches.
type SessionStore interface {
	CurrentUser(ctx context.Context) (User, error)
	SetCurrentUser(ctx context.Context, user User) error
	SelectedFamily(ctx context.Context) (FamilyProfile, error)
	SetSelectedFamily(ctx context.Context, family FamilyProfile) error
	Clear(ctx context.Context) error
}
