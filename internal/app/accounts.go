package app

import (
	"context"

	"studyhub/internal/domain"
)

// Accounts fronts the identity provider and the profile store.
type Accounts struct {
	identity Identity
	profiles ProfileStore
}

func NewAccounts(identity Identity, profiles ProfileStore) *Accounts {
	return &Accounts{identity: identity, profiles: profiles}
}

// Register validates the form and creates the account; it returns the new user id.
func (a *Accounts) Register(ctx context.Context, reg domain.Registration) (string, error) {
	if err := validateStruct(reg); err != nil {
		return "", err
	}
	return a.identity.SignUp(ctx, reg.Email, reg.Password)
}

func (a *Accounts) Login(ctx context.Context, email, password string) (domain.Token, error) {
	return a.identity.SignIn(ctx, email, password)
}

func (a *Accounts) Logout(ctx context.Context, token string) error {
	return a.identity.SignOut(ctx, token)
}

func (a *Accounts) Authenticate(ctx context.Context, token string) (domain.Principal, error) {
	return a.identity.Verify(ctx, token)
}

// CompleteProfile stores the profile details filled in after sign-up.
func (a *Accounts) CompleteProfile(ctx context.Context, userID string, in domain.ProfileInput) (domain.Profile, error) {
	if err := validateStruct(in); err != nil {
		return domain.Profile{}, err
	}
	profile := domain.Profile{UserID: userID, Name: in.Name, Age: in.Age, Role: in.Role}
	if err := a.profiles.SaveProfile(ctx, profile); err != nil {
		return domain.Profile{}, err
	}
	return profile, nil
}

func (a *Accounts) Profile(ctx context.Context, userID string) (domain.Profile, error) {
	return a.profiles.GetProfile(ctx, userID)
}

// Navigation is the menu a client renders for role.
func Navigation(role domain.Role) []domain.NavItem {
	items := []domain.NavItem{{Label: "Home", Path: "/"}}
	switch role {
	case domain.RoleTeacher:
		items = append(items,
			domain.NavItem{Label: "Add Quizzes", Path: "/quizzes"},
			domain.NavItem{Label: "Teacher", Path: "/teacher"},
		)
	case domain.RoleStudent:
		items = append(items,
			domain.NavItem{Label: "Attempt Quizzes", Path: "/attempt-quizzes"},
			domain.NavItem{Label: "Student", Path: "/student"},
			domain.NavItem{Label: "My Profile", Path: "/my-profile"},
		)
	}
	return items
}
