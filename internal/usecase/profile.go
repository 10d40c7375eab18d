package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/gauravmindaptix26/leaado-backend/internal/entity"
)

type ProfileUseCase struct {
	Users  entity.UserRepository
	Hasher PasswordHasher
}

func NewProfileUseCase(users entity.UserRepository, hasher PasswordHasher) *ProfileUseCase {
	return &ProfileUseCase{Users: users, Hasher: hasher}
}

func (uc *ProfileUseCase) Get(ctx context.Context, userID string) (*entity.User, error) {
	if err := requireOwner(userID); err != nil {
		return nil, err
	}
	u, err := uc.Users.FindByID(ctx, userID)
	if errors.Is(err, entity.ErrUserNotFound) {
		return nil, NewNotFoundError("User not found")
	}
	if err != nil {
		return nil, NewTechnicalError("load profile", err)
	}
	return u, nil
}

// Update applies the non-empty fields of in. Changing the password needs
// the current one.
func (uc *ProfileUseCase) Update(ctx context.Context, userID string, in ProfileUpdateInput) (*entity.User, error) {
	u, err := uc.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Phone != "" {
		digits := sanitizePhone(in.Phone)
		if !isValidPhone(digits) {
			return nil, NewValidationError("Phone number must be exactly 10 digits")
		}
		u.Mobile = digits
	}

	if name := strings.TrimSpace(in.FullName); name != "" {
		u.FullName = name
	}

	if email := NormalizeEmail(in.Email); email != "" && email != u.Email {
		other, err := uc.Users.FindByEmail(ctx, email)
		switch {
		case err == nil && other.ID != u.ID:
			return nil, NewConflictError("Email already in use")
		case err != nil && !errors.Is(err, entity.ErrUserNotFound):
			return nil, NewTechnicalError("lookup user by email", err)
		}
		u.Email = email
	}

	if in.NewPassword != "" {
		if in.CurrentPassword == "" {
			return nil, NewValidationError("Current password is required to set a new password")
		}
		if err := uc.Hasher.Compare(u.PasswordHash, in.CurrentPassword); err != nil {
			return nil, NewValidationError("Current password is incorrect")
		}
		hash, err := uc.Hasher.Hash(in.NewPassword)
		if err != nil {
			return nil, NewTechnicalError("hash password", err)
		}
		u.PasswordHash = hash
	}

	if err := uc.Users.Update(ctx, u); err != nil {
		switch {
		case errors.Is(err, entity.ErrEmailAlreadyExists):
			return nil, NewConflictError("Email already in use")
		case errors.Is(err, entity.ErrUserNotFound):
			return nil, NewNotFoundError("User not found")
		}
		return nil, NewTechnicalError("update profile", err)
	}
	return u, nil
}
