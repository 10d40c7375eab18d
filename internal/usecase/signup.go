package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/gauravmindaptix26/leaado-backend/internal/entity"
)

type SignupUseCase struct {
	Users  entity.UserRepository
	Hasher PasswordHasher
}

func NewSignupUseCase(users entity.UserRepository, hasher PasswordHasher) *SignupUseCase {
	return &SignupUseCase{Users: users, Hasher: hasher}
}

func (uc *SignupUseCase) Execute(ctx context.Context, in SignupInput) (*entity.User, error) {
	fullName := strings.TrimSpace(in.FullName)
	email := NormalizeEmail(in.Email)
	if fullName == "" || email == "" || in.Password == "" {
		return nil, NewValidationError("Missing fields")
	}

	_, err := uc.Users.FindByEmail(ctx, email)
	if err == nil {
		return nil, NewConflictError("Email exists")
	}
	if !errors.Is(err, entity.ErrUserNotFound) {
		return nil, NewTechnicalError("lookup user by email", err)
	}

	hash, err := uc.Hasher.Hash(in.Password)
	if err != nil {
		return nil, NewTechnicalError("hash password", err)
	}

	u := entity.NewUser(fullName, email, hash, strings.TrimSpace(in.Mobile), strings.TrimSpace(in.Country))
	if err := uc.Users.Create(ctx, u); err != nil {
		if errors.Is(err, entity.ErrEmailAlreadyExists) {
			return nil, NewConflictError("Email exists")
		}
		return nil, NewTechnicalError("create user", err)
	}
	return u, nil
}
