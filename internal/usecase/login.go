package usecase

import (
	"context"
	"errors"

	"github.com/gauravmindaptix26/leaado-backend/internal/entity"
)

type LoginUseCase struct {
	Users  entity.UserRepository
	Hasher PasswordHasher
	Tokens TokenIssuer
}

func NewLoginUseCase(users entity.UserRepository, hasher PasswordHasher, tokens TokenIssuer) *LoginUseCase {
	return &LoginUseCase{Users: users, Hasher: hasher, Tokens: tokens}
}

func (uc *LoginUseCase) Execute(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	email := NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, NewValidationError("Missing fields")
	}

	u, err := uc.Users.FindByEmail(ctx, email)
	if errors.Is(err, entity.ErrUserNotFound) {
		return nil, NewUnauthorizedError("Invalid details")
	}
	if err != nil {
		return nil, NewTechnicalError("lookup user by email", err)
	}

	if err := uc.Hasher.Compare(u.PasswordHash, in.Password); err != nil {
		return nil, NewUnauthorizedError("Invalid details")
	}

	token, err := uc.Tokens.Issue(u.ID, u.Email)
	if err != nil {
		return nil, NewTechnicalError("issue token", err)
	}
	return &LoginOutput{Token: token, User: u}, nil
}
