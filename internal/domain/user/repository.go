package user

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, u User) (string, error)
	FindByEmail(ctx context.Context, email string) (User, error)
}
