package middleware

import (
	"context"

	"github.com/plumehq/backend/internal/entity"
	"github.com/plumehq/backend/internal/repository"
	"github.com/plumehq/backend/pkg/errorx"
	"github.com/plumehq/backend/pkg/router"
	"github.com/plumehq/backend/pkg/xcontext"
	"golang.org/x/exp/slices"
)

type OnlyAdmin struct {
	userRepo repository.UserRepository
}

func NewOnlyAdmin(userRepo repository.UserRepository) *OnlyAdmin {
	return &OnlyAdmin{userRepo: userRepo}
}

func (a *OnlyAdmin) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		userID := xcontext.RequestUserID(ctx)
		if userID == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		user, err := a.userRepo.GetByID(ctx, userID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get user for role check: %v", err)
			return nil, errorx.Unknown
		}

		if !slices.Contains(entity.GlobalAdminRoles, user.Role) {
			return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
		}

		return nil, nil
	}
}
