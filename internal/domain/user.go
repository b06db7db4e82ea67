package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/questbelief/backend/internal/entity"
	"github.com/questbelief/backend/internal/model"
	"github.com/questbelief/backend/internal/repository"
	"github.com/questbelief/backend/pkg/errorx"
	"github.com/questbelief/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type UserDomain interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.RegisterResponse, error)
	GetUser(ctx context.Context, req *model.GetUserRequest) (*model.GetUserResponse, error)
}

type userDomain struct {
	userRepo repository.UserRepository
}

func NewUserDomain(userRepo repository.UserRepository) *userDomain {
	return &userDomain{userRepo: userRepo}
}

func (d *userDomain) Register(
	ctx context.Context, req *model.RegisterRequest,
) (*model.RegisterResponse, error) {
	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty name")
	}

	user := &entity.User{
		Base:      entity.Base{ID: uuid.NewString()},
		Name:      req.Name,
		AvatarURL: req.AvatarURL,
		Role:      entity.RoleUser,
		Level:     1,
	}

	if err := d.userRepo.Create(ctx, user); err != nil {
		if _, getErr := d.userRepo.GetByName(ctx, req.Name); getErr == nil {
			return nil, errorx.New(errorx.AlreadyExists, "This name has been registered")
		}

		xcontext.Logger(ctx).Errorf("Cannot create user: %v", err)
		return nil, errorx.Unknown
	}

	token, err := xcontext.TokenEngine(ctx).Generate(user.ID, model.AccessToken{
		ID:   user.ID,
		Name: user.Name,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate access token: %v", err)
		return nil, errorx.Unknown
	}

	return &model.RegisterResponse{
		User:        model.ConvertUser(user),
		AccessToken: token,
	}, nil
}

func (d *userDomain) GetUser(
	ctx context.Context, req *model.GetUserRequest,
) (*model.GetUserResponse, error) {
	userID := req.ID
	if userID == "" {
		userID = xcontext.RequestUserID(ctx)
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	resp := model.GetUserResponse(model.ConvertUser(user))
	return &resp, nil
}
