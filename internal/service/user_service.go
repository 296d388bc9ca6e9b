package service

import (
	"context"
	"errors"

	"investchat-be/internal/dto"
	"investchat-be/internal/entity"
	"investchat-be/internal/repository/specification"
	"investchat-be/internal/repository/unitofwork"
	"investchat-be/pkg/brdoc"

	"github.com/google/uuid"
)

type IUserService interface {
	GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error)
	UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserProfileResponse, error)
	GetAccessLogs(ctx context.Context, userId uuid.UUID, limit int) ([]*dto.AccessLogResponse, error)
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewUserService(uowFactory unitofwork.RepositoryFactory) IUserService {
	return &userService{
		uowFactory: uowFactory,
	}
}

func (s *userService) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	return profileToDTO(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Phone != "" {
		user.Phone = brdoc.Digits(req.Phone)
	}
	if req.Address != nil {
		cep := brdoc.Digits(req.Address.CEP)
		if !brdoc.IsValidCEP(cep) {
			return nil, errors.New("invalid cep")
		}
		user.Address = entity.Address{
			CEP:        cep,
			Street:     req.Address.Street,
			Number:     req.Address.Number,
			Complement: req.Address.Complement,
			District:   req.Address.District,
			City:       req.Address.City,
			State:      req.Address.State,
		}
	}

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}

	return profileToDTO(user), nil
}

func (s *userService) GetAccessLogs(ctx context.Context, userId uuid.UUID, limit int) ([]*dto.AccessLogResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	logs, err := uow.AccessLogRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: 0},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.AccessLogResponse, 0, len(logs))
	for _, l := range logs {
		response = append(response, &dto.AccessLogResponse{
			Id:        l.Id,
			IpAddress: l.IpAddress,
			Browser:   l.Browser,
			OS:        l.OS,
			Device:    l.Device,
			Country:   l.Country,
			Region:    l.Region,
			City:      l.City,
			ISP:       l.ISP,
			CreatedAt: l.CreatedAt,
		})
	}

	return response, nil
}

func profileToDTO(user *entity.User) *dto.UserProfileResponse {
	avatarURL := ""
	if user.AvatarURL != nil {
		avatarURL = *user.AvatarURL
	}
	birthDate := ""
	if user.BirthDate != nil {
		birthDate = user.BirthDate.Format("2006-01-02")
	}

	return &dto.UserProfileResponse{
		Id:            user.Id,
		Email:         user.Email,
		FullName:      user.FullName,
		CPF:           brdoc.FormatCPF(user.CPF),
		Phone:         brdoc.FormatPhone(user.Phone),
		BirthDate:     birthDate,
		Role:          string(user.Role),
		Status:        string(user.Status),
		EmailVerified: user.EmailVerified,
		AvatarURL:     avatarURL,
		Address: dto.AddressDTO{
			CEP:        brdoc.FormatCEP(user.Address.CEP),
			Street:     user.Address.Street,
			Number:     user.Address.Number,
			Complement: user.Address.Complement,
			District:   user.Address.District,
			City:       user.Address.City,
			State:      user.Address.State,
		},
		CreatedAt: user.CreatedAt,
	}
}
