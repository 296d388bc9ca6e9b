package contract

import (
	"context"

	"investchat-be/internal/entity"
	"investchat-be/internal/repository/specification"
)

type AccessLogRepository interface {
	Create(ctx context.Context, log *entity.AccessLog) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AccessLog, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
