package implementation

import (
	"context"

	"investchat-be/internal/entity"
	"investchat-be/internal/mapper"
	"investchat-be/internal/model"
	"investchat-be/internal/repository/contract"
	"investchat-be/internal/repository/specification"

	"gorm.io/gorm"
)

type AccessLogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AccessLogMapper
}

func NewAccessLogRepository(db *gorm.DB) contract.AccessLogRepository {
	return &AccessLogRepositoryImpl{
		db:     db,
		mapper: mapper.NewAccessLogMapper(),
	}
}

func (r *AccessLogRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *AccessLogRepositoryImpl) Create(ctx context.Context, log *entity.AccessLog) error {
	m := r.mapper.ToModel(log)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*log = *r.mapper.ToEntity(m)
	return nil
}

func (r *AccessLogRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AccessLog, error) {
	var models []*model.AccessLog
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *AccessLogRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.AccessLog{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
