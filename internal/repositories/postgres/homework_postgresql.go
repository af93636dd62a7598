package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tuition-tracker/tracker-service/internal/cache"
	"github.com/tuition-tracker/tracker-service/internal/models"
	"github.com/tuition-tracker/tracker-service/internal/repositories"
)

type HomeworkPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
	inTx         bool
}

func NewHomeworkPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager, inTx bool) repositories.HomeworkRepository {
	return &HomeworkPostgreSQL{
		db:           db,
		cacheManager: cacheManager,
		inTx:         inTx,
	}
}

func (h *HomeworkPostgreSQL) Create(ctx context.Context, homework *models.Homework) error {
	if err := h.db.WithContext(ctx).Omit(clause.Associations).Create(homework).Error; err != nil {
		return translateError(err, "create homework")
	}
	cache.InvalidateHomeworkCache(ctx, h.cacheManager)
	return nil
}

func (h *HomeworkPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Homework, error) {
	var homework models.Homework
	if err := h.db.WithContext(ctx).Preload("Assignee").First(&homework, id).Error; err != nil {
		return nil, translateError(err, "get homework")
	}
	return &homework, nil
}

func (h *HomeworkPostgreSQL) List(ctx context.Context, filters repositories.HomeworkFilters) ([]*models.Homework, error) {
	direction := "DESC"
	if filters.SortOrder == "asc" {
		direction = "ASC"
	}

	fetch := func() ([]*models.Homework, error) {
		var homeworks []*models.Homework
		query := h.db.WithContext(ctx).Preload("Assignee")
		if filters.AssignedTo != nil {
			query = query.Where("assigned_to = ?", *filters.AssignedTo)
		}
		err := query.Order(fmt.Sprintf("due_date %s, id %s", direction, direction)).Find(&homeworks).Error
		if err != nil {
			return nil, translateError(err, "list homework")
		}
		return homeworks, nil
	}

	if h.inTx || filters.AssignedTo != nil {
		return fetch()
	}

	var homeworks []*models.Homework
	err := h.cacheManager.Homework.CacheOrExecute(ctx, "list:"+direction, &homeworks, cache.HomeworkCacheConfig.TTL, func() (interface{}, error) {
		return fetch()
	})
	return homeworks, err
}

func (h *HomeworkPostgreSQL) DeleteByAssignee(ctx context.Context, studentID uint) (int64, error) {
	result := h.db.WithContext(ctx).Where("assigned_to = ?", studentID).Delete(&models.Homework{})
	if result.Error != nil {
		return 0, translateError(result.Error, "delete homework by assignee")
	}
	cache.InvalidateHomeworkCache(ctx, h.cacheManager)
	return result.RowsAffected, nil
}
