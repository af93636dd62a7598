package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tuition-tracker/tracker-service/internal/cache"
	"github.com/tuition-tracker/tracker-service/internal/models"
	"github.com/tuition-tracker/tracker-service/internal/repositories"
)

var studentSortColumns = map[string]string{
	"rank":       `"rank"`,
	"username":   "username",
	"created_at": "created_at",
	"id":         "id",
}

type StudentPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
	// Reads inside a transaction must not be served from cache
	inTx bool
}

func NewStudentPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager, inTx bool) repositories.StudentRepository {
	return &StudentPostgreSQL{
		db:           db,
		cacheManager: cacheManager,
		inTx:         inTx,
	}
}

func (s *StudentPostgreSQL) Create(ctx context.Context, student *models.Student) error {
	if err := s.db.WithContext(ctx).Create(student).Error; err != nil {
		return translateError(err, "create student")
	}
	cache.InvalidateStudentCache(ctx, s.cacheManager)
	return nil
}

func (s *StudentPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Student, error) {
	var student models.Student
	if err := s.db.WithContext(ctx).First(&student, id).Error; err != nil {
		return nil, translateError(err, "get student")
	}
	return &student, nil
}

func (s *StudentPostgreSQL) GetByUsername(ctx context.Context, username string) (*models.Student, error) {
	var student models.Student
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&student).Error; err != nil {
		return nil, translateError(err, "get student by username")
	}
	return &student, nil
}

func (s *StudentPostgreSQL) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Student{}).Where("id = ?", id).Count(&count).Error
	return count > 0, translateError(err, "check student")
}

func (s *StudentPostgreSQL) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Student{}).Where("username = ?", username).Count(&count).Error
	return count > 0, translateError(err, "check username")
}

func (s *StudentPostgreSQL) List(ctx context.Context, filters repositories.StudentFilters) ([]*models.Student, error) {
	fetch := func() ([]*models.Student, error) {
		var students []*models.Student
		query := s.db.WithContext(ctx).Model(&models.Student{})
		if filters.Username != nil {
			query = query.Where("username = ?", *filters.Username)
		}
		query = query.Order(orderClause(filters.SortBy, filters.SortOrder, studentSortColumns, "rank"))
		if err := query.Find(&students).Error; err != nil {
			return nil, translateError(err, "list students")
		}
		return students, nil
	}

	if s.inTx || filters.Username != nil {
		return fetch()
	}

	var students []*models.Student
	cacheKey := fmt.Sprintf("list:%s:%s", filters.SortBy, filters.SortOrder)
	err := s.cacheManager.Student.CacheOrExecute(ctx, cacheKey, &students, cache.StudentCacheConfig.TTL, func() (interface{}, error) {
		return fetch()
	})
	return students, err
}

func (s *StudentPostgreSQL) ListForRanking(ctx context.Context) ([]*models.Student, error) {
	var students []*models.Student
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Order("id ASC").
		Find(&students).Error
	return students, translateError(err, "list students for ranking")
}

func (s *StudentPostgreSQL) UpdateCounters(ctx context.Context, student *models.Student) error {
	result := s.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("id = ?", student.ID).
		Updates(map[string]interface{}{
			"streak":                   student.Streak,
			"completed_homeworks":      student.CompletedHomeworks,
			"total_homeworks_assigned": student.TotalHomeworksAssigned,
			"updated_at":               time.Now(),
		})
	if err := requireAffected(result, "update student counters"); err != nil {
		return err
	}
	cache.InvalidateStudentCache(ctx, s.cacheManager)
	return nil
}

func (s *StudentPostgreSQL) UpdateRank(ctx context.Context, id uint, rank int) error {
	result := s.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("id = ?", id).
		UpdateColumn("rank", rank)
	if err := requireAffected(result, "update student rank"); err != nil {
		return err
	}
	cache.InvalidateStudentCache(ctx, s.cacheManager)
	return nil
}

func (s *StudentPostgreSQL) IncrementAssigned(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("id = ?", id).
		UpdateColumn("total_homeworks_assigned", gorm.Expr("total_homeworks_assigned + ?", 1))
	if err := requireAffected(result, "increment assigned homework"); err != nil {
		return err
	}
	cache.InvalidateStudentCache(ctx, s.cacheManager)
	return nil
}

func (s *StudentPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Student{}, id)
	if err := requireAffected(result, "delete student"); err != nil {
		return err
	}
	cache.InvalidateStudentCache(ctx, s.cacheManager)
	return nil
}
