// Package news provides CRUD operations for news articles.
package news

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mf010/dynamic-website-sub000/internal/db/models"
)

const (
	idQueryPattern   = "id = ?"
	slugQueryPattern = "slug = ?"
)

var (
	// ErrNewsNotFound is returned when a news article is not found.
	ErrNewsNotFound = errors.New("news article not found")
	// ErrNewsTitleEmpty is returned when attempting to create/update an article with an empty title.
	ErrNewsTitleEmpty = errors.New("news title cannot be empty")
	// ErrNewsSlugEmpty is returned when attempting to create/update an article with an empty slug.
	ErrNewsSlugEmpty = errors.New("news slug cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Create creates a new news article in the database.
func Create(db *gorm.DB, article *models.News) error {
	if db == nil {
		return ErrDBNil
	}
	if article.Title == "" {
		return ErrNewsTitleEmpty
	}
	if article.Slug == "" {
		return ErrNewsSlugEmpty
	}

	return db.Create(article).Error
}

// GetByID retrieves a news article by its ID.
func GetByID(db *gorm.DB, id uint64) (*models.News, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var article models.News
	result := db.Where(idQueryPattern, id).First(&article)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNewsNotFound
		}
		return nil, result.Error
	}

	return &article, nil
}

// GetBySlug retrieves a news article by its slug.
func GetBySlug(db *gorm.DB, slug string) (*models.News, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if slug == "" {
		return nil, ErrNewsSlugEmpty
	}

	var article models.News
	result := db.Where(slugQueryPattern, slug).First(&article)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNewsNotFound
		}
		return nil, result.Error
	}

	return &article, nil
}

// GetAll retrieves all news articles, newest first.
func GetAll(db *gorm.DB) ([]models.News, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var articles []models.News
	result := db.Order("created_at DESC").Find(&articles)
	if result.Error != nil {
		return nil, result.Error
	}

	return articles, nil
}

// GetPublished retrieves published articles only, newest publication first.
func GetPublished(db *gorm.DB, limit int) ([]models.News, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var articles []models.News
	query := db.Where("published = ?", true).Order("published_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if result := query.Find(&articles); result.Error != nil {
		return nil, result.Error
	}

	return articles, nil
}

// Update updates an existing news article.
func Update(db *gorm.DB, article *models.News) error {
	if db == nil {
		return ErrDBNil
	}
	if article.Title == "" {
		return ErrNewsTitleEmpty
	}
	if article.Slug == "" {
		return ErrNewsSlugEmpty
	}

	result := db.Model(&models.News{}).Where(idQueryPattern, article.ID).Updates(map[string]any{
		"title":   article.Title,
		"slug":    article.Slug,
		"excerpt": article.Excerpt,
		"body":    article.Body,
		"image":   article.Image,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNewsNotFound
	}

	return nil
}

// TogglePublish flips the publish flag of an article. PublishedAt is
// recorded on the first transition to published and preserved afterwards,
// so an article keeps its original publication date across toggles.
func TogglePublish(db *gorm.DB, id uint64) (*models.News, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	article, err := GetByID(db, id)
	if err != nil {
		return nil, err
	}

	article.Published = !article.Published
	updates := map[string]any{"published": article.Published}

	if article.Published && article.PublishedAt == nil {
		now := time.Now()
		article.PublishedAt = &now
		updates["published_at"] = article.PublishedAt
	}

	if result := db.Model(article).Updates(updates); result.Error != nil {
		return nil, result.Error
	}

	return article, nil
}

// IncrementViews atomically increments the view counter of an article.
func IncrementViews(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Model(&models.News{}).Where(idQueryPattern, id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNewsNotFound
	}

	return nil
}

// Delete deletes a news article by ID.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Where(idQueryPattern, id).Delete(&models.News{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNewsNotFound
	}

	return nil
}
