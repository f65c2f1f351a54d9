package models

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNewsNotFound is returned when an article is not found.
var ErrNewsNotFound = errors.New("news not found")

type NewsRepository struct {
	db *gorm.DB
}

func NewNewsRepository(db *gorm.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

// GetAll returns every article, newest first.
func (r *NewsRepository) GetAll() ([]News, error) {
	var news []News
	if err := r.db.Order("created_at DESC").Find(&news).Error; err != nil {
		return nil, err
	}
	return news, nil
}

// GetLatest returns the newest articles, at most limit of them.
func (r *NewsRepository) GetLatest(limit int) ([]News, error) {
	var news []News
	if err := r.db.Order("created_at DESC").Limit(limit).Find(&news).Error; err != nil {
		return nil, err
	}
	return news, nil
}

func (r *NewsRepository) GetByID(id string) (*News, error) {
	var news News
	if err := r.db.Where("id = ?", id).First(&news).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNewsNotFound
		}
		return nil, err
	}
	return &news, nil
}

// GetOther returns a uniform random sample of at most limit articles,
// never including the excluded id.
func (r *NewsRepository) GetOther(excludeID string, limit int) ([]News, error) {
	var news []News
	if err := r.db.
		Where("id <> ?", excludeID).
		Order("RANDOM()").
		Limit(limit).
		Find(&news).Error; err != nil {
		return nil, err
	}
	return news, nil
}

func (r *NewsRepository) Create(news *News) error {
	return r.db.Create(news).Error
}

func (r *NewsRepository) Update(news *News) error {
	return r.db.Save(news).Error
}

func (r *NewsRepository) Delete(id string) error {
	return r.db.Delete(&News{}, "id = ?", id).Error
}

func (r *NewsRepository) Count() (int64, error) {
	var total int64
	if err := r.db.Model(&News{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
