package models

import (
	"errors"

	"gorm.io/gorm"
)

// ErrCategoryNotFound is returned when a category is not found.
var ErrCategoryNotFound = errors.New("category not found")

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) GetAll() ([]Category, error) {
	var categories []Category
	if err := r.db.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CategoryRepository) GetByID(id string) (*Category, error) {
	var category Category
	if err := r.db.Where("id = ?", id).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// GetByName matches the exact (case-sensitive) name.
func (r *CategoryRepository) GetByName(name string) (*Category, error) {
	var category Category
	if err := r.db.Where("name = ?", name).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) Create(category *Category) error {
	return r.db.Create(category).Error
}

func (r *CategoryRepository) Delete(id string) error {
	return r.db.Delete(&Category{}, "id = ?", id).Error
}

// CountReferences returns how many businesses currently use the category.
func (r *CategoryRepository) CountReferences(id string) (int64, error) {
	var total int64
	err := r.db.Model(&Umkm{}).Where("category_id = ?", id).Count(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}
