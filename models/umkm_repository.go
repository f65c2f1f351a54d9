package models

import (
	"errors"

	"gorm.io/gorm"
)

// ErrUmkmNotFound is returned when a business is not found.
var ErrUmkmNotFound = errors.New("business not found")

type UmkmRepository struct {
	db *gorm.DB
}

func NewUmkmRepository(db *gorm.DB) *UmkmRepository {
	return &UmkmRepository{db: db}
}

// listingQuery builds the grouped join every listing variant shares:
// one row per business with category name, product count and minimum
// product price. Grouping by the primary key lets postgres select the
// remaining business columns directly.
func (r *UmkmRepository) listingQuery() *gorm.DB {
	return r.db.
		Table("umkm AS u").
		Select(`u.id, u.name, u.image, u.address, u.phone, u.description, u.status,
			u.latitude, u.longitude, c.name AS category,
			COUNT(p.id) AS jumlah_produk, MIN(p.price) AS harga_termurah`).
		Joins("LEFT JOIN products p ON p.umkm_id = u.id").
		Joins("LEFT JOIN categories c ON c.id = u.category_id").
		Group("u.id, c.name")
}

// Listings returns all businesses with their aggregates, optionally
// filtered to active ones.
func (r *UmkmRepository) Listings(activeOnly bool) ([]UmkmListing, error) {
	q := r.listingQuery()
	if activeOnly {
		q = q.Where("u.status = ?", StatusActive)
	}
	var rows []UmkmListing
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Random returns a uniform random sample of at most limit businesses with
// their aggregates. An empty excludeID excludes nothing.
func (r *UmkmRepository) Random(excludeID string, limit int) ([]UmkmListing, error) {
	q := r.listingQuery()
	if excludeID != "" {
		q = q.Where("u.id <> ?", excludeID)
	}
	var rows []UmkmListing
	if err := q.Order("RANDOM()").Limit(limit).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ActivePreview returns the newest active businesses with their
// aggregates, at most limit of them.
func (r *UmkmRepository) ActivePreview(limit int) ([]UmkmListing, error) {
	var rows []UmkmListing
	err := r.listingQuery().
		Where("u.status = ?", StatusActive).
		Order("u.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *UmkmRepository) GetByID(id string) (*Umkm, error) {
	var umkm Umkm
	err := r.db.
		Preload("Category").
		Preload("Products").
		Where("id = ?", id).
		First(&umkm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUmkmNotFound
		}
		return nil, err
	}
	return &umkm, nil
}

func (r *UmkmRepository) Create(umkm *Umkm) error {
	return r.db.Create(umkm).Error
}

func (r *UmkmRepository) Update(umkm *Umkm) error {
	return r.db.Save(umkm).Error
}

// Delete removes the business and every product it owns.
func (r *UmkmRepository) Delete(id string) error {
	if err := r.db.Where("umkm_id = ?", id).Delete(&Product{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&Umkm{}, "id = ?", id).Error
}

// SetStatus updates the status and returns the updated record. The write
// is unconditional, so approving an already active business is a no-op
// that still succeeds.
func (r *UmkmRepository) SetStatus(id, status string) (*Umkm, error) {
	var umkm Umkm
	if err := r.db.Where("id = ?", id).First(&umkm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUmkmNotFound
		}
		return nil, err
	}
	if err := r.db.Model(&umkm).Update("status", status).Error; err != nil {
		return nil, err
	}
	return &umkm, nil
}

func (r *UmkmRepository) CountActive() (int64, error) {
	var total int64
	err := r.db.Model(&Umkm{}).Where("status = ?", StatusActive).Count(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}
