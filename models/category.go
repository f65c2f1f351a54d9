package models

// Category groups businesses by trade. Names are unique (case-sensitive,
// trimmed before insert) and a category cannot be deleted while any
// business still references it.
type Category struct {
	ID   string `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;not null"`
}

func (c *Category) TableName() string {
	return "categories"
}
