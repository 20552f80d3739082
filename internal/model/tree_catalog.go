package model

type TreeCatalog struct {
	ID          uint64  `gorm:"primaryKey;autoIncrement"`
	Name        string  `gorm:"size:100;uniqueIndex;not null"`
	Price       int64   `gorm:"not null"`
	Description string  `gorm:"type:text"`
	ImageURL    *string `gorm:"column:image_url;size:255"`
}

func (TreeCatalog) TableName() string {
	return "tree_catalog"
}
