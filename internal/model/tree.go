package model

import "time"

const MaxTreeLevel = 5

// Tree is a purchased catalog archetype owned by a user. Price is the
// snapshot taken at buy time; later catalog re-pricing does not touch it.
type Tree struct {
	ID            uint64     `gorm:"primaryKey;autoIncrement"`
	CreatedBy     uint64     `gorm:"column:created_by;index;not null"`
	TreeTypeID    uint64     `gorm:"column:tree_type_id;not null"`
	Name          string     `gorm:"size:100;not null"`
	Price         int64      `gorm:"not null;default:0"`
	Lvl           int        `gorm:"not null;default:1;check:chk_trees_lvl,lvl BETWEEN 1 AND 5"`
	NextUpgradeAt *time.Time `gorm:"column:next_upgrade_at"`
	CreatedAt     time.Time  `gorm:"autoCreateTime"`
}

func (Tree) TableName() string {
	return "trees"
}
