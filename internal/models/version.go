package models

// VersionRowID — единственная строка таблицы version.
const VersionRowID uint = 1

type Version struct {
	ID      uint   `gorm:"primaryKey;autoIncrement:false" json:"-"`
	Version string `gorm:"column:version;size:64;not null" json:"version"`
}

func (Version) TableName() string { return "version" }
