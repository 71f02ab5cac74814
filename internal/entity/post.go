package entity

import "database/sql"

type Category struct {
	Base

	Name string `gorm:"unique"`
}

type Post struct {
	Base

	AuthorID string `gorm:"index"`
	Author   User   `gorm:"foreignKey:AuthorID"`

	CategoryID sql.NullString
	Category   Category `gorm:"foreignKey:CategoryID"`

	Title   string
	Content string
}
