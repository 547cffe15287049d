package models

import (
	"strings"

	"gorm.io/gorm"
)

// Tag is shared between contacts via the contact_tags join table. Names
// are stored lowercased, so 'Friend' & 'friend' resolve to the same row.
type Tag struct {
	ID       uint      `json:"id" gorm:"primarykey"`
	Name     string    `json:"name" gorm:"not null;unique"`
	Contacts []Contact `json:"-" gorm:"many2many:contact_tags;"`
}

// findOrCreateTags resolves each tag name to an existing row where one
// exists, only inserting tags never seen before.
func findOrCreateTags(tx *gorm.DB, names []string) ([]Tag, error) {
	tags := []Tag{}

	for _, name := range names {
		tag := Tag{}
		err := tx.Where(&Tag{Name: strings.ToLower(name)}).FirstOrCreate(&tag).Error
		if err != nil {
			return nil, err
		}

		tags = append(tags, tag)
	}

	return tags, nil
}
