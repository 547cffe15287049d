package models

import "gorm.io/gorm"

// Address belongs to exactly one contact, with the address value unique
// across the whole table.
type Address struct {
	ID        uint   `json:"id" gorm:"primarykey"`
	ContactID uint   `json:"-" gorm:"not null;index"`
	Address   string `json:"address" gorm:"not null;unique"`
}

func addressTaken(tx *gorm.DB, address string, excludeContactID uint) (bool, error) {
	var count int64

	query := tx.Model(&Address{}).Where("address = ?", address)
	if excludeContactID != 0 {
		query = query.Where("contact_id != ?", excludeContactID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}
