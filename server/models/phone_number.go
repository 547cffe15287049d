package models

import "gorm.io/gorm"

// PhoneNumber belongs to exactly one contact, but its number is unique
// across the whole table - no two contacts may share a number.
type PhoneNumber struct {
	ID        uint   `json:"id" gorm:"primarykey"`
	ContactID uint   `json:"-" gorm:"not null;index"`
	Number    string `json:"number" gorm:"not null;unique"`
}

// phoneNumberTaken reports whether the given number is already in use as
// another contact's primary phone or as one of its phone numbers.
func phoneNumberTaken(tx *gorm.DB, number string, excludeContactID uint) (bool, error) {
	var count int64

	query := tx.Model(&Contact{}).Where("phone = ?", number)
	if excludeContactID != 0 {
		query = query.Where("id != ?", excludeContactID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	query = tx.Model(&PhoneNumber{}).Where("number = ?", number)
	if excludeContactID != 0 {
		query = query.Where("contact_id != ?", excludeContactID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}
