package models

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ErrContactNotFound is returned when no contact exists with the given id.
var ErrContactNotFound = errors.New("contact not found")

// DuplicateValueError is returned when a phone number or address in a
// payload already belongs to a different contact.
type DuplicateValueError struct {
	Field string
	Value string
}

func (e *DuplicateValueError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%v is already assigned to another contact", e.Field)
	}

	return fmt.Sprintf("%v '%v' is already assigned to another contact", e.Field, e.Value)
}

type Contact struct {
	BaseModel
	Name         string        `json:"name" gorm:"not null;index"`
	Email        string        `json:"email" gorm:"index"`
	Phone        string        `json:"phone" gorm:"index"`
	PhoneNumbers []PhoneNumber `json:"phone_numbers" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Addresses    []Address     `json:"addresses" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Tags         []Tag         `json:"tags" gorm:"many2many:contact_tags;"`
}

// CreateContact inserts the contact, its phone numbers/addresses & its tag
// associations in one transaction. Phone numbers & addresses are checked
// against every other contact before the insert; the unique indexes remain
// the final authority for writes racing past the pre-check.
func CreateContact(contact *Contact, tagNames []string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := checkForDuplicates(tx, contact, 0); err != nil {
			return err
		}

		if err := tx.Omit("Tags").Create(contact).Error; err != nil {
			return translateConstraintError(err, contact)
		}

		tags, err := findOrCreateTags(tx, tagNames)
		if err != nil {
			return err
		}

		if len(tags) > 0 {
			if err := tx.Model(contact).Association("Tags").Append(tags); err != nil {
				return err
			}
		}

		return nil
	})
}

// FindContact returns the contact with the given id, hydrated with its
// phone numbers, addresses & tags.
func FindContact(id interface{}) (*Contact, error) {
	contact := Contact{}

	err := db.Preload("PhoneNumbers").Preload("Addresses").Preload("Tags").
		First(&contact, "contacts.id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrContactNotFound
	}
	if err != nil {
		return nil, err
	}

	return &contact, nil
}

// UpdateContact replaces the contact's fields, child collections & tag
// associations wholesale - children are deleted & re-inserted rather than
// diffed. The uniqueness pre-check skips the contact's own rows, so a
// contact can keep re-submitting its own phone numbers & addresses.
func UpdateContact(id interface{}, contact *Contact, tagNames []string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		existing := Contact{}
		if err := tx.First(&existing, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrContactNotFound
			}
			return err
		}

		if err := checkForDuplicates(tx, contact, existing.ID); err != nil {
			return err
		}

		err := tx.Model(&existing).Updates(map[string]interface{}{
			"name":  contact.Name,
			"email": contact.Email,
			"phone": contact.Phone,
		}).Error
		if err != nil {
			return err
		}

		if err := tx.Where("contact_id = ?", existing.ID).Delete(&PhoneNumber{}).Error; err != nil {
			return err
		}
		for i := range contact.PhoneNumbers {
			contact.PhoneNumbers[i].ContactID = existing.ID
		}
		if len(contact.PhoneNumbers) > 0 {
			if err := tx.Create(&contact.PhoneNumbers).Error; err != nil {
				return translateConstraintError(err, contact)
			}
		}

		if err := tx.Where("contact_id = ?", existing.ID).Delete(&Address{}).Error; err != nil {
			return err
		}
		for i := range contact.Addresses {
			contact.Addresses[i].ContactID = existing.ID
		}
		if len(contact.Addresses) > 0 {
			if err := tx.Create(&contact.Addresses).Error; err != nil {
				return translateConstraintError(err, contact)
			}
		}

		tags, err := findOrCreateTags(tx, tagNames)
		if err != nil {
			return err
		}

		if len(tags) == 0 {
			return tx.Model(&existing).Association("Tags").Clear()
		}

		return tx.Model(&existing).Association("Tags").Replace(tags)
	})
}

// DeleteContact removes the contact, its child rows & its tag associations
// in one transaction. Tags themselves are left in place for reuse.
func DeleteContact(id interface{}) error {
	return db.Transaction(func(tx *gorm.DB) error {
		contact := Contact{}
		if err := tx.First(&contact, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrContactNotFound
			}
			return err
		}

		if err := tx.Model(&contact).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Where("contact_id = ?", contact.ID).Delete(&PhoneNumber{}).Error; err != nil {
			return err
		}
		if err := tx.Where("contact_id = ?", contact.ID).Delete(&Address{}).Error; err != nil {
			return err
		}

		return tx.Delete(&contact).Error
	})
}

// ListContacts returns a page of hydrated contacts along with the total
// number of contacts across all pages.
func ListContacts(page, pageSize int, sortBy, sortOrder string) (*ContactPage, error) {
	var total int64
	contacts := []Contact{}

	page, pageSize = normalizePageArgs(page, pageSize)

	if err := db.Model(&Contact{}).Count(&total).Error; err != nil {
		return nil, err
	}

	err := db.Preload("PhoneNumbers").Preload("Addresses").Preload("Tags").
		Order(orderClause(sortBy, sortOrder)).
		Scopes(paginate(page, pageSize)).
		Find(&contacts).Error
	if err != nil {
		return nil, err
	}

	return newContactPage(contacts, total, page, pageSize), nil
}

// SearchContacts returns the page of contacts matching the given filters.
// 'query' is a case-insensitive substring match against name, email, the
// primary phone field & any of the contact's phone numbers. 'tag' narrows
// the results to contacts carrying the tag (tag names are matched
// case-insensitively, since they're stored lowercased). Both filters
// combine with AND.
func SearchContacts(query, tag string, page, pageSize int, sortBy, sortOrder string) (*ContactPage, error) {
	var total int64
	contacts := []Contact{}

	page, pageSize = normalizePageArgs(page, pageSize)
	matches := db.Model(&Contact{}).Select("contacts.id")

	if query != "" {
		pattern := "%" + strings.ToLower(query) + "%"
		matches = matches.
			Joins("LEFT JOIN phone_numbers ON phone_numbers.contact_id = contacts.id").
			Where(
				"LOWER(contacts.name) LIKE ? OR LOWER(contacts.email) LIKE ? OR LOWER(contacts.phone) LIKE ? OR LOWER(phone_numbers.number) LIKE ?",
				pattern, pattern, pattern, pattern,
			)
	}

	if tag != "" {
		matches = matches.
			Joins("INNER JOIN contact_tags ON contact_tags.contact_id = contacts.id").
			Joins("INNER JOIN tags ON tags.id = contact_tags.tag_id").
			Where("tags.name = ?", strings.ToLower(tag))
	}

	if err := db.Model(&Contact{}).Where("contacts.id IN (?)", matches).Count(&total).Error; err != nil {
		return nil, err
	}

	err := db.Preload("PhoneNumbers").Preload("Addresses").Preload("Tags").
		Where("contacts.id IN (?)", matches).
		Order(orderClause(sortBy, sortOrder)).
		Scopes(paginate(page, pageSize)).
		Find(&contacts).Error
	if err != nil {
		return nil, err
	}

	return newContactPage(contacts, total, page, pageSize), nil
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

// checkForDuplicates is the read-only uniqueness pre-check run before any
// write - every phone number & address in the payload is looked up among
// the rows owned by other contacts.
func checkForDuplicates(tx *gorm.DB, contact *Contact, excludeContactID uint) error {
	if contact.Phone != "" {
		taken, err := phoneNumberTaken(tx, contact.Phone, excludeContactID)
		if err != nil {
			return err
		}
		if taken {
			return &DuplicateValueError{Field: "phone number", Value: contact.Phone}
		}
	}

	for _, phoneNumber := range contact.PhoneNumbers {
		taken, err := phoneNumberTaken(tx, phoneNumber.Number, excludeContactID)
		if err != nil {
			return err
		}
		if taken {
			return &DuplicateValueError{Field: "phone number", Value: phoneNumber.Number}
		}
	}

	for _, address := range contact.Addresses {
		taken, err := addressTaken(tx, address.Address, excludeContactID)
		if err != nil {
			return err
		}
		if taken {
			return &DuplicateValueError{Field: "address", Value: address.Address}
		}
	}

	return nil
}

// translateConstraintError maps a unique-index violation on insert to the
// same error kind as the pre-check, naming the offending value where the
// payload reveals it. Both sqlite & postgres mention the violated table in
// their constraint errors.
func translateConstraintError(err error, contact *Contact) error {
	if err == nil {
		return nil
	}

	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "unique constraint") && !strings.Contains(msg, "duplicate key") {
		return err
	}

	if strings.Contains(msg, "phone_numbers") {
		numbers := []string{}
		for _, phoneNumber := range contact.PhoneNumbers {
			numbers = append(numbers, phoneNumber.Number)
		}
		return &DuplicateValueError{Field: "phone number", Value: repeatedValue(numbers)}
	}

	if strings.Contains(msg, "addresses") {
		addresses := []string{}
		for _, address := range contact.Addresses {
			addresses = append(addresses, address.Address)
		}
		return &DuplicateValueError{Field: "address", Value: repeatedValue(addresses)}
	}

	return &DuplicateValueError{Field: "phone number or address"}
}

// repeatedValue returns the first value appearing more than once, or ""
// when the conflict came from a concurrent writer rather than from
// duplicates within the payload itself.
func repeatedValue(values []string) string {
	seen := map[string]bool{}

	for _, value := range values {
		if seen[value] {
			return value
		}
		seen[value] = true
	}

	return ""
}
