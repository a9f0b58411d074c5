package repositories

import "mycontacts/internal/models"

// ContactRepository defines the interface for contact data access. Every
// method that targets a single record takes the owner's user ID alongside the
// record ID; a record owned by someone else behaves exactly like a missing
// record.
type ContactRepository interface {
	GetAllByOwner(ownerID string) ([]models.Contact, error)
	GetByID(id, ownerID string) (*models.Contact, error)
	Create(contact *models.Contact) error
	Update(contact *models.Contact) error
	Delete(id, ownerID string) error
}
