package repositories

import (
	"fmt"

	"mycontacts/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMContactRepository is a GORM implementation of ContactRepository.
type GORMContactRepository struct {
	db *gorm.DB
}

// NewGORMContactRepository creates a new instance of GORMContactRepository.
func NewGORMContactRepository(db *gorm.DB) *GORMContactRepository {
	return &GORMContactRepository{
		db: db,
	}
}

// GetAllByOwner retrieves all contacts owned by the given user, oldest first.
func (r *GORMContactRepository) GetAllByOwner(ownerID string) ([]models.Contact, error) {
	contacts := []models.Contact{}
	if err := r.db.Order("created_at").Find(&contacts, "user_id = ?", ownerID).Error; err != nil {
		return nil, fmt.Errorf("failed to get contacts for user %s: %w", ownerID, err)
	}
	return contacts, nil
}

// GetByID retrieves a single contact, scoped to its owner.
func (r *GORMContactRepository) GetByID(id, ownerID string) (*models.Contact, error) {
	var contact models.Contact
	if err := r.db.First(&contact, "id = ? AND user_id = ?", id, ownerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get contact by ID %s: %w", id, err)
	}
	return &contact, nil
}

// Create creates a new contact in the database.
func (r *GORMContactRepository) Create(contact *models.Contact) error {
	if contact.ID == "" {
		contact.ID = uuid.New().String()
	}
	if err := r.db.Create(contact).Error; err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

// Update updates an existing contact in the database.
func (r *GORMContactRepository) Update(contact *models.Contact) error {
	res := r.db.Save(contact) // Save will update all fields, including zero values
	if res.Error != nil {
		return fmt.Errorf("failed to update contact: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// GORM's Save doesn't return ErrRecordNotFound for an update that
		// matched nothing, so we check RowsAffected.
		return models.ErrNotFound
	}
	return nil
}

// Delete deletes a contact, scoped to its owner.
func (r *GORMContactRepository) Delete(id, ownerID string) error {
	res := r.db.Delete(&models.Contact{}, "id = ? AND user_id = ?", id, ownerID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete contact: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}
