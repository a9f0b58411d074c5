package repositories

import "mycontacts/internal/models"

// NoteRepository defines the interface for note data access, with the same
// owner scoping rules as ContactRepository.
type NoteRepository interface {
	GetAllByOwner(ownerID string) ([]models.Note, error)
	GetByID(id, ownerID string) (*models.Note, error)
	Create(note *models.Note) error
	Update(note *models.Note) error
	Delete(id, ownerID string) error
}
