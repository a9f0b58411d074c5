package repositories

import (
	"fmt"

	"mycontacts/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMNoteRepository is a GORM implementation of NoteRepository.
type GORMNoteRepository struct {
	db *gorm.DB
}

// NewGORMNoteRepository creates a new instance of GORMNoteRepository.
func NewGORMNoteRepository(db *gorm.DB) *GORMNoteRepository {
	return &GORMNoteRepository{
		db: db,
	}
}

// GetAllByOwner retrieves all notes owned by the given user, oldest first.
func (r *GORMNoteRepository) GetAllByOwner(ownerID string) ([]models.Note, error) {
	notes := []models.Note{}
	if err := r.db.Order("created_at").Find(&notes, "user_id = ?", ownerID).Error; err != nil {
		return nil, fmt.Errorf("failed to get notes for user %s: %w", ownerID, err)
	}
	return notes, nil
}

// GetByID retrieves a single note, scoped to its owner.
func (r *GORMNoteRepository) GetByID(id, ownerID string) (*models.Note, error) {
	var note models.Note
	if err := r.db.First(&note, "id = ? AND user_id = ?", id, ownerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get note by ID %s: %w", id, err)
	}
	return &note, nil
}

// Create creates a new note in the database.
func (r *GORMNoteRepository) Create(note *models.Note) error {
	if note.ID == "" {
		note.ID = uuid.New().String()
	}
	if err := r.db.Create(note).Error; err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	return nil
}

// Update updates an existing note in the database.
func (r *GORMNoteRepository) Update(note *models.Note) error {
	res := r.db.Save(note)
	if res.Error != nil {
		return fmt.Errorf("failed to update note: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Delete deletes a note, scoped to its owner.
func (r *GORMNoteRepository) Delete(id, ownerID string) error {
	res := r.db.Delete(&models.Note{}, "id = ? AND user_id = ?", id, ownerID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete note: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}
