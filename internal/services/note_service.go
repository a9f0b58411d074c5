package services

import (
	"log"
	"time"

	"mycontacts/internal/models"
	"mycontacts/internal/repositories"
	"mycontacts/pkg/rabbitmq"
)

// NoteService handles business logic for notes, with the same owner scoping
// as ContactService.
type NoteService struct {
	repo     repositories.NoteRepository
	mqClient *rabbitmq.Client // may be nil when events are disabled
}

// NewNoteService creates a new NoteService.
func NewNoteService(repo repositories.NoteRepository, mqClient *rabbitmq.Client) *NoteService {
	return &NoteService{
		repo:     repo,
		mqClient: mqClient,
	}
}

// ListNotes retrieves all notes owned by the given user.
func (s *NoteService) ListNotes(ownerID string) ([]models.Note, error) {
	return s.repo.GetAllByOwner(ownerID)
}

// GetNote retrieves a single note owned by the given user.
func (s *NoteService) GetNote(id, ownerID string) (*models.Note, error) {
	return s.repo.GetByID(id, ownerID)
}

// CreateNote persists a new note and publishes a note.created event. The
// caller must have set UserID to the authenticated user.
func (s *NoteService) CreateNote(note *models.Note) error {
	if err := s.repo.Create(note); err != nil {
		return err
	}
	s.publish("note.created", note.ID, note.UserID)
	return nil
}

// UpdateNote replaces the mutable fields of an existing note and refreshes
// its updated timestamp. Ownership is checked by the scoped read.
func (s *NoteService) UpdateNote(id, ownerID string, fields models.Note) (*models.Note, error) {
	note, err := s.repo.GetByID(id, ownerID)
	if err != nil {
		return nil, err
	}

	note.Title = fields.Title
	note.Content = fields.Content
	note.UpdatedAt = time.Now()

	if err := s.repo.Update(note); err != nil {
		return nil, err
	}
	return note, nil
}

// DeleteNote removes a note owned by the given user and publishes a
// note.deleted event.
func (s *NoteService) DeleteNote(id, ownerID string) error {
	if err := s.repo.Delete(id, ownerID); err != nil {
		return err
	}
	s.publish("note.deleted", id, ownerID)
	return nil
}

func (s *NoteService) publish(event, resourceID, ownerID string) {
	if s.mqClient == nil {
		return
	}
	err := s.mqClient.PublishActivity(rabbitmq.ActivityEvent{
		Event:      event,
		ResourceID: resourceID,
		OwnerID:    ownerID,
		OccurredAt: time.Now(),
	})
	if err != nil {
		log.Printf("Warning: failed to publish %s event for %s: %v", event, resourceID, err)
	}
}
