package services

import (
	"log"
	"time"

	"mycontacts/internal/models"
	"mycontacts/internal/repositories"
	"mycontacts/pkg/rabbitmq"
)

// ContactService handles business logic for contacts. Every operation is
// scoped to the owning user.
type ContactService struct {
	repo     repositories.ContactRepository
	mqClient *rabbitmq.Client // may be nil when events are disabled
}

// NewContactService creates a new ContactService.
func NewContactService(repo repositories.ContactRepository, mqClient *rabbitmq.Client) *ContactService {
	return &ContactService{
		repo:     repo,
		mqClient: mqClient,
	}
}

// ListContacts retrieves all contacts owned by the given user.
func (s *ContactService) ListContacts(ownerID string) ([]models.Contact, error) {
	return s.repo.GetAllByOwner(ownerID)
}

// GetContact retrieves a single contact owned by the given user.
func (s *ContactService) GetContact(id, ownerID string) (*models.Contact, error) {
	return s.repo.GetByID(id, ownerID)
}

// CreateContact persists a new contact and publishes a contact.created event.
// The caller must have set UserID to the authenticated user.
func (s *ContactService) CreateContact(contact *models.Contact) error {
	if err := s.repo.Create(contact); err != nil {
		return err
	}
	s.publish("contact.created", contact.ID, contact.UserID)
	return nil
}

// UpdateContact replaces the mutable fields of an existing contact and
// refreshes its updated timestamp. Ownership is checked by the scoped read.
func (s *ContactService) UpdateContact(id, ownerID string, fields models.Contact) (*models.Contact, error) {
	contact, err := s.repo.GetByID(id, ownerID)
	if err != nil {
		return nil, err
	}

	contact.Name = fields.Name
	contact.Email = fields.Email
	contact.Phone = fields.Phone
	contact.UpdatedAt = time.Now()

	if err := s.repo.Update(contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// DeleteContact removes a contact owned by the given user and publishes a
// contact.deleted event.
func (s *ContactService) DeleteContact(id, ownerID string) error {
	if err := s.repo.Delete(id, ownerID); err != nil {
		return err
	}
	s.publish("contact.deleted", id, ownerID)
	return nil
}

// publish sends an activity event, best effort. Broker failures are logged
// and never surfaced to the request.
func (s *ContactService) publish(event, resourceID, ownerID string) {
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
