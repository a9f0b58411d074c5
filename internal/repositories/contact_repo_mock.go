package repositories

import (
	"sort"
	"sync"
	"time"

	"mycontacts/internal/models"

	"github.com/google/uuid"
)

// MockContactRepository is an in-memory implementation of ContactRepository.
type MockContactRepository struct {
	contacts map[string]models.Contact
	mu       sync.RWMutex
}

// NewMockContactRepository creates a new instance of MockContactRepository.
func NewMockContactRepository() *MockContactRepository {
	return &MockContactRepository{
		contacts: make(map[string]models.Contact),
	}
}

// GetAllByOwner returns all contacts owned by the given user, oldest first.
func (r *MockContactRepository) GetAllByOwner(ownerID string) ([]models.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	contactList := make([]models.Contact, 0)
	for _, c := range r.contacts {
		if c.UserID == ownerID {
			contactList = append(contactList, c)
		}
	}
	sort.Slice(contactList, func(i, j int) bool {
		return contactList[i].CreatedAt.Before(contactList[j].CreatedAt)
	})
	return contactList, nil
}

// GetByID returns a contact by its ID, scoped to its owner.
func (r *MockContactRepository) GetByID(id, ownerID string) (*models.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	contact, ok := r.contacts[id]
	if !ok || contact.UserID != ownerID {
		return nil, models.ErrNotFound
	}
	return &contact, nil
}

// Create adds a new contact.
func (r *MockContactRepository) Create(contact *models.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if contact.ID == "" {
		contact.ID = uuid.New().String()
	}
	contact.CreatedAt = time.Now()
	contact.UpdatedAt = time.Now()
	r.contacts[contact.ID] = *contact
	return nil
}

// Update modifies an existing contact.
func (r *MockContactRepository) Update(contact *models.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.contacts[contact.ID]
	if !ok {
		return models.ErrNotFound
	}
	contact.UpdatedAt = time.Now()
	r.contacts[contact.ID] = *contact
	return nil
}

// Delete removes a contact by its ID, scoped to its owner.
func (r *MockContactRepository) Delete(id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	contact, ok := r.contacts[id]
	if !ok || contact.UserID != ownerID {
		return models.ErrNotFound
	}
	delete(r.contacts, id)
	return nil
}
