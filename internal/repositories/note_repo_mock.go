package repositories

import (
	"sort"
	"sync"
	"time"

	"mycontacts/internal/models"

	"github.com/google/uuid"
)

// MockNoteRepository is an in-memory implementation of NoteRepository.
type MockNoteRepository struct {
	notes map[string]models.Note
	mu    sync.RWMutex
}

// NewMockNoteRepository creates a new instance of MockNoteRepository.
func NewMockNoteRepository() *MockNoteRepository {
	return &MockNoteRepository{
		notes: make(map[string]models.Note),
	}
}

// GetAllByOwner returns all notes owned by the given user, oldest first.
func (r *MockNoteRepository) GetAllByOwner(ownerID string) ([]models.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	noteList := make([]models.Note, 0)
	for _, n := range r.notes {
		if n.UserID == ownerID {
			noteList = append(noteList, n)
		}
	}
	sort.Slice(noteList, func(i, j int) bool {
		return noteList[i].CreatedAt.Before(noteList[j].CreatedAt)
	})
	return noteList, nil
}

// GetByID returns a note by its ID, scoped to its owner.
func (r *MockNoteRepository) GetByID(id, ownerID string) (*models.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	note, ok := r.notes[id]
	if !ok || note.UserID != ownerID {
		return nil, models.ErrNotFound
	}
	return &note, nil
}

// Create adds a new note.
func (r *MockNoteRepository) Create(note *models.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if note.ID == "" {
		note.ID = uuid.New().String()
	}
	note.CreatedAt = time.Now()
	note.UpdatedAt = time.Now()
	r.notes[note.ID] = *note
	return nil
}

// Update modifies an existing note.
func (r *MockNoteRepository) Update(note *models.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.notes[note.ID]
	if !ok {
		return models.ErrNotFound
	}
	note.UpdatedAt = time.Now()
	r.notes[note.ID] = *note
	return nil
}

// Delete removes a note by its ID, scoped to its owner.
func (r *MockNoteRepository) Delete(id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	note, ok := r.notes[id]
	if !ok || note.UserID != ownerID {
		return models.ErrNotFound
	}
	delete(r.notes, id)
	return nil
}
