package handlers

import (
	"errors"
	"log"

	"mycontacts/internal/models"
	"mycontacts/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// NoteHandler handles HTTP requests for notes.
type NoteHandler struct {
	service  *services.NoteService
	validate *validator.Validate
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(service *services.NoteService) *NoteHandler {
	return &NoteHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the note routes with the Fiber app.
func (h *NoteHandler) RegisterRoutes(router fiber.Router) {
	noteRoutes := router.Group("/notes")
	noteRoutes.Get("/", h.HandleGetNotes)
	noteRoutes.Post("/", h.HandleCreateNote)
	noteRoutes.Get("/:id", h.HandleGetNote)
	noteRoutes.Put("/:id", h.HandleUpdateNote)
	noteRoutes.Delete("/:id", h.HandleDeleteNote)
}

// HandleGetNotes retrieves all notes owned by the authenticated user.
func (h *NoteHandler) HandleGetNotes(c *fiber.Ctx) error {
	ownerID, ok := currentUserID(c)
	if !ok {
		return unauthorizedResponse(c)
	}

	notes, err := h.service.ListNotes(ownerID)
	if err != nil {
		log.Printf("Error getting notes for user %s: %v", ownerID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve notes",
		})
	}
	return c.JSON(notes)
}

// HandleCreateNote creates a new note owned by the authenticated user.
func (h *NoteHandler) HandleCreateNote(c *fiber.Ctx) error {
	ownerID, ok := currentUserID(c)
	if !ok {
		return unauthorizedResponse(c)
	}

	var note models.Note
	if err := c.BodyParser(&note); err != nil {
		log.Printf("Error parsing note request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(note); err != nil {
		return validationErrorResponse(c, err)
	}

	note.UserID = ownerID

	if err := h.service.CreateNote(&note); err != nil {
		log.Printf("Error creating note for user %s: %v", ownerID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create note",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(note)
}

// HandleGetNote retrieves a single note. A note owned by another user is
// reported as not found.
func (h *NoteHandler) HandleGetNote(c *fiber.Ctx) error {
	ownerID, ok := currentUserID(c)
	if !ok {
		return unauthorizedResponse(c)
	}

	noteID := c.Params("id")
	note, err := h.service.GetNote(noteID, ownerID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Note not found or access denied",
			})
		}
		log.Printf("Error getting note %s: %v", noteID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve note",
		})
	}
	return c.JSON(note)
}

// HandleUpdateNote replaces the mutable fields of a note.
func (h *NoteHandler) HandleUpdateNote(c *fiber.Ctx) error {
	ownerID, ok := currentUserID(c)
	if !ok {
		return unauthorizedResponse(c)
	}

	var fields models.Note
	if err := c.BodyParser(&fields); err != nil {
		log.Printf("Error parsing note update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	fields.ID = ""
	if err := h.validate.Struct(fields); err != nil {
		return validationErrorResponse(c, err)
	}

	noteID := c.Params("id")
	updated, err := h.service.UpdateNote(noteID, ownerID, fields)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Note not found or access denied",
			})
		}
		log.Printf("Error updating note %s: %v", noteID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update note",
		})
	}
	return c.JSON(updated)
}

// HandleDeleteNote removes a note.
func (h *NoteHandler) HandleDeleteNote(c *fiber.Ctx) error {
	ownerID, ok := currentUserID(c)
	if !ok {
		return unauthorizedResponse(c)
	}

	noteID := c.Params("id")
	if err := h.service.DeleteNote(noteID, ownerID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Note not found or access denied",
			})
		}
		log.Printf("Error deleting note %s: %v", noteID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete note",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Note deleted successfully",
	})
}
