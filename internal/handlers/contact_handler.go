package handlers

import (
	"errors"
	"log"

	"mycontacts/internal/models"
	"mycontacts/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ContactHandler handles HTTP requests for contacts. All routes require the
// auth middleware to have bound a user id.
type ContactHandler struct {
	service  *services.ContactService
	validate *validator.Validate
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(service *services.ContactService) *ContactHandler {
	return &ContactHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the contact routes with the Fiber app.
func (h *ContactHandler) RegisterRoutes(router fiber.Router) {
	contactRoutes := router.Group("/contacts")
	contactRoutes.Get("/", h.HandleGetContacts)
	contactRoutes.Post("/", h.HandleCreateContact)
	contactRoutes.Get("/:id", h.HandleGetContact)
	contactRoutes.Put("/:id", h.HandleUpdateContact)
	contactRoutes.Delete("/:id", h.HandleDeleteContact)
}

// HandleGetContacts retrieves all contacts owned by the authenticated user.
// An empty collection is a valid result, not an error.
func (h *ContactHandler) HandleGetContacts(c *fiber.Ctx) error {
	ownerID, ok := currentUserID(c)
	if !ok {
		return unauthorizedResponse(c)
	}

	contacts, err := h.service.ListContacts(ownerID)
	if err != nil {
		log.Printf("Error getting contacts for user %s: %v", ownerID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve contacts",
		})
	}
	return c.JSON(contacts)
}

// HandleCreateContact creates a new contact owned by the authenticated user.
func (h *ContactHandler) HandleCreateContact(c *fiber.Ctx) error {
	ownerID, ok := currentUserID(c)
	if !ok {
		return unauthorizedResponse(c)
	}

	var contact models.Contact
	if err := c.BodyParser(&contact); err != nil {
		log.Printf("Error parsing contact request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(contact); err != nil {
		return validationErrorResponse(c, err)
	}

	// The owner comes from the token, never from the body.
	contact.UserID = ownerID

	if err := h.service.CreateContact(&contact); err != nil {
		log.Printf("Error creating contact for user %s: %v", ownerID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create contact",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(contact)
}

// HandleGetContact retrieves a single contact. A contact owned by another
// user is reported as not found.
func (h *ContactHandler) HandleGetContact(c *fiber.Ctx) error {
	ownerID, ok := currentUserID(c)
	if !ok {
		return unauthorizedResponse(c)
	}

	contactID := c.Params("id")
	contact, err := h.service.GetContact(contactID, ownerID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Contact not found or access denied",
			})
		}
		log.Printf("Error getting contact %s: %v", contactID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve contact",
		})
	}
	return c.JSON(contact)
}

// HandleUpdateContact replaces the mutable fields of a contact.
func (h *ContactHandler) HandleUpdateContact(c *fiber.Ctx) error {
	ownerID, ok := currentUserID(c)
	if !ok {
		return unauthorizedResponse(c)
	}

	var fields models.Contact
	if err := c.BodyParser(&fields); err != nil {
		log.Printf("Error parsing contact update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	// The id in the path wins over anything in the body.
	fields.ID = ""
	if err := h.validate.Struct(fields); err != nil {
		return validationErrorResponse(c, err)
	}

	contactID := c.Params("id")
	updated, err := h.service.UpdateContact(contactID, ownerID, fields)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Contact not found or access denied",
			})
		}
		log.Printf("Error updating contact %s: %v", contactID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update contact",
		})
	}
	return c.JSON(updated)
}

// HandleDeleteContact removes a contact.
func (h *ContactHandler) HandleDeleteContact(c *fiber.Ctx) error {
	ownerID, ok := currentUserID(c)
	if !ok {
		return unauthorizedResponse(c)
	}

	contactID := c.Params("id")
	if err := h.service.DeleteContact(contactID, ownerID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Contact not found or access denied",
			})
		}
		log.Printf("Error deleting contact %s: %v", contactID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete contact",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Contact deleted successfully",
	})
}
