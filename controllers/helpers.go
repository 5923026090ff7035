package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"okrtracker/store"
	"okrtracker/utils"
)

// parseRequest decodes the JSON body into req and validates it.
func parseRequest(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return utils.BadRequest("Invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.NewValidationError(err)
	}
	return nil
}

// pathID reads a numeric path parameter. A malformed id cannot name an
// existing record, so it answers as not found.
func pathID(c *fiber.Ctx, param, notFound string) (uint, error) {
	id, ok := utils.ParseID(c.Params(param))
	if !ok {
		return 0, utils.NotFound(notFound)
	}
	return id, nil
}

// storeError maps store sentinels onto the HTTP error taxonomy.
func storeError(err error, notFound, conflict string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return utils.NotFound(notFound)
	case errors.Is(err, store.ErrConflict):
		return utils.Conflict(conflict)
	default:
		return utils.Internal(err)
	}
}

func message(text string) fiber.Map {
	return fiber.Map{"message": text}
}
