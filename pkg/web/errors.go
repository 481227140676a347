package web

import (
	"errors"

	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/persistence"
	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"
)

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(fiber.StatusBadRequest).
		WithInstance(c.Path()).
		WithType("validation_error").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem)
}

func forbidden(c fiber.Ctx) error {
	problem := problems.NewStatusProblem(fiber.StatusForbidden).
		WithInstance(c.Path()).
		WithType("invalid_nonce").
		WithDetail("missing or invalid nonce")

	return c.Status(fiber.StatusForbidden).JSON(problem)
}

func notFound(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(fiber.StatusNotFound).
		WithInstance(c.Path()).
		WithType("preset_not_found").
		WithDetail(detail)

	return c.Status(fiber.StatusNotFound).JSON(problem)
}

func internalError(c fiber.Ctx, err error) error {
	problem := problems.NewStatusProblem(fiber.StatusInternalServerError).
		WithInstance(c.Path()).
		WithType("internal_error").
		WithError(err)

	return c.Status(fiber.StatusInternalServerError).JSON(problem)
}

// handlePresetError maps repository errors onto problem responses.
func (h *PresetHandlers) handlePresetError(c fiber.Ctx, err error) error {
	switch {
	case persistence.IsPresetNotFound(err):
		return notFound(c, "preset not found")
	case persistence.IsInvalidPresetName(err),
		persistence.IsInvalidCollection(err),
		errors.Is(err, persistence.ErrInvalidNamespace):
		return badRequest(c, err.Error())
	default:
		h.logger.ErrorContext(c.Context(), "Preset repository failure", "path", c.Path(), "error", err)

		return internalError(c, err)
	}
}
