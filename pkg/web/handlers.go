package web

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/models"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/otelhelper"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/persistence"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/persistence/server"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// PresetHandlers serves the preset API on top of a PresetRepository.
type PresetHandlers struct {
	repo      persistence.PresetRepository
	validator *validator.Validate
	nonce     string
	clock     clockwork.Clock
	tracer    trace.Tracer
	logger    *slog.Logger
}

// NewPresetHandlers creates the handlers. An empty nonce disables the
// credential check; a nil clock means the real clock.
func NewPresetHandlers(
	repo persistence.PresetRepository,
	validator *validator.Validate,
	nonce string,
	clock clockwork.Clock,
	logger *slog.Logger,
) *PresetHandlers {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PresetHandlers{
		repo:      repo,
		validator: validator,
		nonce:     nonce,
		clock:     clock,
		tracer:    otelhelper.Tracer("promptfinder.api"),
		logger:    logger,
	}
}

// Mount registers the preset routes on r. Single presets live under items/
// so no preset name can collide with the export and import routes.
func (h *PresetHandlers) Mount(r fiber.Router) {
	p := r.Group("/presets", h.Authenticate)
	p.Get("/:workflowId", h.ListPresets)
	p.Get("/:workflowId/export", h.ExportPresets)
	p.Post("/:workflowId/import", h.ImportPresets)
	p.Get("/:workflowId/items/:name", h.GetPreset)
	p.Put("/:workflowId/items/:name", h.SavePreset)
	p.Delete("/:workflowId/items/:name", h.DeletePreset)
}

// Authenticate rejects requests whose nonce header does not match.
func (h *PresetHandlers) Authenticate(c fiber.Ctx) error {
	if h.nonce == "" {
		return c.Next()
	}

	if subtle.ConstantTimeCompare([]byte(c.Get(server.NonceHeader)), []byte(h.nonce)) != 1 {
		return forbidden(c)
	}

	return c.Next()
}

func (h *PresetHandlers) namespace(c fiber.Ctx) (persistence.Namespace, error) {
	workflowID, err := url.PathUnescape(c.Params("workflowId"))
	if err != nil {
		return persistence.Namespace{}, persistence.ErrInvalidNamespace
	}

	ns := persistence.NewNamespace(workflowID, c.Get(server.UserHeader))

	return ns, ns.Validate()
}

func presetName(c fiber.Ctx) (string, error) {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return "", persistence.ErrInvalidPresetName
	}

	return persistence.ValidatePresetName(name)
}

func (h *PresetHandlers) span(c fiber.Ctx, op string, ns persistence.Namespace) (context.Context, trace.Span) {
	ctx := otel.GetTextMapPropagator().Extract(c.Context(), propagation.HeaderCarrier(http.Header(c.GetReqHeaders())))

	return otelhelper.StartSpan(ctx, h.tracer, "presets.api."+op,
		attribute.String(otelhelper.WorkflowIDKey, ns.WorkflowID),
		attribute.String(otelhelper.UserIDKey, ns.UserID),
		attribute.String(otelhelper.OperationKey, op),
	)
}

func (h *PresetHandlers) ListPresets(c fiber.Ctx) error {
	ns, err := h.namespace(c)
	if err != nil {
		return h.handlePresetError(c, err)
	}

	ctx, span := h.span(c, "list", ns)
	defer span.End()

	collection, err := h.repo.Presets(ctx, ns)
	if err != nil {
		otelhelper.SetError(span, err)

		return h.handlePresetError(c, err)
	}

	return c.JSON(PresetListResponse{Presets: collection.Names()})
}

func (h *PresetHandlers) GetPreset(c fiber.Ctx) error {
	ns, err := h.namespace(c)
	if err != nil {
		return h.handlePresetError(c, err)
	}

	name, err := presetName(c)
	if err != nil {
		return h.handlePresetError(c, err)
	}

	ctx, span := h.span(c, "get", ns)
	defer span.End()

	entry, err := h.repo.PresetByName(ctx, ns, name)
	if err != nil {
		otelhelper.SetError(span, err)

		return h.handlePresetError(c, err)
	}

	return c.JSON(NewPresetResponse(name, entry))
}

func (h *PresetHandlers) SavePreset(c fiber.Ctx) error {
	ns, err := h.namespace(c)
	if err != nil {
		return h.handlePresetError(c, err)
	}

	name, err := presetName(c)
	if err != nil {
		return h.handlePresetError(c, err)
	}

	var req SavePresetRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	ctx, span := h.span(c, "save", ns)
	defer span.End()

	entry := models.NewPresetEntry(req.Data, h.clock.Now())

	if err := h.repo.SavePreset(ctx, ns, name, entry); err != nil {
		otelhelper.SetError(span, err)

		return h.handlePresetError(c, err)
	}

	h.logger.DebugContext(ctx, "Preset saved", "namespace", ns.String(), "preset", name)

	return c.JSON(NewPresetResponse(name, entry))
}

func (h *PresetHandlers) DeletePreset(c fiber.Ctx) error {
	ns, err := h.namespace(c)
	if err != nil {
		return h.handlePresetError(c, err)
	}

	name, err := url.PathUnescape(c.Params("name"))
	if err != nil || strings.TrimSpace(name) == "" {
		return badRequest(c, "Preset name is required")
	}

	ctx, span := h.span(c, "delete", ns)
	defer span.End()

	if err := h.repo.DeletePreset(ctx, ns, strings.TrimSpace(name)); err != nil {
		otelhelper.SetError(span, err)

		return h.handlePresetError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *PresetHandlers) ExportPresets(c fiber.Ctx) error {
	ns, err := h.namespace(c)
	if err != nil {
		return h.handlePresetError(c, err)
	}

	ctx, span := h.span(c, "export", ns)
	defer span.End()

	collection, err := h.repo.Presets(ctx, ns)
	if err != nil {
		otelhelper.SetError(span, err)

		return h.handlePresetError(c, err)
	}

	if collection == nil {
		collection = models.PresetCollection{}
	}

	return c.JSON(collection)
}

func (h *PresetHandlers) ImportPresets(c fiber.Ctx) error {
	ns, err := h.namespace(c)
	if err != nil {
		return h.handlePresetError(c, err)
	}

	collection, err := persistence.DecodeCollection(c.Body())
	if err != nil {
		return h.handlePresetError(c, err)
	}

	ctx, span := h.span(c, "import", ns)
	defer span.End()

	imported, err := h.repo.ImportPresets(ctx, ns, collection)
	if err != nil {
		otelhelper.SetError(span, err)

		return h.handlePresetError(c, err)
	}

	h.logger.InfoContext(ctx, "Presets imported", "namespace", ns.String(), "count", imported)

	return c.JSON(ImportResponse{Imported: imported})
}

func (h *PresetHandlers) HealthCheck(c fiber.Ctx) error {
	status := "healthy"
	message := "Prompt Finder API is healthy"
	httpStatus := http.StatusOK
	repositoryCheck := "ok"

	if err := h.repo.HealthCheck(c.Context()); err != nil {
		status = "unhealthy"
		message = "Prompt Finder API is unhealthy"
		httpStatus = http.StatusInternalServerError
		repositoryCheck = err.Error()
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": h.clock.Now().UTC(),
	})
}
