// Package http exposes the bridge over a thin Fiber router: document CRUD
// delegating to the adapter core, plus the migration and table admin
// surface. All substance lives in the usecase layer; handlers only parse,
// dispatch and translate errors to status codes.
package http

import (
	"context"

	"cms-bridge/internal/bridge/domain/model"
	"cms-bridge/internal/shared/errors"
	"cms-bridge/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// DocumentService is the slice of the adapter core the document routes need.
type DocumentService interface {
	Find(ctx context.Context, collection string, query model.Query) ([]*model.Document, error)
	FindByID(ctx context.Context, collection string, id string) (*model.Document, error)
	Create(ctx context.Context, collection string, data *model.Document) (*model.Document, error)
	Update(ctx context.Context, collection string, id string, data *model.Document) (*model.Document, error)
	Delete(ctx context.Context, collection string, id string) (*model.Document, error)
}

// MigrationService is the trigger-and-poll surface of the replicator.
type MigrationService interface {
	NewJob(collections []string) (*model.MigrationJob, error)
	Drive(ctx context.Context, job *model.MigrationJob) error
	Job() *model.MigrationSnapshot
}

// TableService reports {name, rowCount} across the wired stores.
type TableService interface {
	ListTables(ctx context.Context) ([]model.StoreTables, error)
}

// AdminHandler wires the bridge routes onto a Fiber app.
type AdminHandler struct {
	Docs     DocumentService
	Migrator MigrationService
	Tables   TableService
	Log      logger.Logger
}

// NewAdminHandler builds a handler over the given services.
func NewAdminHandler(docs DocumentService, migrator MigrationService, tables TableService, log logger.Logger) *AdminHandler {
	if log == nil {
		log = logger.NewLogger()
	}
	return &AdminHandler{
		Docs:     docs,
		Migrator: migrator,
		Tables:   tables,
		Log:      log.WithComponent("http"),
	}
}

// RegisterRoutes mounts the document API and the admin surface.
func (h *AdminHandler) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api/v1")
	api.Get("/collections/:collection", h.ListDocuments)
	api.Post("/collections/:collection", h.CreateDocument)
	api.Get("/collections/:collection/:id", h.GetDocument)
	api.Put("/collections/:collection/:id", h.UpdateDocument)
	api.Delete("/collections/:collection/:id", h.DeleteDocument)

	admin := app.Group("/admin/v1")
	admin.Post("/migration", h.StartMigration)
	admin.Get("/migration", h.GetMigration)
	admin.Get("/tables", h.ListTables)
}

// ListDocuments returns documents for a collection. Pagination comes from
// the limit/skip query parameters; filter and sort options are JSON-only
// and not exposed here.
func (h *AdminHandler) ListDocuments(c *fiber.Ctx) error {
	collection := c.Params("collection")

	query := model.Query{
		Limit: c.QueryInt("limit"),
		Skip:  c.QueryInt("skip"),
	}

	docs, err := h.Docs.Find(c.UserContext(), collection, query)
	if err != nil {
		return h.respondError(c, err, "list_documents_failed")
	}
	if docs == nil {
		docs = []*model.Document{}
	}
	return c.JSON(fiber.Map{"collection": collection, "documents": docs})
}

// GetDocument returns one document by id.
func (h *AdminHandler) GetDocument(c *fiber.Ctx) error {
	doc, err := h.Docs.FindByID(c.UserContext(), c.Params("collection"), c.Params("id"))
	if err != nil {
		return h.respondError(c, err, "get_document_failed")
	}
	return c.JSON(doc)
}

// CreateDocument writes a new document to the collection's routed backend.
func (h *AdminHandler) CreateDocument(c *fiber.Ctx) error {
	var doc model.Document
	if err := c.BodyParser(&doc); err != nil {
		h.Log.Errorf("Failed to parse document body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_request_body",
			"message": "Failed to parse request body",
		})
	}

	created, err := h.Docs.Create(c.UserContext(), c.Params("collection"), &doc)
	if err != nil {
		return h.respondError(c, err, "create_document_failed")
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdateDocument rewrites a document in place.
func (h *AdminHandler) UpdateDocument(c *fiber.Ctx) error {
	var doc model.Document
	if err := c.BodyParser(&doc); err != nil {
		h.Log.Errorf("Failed to parse document body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_request_body",
			"message": "Failed to parse request body",
		})
	}

	updated, err := h.Docs.Update(c.UserContext(), c.Params("collection"), c.Params("id"), &doc)
	if err != nil {
		return h.respondError(c, err, "update_document_failed")
	}
	return c.JSON(updated)
}

// DeleteDocument removes a document and returns what was removed.
func (h *AdminHandler) DeleteDocument(c *fiber.Ctx) error {
	deleted, err := h.Docs.Delete(c.UserContext(), c.Params("collection"), c.Params("id"))
	if err != nil {
		return h.respondError(c, err, "delete_document_failed")
	}
	return c.JSON(deleted)
}

type startMigrationRequest struct {
	Collections []string `json:"collections"`
}

// StartMigration registers a job for the selected collections and drives
// it in the background. The response is 202 with the pending snapshot;
// callers poll GET /admin/v1/migration for progress.
func (h *AdminHandler) StartMigration(c *fiber.Ctx) error {
	var req startMigrationRequest
	if err := c.BodyParser(&req); err != nil {
		h.Log.Errorf("Failed to parse migration request: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_request_body",
			"message": "Failed to parse request body",
		})
	}

	job, err := h.Migrator.NewJob(req.Collections)
	if err != nil {
		return h.respondError(c, err, "start_migration_failed")
	}

	// The request only triggers the run; the job outlives it, so the
	// drive context must not be the request's.
	go func() {
		if err := h.Migrator.Drive(context.Background(), job); err != nil {
			h.Log.Errorf("Migration %s failed: %v", job.ID(), err)
		}
	}()

	h.Log.Infof("Migration %s accepted for %d collections", job.ID(), len(req.Collections))
	return c.Status(fiber.StatusAccepted).JSON(job.Snapshot())
}

// GetMigration returns the snapshot of the most recent job.
func (h *AdminHandler) GetMigration(c *fiber.Ctx) error {
	snap := h.Migrator.Job()
	if snap == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "no_migration_job",
			"message": "No migration job has been started",
		})
	}
	return c.JSON(snap)
}

// ListTables reports tables and row counts for both backing stores.
func (h *AdminHandler) ListTables(c *fiber.Ctx) error {
	tables, err := h.Tables.ListTables(c.UserContext())
	if err != nil {
		return h.respondError(c, err, "list_tables_failed")
	}
	if tables == nil {
		tables = []model.StoreTables{}
	}
	return c.JSON(fiber.Map{"stores": tables})
}

// respondError maps the error taxonomy to status codes.
func (h *AdminHandler) respondError(c *fiber.Ctx, err error, code string) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.IsNotFound(err):
		status = fiber.StatusNotFound
	case errors.IsValidation(err):
		status = fiber.StatusBadRequest
	case errors.IsConflict(err):
		status = fiber.StatusConflict
	case errors.IsConnection(err):
		status = fiber.StatusServiceUnavailable
	case errors.IsMapping(err):
		status = fiber.StatusUnprocessableEntity
	}

	if status >= fiber.StatusInternalServerError {
		h.Log.Errorf("%s: %v", code, err)
	}
	return c.Status(status).JSON(fiber.Map{
		"error":   code,
		"message": err.Error(),
	})
}
