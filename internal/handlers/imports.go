package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/platewise/menuflow/internal/database"
	"github.com/platewise/menuflow/internal/models"
	"github.com/platewise/menuflow/internal/services"
)

// ProcessConflicts resolves a batch of parsed items against the stored
// menu without touching the preview. Used by clients that hold the
// working set themselves.
func (h *Handler) ProcessConflicts(c *fiber.Ctx) error {
	restaurantID, err := c.ParamsInt("id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid restaurant id")
	}
	if _, errResp := h.requireRestaurant(c, restaurantID); errResp != nil {
		return errResp
	}

	var req models.ProcessConflictsRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if len(req.Items) == 0 {
		return Error(c, fiber.StatusBadRequest, "items are required")
	}

	resp, err := h.conflicts.ProcessConflicts(c.Context(), restaurantID, &req)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "conflict check failed")
	}
	return Success(c, resp)
}

// FinalizeImport commits a reviewed preview into a stored menu. Small
// batches run inline and return the result; batches over the async
// threshold return a job id to poll.
func (h *Handler) FinalizeImport(c *fiber.Ctx) error {
	restaurantID, err := c.ParamsInt("id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid restaurant id")
	}
	if _, errResp := h.requireRestaurant(c, restaurantID); errResp != nil {
		return errResp
	}

	var req models.FinalizeRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.PreviewID == "" {
		return Error(c, fiber.StatusBadRequest, "preview id is required")
	}

	resp, err := h.importer.Finalize(c.Context(), restaurantID, &req)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "import failed")
	}
	if resp.JobID != "" {
		return c.Status(fiber.StatusAccepted).JSON(APIResponse{Success: true, Data: resp})
	}
	return Success(c, resp)
}

// GetImportJob polls a background import job. A pending job carries no
// result yet; terminal jobs return the same result on every poll.
func (h *Handler) GetImportJob(c *fiber.Ctx) error {
	job, errResp := h.requireImportJob(c)
	if errResp != nil {
		return errResp
	}
	return Success(c, job)
}

// GetImportErrorReport renders a finished job's per-item errors as a
// downloadable CSV.
func (h *Handler) GetImportErrorReport(c *fiber.Ctx) error {
	job, errResp := h.requireImportJob(c)
	if errResp != nil {
		return errResp
	}
	if job.Result == nil {
		return Error(c, fiber.StatusConflict, "job has not finished yet")
	}

	report, err := services.ErrorReportCSV(job.Result)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to build report")
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="import-errors.csv"`)
	return c.Send(report)
}

func (h *Handler) requireImportJob(c *fiber.Ctx) (*models.ImportJob, error) {
	restaurantID, err := c.ParamsInt("id")
	if err != nil {
		return nil, Error(c, fiber.StatusBadRequest, "invalid restaurant id")
	}
	if _, errResp := h.requireRestaurant(c, restaurantID); errResp != nil {
		return nil, errResp
	}

	jobID := c.Params("jobId")
	if jobID == "" {
		return nil, Error(c, fiber.StatusBadRequest, "invalid job id")
	}

	job, err := h.importer.JobStatus(c.Context(), restaurantID, jobID)
	if err != nil {
		if errors.Is(err, database.ErrJobNotFound) {
			return nil, Error(c, fiber.StatusNotFound, "import job not found")
		}
		return nil, Error(c, fiber.StatusInternalServerError, "failed to load job")
	}
	return job, nil
}
