package transfer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"transfer-relay/core/logger"
	"transfer-relay/core/middleware/auth"
	"transfer-relay/core/storage"
	"transfer-relay/core/utils"
	"transfer-relay/feature/transfer/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeNoBackendConfigured     = "no_backend_configured"
	CodePresignGenerationFailed = "presign_generation_failed"
	CodeExistenceCheckFailed    = "existence_check_failed"
	CodeRecordNotFound          = "record_not_found"
	CodeValidation              = "validation_error"
	CodeInternal                = "internal_error"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Hint  string `json:"hint,omitempty"`
}

// ConfirmRequest is the body of a confirmation. A missing success counts as true.
type ConfirmRequest struct {
	Success any `json:"success" swaggertype:"boolean"`
}

// ConfirmResponse reports the confirmation outcome.
type ConfirmResponse struct {
	Status  ConfirmStatus `json:"status"`
	HasFile bool          `json:"hasFile"`
}

// UploadResponse is returned by the legacy upload.
type UploadResponse struct {
	URL string `json:"url"`
}

// ListResponse is a page of records.
type ListResponse struct {
	Total   int64                   `json:"total"`
	Results []models.TransferRecord `json:"results"`
}

// Handler handles HTTP requests for transfers.
type Handler struct {
	service   *Service
	publicURL string
}

// NewHandler creates a new HTTP handler. publicURL prefixes links returned by
// the legacy upload; empty yields relative links.
func NewHandler(service *Service, publicURL string) *Handler {
	return &Handler{service: service, publicURL: strings.TrimRight(publicURL, "/")}
}

// RegisterRoutes registers the transfer routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/transfers")
	group.Post("/", h.HandleCreate)
	group.Get("/", h.HandleList)
	group.Get("/:id", h.HandleGet)
	group.Get("/:id/download-url", h.HandleDownloadURL)
	group.Get("/:id/presigned-url", h.HandlePresignedURL)
	group.Post("/:id/confirm", h.HandleConfirm)
	group.Get("/:id/file", h.HandleDownload)
	group.Post("/:id/file", h.HandleUpload)
}

// HandleCreate starts a transfer and returns upload and download URLs.
// @Summary Create Transfer
// @Description Creates a transfer record and presigns upload and download URLs for its object path. The record is removed again if the upload URL cannot be generated.
// @Tags transfers
// @Accept json
// @Produce json
// @Param request body CreateRequest true "Transfer"
// @Success 201 {object} CreateResult
// @Failure 400 {object} ErrorResponse "Validation error or no object storage configured"
// @Failure 500 {object} ErrorResponse "Upload URL generation failed"
// @Router /api/v1/transfers [post]
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	var req CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, fmt.Errorf("%w: invalid request body", ErrValidation), "")
	}
	req.User = auth.User(c)
	req.RemoteAddr = c.IP()

	result, err := h.service.Create(c.UserContext(), req)
	if err != nil {
		return h.fail(c, err, "Failed to generate upload URL")
	}

	logger.WithRayID(h.service.logger, c).Info("Transfer created",
		zap.String("transfer_id", result.TransferID),
		zap.String("user", req.User))
	return c.Status(fiber.StatusCreated).JSON(result)
}

// HandleDownloadURL returns a download URL for an existing transfer.
// @Summary Get Download URL
// @Description Presigns a GET URL for the transfer's object path.
// @Tags transfers
// @Produce json
// @Param id path string true "Transfer ID"
// @Param expiresSeconds query int false "URL lifetime in seconds (default 3600, max 7 days)"
// @Success 200 {object} DownloadURLResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/transfers/{id}/download-url [get]
func (h *Handler) HandleDownloadURL(c *fiber.Ctx) error {
	expires, err := expiresParam(c)
	if err != nil {
		return h.fail(c, err, "")
	}
	result, err := h.service.DownloadURL(c.UserContext(), c.Params("id"), expires)
	if err != nil {
		return h.fail(c, err, "Failed to generate download URL")
	}
	return c.JSON(result)
}

// HandlePresignedURL returns a single presigned URL for agents.
// @Summary Get Presigned URL
// @Description Presigns a PUT (action=upload) or GET (action=download) URL for the transfer's object path.
// @Tags transfers
// @Produce json
// @Param id path string true "Transfer ID"
// @Param action query string false "upload or download" default(download)
// @Param expiresSeconds query int false "URL lifetime in seconds"
// @Success 200 {object} storage.Grant
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/transfers/{id}/presigned-url [get]
func (h *Handler) HandlePresignedURL(c *fiber.Ctx) error {
	expires, err := expiresParam(c)
	if err != nil {
		return h.fail(c, err, "")
	}
	grant, err := h.service.PresignedURL(c.UserContext(), c.Params("id"), c.Query("action"), expires)
	if err != nil {
		return h.fail(c, err, "Failed to generate presigned URL")
	}
	return c.JSON(grant)
}

// HandleConfirm records the outcome of a direct transfer.
// @Summary Confirm Transfer
// @Description Verifies a claimed upload against object storage. has_file is only set when the object exists.
// @Tags transfers
// @Accept json
// @Produce json
// @Param id path string true "Transfer ID"
// @Param request body ConfirmRequest false "Outcome"
// @Success 200 {object} ConfirmResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/transfers/{id}/confirm [post]
func (h *Handler) HandleConfirm(c *fiber.Ctx) error {
	var req ConfirmRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return h.fail(c, fmt.Errorf("%w: invalid request body", ErrValidation), "")
		}
	}
	// an absent or unreadable claim counts as success
	success := utils.ToBoolDefault(req.Success, true)

	record, status, err := h.service.Confirm(c.UserContext(), c.Params("id"), success)
	if err != nil {
		return h.fail(c, err, "")
	}
	return c.JSON(ConfirmResponse{Status: status, HasFile: record.HasFile})
}

// HandleDownload serves a file through the server.
// @Summary Download File
// @Description Redirects to a presigned URL when the object is in object storage, otherwise streams the locally stored file.
// @Tags transfers
// @Produce octet-stream
// @Param id path string true "Transfer ID"
// @Success 200 {file} file
// @Success 302 {string} string "Redirect to object storage"
// @Failure 404 {string} string "File not available"
// @Router /api/v1/transfers/{id}/file [get]
func (h *Handler) HandleDownload(c *fiber.Ctx) error {
	result, err := h.service.Download(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err, "")
	}
	if result.RedirectURL != "" {
		return c.Redirect(result.RedirectURL, fiber.StatusFound)
	}
	if result.File.State == LocalPathMissing {
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.Status(fiber.StatusNotFound).SendString(result.File.Message)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	c.Set(fiber.HeaderContentDisposition, ContentDisposition(result.Record.Filename))
	return c.SendStream(result.File.Reader, int(result.File.Size))
}

// HandleUpload stores a multipart file in local storage.
// @Summary Upload File
// @Description Accepts a multipart file and stores it in local storage. has_file is set only after the write succeeds.
// @Tags transfers
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Transfer ID"
// @Param file formData file true "File"
// @Success 201 {object} UploadResponse
// @Failure 400 {object} ErrorResponse "Save failed"
// @Failure 401 {object} ErrorResponse "Upload data invalid"
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/transfers/{id}/file [post]
func (h *Handler) HandleUpload(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	id := c.Params("id")

	header, err := c.FormFile("file")
	if err != nil {
		l.Error("Upload data invalid", zap.String("transfer_id", id), zap.Error(err))
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error: "Upload data invalid: file is required",
			Code:  CodeValidation,
		})
	}
	file, err := header.Open()
	if err != nil {
		return h.fail(c, err, "")
	}
	defer file.Close()

	record, err := h.service.Upload(c.UserContext(), id, file, header.Size)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return h.fail(c, err, "")
		}
		l.Error("Failed save file", zap.String("transfer_id", id), zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: fmt.Sprintf("Failed save file `%s`: %v", id, err),
			Code:  CodeInternal,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(UploadResponse{
		URL: h.publicURL + "/api/v1/transfers/" + record.ID + "/file",
	})
}

// HandleGet returns one transfer record.
// @Summary Get Transfer
// @Tags transfers
// @Produce json
// @Param id path string true "Transfer ID"
// @Success 200 {object} models.TransferRecord
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/transfers/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	record, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err, "")
	}
	return c.JSON(record)
}

// HandleList lists transfer records newest first.
// @Summary List Transfers
// @Tags transfers
// @Produce json
// @Param user query string false "Owning user"
// @Param asset query string false "Asset"
// @Param account query string false "Account"
// @Param filename query string false "Filename contains"
// @Param session query string false "Session ID"
// @Param operate query string false "upload or download"
// @Param dateFrom query string false "Start date (RFC3339 or YYYY-MM-DD)"
// @Param dateTo query string false "End date (RFC3339 or YYYY-MM-DD)"
// @Param limit query int false "Page size (default 50, max 500)"
// @Param offset query int false "Offset"
// @Success 200 {object} ListResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/transfers [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	filter := ListFilter{
		User:     c.Query("user"),
		Asset:    c.Query("asset"),
		Account:  c.Query("account"),
		Filename: c.Query("filename"),
		Session:  c.Query("session"),
		Operate:  models.Operate(c.Query("operate")),
		Limit:    utils.ToInt(c.Query("limit")),
		Offset:   utils.ToInt(c.Query("offset")),
	}
	var err error
	if filter.DateFrom, err = dateParam(c.Query("dateFrom"), false); err != nil {
		return h.fail(c, err, "")
	}
	if filter.DateTo, err = dateParam(c.Query("dateTo"), true); err != nil {
		return h.fail(c, err, "")
	}

	records, total, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return h.fail(c, err, "")
	}
	if records == nil {
		records = []models.TransferRecord{}
	}
	return c.JSON(ListResponse{Total: total, Results: records})
}

// fail maps the error taxonomy to a status code and response body.
// presignMessage replaces the generic text for presign failures.
func (h *Handler) fail(c *fiber.Ctx, err error, presignMessage string) error {
	l := logger.WithRayID(h.service.logger, c)

	switch {
	case errors.Is(err, ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error(), Code: CodeValidation})

	case errors.Is(err, ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "Transfer record not found", Code: CodeRecordNotFound})

	case errors.Is(err, storage.ErrNoBackendConfigured):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "No object storage configured",
			Code:  CodeNoBackendConfigured,
			Hint:  "Please configure replay storage in System Settings",
		})

	case errors.Is(err, storage.ErrPresignGenerationFailed), errors.Is(err, storage.ErrPresignUnsupported):
		if presignMessage == "" {
			presignMessage = "Failed to generate presigned URL"
		}
		l.Error(presignMessage, zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: presignMessage,
			Code:  CodePresignGenerationFailed,
			Hint:  "Check the object storage credentials and bucket in System Settings",
		})

	case errors.Is(err, storage.ErrExistenceCheckFailed):
		l.Warn("Existence check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Failed to check file existence",
			Code:  CodeExistenceCheckFailed,
		})

	default:
		l.Error("Transfer request failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "Internal server error", Code: CodeInternal})
	}
}

// expiresParam reads expiresSeconds. Absent means default; a present value must be positive.
func expiresParam(c *fiber.Ctx) (int, error) {
	raw := c.Query("expiresSeconds", c.Query("expires"))
	if raw == "" {
		return 0, nil
	}
	n := utils.ToInt(raw)
	if n <= 0 {
		return 0, fmt.Errorf("%w: expiresSeconds must be a positive integer", ErrValidation)
	}
	return n, nil
}

// dateParam accepts RFC3339 or a bare date. A bare end date covers the whole day.
func dateParam(raw string, endOfDay bool) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrValidation, raw)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
