package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"order-portal-backend/internal/models"
	"order-portal-backend/internal/services"
)

type UploadHandler struct {
	service OrderService
	tempDir string
	log     *zap.Logger
}

func NewUploadHandler(service OrderService, tempDir string, log *zap.Logger) *UploadHandler {
	return &UploadHandler{
		service: service,
		tempDir: tempDir,
		log:     log,
	}
}

// CreateOrder godoc
// @Summary     Create an order from an uploaded deliverable
// @Description Stores the file in object storage, creates the order with its first version and redirects back to the dashboard.
// @Tags        admin
// @Accept      multipart/form-data
// @Produce     plain
// @Security    Bearer
// @Param       client_name formData string false "Client name"
// @Param       client_phone formData string false "Client phone"
// @Param       file formData file true "Deliverable file"
// @Success     302
// @Failure     400 {string} string "No file uploaded"
// @Failure     502 {string} string "provider error"
// @Router      /admin/upload [post]
func (h *UploadHandler) CreateOrder(c *gin.Context) {
	clientName := c.PostForm("client_name")
	clientPhone := c.PostForm("client_phone")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.String(http.StatusBadRequest, "No file uploaded")
		return
	}

	file, cleanup, err := h.stageFile(c, fileHeader)
	if err != nil {
		h.log.Error("failed to stage upload", zap.String("filename", fileHeader.Filename), zap.Error(err))
		c.String(http.StatusInternalServerError, "Upload failed")
		return
	}
	defer cleanup()

	_, err = h.service.CreateOrder(c.Request.Context(), clientName, clientPhone, file)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoFileProvided):
			c.String(http.StatusBadRequest, "No file uploaded")
		case errors.Is(err, services.ErrUploadFailed):
			c.String(http.StatusBadGateway, err.Error())
		default:
			h.log.Error("order creation failed", zap.Error(err))
			c.String(http.StatusInternalServerError, "Upload failed")
		}
		return
	}

	c.Redirect(http.StatusFound, "/admin")
}

// AppendVersion godoc
// @Summary     Attach a new file revision to an order
// @Description Uploads the file and appends it with the next version number. The order is re-delivered (status back to Sent).
// @Tags        admin
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       order_id path int true "Order ID"
// @Param       file formData file true "Deliverable file"
// @Success     200 {object} models.AppendVersionResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /admin/orders/{order_id}/versions [post]
func (h *UploadHandler) AppendVersion(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("order_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid order id"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "no file uploaded"})
		return
	}

	file, cleanup, err := h.stageFile(c, fileHeader)
	if err != nil {
		h.log.Error("failed to stage upload", zap.String("filename", fileHeader.Filename), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to stage upload"})
		return
	}
	defer cleanup()

	version, err := h.service.AppendVersion(c.Request.Context(), orderID, file)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "order not found"})
		case errors.Is(err, services.ErrInvalidTransition):
			c.JSON(http.StatusConflict, models.ErrorResponse{Error: "order is approved, no further versions accepted"})
		case errors.Is(err, services.ErrUploadFailed):
			c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: "upload failed", Message: err.Error()})
		default:
			h.log.Error("version append failed", zap.Int64("order_id", orderID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to append version"})
		}
		return
	}

	c.JSON(http.StatusOK, models.AppendVersionResponse{
		OrderID:       version.OrderID,
		VersionNumber: version.VersionNumber,
		FileURL:       version.FileURL,
	})
}

// stageFile copies the multipart part into a scoped temp file, reads it back
// and hands the caller a cleanup that removes the staged copy. The cleanup is
// safe to run on every exit path.
func (h *UploadHandler) stageFile(c *gin.Context, fileHeader *multipart.FileHeader) (services.UploadFile, func(), error) {
	tmp, err := os.CreateTemp(h.tempDir, "upload-*")
	if err != nil {
		return services.UploadFile{}, nil, err
	}
	tmpPath := tmp.Name()
	tmp.Close()

	cleanup := func() {
		if err := os.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
			h.log.Warn("temp file cleanup failed", zap.String("path", tmpPath), zap.Error(err))
		}
	}

	if err := c.SaveUploadedFile(fileHeader, tmpPath); err != nil {
		cleanup()
		return services.UploadFile{}, nil, err
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		cleanup()
		return services.UploadFile{}, nil, err
	}

	return services.UploadFile{
		Name:        fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}, cleanup, nil
}
