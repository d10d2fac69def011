package handler

import (
	"io"
	"net/http"

	"rpl-backend/internal/service"
	"rpl-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// maxUploadBytes caps supporting-document uploads at 20 MiB.
const maxUploadBytes = 20 << 20

type FileHandler struct {
	fileService service.FileService
}

func NewFileHandler(fileService service.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *FileHandler) RegisterRoutes(router *gin.RouterGroup) {
	// Applicants upload before they have submitted, so these stay public.
	router.POST("/api/upload-supporting", h.Upload)
	router.GET("/api/files/:id", h.Download)
}

// Upload stores a supporting document
// @Summary      Upload a supporting document
// @Description  Stores a single multipart file and returns the blob id to reference from a submission.
// @Tags         files
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "File"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  response.Response
// @Router       /api/upload-supporting [post]
func (h *FileHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "no file"))
		return
	}
	if header.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "file too large"))
		return
	}

	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "upload failed"))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "upload failed"))
		return
	}
	if len(data) > maxUploadBytes {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "file too large"))
		return
	}

	fileID, err := h.fileService.Upload(c.Request.Context(),
		header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		c.JSON(httpStatus(err), response.Error(httpStatus(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{"fileId": fileID})
}

// Download streams a stored supporting document
// @Summary      Download a supporting document
// @Description  Streams the file bytes inline with a best-effort content type.
// @Tags         files
// @Produce      octet-stream
// @Param        id   path  string  true  "File id"
// @Success      200  {file}    file
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/files/{id} [get]
func (h *FileHandler) Download(c *gin.Context) {
	file, err := h.fileService.Download(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(httpStatus(err), response.Error(httpStatus(err), err.Error()))
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
