package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/stockroom/internal/domain"
	"github.com/andresuchdata/stockroom/internal/ingest"
	"github.com/andresuchdata/stockroom/internal/service"
)

// maxImportBytes caps uploaded stock sheets.
const maxImportBytes = 10 << 20

type ProductHandler struct {
	catalog *service.CatalogService
}

func NewProductHandler(catalog *service.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

func (h *ProductHandler) List(c *gin.Context) {
	products := h.catalog.List()
	c.JSON(http.StatusOK, gin.H{
		"items": products,
		"total": len(products),
	})
}

func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.catalog.Get(c.Param("id"))
	if err != nil {
		respondError(c, err, "failed to fetch product")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) Create(c *gin.Context) {
	var in domain.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product payload", "details": err.Error()})
		return
	}

	p, err := h.catalog.Add(in)
	if err != nil {
		respondError(c, err, "failed to add product")
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *ProductHandler) Update(c *gin.Context) {
	var in domain.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product payload", "details": err.Error()})
		return
	}

	p, err := h.catalog.Replace(c.Param("id"), in)
	if err != nil {
		respondError(c, err, "failed to update product")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.catalog.Remove(c.Param("id")); err != nil {
		respondError(c, err, "failed to delete product")
		return
	}
	c.Status(http.StatusNoContent)
}

// Import accepts a multipart "file" field or a raw CSV/XLSX body.
func (h *ProductHandler) Import(c *gin.Context) {
	replace, _ := strconv.ParseBool(c.DefaultQuery("replace", "false"))

	var (
		reader io.Reader
		format ingest.Format
		source string
	)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided", "details": err.Error()})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open upload", "details": err.Error()})
			return
		}
		defer file.Close()

		reader = file
		format = ingest.DetectFormat(fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
		source = fileHeader.Filename
	} else {
		format = ingest.DetectFormat("", c.ContentType())
		if q := c.Query("format"); q != "" {
			parsed, err := ingest.ParseFormat(q)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid format", "details": err.Error()})
				return
			}
			format = parsed
		}
		reader = c.Request.Body
		source = "upload"
	}

	data, err := io.ReadAll(io.LimitReader(reader, maxImportBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read upload", "details": err.Error()})
		return
	}
	if len(data) > maxImportBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	result, err := h.catalog.Import(c.Request.Context(), format, bytes.NewReader(data), replace, source)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to import products", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// ImportDrive imports a Drive file (file_id) or every sheet in a folder (folder).
func (h *ProductHandler) ImportDrive(c *gin.Context) {
	replace, _ := strconv.ParseBool(c.DefaultQuery("replace", "false"))
	fileID := strings.TrimSpace(c.Query("file_id"))
	folder := strings.TrimSpace(c.Query("folder"))

	var (
		result domain.ImportResult
		err    error
	)
	switch {
	case fileID != "":
		result, err = h.catalog.ImportDrive(c.Request.Context(), fileID, replace)
	case folder != "":
		result, err = h.catalog.ImportDriveFolder(c.Request.Context(), folder, replace)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_id or folder parameter is required"})
		return
	}

	if err != nil {
		respondError(c, err, "drive import failed")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ProductHandler) DriveFiles(c *gin.Context) {
	files, err := h.catalog.DriveFiles(c.Request.Context(), c.Query("path"))
	if err != nil {
		respondError(c, err, "failed to list drive files")
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": files})
}

func (h *ProductHandler) Export(c *gin.Context) {
	format, err := ingest.ParseFormat(c.DefaultQuery("format", "csv"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid format", "details": err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := h.catalog.Export(format, &buf); err != nil {
		respondError(c, err, "failed to export products")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, format.FileName()))
	contentType := format.ContentType()
	if format == ingest.FormatCSV {
		contentType += "; charset=utf-8"
	}
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func (h *ProductHandler) Archive(c *gin.Context) {
	result, err := h.catalog.Archive(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to archive export")
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *ProductHandler) Archives(c *gin.Context) {
	objects, err := h.catalog.Archives(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to list archives")
		return
	}
	c.JSON(http.StatusOK, gin.H{"archives": objects})
}
