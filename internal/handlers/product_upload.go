package handlers

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/catalog"
	"storefront/internal/models"
)

/*
=======================
  PRODUCT FORM PARSER
=======================
*/

// parseProductForm reads the admin product form (multipart or urlencoded)
// into a ProductInput. The image is optional on both create and update; a
// supplied one must pass the type and size checks.
func parseProductForm(c *gin.Context, maxImageBytes int64) (catalog.ProductInput, error) {
	input := catalog.ProductInput{
		Name:        strings.TrimSpace(c.PostForm("name")),
		Description: strings.TrimSpace(c.PostForm("description")),
		Brand:       strings.TrimSpace(c.PostForm("brand")),
	}

	if value := strings.TrimSpace(c.PostForm("price")); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return catalog.ProductInput{}, fmt.Errorf("%w: invalid price", catalog.ErrInvalidArgument)
		}
		input.Price = parsed
	}

	if value := strings.TrimSpace(c.PostForm("stock")); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return catalog.ProductInput{}, fmt.Errorf("%w: invalid stock", catalog.ErrInvalidArgument)
		}
		input.Stock = parsed
	}

	if value := strings.TrimSpace(c.PostForm("category")); value != "" {
		id, err := primitive.ObjectIDFromHex(value)
		if err != nil {
			return catalog.ProductInput{}, fmt.Errorf("%w: invalid category id", catalog.ErrInvalidArgument)
		}
		input.CategoryID = id
	}

	if file, err := c.FormFile("productPic"); err == nil {
		image, err := readImageFile(file, maxImageBytes)
		if err != nil {
			return catalog.ProductInput{}, err
		}
		input.Image = &image
	}

	return input, nil
}

/*
=======================
  IMAGE READ
=======================
*/

var allowedImageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

// readImageFile loads an uploaded image into memory for embedding in its
// owning document. Oversized or unsupported uploads are rejected at this
// boundary, before any bytes are stored.
func readImageFile(file *multipart.FileHeader, maxBytes int64) (models.Image, error) {
	extension := strings.ToLower(filepath.Ext(file.Filename))
	if _, ok := allowedImageExtensions[extension]; !ok {
		return models.Image{}, fmt.Errorf("%w: unsupported image type %s", catalog.ErrInvalidArgument, extension)
	}

	if file.Size > maxBytes {
		return models.Image{}, fmt.Errorf("%w: image too large (max %d MB)", catalog.ErrInvalidArgument, maxBytes>>20)
	}

	in, err := file.Open()
	if err != nil {
		return models.Image{}, err
	}
	defer in.Close()

	// read one byte past the cap in case the declared size lies
	data, err := io.ReadAll(io.LimitReader(in, maxBytes+1))
	if err != nil {
		return models.Image{}, err
	}
	if int64(len(data)) > maxBytes {
		return models.Image{}, fmt.Errorf("%w: image too large (max %d MB)", catalog.ErrInvalidArgument, maxBytes>>20)
	}

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = mime.TypeByExtension(extension)
	}

	return models.Image{Data: data, ContentType: contentType}, nil
}
