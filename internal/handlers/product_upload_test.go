package handlers

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/catalog"
)

func multipartContext(t *testing.T, fields map[string]string, fileName string, fileBytes []byte) *gin.Context {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write field %s: %v", key, err)
		}
	}
	if fileName != "" {
		part, err := writer.CreateFormFile("productPic", fileName)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(fileBytes); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/admin/product/add", body)
	c.Request.Header.Set("Content-Type", writer.FormDataContentType())
	return c
}

func TestParseProductFormComplete(t *testing.T) {
	categoryID := primitive.NewObjectID()
	c := multipartContext(t, map[string]string{
		"name":        "Runner",
		"description": "running shoe",
		"brand":       "Acme",
		"price":       "49.90",
		"stock":       "12",
		"category":    categoryID.Hex(),
	}, "runner.png", []byte("png-bytes"))

	input, err := parseProductForm(c, 1<<20)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if input.Name != "Runner" || input.Brand != "Acme" {
		t.Errorf("unexpected fields: %+v", input)
	}
	if input.Price != 49.90 || input.Stock != 12 {
		t.Errorf("unexpected price/stock: %v / %v", input.Price, input.Stock)
	}
	if input.CategoryID != categoryID {
		t.Errorf("category id = %s, want %s", input.CategoryID.Hex(), categoryID.Hex())
	}
	if input.Image == nil {
		t.Fatal("expected an image")
	}
	if string(input.Image.Data) != "png-bytes" {
		t.Errorf("image data = %q", input.Image.Data)
	}
	if input.Image.ContentType == "" {
		t.Error("expected a content type")
	}
}

func TestParseProductFormWithoutImage(t *testing.T) {
	c := multipartContext(t, map[string]string{
		"name":        "Runner",
		"description": "running shoe",
		"price":       "10",
		"stock":       "1",
		"category":    primitive.NewObjectID().Hex(),
	}, "", nil)

	input, err := parseProductForm(c, 1<<20)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if input.Image != nil {
		t.Error("expected no image")
	}
}

func TestParseProductFormBadNumbers(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
	}{
		{"bad price", map[string]string{"price": "abc"}},
		{"bad stock", map[string]string{"stock": "1.5"}},
		{"bad category", map[string]string{"category": "zzz"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := multipartContext(t, tt.fields, "", nil)
			_, err := parseProductForm(c, 1<<20)
			if !errors.Is(err, catalog.ErrInvalidArgument) {
				t.Errorf("err = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestReadImageFileRejectsUnsupportedExtension(t *testing.T) {
	c := multipartContext(t, nil, "animation.gif", []byte("gif-bytes"))
	file, err := c.FormFile("productPic")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}

	_, err = readImageFile(file, 1<<20)
	if !errors.Is(err, catalog.ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestReadImageFileRejectsOversized(t *testing.T) {
	c := multipartContext(t, nil, "big.png", bytes.Repeat([]byte("x"), 64))
	file, err := c.FormFile("productPic")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}

	_, err = readImageFile(file, 32)
	if !errors.Is(err, catalog.ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestReadImageFileAcceptsSmallPNG(t *testing.T) {
	c := multipartContext(t, nil, "ok.PNG", []byte("png-bytes"))
	file, err := c.FormFile("productPic")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}

	image, err := readImageFile(file, 1<<20)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(image.Data) != len("png-bytes") {
		t.Errorf("data length = %d", len(image.Data))
	}
}
