package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"sort"
	"strconv"

	"homyhive/internal/core/domain"
	"homyhive/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

// maxMultipartFiles bounds how many files one field may carry
const maxMultipartFiles = 10

// readUpload loads a multipart file into memory
func readUpload(fh *multipart.FileHeader) (*services.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload %s: %w", fh.Filename, err)
	}

	return &services.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Content:     content,
	}, nil
}

// formFile returns the first file of field, or nil when the request is not
// multipart or the field is empty
func formFile(c *fiber.Ctx, field string) (*services.Upload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}
	return readUpload(fh)
}

// formFiles returns every file of field
func formFiles(c *fiber.Ctx, field string) ([]services.Upload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil
	}
	headers := form.File[field]
	if len(headers) > maxMultipartFiles {
		headers = headers[:maxMultipartFiles]
	}

	uploads := make([]services.Upload, 0, len(headers))
	for _, fh := range headers {
		u, err := readUpload(fh)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, *u)
	}
	return uploads, nil
}

// documentFile is one attached application document
type documentFile struct {
	kind   string
	upload services.Upload
}

// documentFiles reads every document field of form in a stable order and
// checks each file before anything is stored. Property images keep every
// file, other kinds only their first.
func documentFiles(form *multipart.Form) ([]documentFile, error) {
	if form == nil {
		return nil, nil
	}
	kinds := make([]string, 0, len(form.File))
	for kind := range form.File {
		if domain.IsDocumentKind(kind) {
			kinds = append(kinds, kind)
		}
	}
	sort.Strings(kinds)

	var files []documentFile
	for _, kind := range kinds {
		headers := form.File[kind]
		switch {
		case kind == domain.DocPropertyImages && len(headers) > maxMultipartFiles:
			headers = headers[:maxMultipartFiles]
		case kind != domain.DocPropertyImages && len(headers) > 1:
			headers = headers[:1]
		}
		for _, fh := range headers {
			u, err := readUpload(fh)
			if err != nil {
				return nil, err
			}
			if err := services.ValidateUpload(u); err != nil {
				return nil, err
			}
			files = append(files, documentFile{kind: kind, upload: *u})
		}
	}
	return files, nil
}

// paramID parses a numeric route parameter
func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func uintString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
