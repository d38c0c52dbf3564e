package handlers

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"homyhive/internal/adapters/external/imgbb"
	"homyhive/internal/adapters/persistence/models"
	"homyhive/internal/adapters/persistence/repositories"
	"homyhive/internal/core/domain"
	"homyhive/internal/core/services"
	"homyhive/internal/pkg/logger"
	"homyhive/internal/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeApplications struct {
	repositories.HostApplicationRepository
	items []*models.HostApplication
}

func (f *fakeApplications) Create(_ context.Context, app *models.HostApplication) error {
	app.ID = uint(len(f.items) + 1)
	f.items = append(f.items, app)
	return nil
}

func (f *fakeApplications) FindByEmailOrPhone(_ context.Context, email, phone string) (*models.HostApplication, error) {
	for _, a := range f.items {
		if a.Email == email || a.Phone == phone {
			return a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeApplications) GetByApplicationID(_ context.Context, id string) (*models.HostApplication, error) {
	for _, a := range f.items {
		if a.ApplicationID == id {
			return a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeApplications) Update(context.Context, *models.HostApplication) error { return nil }

func (f *fakeApplications) AddEvent(context.Context, *models.HostApplicationEvent) error { return nil }

type fakeUploader struct {
	names []string
}

func (f *fakeUploader) Upload(_ context.Context, name string, _ []byte) (*imgbb.Image, error) {
	f.names = append(f.names, name)
	return &imgbb.Image{URL: "https://i.ibb.co/" + name, Filename: name}, nil
}

func newHostApp(t *testing.T, apps *fakeApplications, uploader *fakeUploader) *fiber.App {
	t.Helper()
	svc := services.NewHostApplicationService(apps, nil, uploader, nil, nil, validator.MustNew(), logger.NewNoOpLogger())
	h := NewHostHandler(svc, NewResponder(nil, logger.NewNoOpLogger()))
	app := fiber.New()
	app.Post("/host/register", h.Register)
	app.Post("/host/upload/:applicationId", h.Upload)
	return app
}

type formFileSpec struct {
	field, name, contentType string
}

func multipartRequest(t *testing.T, target string, values map[string]string, files []formFileSpec) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range values {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, f.field, f.name))
		header.Set("Content-Type", f.contentType)
		part, err := w.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte("file-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	return req
}

func registrationForm() map[string]string {
	return map[string]string{
		"firstName":              "Asha",
		"lastName":               "Rao",
		"email":                  "asha@example.com",
		"phone":                  "9876543210",
		"dateOfBirth":            "1990-04-12",
		"gender":                 "female",
		"idType":                 "aadhaar",
		"idNumber":               "1234 5678 9012",
		"bankAccount":            "001234567890",
		"ifsc":                   "HDFC0001234",
		"address":                "12 MG Road",
		"city":                   "Bengaluru",
		"state":                  "Karnataka",
		"pincode":                "560001",
		"termsAccepted":          "on",
		"privacyPolicyAccepted":  "true",
		"backgroundCheckConsent": "yes",
	}
}

func TestHostRegisterChecksFilesBeforeSaving(t *testing.T) {
	apps := &fakeApplications{}
	uploader := &fakeUploader{}
	app := newHostApp(t, apps, uploader)

	req := multipartRequest(t, "/host/register", registrationForm(), []formFileSpec{
		{field: "profilePhoto", name: "me.jpg", contentType: "image/jpeg"},
		{field: "bankStatement", name: "statement.exe", contentType: "application/octet-stream"},
	})
	resp, out := do(t, app, req)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, []string{"file"}, out.Fields)
	assert.Empty(t, apps.items)
	assert.Empty(t, uploader.names)

	// the corrected retry is a fresh submission, not a duplicate
	req = multipartRequest(t, "/host/register", registrationForm(), []formFileSpec{
		{field: "profilePhoto", name: "me.jpg", contentType: "image/jpeg"},
	})
	resp, _ = do(t, app, req)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Len(t, apps.items, 1)
	assert.NotNil(t, apps.items[0].Documents.Data().ProfilePhoto)
}

func TestHostUploadKeepsEveryPropertyImage(t *testing.T) {
	apps := &fakeApplications{}
	uploader := &fakeUploader{}
	app := newHostApp(t, apps, uploader)
	require.NoError(t, apps.Create(context.Background(), &models.HostApplication{ApplicationID: "app-1", Status: domain.StatusSubmitted}))

	req := multipartRequest(t, "/host/upload/app-1", nil, []formFileSpec{
		{field: "propertyImages", name: "front.jpg", contentType: "image/jpeg"},
		{field: "propertyImages", name: "pool.png", contentType: "image/png"},
		{field: "propertyImages", name: "garden.jpg", contentType: "image/jpeg"},
	})
	resp, _ := do(t, app, req)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, uploader.names, 3)
	assert.Len(t, apps.items[0].Documents.Data().PropertyImages, 3)
}
