package handlers

import (
	"bytes"
	"encoding/json"
	"strings"

	"homyhive/internal/adapters/http/middleware"
	"homyhive/internal/adapters/persistence/models"
	"homyhive/internal/core/services"
	"homyhive/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// HostHandler handles host registration and onboarding
type HostHandler struct {
	hosts *services.HostApplicationService
	resp  *Responder
}

// NewHostHandler creates a new host handler
func NewHostHandler(hosts *services.HostApplicationService, resp *Responder) *HostHandler {
	return &HostHandler{hosts: hosts, resp: resp}
}

// CheckEmailRequest represents an availability check
type CheckEmailRequest struct {
	Email string `json:"email" form:"email"`
}

// CheckPhoneRequest represents an availability check
type CheckPhoneRequest struct {
	Phone string `json:"phone" form:"phone"`
}

// IFSCRequest represents a bank code check
type IFSCRequest struct {
	IFSCCode string `json:"ifscCode" form:"ifscCode"`
}

// PincodeRequest represents a postal code check
type PincodeRequest struct {
	Pincode string `json:"pincode" form:"pincode"`
}

// OnboardingFeeRequest identifies the application paying the fee
type OnboardingFeeRequest struct {
	ApplicationID string `json:"applicationId" form:"applicationId"`
	HostID        string `json:"hostId" form:"hostId"`
	services.PaymentConfirmation
}

func (r *OnboardingFeeRequest) applicationID() string {
	if r.ApplicationID != "" {
		return strings.TrimSpace(r.ApplicationID)
	}
	return strings.TrimSpace(r.HostID)
}

// Register submits a host application
// @Summary Submit host application
// @Description Validates and stores the registration form; documents may be attached
// @Tags Host
// @Accept json,mpfd
// @Produce json
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /host/register [post]
func (h *HostHandler) Register(c *fiber.Ctx) error {
	fields, err := bodyFields(c)
	if err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	form, _ := c.MultipartForm()
	if len(fields) == 0 && (form == nil || len(form.File) == 0) {
		return response.BadRequest(c, "No form data received.")
	}

	docs, err := documentFiles(form)
	if err != nil {
		return h.resp.report(c, "host register", err)
	}

	auth := middleware.CurrentAuth(c)
	if auth.IsAuthenticated() {
		if fields.String("email") == "" {
			fields["email"] = auth.Email
		}
		if fields.String("firstName") == "" && auth.DisplayName != "" {
			fields["firstName"] = auth.DisplayName
		}
	}

	app, err := h.hosts.SubmitApplication(c.UserContext(), fields, auth.Principal)
	if err != nil {
		return h.resp.report(c, "host register", err)
	}

	for i := range docs {
		updated, err := h.hosts.UploadDocument(c.UserContext(), app.ApplicationID, docs[i].kind, &docs[i].upload)
		if err != nil {
			return h.resp.report(c, "host register", err)
		}
		app = updated
	}

	return response.Created(c, "Application submitted successfully", fiber.Map{
		"applicationId": app.ApplicationID,
		"status":        app.Status,
	})
}

// Upload attaches documents to an application
// @Summary Upload application documents
// @Tags Host
// @Accept mpfd
// @Produce json
// @Param applicationId path string true "Application ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /host/upload/{applicationId} [post]
func (h *HostHandler) Upload(c *fiber.Ctx) error {
	applicationID := c.Params("applicationId")

	form, err := c.MultipartForm()
	if err != nil || len(form.File) == 0 {
		return response.BadRequest(c, "No documents uploaded")
	}

	docs, err := documentFiles(form)
	if err != nil {
		return h.resp.report(c, "upload documents", err)
	}

	var app *models.HostApplication
	uploaded := make([]string, 0, len(docs))
	for i := range docs {
		app, err = h.hosts.UploadDocument(c.UserContext(), applicationID, docs[i].kind, &docs[i].upload)
		if err != nil {
			return h.resp.report(c, "upload documents", err)
		}
		uploaded = append(uploaded, docs[i].kind)
	}
	if app == nil {
		return response.BadRequest(c, "No supported documents uploaded")
	}

	return response.Success(c, "Documents uploaded successfully", fiber.Map{
		"applicationId":        app.ApplicationID,
		"uploadedDocuments":    uploaded,
		"verificationProgress": app.Progress.Data(),
	})
}

// Status returns the progress of an application
// @Summary Get application status
// @Tags Host
// @Produce json
// @Param applicationId path string true "Application ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /host/status/{applicationId} [get]
func (h *HostHandler) Status(c *fiber.Ctx) error {
	view, err := h.hosts.GetApplicationStatus(c.UserContext(), c.Params("applicationId"))
	if err != nil {
		return h.resp.report(c, "application status", err)
	}
	return response.Success(c, "", view)
}

// CheckEmail reports whether an email is free for a new application
// @Summary Check email availability
// @Tags Host
// @Accept json
// @Produce json
// @Param body body CheckEmailRequest true "Email"
// @Success 200 {object} response.Response
// @Router /host/check-email [post]
func (h *HostHandler) CheckEmail(c *fiber.Ctx) error {
	var req CheckEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	available, err := h.hosts.EmailAvailable(c.UserContext(), req.Email)
	if err != nil {
		return h.resp.report(c, "check email", err)
	}
	return response.Success(c, "", fiber.Map{"available": available})
}

// VerifyPhone reports whether a phone is free for a new application
// @Summary Check phone availability
// @Tags Host
// @Accept json
// @Produce json
// @Param body body CheckPhoneRequest true "Phone"
// @Success 200 {object} response.Response
// @Router /host/verify-phone [post]
func (h *HostHandler) VerifyPhone(c *fiber.Ctx) error {
	var req CheckPhoneRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	available, err := h.hosts.PhoneAvailable(c.UserContext(), req.Phone)
	if err != nil {
		return h.resp.report(c, "check phone", err)
	}
	return response.Success(c, "", fiber.Map{"available": available})
}

// VerifyIFSC checks the format of a bank code
// @Summary Validate IFSC code
// @Tags Host
// @Accept json
// @Produce json
// @Param body body IFSCRequest true "IFSC code"
// @Success 200 {object} response.Response
// @Router /host/verify-ifsc [post]
func (h *HostHandler) VerifyIFSC(c *fiber.Ctx) error {
	var req IFSCRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	return response.Success(c, "", fiber.Map{"valid": services.ValidIFSC(req.IFSCCode)})
}

// VerifyPincode checks the format of a postal code
// @Summary Validate pincode
// @Tags Host
// @Accept json
// @Produce json
// @Param body body PincodeRequest true "Pincode"
// @Success 200 {object} response.Response
// @Router /host/verify-pincode [post]
func (h *HostHandler) VerifyPincode(c *fiber.Ctx) error {
	var req PincodeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	return response.Success(c, "", fiber.Map{"valid": services.ValidPincode(req.Pincode)})
}

// VerifyID stores the caller's government ID images
// @Summary Upload government ID
// @Tags Host
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /host/verify-id [post]
func (h *HostHandler) VerifyID(c *fiber.Ctx) error {
	front, err := formFile(c, "idFront")
	if err != nil {
		return h.resp.report(c, "verify id", err)
	}
	back, err := formFile(c, "idBack")
	if err != nil {
		return h.resp.report(c, "verify id", err)
	}

	app, err := h.hosts.VerifyGovernmentID(c.UserContext(), middleware.CurrentAuth(c).Principal, front, back)
	if err != nil {
		return h.resp.report(c, "verify id", err)
	}

	return response.Success(c, "ID submitted for verification", fiber.Map{
		"applicationId":        app.ApplicationID,
		"idVerificationStatus": app.IDVerification.Data().Status,
	})
}

// CompleteOnboarding finishes onboarding and drafts the first listing
// @Summary Complete onboarding
// @Tags Host
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param body body services.OnboardingInput true "Host and property details"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /host/onboarding-complete [post]
func (h *HostHandler) CompleteOnboarding(c *fiber.Ctx) error {
	var input services.OnboardingInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	photo, err := formFile(c, "hostProfilePhoto")
	if err != nil {
		return h.resp.report(c, "complete onboarding", err)
	}
	images, err := formFiles(c, "propertyImages")
	if err != nil {
		return h.resp.report(c, "complete onboarding", err)
	}

	result, err := h.hosts.CompleteOnboarding(c.UserContext(), middleware.CurrentAuth(c), &input, photo, images)
	if err != nil {
		return h.resp.report(c, "complete onboarding", err)
	}

	return response.Success(c, "Onboarding complete, your listing is awaiting approval", fiber.Map{
		"applicationId": result.Application.ApplicationID,
		"status":        result.Application.Status,
		"listing":       result.Listing.ToResponse(),
	})
}

// OnboardingOrder opens the onboarding fee payment
// @Summary Create onboarding fee order
// @Tags Host
// @Accept json
// @Produce json
// @Param body body OnboardingFeeRequest true "Application"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /host/onboarding-fee/order [post]
func (h *HostHandler) OnboardingOrder(c *fiber.Ctx) error {
	var req OnboardingFeeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.applicationID() == "" {
		return response.ValidationFailed(c, "application id is required", []string{"applicationId"})
	}

	order, err := h.hosts.CreateOnboardingOrder(c.UserContext(), req.applicationID())
	if err != nil {
		return h.resp.report(c, "onboarding order", err)
	}
	return response.Success(c, "Order created", order)
}

// OnboardingVerify confirms the onboarding fee payment
// @Summary Verify onboarding fee payment
// @Tags Host
// @Accept json
// @Produce json
// @Param body body OnboardingFeeRequest true "Gateway confirmation"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /host/onboarding-fee/verify [post]
func (h *HostHandler) OnboardingVerify(c *fiber.Ctx) error {
	var req OnboardingFeeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	app, err := h.hosts.VerifyOnboardingPayment(c.UserContext(), req.applicationID(), req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		return h.resp.report(c, "onboarding verify", err)
	}
	return response.Success(c, "Payment verified", fiber.Map{
		"applicationId":     app.ApplicationID,
		"onboardingFeePaid": app.OnboardingFeePaid,
	})
}

// bodyFields reads a JSON, urlencoded or multipart body into loose fields
func bodyFields(c *fiber.Ctx) (services.Fields, error) {
	fields := services.Fields{}

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		body := c.Body()
		if len(bytes.TrimSpace(body)) == 0 {
			return fields, nil
		}
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		if err := dec.Decode(&fields); err != nil {
			return nil, err
		}
		return fields, nil
	}

	if form, err := c.MultipartForm(); err == nil {
		for key, values := range form.Value {
			fields[key] = values
		}
		return fields, nil
	}

	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		fields[string(key)] = string(value)
	})
	return fields, nil
}
