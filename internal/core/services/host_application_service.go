package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"homyhive/internal/adapters/persistence/models"
	"homyhive/internal/adapters/persistence/repositories"
	"homyhive/internal/core/domain"
	"homyhive/internal/pkg/logger"
	"homyhive/internal/pkg/metrics"
	"homyhive/internal/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Upload limits for host documents
const (
	MaxDocumentSize = 5 * 1024 * 1024
	OnboardingFee   = 49900
	Currency        = "INR"
)

// RequiredApplicationFields must be present on a host registration
var RequiredApplicationFields = []string{
	"firstName", "lastName", "email", "phone", "dateOfBirth", "gender",
	"idType", "idNumber", "bankAccount", "ifscCode",
	"address", "city", "state", "pincode",
	"termsAccepted", "privacyPolicyAccepted", "backgroundCheckConsent",
}

var (
	ifscPattern    = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)
	idPatterns     = map[domain.IDType]*regexp.Regexp{
		domain.IDNationalID:    regexp.MustCompile(`^[0-9]{12}$`),
		domain.IDTaxID:         regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`),
		domain.IDPassport:      regexp.MustCompile(`^[A-Z][0-9]{7}$`),
		domain.IDVoterID:       regexp.MustCompile(`^[A-Z]{3}[0-9]{7}$`),
		domain.IDDriverLicense: regexp.MustCompile(`^[A-Z]{2}[0-9]{13}$`),
	}
	documentTypes = map[string]string{
		"image/jpeg":         ".jpeg",
		"image/jpg":          ".jpg",
		"image/png":          ".png",
		"application/pdf":    ".pdf",
		"application/msword": ".doc",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
	}
	documentExtensions = map[string]bool{".jpeg": true, ".jpg": true, ".png": true, ".pdf": true, ".doc": true, ".docx": true}
)

// ValidIFSC reports whether code is a well-formed IFSC routing code
func ValidIFSC(code string) bool {
	return ifscPattern.MatchString(strings.ToUpper(strings.TrimSpace(code)))
}

// ValidPincode reports whether pincode is a well-formed postal code
func ValidPincode(pincode string) bool {
	return pincodePattern.MatchString(strings.TrimSpace(pincode))
}

// ValidIDNumber checks number against the pattern of its document type
func ValidIDNumber(idType domain.IDType, number string) bool {
	pattern, ok := idPatterns[idType]
	if !ok {
		return false
	}
	clean := strings.NewReplacer(" ", "", "-", "").Replace(strings.ToUpper(number))
	return pattern.MatchString(clean)
}

// HostApplicationService handles host onboarding
type HostApplicationService struct {
	apps     repositories.HostApplicationRepository
	listings repositories.ListingRepository
	uploader ImageUploader
	geocoder Geocoder
	gateway  PaymentGateway
	validate *validator.Validator
	log      logger.Logger
	now      func() time.Time
}

// NewHostApplicationService creates a new host application service
func NewHostApplicationService(
	apps repositories.HostApplicationRepository,
	listings repositories.ListingRepository,
	uploader ImageUploader,
	geocoder Geocoder,
	gateway PaymentGateway,
	validate *validator.Validator,
	log logger.Logger,
) *HostApplicationService {
	return &HostApplicationService{
		apps:     apps,
		listings: listings,
		uploader: uploader,
		geocoder: geocoder,
		gateway:  gateway,
		validate: validate,
		log:      log,
		now:      time.Now,
	}
}

// SubmitApplication validates a registration form and stores it as submitted
func (s *HostApplicationService) SubmitApplication(ctx context.Context, fields Fields, principal domain.PrincipalID) (*models.HostApplication, error) {
	fields.alias("ifscCode", "ifsc")
	fields.alias("pincode", "postalCode")
	fields.alias("bankAccount", "accountNumber")

	var missing []string
	for _, name := range RequiredApplicationFields {
		if !fields.present(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, domain.NewValidationError("missing required fields", missing...)
	}

	var invalid []string
	if !fields.Bool("termsAccepted") {
		invalid = append(invalid, "termsAccepted")
	}
	if !fields.Bool("privacyPolicyAccepted") {
		invalid = append(invalid, "privacyPolicyAccepted")
	}

	idType, ok := domain.NormalizeIDType(fields.String("idType"))
	switch {
	case !ok:
		invalid = append(invalid, "idType")
	case !ValidIDNumber(idType, fields.String("idNumber")):
		invalid = append(invalid, "idNumber")
	}

	ifsc := strings.ToUpper(fields.String("ifscCode"))
	if !ValidIFSC(ifsc) {
		invalid = append(invalid, "ifscCode")
	}
	if !ValidPincode(fields.String("pincode")) {
		invalid = append(invalid, "pincode")
	}
	if len(invalid) > 0 {
		return nil, domain.NewValidationError("invalid application fields", invalid...)
	}

	email := NormalizeEmail(fields.String("email"))
	phone := fields.String("phone")

	existing, err := s.apps.FindByEmailOrPhone(ctx, email, phone)
	switch {
	case err == nil:
		return nil, &domain.DuplicateApplicationError{ExistingID: existing.ApplicationID}
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("duplicate check: %w", err)
	}

	now := s.now()
	country := fields.String("country")
	if country == "" {
		country = domain.DefaultCountry
	}

	app := &models.HostApplication{
		ApplicationID: uuid.NewString(),
		PrincipalID:   principal.String(),
		Email:         email,
		Phone:         phone,
		PersonalInfo: datatypes.NewJSONType(models.PersonalInfo{
			FirstName:   fields.String("firstName"),
			LastName:    fields.String("lastName"),
			Email:       email,
			Phone:       phone,
			DateOfBirth: fields.String("dateOfBirth"),
			Gender:      fields.String("gender"),
			Bio:         fields.String("bio"),
		}),
		Identification: datatypes.NewJSONType(models.Identification{
			IDType:   idType,
			IDNumber: strings.ToUpper(fields.String("idNumber")),
		}),
		BankDetails: datatypes.NewJSONType(models.BankDetails{
			AccountHolder: fields.String("accountHolder"),
			AccountNumber: fields.String("bankAccount"),
			IFSCCode:      ifsc,
			BankName:      fields.String("bankName"),
			BranchName:    fields.String("branchName"),
		}),
		Address: datatypes.NewJSONType(models.Address{
			Street:     fields.String("address"),
			City:       fields.String("city"),
			State:      fields.String("state"),
			PostalCode: fields.String("pincode"),
			Country:    country,
		}),
		IDVerification: datatypes.NewJSONType(models.IDVerification{Status: "not_submitted"}),
		Progress: datatypes.NewJSONType(models.VerificationProgress{
			PersonalInfo:   true,
			Identification: true,
			BankDetails:    true,
			Address:        true,
		}),
		Status:        domain.StatusSubmitted,
		LastUpdatedAt: now,
	}

	if err := s.apps.Create(ctx, app); err != nil {
		if errors.Is(err, domain.ErrDuplicateEntry) {
			return nil, &domain.DuplicateApplicationError{}
		}
		return nil, fmt.Errorf("create application: %w", err)
	}

	s.recordEvent(ctx, app, "", domain.StatusSubmitted, "application submitted", principal.String())
	s.log.Info("host application submitted", map[string]interface{}{"applicationId": app.ApplicationID})
	return app, nil
}

// ValidateUpload checks the type and size of a host document
func ValidateUpload(file *Upload) error {
	if file == nil || len(file.Content) == 0 {
		return domain.NewValidationError("file is required", "file")
	}
	size := file.Size
	if size == 0 {
		size = int64(len(file.Content))
	}
	if size > MaxDocumentSize {
		return domain.NewValidationError("file exceeds the 5MB limit", "file")
	}

	contentType := strings.ToLower(strings.TrimSpace(strings.SplitN(file.ContentType, ";", 2)[0]))
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if _, ok := documentTypes[contentType]; !ok || !documentExtensions[ext] {
		return domain.NewValidationError("only images and documents (JPEG, PNG, PDF, DOC) are allowed", "file")
	}
	return nil
}

// UploadDocument stores a verification document on an application
func (s *HostApplicationService) UploadDocument(ctx context.Context, applicationID, kind string, file *Upload) (*models.HostApplication, error) {
	if !domain.IsDocumentKind(kind) {
		return nil, domain.NewValidationError("unknown document kind", "kind")
	}
	if err := ValidateUpload(file); err != nil {
		return nil, err
	}

	app, err := s.apps.GetByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	stored, err := s.store(ctx, kind, file)
	if err != nil {
		return nil, err
	}

	docs := app.Documents.Data()
	docs.Put(kind, *stored)
	app.Documents = datatypes.NewJSONType(docs)

	progress := app.Progress.Data()
	progress.Documents = docs.Complete()
	app.Progress = datatypes.NewJSONType(progress)

	if err := s.apps.Update(ctx, app); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}
	return app, nil
}

// VerifyGovernmentID stores both sides of the identity document of the
// principal's application and marks verification pending.
func (s *HostApplicationService) VerifyGovernmentID(ctx context.Context, principal domain.PrincipalID, front, back *Upload) (*models.HostApplication, error) {
	if principal.IsZero() {
		return nil, domain.ErrUnauthenticated
	}
	if front == nil {
		return nil, domain.NewValidationError("front of the id is required", "idFront")
	}
	if err := ValidateUpload(front); err != nil {
		return nil, err
	}
	if back != nil {
		if err := ValidateUpload(back); err != nil {
			return nil, err
		}
	}

	app, err := s.apps.GetByPrincipal(ctx, principal.String())
	if err != nil {
		return nil, err
	}

	docs := app.Documents.Data()
	stored, err := s.store(ctx, domain.DocGovernmentFront, front)
	if err != nil {
		return nil, err
	}
	docs.Put(domain.DocGovernmentFront, *stored)

	if back != nil {
		stored, err := s.store(ctx, domain.DocGovernmentBack, back)
		if err != nil {
			return nil, err
		}
		docs.Put(domain.DocGovernmentBack, *stored)
	}
	app.Documents = datatypes.NewJSONType(docs)

	now := s.now()
	app.IDVerification = datatypes.NewJSONType(models.IDVerification{
		Status:      domain.VerificationPending,
		SubmittedAt: &now,
	})

	progress := app.Progress.Data()
	progress.Documents = docs.Complete()
	app.Progress = datatypes.NewJSONType(progress)

	if err := s.apps.Update(ctx, app); err != nil {
		return nil, fmt.Errorf("save id verification: %w", err)
	}
	return app, nil
}

func (s *HostApplicationService) store(ctx context.Context, kind string, file *Upload) (*models.DocumentFile, error) {
	name := fmt.Sprintf("%s-%d%s", kind, s.now().UnixNano(), strings.ToLower(filepath.Ext(file.Filename)))
	img, err := s.uploader.Upload(ctx, name, file.Content)
	if err != nil {
		return nil, fmt.Errorf("store %s: %w", kind, err)
	}
	return &models.DocumentFile{
		Filename:           name,
		Path:               img.URL,
		UploadedAt:         s.now(),
		VerificationStatus: domain.VerificationPending,
	}, nil
}

// OnboardingInput is the combined host and property form
type OnboardingInput struct {
	FirstName    string   `json:"hostFirstName" form:"hostFirstName" validate:"required"`
	LastName     string   `json:"hostLastName" form:"hostLastName"`
	Email        string   `json:"hostEmail" form:"hostEmail" validate:"omitempty,email"`
	Phone        string   `json:"hostPhone" form:"hostPhone"`
	Bio          string   `json:"hostBio" form:"hostBio"`
	Title        string   `json:"title" form:"title" validate:"required,max=200"`
	Description  string   `json:"description" form:"description"`
	PropertyType string   `json:"propertyType" form:"propertyType"`
	Guests       int      `json:"guests" form:"guests" validate:"gte=1"`
	Price        float64  `json:"price" form:"price" validate:"gte=0"`
	Cancellation string   `json:"cancellation" form:"cancellation" validate:"omitempty,oneof=flexible moderate strict"`
	Category     string   `json:"category" form:"category"`
	Location     string   `json:"location" form:"location"`
	Country      string   `json:"country" form:"country"`
	Amenities    []string `json:"amenities" form:"amenities"`
	Longitude    *float64 `json:"longitude" form:"longitude"`
	Latitude     *float64 `json:"latitude" form:"latitude"`
}

// OnboardingResult is returned once onboarding is complete
type OnboardingResult struct {
	Application *models.HostApplication
	Listing     *models.Listing
}

// CompleteOnboarding records the host profile and the property draft, moves
// the application to pending-approval and materializes its hidden listing.
func (s *HostApplicationService) CompleteOnboarding(ctx context.Context, auth domain.AuthContext, input *OnboardingInput, profilePhoto *Upload, images []Upload) (*OnboardingResult, error) {
	if !auth.IsAuthenticated() {
		return nil, domain.ErrUnauthenticated
	}
	if input.Guests == 0 {
		input.Guests = domain.DefaultListingGuests
	}
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}
	if profilePhoto != nil {
		if err := ValidateUpload(profilePhoto); err != nil {
			return nil, err
		}
	}
	for i := range images {
		if err := ValidateUpload(&images[i]); err != nil {
			return nil, err
		}
	}

	app, err := s.apps.GetByPrincipal(ctx, auth.Principal.String())
	isNew := errors.Is(err, domain.ErrNotFound)
	if err != nil && !isNew {
		return nil, err
	}

	email := NormalizeEmail(input.Email)
	if email == "" {
		email = NormalizeEmail(auth.Email)
	}

	now := s.now()
	if isNew {
		app = &models.HostApplication{
			ApplicationID:  uuid.NewString(),
			PrincipalID:    auth.Principal.String(),
			Status:         domain.StatusSubmitted,
			IDVerification: datatypes.NewJSONType(models.IDVerification{Status: "not_submitted"}),
			LastUpdatedAt:  now,
		}
	}
	app.Email = email
	app.Phone = strings.TrimSpace(input.Phone)
	app.PersonalInfo = datatypes.NewJSONType(models.PersonalInfo{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Email:     email,
		Phone:     app.Phone,
		Bio:       input.Bio,
	})

	description := input.Description
	if description == "" {
		description = input.Bio
	}
	app.PropertyDetails = datatypes.NewJSONType(&models.PropertyDetails{
		Title:        input.Title,
		Description:  description,
		PropertyType: input.PropertyType,
		Guests:       input.Guests,
		Price:        input.Price,
		Cancellation: input.Cancellation,
		Category:     input.Category,
		Location:     input.Location,
		Country:      input.Country,
		Amenities:    input.Amenities,
		Longitude:    input.Longitude,
		Latitude:     input.Latitude,
	})

	docs := app.Documents.Data()
	if profilePhoto != nil {
		stored, err := s.store(ctx, domain.DocProfilePhoto, profilePhoto)
		if err != nil {
			return nil, err
		}
		docs.Put(domain.DocProfilePhoto, *stored)
	}
	for i := range images {
		stored, err := s.store(ctx, domain.DocPropertyImages, &images[i])
		if err != nil {
			return nil, err
		}
		docs.Put(domain.DocPropertyImages, *stored)
	}
	app.Documents = datatypes.NewJSONType(docs)

	progress := app.Progress.Data()
	progress.PersonalInfo = true
	progress.Documents = docs.Complete()
	app.Progress = datatypes.NewJSONType(progress)

	// A rejected, approved or suspended application keeps its status until
	// an admin moves it.
	from := app.Status
	moved := domain.CanTransition(from, domain.StatusPendingApproval)
	if moved {
		app.ApplyStatus(domain.StatusPendingApproval, now)
	}

	if isNew {
		err = s.apps.Create(ctx, app)
	} else {
		err = s.apps.Update(ctx, app)
	}
	if err != nil {
		return nil, fmt.Errorf("save onboarding: %w", err)
	}
	if moved {
		s.recordEvent(ctx, app, from, domain.StatusPendingApproval, "onboarding completed", auth.Principal.String())
	}

	listing, err := s.listings.UpsertFromApplication(ctx, BuildListingFromApplication(ctx, app, s.geocoder, s.log))
	if err != nil {
		return nil, fmt.Errorf("materialize listing: %w", err)
	}

	return &OnboardingResult{Application: app, Listing: listing}, nil
}

// ApplicationStatusView is the public progress summary of an application
type ApplicationStatusView struct {
	ApplicationID     string                      `json:"applicationId"`
	Status            domain.ApplicationStatus    `json:"status"`
	CanCreateProperty bool                        `json:"canCreateProperty"`
	Progress          models.VerificationProgress `json:"verificationProgress"`
	CompletionPercent int                         `json:"completionPercentage"`
	IDVerification    string                      `json:"idVerificationStatus"`
	OnboardingFeePaid bool                        `json:"onboardingFeePaid"`
	SubmittedAt       time.Time                   `json:"submittedAt"`
	LastUpdatedAt     time.Time                   `json:"lastUpdatedAt"`
}

// GetApplicationStatus returns the progress of an application
func (s *HostApplicationService) GetApplicationStatus(ctx context.Context, applicationID string) (*ApplicationStatusView, error) {
	app, err := s.apps.GetByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	progress := app.Progress.Data()
	return &ApplicationStatusView{
		ApplicationID:     app.ApplicationID,
		Status:            app.Status,
		CanCreateProperty: app.CanCreateProperty,
		Progress:          progress,
		CompletionPercent: progress.Percentage(),
		IDVerification:    app.IDVerification.Data().Status,
		OnboardingFeePaid: app.OnboardingFeePaid,
		SubmittedAt:       app.CreatedAt,
		LastUpdatedAt:     app.LastUpdatedAt,
	}, nil
}

// EmailAvailable reports whether no application uses email yet
func (s *HostApplicationService) EmailAvailable(ctx context.Context, email string) (bool, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return false, domain.NewValidationError("email is required", "email")
	}
	exists, err := s.apps.ExistsByEmail(ctx, email)
	return !exists, err
}

// PhoneAvailable reports whether no application uses phone yet
func (s *HostApplicationService) PhoneAvailable(ctx context.Context, phone string) (bool, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return false, domain.NewValidationError("phone is required", "phone")
	}
	exists, err := s.apps.ExistsByPhone(ctx, phone)
	return !exists, err
}

// OrderView is handed to the checkout widget
type OrderView struct {
	OrderID  string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Key      string `json:"key"`
}

// CreateOnboardingOrder opens a gateway order for the onboarding fee
func (s *HostApplicationService) CreateOnboardingOrder(ctx context.Context, applicationID string) (*OrderView, error) {
	app, err := s.apps.GetByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	receipt := fmt.Sprintf("onboard_%d_%d", app.ID, s.now().Unix())
	order, err := s.gateway.CreateOrder(ctx, OnboardingFee, Currency, receipt)
	if err != nil {
		return nil, err
	}

	app.OnboardingOrderID = order.ID
	if err := s.apps.Update(ctx, app); err != nil {
		return nil, fmt.Errorf("save onboarding order: %w", err)
	}

	return &OrderView{OrderID: order.ID, Amount: order.Amount, Currency: order.Currency, Key: s.gateway.KeyID()}, nil
}

// VerifyOnboardingPayment checks the checkout signature and records the fee
// against the order last opened for the application
func (s *HostApplicationService) VerifyOnboardingPayment(ctx context.Context, applicationID, orderID, paymentID, signature string) (*models.HostApplication, error) {
	var missing []string
	for name, v := range map[string]string{
		"applicationId":       applicationID,
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
		"razorpay_signature":  signature,
	} {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, domain.NewValidationError("missing payment details", missing...)
	}

	if !s.gateway.VerifySignature(orderID, paymentID, signature) {
		metrics.RecordSignatureFailure("onboarding")
		return nil, domain.ErrInvalidSignature
	}

	app, err := s.apps.GetByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.OnboardingOrderID == "" || app.OnboardingOrderID != orderID {
		return nil, fmt.Errorf("%w: order %s was not opened for application %s", domain.ErrOrderMismatch, orderID, applicationID)
	}
	if app.OnboardingFeePaid {
		if app.OnboardingPaymentID == paymentID {
			return app, nil
		}
		return nil, fmt.Errorf("%w: onboarding fee for %s is already paid", domain.ErrOrderMismatch, applicationID)
	}

	app.OnboardingFeePaid = true
	app.OnboardingPaymentID = paymentID
	if err := s.apps.Update(ctx, app); err != nil {
		return nil, fmt.Errorf("save onboarding payment: %w", err)
	}
	return app, nil
}

func (s *HostApplicationService) recordEvent(ctx context.Context, app *models.HostApplication, from, to domain.ApplicationStatus, note, by string) {
	recordStatusEvent(ctx, s.apps, s.log, app, from, to, note, by)
}

// recordStatusEvent appends a status history entry. The history is
// advisory; a failed write is logged only.
func recordStatusEvent(ctx context.Context, apps repositories.HostApplicationRepository, log logger.Logger, app *models.HostApplication, from, to domain.ApplicationStatus, note, by string) {
	metrics.RecordTransition(string(from), string(to))
	err := apps.AddEvent(ctx, &models.HostApplicationEvent{
		ApplicationID: app.ID,
		Kind:          models.EventStatusChange,
		FromStatus:    string(from),
		ToStatus:      string(to),
		Note:          note,
		AddedBy:       by,
	})
	if err != nil {
		log.Warn("application event not recorded", map[string]interface{}{
			"applicationId": app.ApplicationID,
			"error":         err.Error(),
		})
	}
}

// BuildListingFromApplication derives the listing an application publishes.
// Values missing from the property draft fall back to the listing defaults.
func BuildListingFromApplication(ctx context.Context, app *models.HostApplication, geocoder Geocoder, log logger.Logger) *models.Listing {
	addr := app.Address.Data()
	details := app.PropertyDetails.Data()
	if details == nil {
		details = &models.PropertyDetails{}
	}

	country := details.Country
	if country == "" {
		country = addr.State
	}
	if country == "" {
		country = domain.DefaultCountry
	}

	location := details.Location
	if location == "" {
		parts := make([]string, 0, 2)
		for _, p := range []string{addr.City, addr.State} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		location = strings.Join(parts, ", ")
	}

	listing := &models.Listing{
		Title:               orDefault(details.Title, domain.DefaultListingTitle),
		Description:         details.Description,
		PropertyType:        orDefault(details.PropertyType, domain.DefaultPropertyType),
		Guests:              details.Guests,
		Price:               details.Price,
		Cancellation:        orDefault(details.Cancellation, domain.DefaultCancellation),
		Category:            details.Category,
		Country:             country,
		Location:            location,
		HostID:              &app.ID,
		SourceApplicationID: &app.ID,
		OwnerID:             app.PrincipalID,
	}
	if listing.Guests < 1 {
		listing.Guests = domain.DefaultListingGuests
	}
	if listing.Price < 0 {
		listing.Price = 0
	}
	if !domain.IsCategory(listing.Category) {
		listing.Category = domain.DefaultCategory
	}

	docs := app.Documents.Data()
	images := make([]models.ListingImage, 0, len(docs.PropertyImages))
	for _, img := range docs.PropertyImages {
		images = append(images, models.ListingImage{URL: img.Path, Filename: img.Filename})
	}
	listing.Images = datatypes.NewJSONType(images)
	listing.Amenities = datatypes.NewJSONType(append([]string{}, details.Amenities...))

	var explicit *domain.Geometry
	if details.Longitude != nil && details.Latitude != nil {
		g := domain.NewPoint(*details.Longitude, *details.Latitude)
		explicit = &g
	}
	geometry := ResolveGeometry(ctx, geocoder, log, location, explicit)
	listing.SetGeometry(&geometry)

	return listing
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
