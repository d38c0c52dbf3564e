package models

import (
	"math"
	"time"

	"homyhive/internal/core/domain"

	"gorm.io/datatypes"
)

// ============================================================
// Host onboarding
// ============================================================

// PersonalInfo section of a host application
type PersonalInfo struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dateOfBirth"`
	Gender      string `json:"gender"`
	Bio         string `json:"bio,omitempty"`
}

// FullName joins first and last name
func (p PersonalInfo) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// Identification section
type Identification struct {
	IDType   domain.IDType `json:"idType"`
	IDNumber string        `json:"idNumber"`
}

// BankDetails section
type BankDetails struct {
	AccountHolder string `json:"accountHolder"`
	AccountNumber string `json:"accountNumber"`
	IFSCCode      string `json:"ifscCode"`
	BankName      string `json:"bankName,omitempty"`
	BranchName    string `json:"branchName,omitempty"`
}

// Address section
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// PropertyDetails is the listing draft captured during onboarding
type PropertyDetails struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	PropertyType string   `json:"propertyType"`
	Guests       int      `json:"guests"`
	Price        float64  `json:"price"`
	Cancellation string   `json:"cancellation"`
	Category     string   `json:"category"`
	Location     string   `json:"location"`
	Country      string   `json:"country"`
	Amenities    []string `json:"amenities"`
	Longitude    *float64 `json:"longitude,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
}

// DocumentFile describes one stored upload
type DocumentFile struct {
	Filename           string    `json:"filename"`
	Path               string    `json:"path"`
	UploadedAt         time.Time `json:"uploadedAt"`
	VerificationStatus string    `json:"verificationStatus"`
}

// GovernmentID holds both sides of the identity document
type GovernmentID struct {
	Front *DocumentFile `json:"front,omitempty"`
	Back  *DocumentFile `json:"back,omitempty"`
}

// Documents holds every uploaded file by kind
type Documents struct {
	ProfilePhoto   *DocumentFile  `json:"profilePhoto,omitempty"`
	GovernmentID   *GovernmentID  `json:"governmentId,omitempty"`
	BankStatement  *DocumentFile  `json:"bankStatement,omitempty"`
	AddressProof   *DocumentFile  `json:"addressProof,omitempty"`
	PropertyImages []DocumentFile `json:"propertyImages,omitempty"`
	PropertyVideo  *DocumentFile  `json:"propertyVideo,omitempty"`
}

// Put stores file under kind. Property images are appended.
func (d *Documents) Put(kind string, file DocumentFile) {
	switch kind {
	case domain.DocProfilePhoto:
		d.ProfilePhoto = &file
	case domain.DocGovernmentID, domain.DocGovernmentFront:
		if d.GovernmentID == nil {
			d.GovernmentID = &GovernmentID{}
		}
		d.GovernmentID.Front = &file
	case domain.DocGovernmentBack:
		if d.GovernmentID == nil {
			d.GovernmentID = &GovernmentID{}
		}
		d.GovernmentID.Back = &file
	case domain.DocBankStatement:
		d.BankStatement = &file
	case domain.DocAddressProof:
		d.AddressProof = &file
	case domain.DocPropertyImages:
		d.PropertyImages = append(d.PropertyImages, file)
	case domain.DocPropertyVideo:
		d.PropertyVideo = &file
	}
}

// Has reports whether a document of kind is present
func (d *Documents) Has(kind string) bool {
	switch kind {
	case domain.DocProfilePhoto:
		return d.ProfilePhoto != nil
	case domain.DocGovernmentID, domain.DocGovernmentFront:
		return d.GovernmentID != nil && d.GovernmentID.Front != nil
	case domain.DocGovernmentBack:
		return d.GovernmentID != nil && d.GovernmentID.Back != nil
	case domain.DocBankStatement:
		return d.BankStatement != nil
	case domain.DocAddressProof:
		return d.AddressProof != nil
	case domain.DocPropertyImages:
		return len(d.PropertyImages) > 0
	case domain.DocPropertyVideo:
		return d.PropertyVideo != nil
	}
	return false
}

// Complete reports whether every required document has been uploaded
func (d *Documents) Complete() bool {
	for _, kind := range domain.RequiredDocuments {
		if !d.Has(kind) {
			return false
		}
	}
	return true
}

// IDVerification tracks the government id review
type IDVerification struct {
	Status      string     `json:"status"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
}

// VerificationProgress has one flag per application section
type VerificationProgress struct {
	PersonalInfo   bool `json:"personalInfo"`
	Identification bool `json:"identification"`
	BankDetails    bool `json:"bankDetails"`
	Address        bool `json:"address"`
	Documents      bool `json:"documents"`
}

// Percentage returns completed/total * 100, rounded
func (p VerificationProgress) Percentage() int {
	flags := []bool{p.PersonalInfo, p.Identification, p.BankDetails, p.Address, p.Documents}
	done := 0
	for _, f := range flags {
		if f {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(len(flags)) * 100))
}

// HostApplication is a host onboarding application
type HostApplication struct {
	ID                  uint                                     `gorm:"primaryKey" json:"id"`
	ApplicationID       string                                   `gorm:"uniqueIndex;size:36;not null" json:"applicationId"`
	PrincipalID         string                                   `gorm:"size:64;index" json:"principalId,omitempty"`
	Email               string                                   `gorm:"size:191;index" json:"email"`
	Phone               string                                   `gorm:"size:20;index" json:"phone"`
	PersonalInfo        datatypes.JSONType[PersonalInfo]         `json:"personalInfo"`
	Identification      datatypes.JSONType[Identification]       `json:"identification"`
	BankDetails         datatypes.JSONType[BankDetails]          `json:"bankDetails"`
	Address             datatypes.JSONType[Address]              `json:"address"`
	PropertyDetails     datatypes.JSONType[*PropertyDetails]     `json:"propertyDetails"`
	Documents           datatypes.JSONType[Documents]            `json:"documents"`
	IDVerification      datatypes.JSONType[IDVerification]       `json:"idVerification"`
	Progress            datatypes.JSONType[VerificationProgress] `json:"verificationProgress"`
	Status              domain.ApplicationStatus                 `gorm:"size:30;index;not null" json:"applicationStatus"`
	CanCreateProperty   bool                                     `gorm:"default:false" json:"canCreateProperty"`
	ApprovedAt          *time.Time                               `json:"approvedAt,omitempty"`
	RejectedAt          *time.Time                               `json:"rejectedAt,omitempty"`
	LastUpdatedAt       time.Time                                `json:"lastUpdatedAt"`
	OnboardingFeePaid   bool                                     `gorm:"default:false" json:"onboardingFeePaid"`
	OnboardingOrderID   string                                   `gorm:"size:64" json:"onboardingOrderId,omitempty"`
	OnboardingPaymentID string                                   `gorm:"size:64" json:"onboardingPaymentId,omitempty"`
	CreatedAt           time.Time                                `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt           time.Time                                `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (HostApplication) TableName() string {
	return "host_applications"
}

// ApplyStatus moves the application to status and applies the timestamp
// and permission side effects of entering it.
func (a *HostApplication) ApplyStatus(status domain.ApplicationStatus, now time.Time) {
	a.Status = status
	a.LastUpdatedAt = now

	if allowed, decided := status.GrantsPropertyCreation(); decided {
		a.CanCreateProperty = allowed
	}

	switch status {
	case domain.StatusApproved:
		if a.ApprovedAt == nil {
			a.ApprovedAt = &now
		}
		a.RejectedAt = nil
	case domain.StatusRejected:
		if a.RejectedAt == nil {
			a.RejectedAt = &now
		}
		a.ApprovedAt = nil
	}
}

// Event kinds
const (
	EventStatusChange = "status"
	EventNote         = "note"
)

// HostApplicationEvent is one entry of the append-only application history
type HostApplicationEvent struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ApplicationID uint      `gorm:"index;not null" json:"applicationId"`
	Kind          string    `gorm:"size:20;not null" json:"kind"`
	FromStatus    string    `gorm:"size:30" json:"fromStatus,omitempty"`
	ToStatus      string    `gorm:"size:30" json:"toStatus,omitempty"`
	Note          string    `gorm:"type:text" json:"note,omitempty"`
	AddedBy       string    `gorm:"size:64" json:"addedBy"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"addedAt"`
}

func (HostApplicationEvent) TableName() string {
	return "host_application_events"
}
