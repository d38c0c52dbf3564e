package domain

import "strings"

// ApplicationStatus is the closed set of host application states
type ApplicationStatus string

const (
	StatusDraft               ApplicationStatus = "draft"
	StatusSubmitted           ApplicationStatus = "submitted"
	StatusUnderReview         ApplicationStatus = "under_review"
	StatusVerificationPending ApplicationStatus = "verification_pending"
	StatusPendingApproval     ApplicationStatus = "pending-approval"
	StatusApproved            ApplicationStatus = "approved"
	StatusRejected            ApplicationStatus = "rejected"
	StatusSuspended           ApplicationStatus = "suspended"
)

// AllApplicationStatuses lists every status in lifecycle order
var AllApplicationStatuses = []ApplicationStatus{
	StatusDraft,
	StatusSubmitted,
	StatusUnderReview,
	StatusVerificationPending,
	StatusPendingApproval,
	StatusApproved,
	StatusRejected,
	StatusSuspended,
}

// ParseApplicationStatus accepts the canonical value and a few spellings
// seen in admin forms ("under-review", "pending_approval").
func ParseApplicationStatus(s string) (ApplicationStatus, bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "under-review":
		v = string(StatusUnderReview)
	case "verification-pending":
		v = string(StatusVerificationPending)
	case "pending_approval":
		v = string(StatusPendingApproval)
	}
	for _, st := range AllApplicationStatuses {
		if string(st) == v {
			return st, true
		}
	}
	return "", false
}

// Valid reports whether s is a member of the enum
func (s ApplicationStatus) Valid() bool {
	for _, st := range AllApplicationStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// Targets returns the statuses reachable from s
func (s ApplicationStatus) Targets() []ApplicationStatus {
	switch s {
	case StatusDraft:
		return []ApplicationStatus{StatusSubmitted}
	case StatusSubmitted:
		return []ApplicationStatus{StatusUnderReview, StatusVerificationPending, StatusPendingApproval, StatusApproved, StatusRejected}
	case StatusUnderReview:
		return []ApplicationStatus{StatusVerificationPending, StatusPendingApproval, StatusApproved, StatusRejected}
	case StatusVerificationPending:
		return []ApplicationStatus{StatusUnderReview, StatusPendingApproval, StatusApproved, StatusRejected}
	case StatusPendingApproval:
		return []ApplicationStatus{StatusUnderReview, StatusApproved, StatusRejected}
	case StatusApproved:
		return []ApplicationStatus{StatusApproved, StatusSuspended}
	case StatusRejected:
		return []ApplicationStatus{StatusUnderReview, StatusApproved}
	case StatusSuspended:
		return []ApplicationStatus{StatusApproved, StatusRejected}
	default:
		return nil
	}
}

// CanTransition reports whether from -> to is allowed
func CanTransition(from, to ApplicationStatus) bool {
	for _, t := range from.Targets() {
		if t == to {
			return true
		}
	}
	return false
}

// GrantsPropertyCreation reports the canCreateProperty value implied by s.
// The second result is false when s leaves the flag untouched.
func (s ApplicationStatus) GrantsPropertyCreation() (allowed bool, decided bool) {
	switch s {
	case StatusApproved:
		return true, true
	case StatusRejected, StatusSuspended:
		return false, true
	default:
		return false, false
	}
}

// IDType is the identity document kind
type IDType string

const (
	IDNationalID    IDType = "national-id"
	IDPassport      IDType = "passport"
	IDDriverLicense IDType = "driver-license"
	IDVoterID       IDType = "voter-id"
	IDTaxID         IDType = "tax-id"
)

var idTypeAliases = map[string]IDType{
	"national-id":     IDNationalID,
	"national_id":     IDNationalID,
	"aadhaar":         IDNationalID,
	"aadhar":          IDNationalID,
	"passport":        IDPassport,
	"driver-license":  IDDriverLicense,
	"driving-license": IDDriverLicense,
	"driving_license": IDDriverLicense,
	"dl":              IDDriverLicense,
	"voter-id":        IDVoterID,
	"voter":           IDVoterID,
	"voter_id":        IDVoterID,
	"tax-id":          IDTaxID,
	"pan":             IDTaxID,
}

// NormalizeIDType maps regional synonyms to the canonical enum value
func NormalizeIDType(s string) (IDType, bool) {
	t, ok := idTypeAliases[strings.ToLower(strings.TrimSpace(s))]
	return t, ok
}

// Document kinds stored on a host application
const (
	DocProfilePhoto    = "profilePhoto"
	DocGovernmentID    = "governmentId"
	DocGovernmentFront = "governmentIdFront"
	DocGovernmentBack  = "governmentIdBack"
	DocBankStatement   = "bankStatement"
	DocAddressProof    = "addressProof"
	DocPropertyImages  = "propertyImages"
	DocPropertyVideo   = "propertyVideo"
)

// RequiredDocuments must all be present before the documents section is complete
var RequiredDocuments = []string{DocProfilePhoto, DocGovernmentID, DocBankStatement, DocAddressProof}

// IsDocumentKind reports whether kind is accepted for upload
func IsDocumentKind(kind string) bool {
	switch kind {
	case DocProfilePhoto, DocGovernmentID, DocGovernmentFront, DocGovernmentBack,
		DocBankStatement, DocAddressProof, DocPropertyImages, DocPropertyVideo:
		return true
	}
	return false
}

// Document verification states
const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
	VerificationRejected = "rejected"
)
