package domain

import "time"

// RegistrationType is the kind of application being registered
type RegistrationType string

const (
	TypeLand        RegistrationType = "Land"
	TypeDevelopment RegistrationType = "Development"
	TypeBuilding    RegistrationType = "Building"
)

// Prefix returns the identifier prefix for the type, or "" if unknown.
func (t RegistrationType) Prefix() string {
	switch t {
	case TypeLand:
		return "LND"
	case TypeDevelopment:
		return "DEV"
	case TypeBuilding:
		return "BLD"
	default:
		return ""
	}
}

// Valid reports whether t is a known registration type.
func (t RegistrationType) Valid() bool {
	return t.Prefix() != ""
}

// Status is the review state of a registration
type Status string

const (
	StatusPending  Status = "Pending Review"
	StatusApproved Status = "Approved"
	StatusQueried  Status = "Queried"
	StatusRejected Status = "Rejected"
)

// Statuses lists every status.
var Statuses = []Status{StatusPending, StatusApproved, StatusQueried, StatusRejected}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusQueried, StatusRejected:
		return true
	default:
		return false
	}
}

// LandUse is the declared use of a land parcel
type LandUse string

const (
	LandUseResidential  LandUse = "Residential"
	LandUseCommercial   LandUse = "Commercial"
	LandUseAgricultural LandUse = "Agricultural"
	LandUseIndustrial   LandUse = "Industrial"
	LandUseMixed        LandUse = "Mixed-Use"
)

// Valid reports whether u is a known land use.
func (u LandUse) Valid() bool {
	switch u {
	case LandUseResidential, LandUseCommercial, LandUseAgricultural, LandUseIndustrial, LandUseMixed:
		return true
	default:
		return false
	}
}

// IDType is the applicant's identity document kind
type IDType string

const (
	IDGhanaCard      IDType = "Ghana Card"
	IDPassport       IDType = "Passport"
	IDDriversLicense IDType = "Drivers License"
)

// Valid reports whether t is an accepted identity document.
func (t IDType) Valid() bool {
	switch t {
	case IDGhanaCard, IDPassport, IDDriversLicense:
		return true
	default:
		return false
	}
}

// Applicant is the person the application is filed for
type Applicant struct {
	FullName string `json:"fullName"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	IDType   IDType `json:"idType"`
	IDNumber string `json:"idNumber"`
}

// GPSCoordinates are kept as the free-text values entered on the form.
type GPSCoordinates struct {
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// Location of the parcel or site
type Location struct {
	Region         string         `json:"region"`
	District       string         `json:"district"`
	Town           string         `json:"town"`
	GPSCoordinates GPSCoordinates `json:"gpsCoordinates"`
}

// PermitDetails carries the development/building permit payload
type PermitDetails struct {
	ProposedStructure string  `json:"proposedStructure"`
	EstimatedCost     float64 `json:"estimatedCost"`
	// Building only
	Architect  string `json:"architect,omitempty"`
	Contractor string `json:"contractor,omitempty"`
	// Development only
	DevelopmentType string  `json:"developmentType,omitempty"`
	SiteArea        float64 `json:"siteArea,omitempty"`
}

// Document is a file attached at intake
type Document struct {
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	MimeType   string `json:"type"`
	StorageRef string `json:"url"`
}

// StatusEntry is one row of the status history ledger
type StatusEntry struct {
	Status Status    `json:"status"`
	Date   time.Time `json:"date"`
	Notes  string    `json:"notes"`
}

// Registration is a land, development or building application
type Registration struct {
	ID             string           `json:"id"`
	Type           RegistrationType `json:"type"`
	Applicant      Applicant        `json:"applicant"`
	Location       Location         `json:"location"`
	SizeAcres      float64          `json:"sizeAcres,omitempty"`
	LandUse        LandUse          `json:"landUse,omitempty"`
	PermitDetails  *PermitDetails   `json:"permitDetails,omitempty"`
	Status         Status           `json:"status"`
	SubmissionDate time.Time        `json:"submissionDate"`
	Documents      []Document       `json:"documents"`
	StatusHistory  []StatusEntry    `json:"statusHistory"`
	SubmittedBy    string           `json:"submittedBy"`
}

// Clone returns a deep copy so callers never alias stored state.
func (r *Registration) Clone() *Registration {
	if r == nil {
		return nil
	}
	c := *r
	if r.PermitDetails != nil {
		pd := *r.PermitDetails
		c.PermitDetails = &pd
	}
	c.Documents = append([]Document(nil), r.Documents...)
	c.StatusHistory = append([]StatusEntry(nil), r.StatusHistory...)
	return &c
}

// RecordStatus sets the current status and prepends it to the history.
func (r *Registration) RecordStatus(status Status, at time.Time, notes string) {
	r.Status = status
	entry := StatusEntry{Status: status, Date: at, Notes: notes}
	r.StatusHistory = append([]StatusEntry{entry}, r.StatusHistory...)
}

// StatusStats counts registrations per status for the dashboards
type StatusStats struct {
	Total    int `json:"total"`
	Approved int `json:"approved"`
	Pending  int `json:"pending"`
	Queried  int `json:"queried"`
	Rejected int `json:"rejected"`
}

// CountStatuses tallies regs by status.
func CountStatuses(regs []*Registration) StatusStats {
	var s StatusStats
	for _, r := range regs {
		s.Total++
		switch r.Status {
		case StatusApproved:
			s.Approved++
		case StatusPending:
			s.Pending++
		case StatusQueried:
			s.Queried++
		case StatusRejected:
			s.Rejected++
		}
	}
	return s
}
