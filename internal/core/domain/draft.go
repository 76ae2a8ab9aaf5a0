package domain

import (
	"bytes"
	"net/mail"
	"strconv"
	"strings"
)

// Defaults applied when the intake form leaves the fixed fields blank.
const (
	DefaultRegion   = "Bono East"
	DefaultDistrict = "Techiman North"
)

// NumericInput is a form value that should hold a number. It accepts both
// JSON numbers and strings so malformed input reaches validation instead of
// failing at decode time.
type NumericInput string

// UnmarshalJSON accepts 2.5, "2.5" and null.
func (n *NumericInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 1 && data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			return err
		}
		*n = NumericInput(s)
		return nil
	}
	*n = NumericInput(data)
	return nil
}

// Float parses the value. ok is false for blank or non-numeric input.
func (n NumericInput) Float() (v float64, ok bool) {
	s := strings.TrimSpace(string(n))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// PermitDraft is the permit payload as submitted
type PermitDraft struct {
	ProposedStructure string       `json:"proposedStructure"`
	EstimatedCost     NumericInput `json:"estimatedCost"`
	Architect         string       `json:"architect,omitempty"`
	Contractor        string       `json:"contractor,omitempty"`
	DevelopmentType   string       `json:"developmentType,omitempty"`
	SiteArea          NumericInput `json:"siteArea,omitempty"`
}

// RegistrationDraft is an application as submitted by the intake form.
// It never carries an id, status or history.
type RegistrationDraft struct {
	Type          RegistrationType `json:"type"`
	Applicant     Applicant        `json:"applicant"`
	Location      Location         `json:"location"`
	SizeAcres     NumericInput     `json:"sizeAcres,omitempty"`
	LandUse       LandUse          `json:"landUse,omitempty"`
	PermitDetails *PermitDraft     `json:"permitDetails,omitempty"`
	Documents     []Document       `json:"documents,omitempty"`
}

// Build validates the draft and returns the registration payload it
// describes. Identifier, status, dates and ownership are left for the
// lifecycle manager to assign.
func (d *RegistrationDraft) Build() (*Registration, error) {
	verr := NewValidationError()

	if !d.Type.Valid() {
		verr.Add("type", "must be one of Land, Development, Building")
	}

	reg := &Registration{
		Type:      d.Type,
		Applicant: trimApplicant(d.Applicant),
		Location:  trimLocation(d.Location),
	}
	validateApplicant(reg.Applicant, verr)
	validateLocation(reg.Location, verr)

	switch d.Type {
	case TypeLand:
		size, ok := d.SizeAcres.Float()
		if !ok || size <= 0 {
			verr.Add("sizeAcres", "must be a positive number")
		}
		if !d.LandUse.Valid() {
			verr.Add("landUse", "must be one of Residential, Commercial, Agricultural, Industrial, Mixed-Use")
		}
		reg.SizeAcres = size
		reg.LandUse = d.LandUse
	case TypeDevelopment, TypeBuilding:
		reg.PermitDetails = buildPermit(d.Type, d.PermitDetails, verr)
	}

	reg.Documents = make([]Document, 0, len(d.Documents))
	for i, doc := range d.Documents {
		doc.Name = strings.TrimSpace(doc.Name)
		if doc.Name == "" {
			verr.Add("documents["+strconv.Itoa(i)+"].name", "is required")
		}
		if doc.Size < 0 {
			verr.Add("documents["+strconv.Itoa(i)+"].size", "must not be negative")
		}
		reg.Documents = append(reg.Documents, doc)
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return reg, nil
}

func buildPermit(t RegistrationType, pd *PermitDraft, verr *ValidationError) *PermitDetails {
	if pd == nil {
		verr.Add("permitDetails.proposedStructure", "is required")
		verr.Add("permitDetails.estimatedCost", "must be a positive number")
		return nil
	}

	out := &PermitDetails{ProposedStructure: strings.TrimSpace(pd.ProposedStructure)}
	if out.ProposedStructure == "" {
		verr.Add("permitDetails.proposedStructure", "is required")
	}
	cost, ok := pd.EstimatedCost.Float()
	if !ok || cost <= 0 {
		verr.Add("permitDetails.estimatedCost", "must be a positive number")
	}
	out.EstimatedCost = cost

	switch t {
	case TypeBuilding:
		out.Architect = strings.TrimSpace(pd.Architect)
		out.Contractor = strings.TrimSpace(pd.Contractor)
	case TypeDevelopment:
		out.DevelopmentType = strings.TrimSpace(pd.DevelopmentType)
		if strings.TrimSpace(string(pd.SiteArea)) != "" {
			area, ok := pd.SiteArea.Float()
			if !ok || area <= 0 {
				verr.Add("permitDetails.siteArea", "must be a positive number")
			}
			out.SiteArea = area
		}
	}
	return out
}

func trimApplicant(a Applicant) Applicant {
	a.FullName = strings.TrimSpace(a.FullName)
	a.Address = strings.TrimSpace(a.Address)
	a.Phone = strings.TrimSpace(a.Phone)
	a.Email = strings.TrimSpace(a.Email)
	a.IDNumber = strings.TrimSpace(a.IDNumber)
	return a
}

func validateApplicant(a Applicant, verr *ValidationError) {
	if a.FullName == "" {
		verr.Add("applicant.fullName", "is required")
	}
	if a.Phone == "" {
		verr.Add("applicant.phone", "is required")
	}
	if a.Email != "" {
		if _, err := mail.ParseAddress(a.Email); err != nil {
			verr.Add("applicant.email", "is not a valid email address")
		}
	}
	if !a.IDType.Valid() {
		verr.Add("applicant.idType", "must be one of Ghana Card, Passport, Drivers License")
	}
	switch {
	case a.IDNumber == "":
		verr.Add("applicant.idNumber", "is required")
	case a.IDType == IDGhanaCard && !ValidGhanaCard(a.IDNumber):
		verr.Add("applicant.idNumber", "must match GHA-XXXXXXXXX-X")
	}
}

func trimLocation(l Location) Location {
	l.Region = strings.TrimSpace(l.Region)
	l.District = strings.TrimSpace(l.District)
	l.Town = strings.TrimSpace(l.Town)
	l.GPSCoordinates.Latitude = strings.TrimSpace(l.GPSCoordinates.Latitude)
	l.GPSCoordinates.Longitude = strings.TrimSpace(l.GPSCoordinates.Longitude)
	if l.Region == "" {
		l.Region = DefaultRegion
	}
	if l.District == "" {
		l.District = DefaultDistrict
	}
	return l
}

func validateLocation(l Location, verr *ValidationError) {
	if l.Town == "" {
		verr.Add("location.town", "is required")
	}
	if lat := l.GPSCoordinates.Latitude; lat != "" {
		if _, ok := NumericInput(lat).Float(); !ok {
			verr.Add("location.gpsCoordinates.latitude", "must be numeric")
		}
	}
	if lng := l.GPSCoordinates.Longitude; lng != "" {
		if _, ok := NumericInput(lng).Float(); !ok {
			verr.Add("location.gpsCoordinates.longitude", "must be numeric")
		}
	}
}
