package models

import "time"

// ClaimStatus is the lifecycle state of an insurance claim.
type ClaimStatus string

const (
	ClaimSubmitted  ClaimStatus = "submitted"
	ClaimProcessing ClaimStatus = "processing"
	ClaimApproved   ClaimStatus = "approved"
	ClaimDenied     ClaimStatus = "denied"
	ClaimPaid       ClaimStatus = "paid"
)

// ValidClaimStatus reports whether s is one of the known claim statuses.
func ValidClaimStatus(s ClaimStatus) bool {
	switch s {
	case ClaimSubmitted, ClaimProcessing, ClaimApproved, ClaimDenied, ClaimPaid:
		return true
	}
	return false
}

// CoverageType is the benefit class a procedure falls under.
type CoverageType string

const (
	CoveragePreventive  CoverageType = "preventive"
	CoverageBasic       CoverageType = "basic"
	CoverageMajor       CoverageType = "major"
	CoverageOrthodontic CoverageType = "orthodontic"
)

// Member is a primary plan member.
type Member struct {
	MemberID      string    `json:"member_id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	DateOfBirth   time.Time `json:"date_of_birth"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address"`
	GroupNumber   string    `json:"group_number"`
	PlanID        string    `json:"plan_id"`
	EffectiveDate time.Time `json:"effective_date"`
}

// Name returns the member's display name, the correlation key used to match
// claims to the person they were filed for.
func (m Member) Name() string { return m.FirstName + " " + m.LastName }

// Dependent is a family member covered under a primary member's plan.
type Dependent struct {
	DependentID     string    `json:"dependent_id"`
	PrimaryMemberID string    `json:"primary_member_id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	DateOfBirth     time.Time `json:"date_of_birth"`
	Relationship    string    `json:"relationship"` // spouse, child, ...
	EffectiveDate   time.Time `json:"effective_date"`
}

// Name returns the dependent's display name.
func (d Dependent) Name() string { return d.FirstName + " " + d.LastName }

// Claim is a single insurance claim. Claims are filed under the primary
// member's ID even when the patient is a dependent; PatientName identifies
// who the service was for.
type Claim struct {
	ClaimID               string      `json:"claim_id"`
	MemberID              string      `json:"member_id"`
	PatientName           string      `json:"patient_name"`
	ProviderName          string      `json:"provider_name"`
	ProviderNPI           string      `json:"provider_npi"`
	ServiceDate           time.Time   `json:"service_date"`
	SubmissionDate        time.Time   `json:"submission_date"`
	ProcedureCode         string      `json:"procedure_code"`
	ProcedureDescription  string      `json:"procedure_description"`
	BilledAmount          float64     `json:"billed_amount"`
	AllowedAmount         float64     `json:"allowed_amount"`
	CoveredAmount         float64     `json:"covered_amount"`
	PatientResponsibility float64     `json:"patient_responsibility"`
	Status                ClaimStatus `json:"status"`
	DenialReason          string      `json:"denial_reason,omitempty"`
	PaymentDate           *time.Time  `json:"payment_date,omitempty"`
}

// Coverage describes one benefit class of a plan. A plan has one Coverage row
// per coverage type.
type Coverage struct {
	PlanID                string       `json:"plan_id"`
	CoverageType          CoverageType `json:"coverage_type"`
	AnnualMaximum         float64      `json:"annual_maximum"`
	Deductible            float64      `json:"deductible"`
	CoinsurancePercentage int          `json:"coinsurance_percentage"` // e.g. 80 means the plan pays 80%
	FrequencyLimit        string       `json:"frequency_limit,omitempty"`
	WaitingPeriodDays     int          `json:"waiting_period_days"`
}

// Procedure is a dental procedure from the plan's catalog.
type Procedure struct {
	ProcedureCode string       `json:"procedure_code"`
	ProcedureName string       `json:"procedure_name"`
	Description   string       `json:"description"`
	CoverageType  CoverageType `json:"coverage_type"`
	TypicalCost   float64      `json:"typical_cost"`
}

// IDCard is the printable member ID card information.
type IDCard struct {
	MemberID             string    `json:"member_id"`
	MemberName           string    `json:"member_name"`
	GroupNumber          string    `json:"group_number"`
	PlanID               string    `json:"plan_id"`
	PlanName             string    `json:"plan_name"`
	EffectiveDate        time.Time `json:"effective_date"`
	MemberIDDisplay      string    `json:"member_id_display"`
	CustomerServicePhone string    `json:"customer_service_phone"`
	ClaimsAddress        string    `json:"claims_address"`
}

// BenefitUsage tracks how much of the annual maximum and deductible a member
// has consumed in a plan year.
type BenefitUsage struct {
	MemberID            string    `json:"member_id"`
	PlanYear            int       `json:"plan_year"`
	AnnualMaximum       float64   `json:"annual_maximum"`
	UsedAmount          float64   `json:"used_amount"`
	RemainingAmount     float64   `json:"remaining_amount"`
	Deductible          float64   `json:"deductible"`
	DeductibleMet       float64   `json:"deductible_met"`
	DeductibleRemaining float64   `json:"deductible_remaining"`
	LastUpdated         time.Time `json:"last_updated"`
}

// PlanDocument is an unstructured plan document fed to the retrieval index.
type PlanDocument struct {
	DocumentID   string    `json:"document_id"`
	PlanID       string    `json:"plan_id"`
	DocumentType string    `json:"document_type"` // policy, benefits_summary, faq, provider_directory, ...
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	LastUpdated  time.Time `json:"last_updated"`
}
