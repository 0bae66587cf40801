package store

import (
	"database/sql"
	"time"

	"github.com/SatyaDevireddy/dental-insurance-chatbot/models"
)

// Scan targets for the Postgres loader. They exist so nullable columns can go
// through database/sql null types before reaching the models.

type memberRow struct {
	MemberID      string
	FirstName     string
	LastName      string
	DateOfBirth   time.Time
	Email         string
	Phone         string
	Address       string
	GroupNumber   string
	PlanID        string
	EffectiveDate time.Time
}

func (r memberRow) toModel() models.Member {
	return models.Member{
		MemberID:      r.MemberID,
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		DateOfBirth:   r.DateOfBirth,
		Email:         r.Email,
		Phone:         r.Phone,
		Address:       r.Address,
		GroupNumber:   r.GroupNumber,
		PlanID:        r.PlanID,
		EffectiveDate: r.EffectiveDate,
	}
}

type dependentRow struct {
	DependentID     string
	PrimaryMemberID string
	FirstName       string
	LastName        string
	DateOfBirth     time.Time
	Relationship    string
	EffectiveDate   time.Time
}

func (r dependentRow) toModel() models.Dependent {
	return models.Dependent{
		DependentID:     r.DependentID,
		PrimaryMemberID: r.PrimaryMemberID,
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		DateOfBirth:     r.DateOfBirth,
		Relationship:    r.Relationship,
		EffectiveDate:   r.EffectiveDate,
	}
}

type coverageRow struct {
	PlanID                string
	CoverageType          string
	AnnualMaximum         float64
	Deductible            float64
	CoinsurancePercentage int
	FrequencyLimit        string
	WaitingPeriodDays     int
}

func (r coverageRow) toModel() models.Coverage {
	return models.Coverage{
		PlanID:                r.PlanID,
		CoverageType:          models.CoverageType(r.CoverageType),
		AnnualMaximum:         r.AnnualMaximum,
		Deductible:            r.Deductible,
		CoinsurancePercentage: r.CoinsurancePercentage,
		FrequencyLimit:        r.FrequencyLimit,
		WaitingPeriodDays:     r.WaitingPeriodDays,
	}
}

type procedureRow struct {
	ProcedureCode string
	ProcedureName string
	Description   string
	CoverageType  string
	TypicalCost   float64
}

func (r procedureRow) toModel() models.Procedure {
	return models.Procedure{
		ProcedureCode: r.ProcedureCode,
		ProcedureName: r.ProcedureName,
		Description:   r.Description,
		CoverageType:  models.CoverageType(r.CoverageType),
		TypicalCost:   r.TypicalCost,
	}
}

type claimRow struct {
	ClaimID               string
	MemberID              string
	PatientName           string
	ProviderName          string
	ProviderNPI           string
	ServiceDate           time.Time
	SubmissionDate        time.Time
	ProcedureCode         string
	ProcedureDescription  string
	BilledAmount          float64
	AllowedAmount         float64
	CoveredAmount         float64
	PatientResponsibility float64
	Status                string
	DenialReason          string
	PaymentDate           sql.NullTime
}

func (r claimRow) toModel() models.Claim {
	c := models.Claim{
		ClaimID:               r.ClaimID,
		MemberID:              r.MemberID,
		PatientName:           r.PatientName,
		ProviderName:          r.ProviderName,
		ProviderNPI:           r.ProviderNPI,
		ServiceDate:           r.ServiceDate,
		SubmissionDate:        r.SubmissionDate,
		ProcedureCode:         r.ProcedureCode,
		ProcedureDescription:  r.ProcedureDescription,
		BilledAmount:          r.BilledAmount,
		AllowedAmount:         r.AllowedAmount,
		CoveredAmount:         r.CoveredAmount,
		PatientResponsibility: r.PatientResponsibility,
		Status:                models.ClaimStatus(r.Status),
		DenialReason:          r.DenialReason,
	}
	if r.PaymentDate.Valid {
		t := r.PaymentDate.Time
		c.PaymentDate = &t
	}
	return c
}

type idCardRow struct {
	MemberID             string
	MemberName           string
	GroupNumber          string
	PlanID               string
	PlanName             string
	EffectiveDate        time.Time
	MemberIDDisplay      string
	CustomerServicePhone string
	ClaimsAddress        string
}

func (r idCardRow) toModel() models.IDCard {
	return models.IDCard{
		MemberID:             r.MemberID,
		MemberName:           r.MemberName,
		GroupNumber:          r.GroupNumber,
		PlanID:               r.PlanID,
		PlanName:             r.PlanName,
		EffectiveDate:        r.EffectiveDate,
		MemberIDDisplay:      r.MemberIDDisplay,
		CustomerServicePhone: r.CustomerServicePhone,
		ClaimsAddress:        r.ClaimsAddress,
	}
}

type benefitUsageRow struct {
	MemberID            string
	PlanYear            int
	AnnualMaximum       float64
	UsedAmount          float64
	RemainingAmount     float64
	Deductible          float64
	DeductibleMet       float64
	DeductibleRemaining float64
	LastUpdated         time.Time
}

func (r benefitUsageRow) toModel() models.BenefitUsage {
	return models.BenefitUsage{
		MemberID:            r.MemberID,
		PlanYear:            r.PlanYear,
		AnnualMaximum:       r.AnnualMaximum,
		UsedAmount:          r.UsedAmount,
		RemainingAmount:     r.RemainingAmount,
		Deductible:          r.Deductible,
		DeductibleMet:       r.DeductibleMet,
		DeductibleRemaining: r.DeductibleRemaining,
		LastUpdated:         r.LastUpdated,
	}
}

type planDocumentRow struct {
	DocumentID   string
	PlanID       string
	DocumentType string
	Title        string
	Content      string
	LastUpdated  time.Time
}

func (r planDocumentRow) toModel() models.PlanDocument {
	return models.PlanDocument{
		DocumentID:   r.DocumentID,
		PlanID:       r.PlanID,
		DocumentType: r.DocumentType,
		Title:        r.Title,
		Content:      r.Content,
		LastUpdated:  r.LastUpdated,
	}
}
