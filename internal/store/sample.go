package store

import (
	"time"

	"github.com/SatyaDevireddy/dental-insurance-chatbot/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

// LoadSampleData populates the store with the bundled demo data set: three
// primary members, the Smith family dependents, the PLAN001 coverage rows,
// the procedure catalog and six claims for MEM001's family.
func LoadSampleData(s *Store) {
	s.AddMember(models.Member{
		MemberID: "MEM001", FirstName: "John", LastName: "Smith",
		DateOfBirth: date(1985, 3, 15), Email: "john.smith@example.com",
		Phone: "555-123-4567", Address: "123 Main St, Anytown, ST 12345",
		GroupNumber: "GRP12345", PlanID: "PLAN001", EffectiveDate: date(2024, 1, 1),
	})
	s.AddMember(models.Member{
		MemberID: "MEM002", FirstName: "Sarah", LastName: "Johnson",
		DateOfBirth: date(1990, 8, 22), Email: "sarah.johnson@example.com",
		Phone: "555-234-5678", Address: "456 Oak Ave, Springfield, ST 67890",
		GroupNumber: "GRP12346", PlanID: "PLAN001", EffectiveDate: date(2024, 1, 1),
	})
	s.AddMember(models.Member{
		MemberID: "MEM003", FirstName: "Robert", LastName: "Davis",
		DateOfBirth: date(1978, 11, 5), Email: "robert.davis@example.com",
		Phone: "555-345-6789", Address: "789 Pine Rd, Riverside, ST 11223",
		GroupNumber: "GRP12347", PlanID: "PLAN001", EffectiveDate: date(2024, 1, 1),
	})

	s.AddDependent(models.Dependent{
		DependentID: "DEP001", PrimaryMemberID: "MEM001", FirstName: "Jane", LastName: "Smith",
		DateOfBirth: date(1987, 7, 22), Relationship: "spouse", EffectiveDate: date(2024, 1, 1),
	})
	s.AddDependent(models.Dependent{
		DependentID: "DEP002", PrimaryMemberID: "MEM001", FirstName: "Emily", LastName: "Smith",
		DateOfBirth: date(2015, 5, 10), Relationship: "child", EffectiveDate: date(2024, 1, 1),
	})
	s.AddDependent(models.Dependent{
		DependentID: "DEP003", PrimaryMemberID: "MEM001", FirstName: "Michael", LastName: "Smith",
		DateOfBirth: date(2018, 9, 3), Relationship: "child", EffectiveDate: date(2024, 1, 1),
	})

	for _, c := range []models.Coverage{
		{PlanID: "PLAN001", CoverageType: models.CoveragePreventive, AnnualMaximum: 999999, Deductible: 0, CoinsurancePercentage: 100, FrequencyLimit: "Twice per year", WaitingPeriodDays: 0},
		{PlanID: "PLAN001", CoverageType: models.CoverageBasic, AnnualMaximum: 2000, Deductible: 50, CoinsurancePercentage: 80, WaitingPeriodDays: 0},
		{PlanID: "PLAN001", CoverageType: models.CoverageMajor, AnnualMaximum: 2000, Deductible: 50, CoinsurancePercentage: 50, WaitingPeriodDays: 180},
		{PlanID: "PLAN001", CoverageType: models.CoverageOrthodontic, AnnualMaximum: 2000, Deductible: 0, CoinsurancePercentage: 50, WaitingPeriodDays: 365},
	} {
		s.AddCoverage(c)
	}

	for _, p := range []models.Procedure{
		{ProcedureCode: "D0120", ProcedureName: "Periodic Oral Evaluation", Description: "Regular dental checkup and examination", CoverageType: models.CoveragePreventive, TypicalCost: 75},
		{ProcedureCode: "D0150", ProcedureName: "Comprehensive Oral Evaluation", Description: "Complete examination for new patients", CoverageType: models.CoveragePreventive, TypicalCost: 150},
		{ProcedureCode: "D0210", ProcedureName: "Intraoral X-rays (Complete Series)", Description: "Full mouth X-rays", CoverageType: models.CoveragePreventive, TypicalCost: 125},
		{ProcedureCode: "D0220", ProcedureName: "Intraoral X-ray (First Film)", Description: "First periapical X-ray", CoverageType: models.CoveragePreventive, TypicalCost: 25},
		{ProcedureCode: "D0274", ProcedureName: "Bitewing X-rays (Four Films)", Description: "Four bitewing X-rays", CoverageType: models.CoveragePreventive, TypicalCost: 50},
		{ProcedureCode: "D1110", ProcedureName: "Prophylaxis - Adult", Description: "Routine teeth cleaning for adults", CoverageType: models.CoveragePreventive, TypicalCost: 100},
		{ProcedureCode: "D1120", ProcedureName: "Prophylaxis - Child", Description: "Routine teeth cleaning for children", CoverageType: models.CoveragePreventive, TypicalCost: 75},
		{ProcedureCode: "D1208", ProcedureName: "Fluoride Treatment", Description: "Topical fluoride application", CoverageType: models.CoveragePreventive, TypicalCost: 35},
		{ProcedureCode: "D2140", ProcedureName: "Amalgam Filling (One Surface)", Description: "Silver filling for one tooth surface", CoverageType: models.CoverageBasic, TypicalCost: 150},
		{ProcedureCode: "D2150", ProcedureName: "Amalgam Filling (Two Surfaces)", Description: "Silver filling for two tooth surfaces", CoverageType: models.CoverageBasic, TypicalCost: 180},
		{ProcedureCode: "D2391", ProcedureName: "Composite Filling (One Surface)", Description: "Tooth-colored filling for one surface", CoverageType: models.CoverageBasic, TypicalCost: 175},
		{ProcedureCode: "D3310", ProcedureName: "Root Canal - Anterior Tooth", Description: "Root canal therapy for front tooth", CoverageType: models.CoverageBasic, TypicalCost: 800},
		{ProcedureCode: "D3320", ProcedureName: "Root Canal - Bicuspid", Description: "Root canal therapy for bicuspid tooth", CoverageType: models.CoverageBasic, TypicalCost: 900},
		{ProcedureCode: "D3330", ProcedureName: "Root Canal - Molar", Description: "Root canal therapy for molar tooth", CoverageType: models.CoverageBasic, TypicalCost: 1200},
		{ProcedureCode: "D2740", ProcedureName: "Crown - Porcelain Fused to Metal", Description: "Crown with metal base and porcelain coating", CoverageType: models.CoverageMajor, TypicalCost: 1200},
		{ProcedureCode: "D2750", ProcedureName: "Crown - Porcelain", Description: "All-porcelain crown", CoverageType: models.CoverageMajor, TypicalCost: 1300},
		{ProcedureCode: "D6010", ProcedureName: "Surgical Placement of Implant", Description: "Dental implant surgery", CoverageType: models.CoverageMajor, TypicalCost: 2500},
		{ProcedureCode: "D5110", ProcedureName: "Complete Upper Denture", Description: "Full denture for upper jaw", CoverageType: models.CoverageMajor, TypicalCost: 1500},
		{ProcedureCode: "D5120", ProcedureName: "Complete Lower Denture", Description: "Full denture for lower jaw", CoverageType: models.CoverageMajor, TypicalCost: 1500},
		{ProcedureCode: "D8080", ProcedureName: "Comprehensive Orthodontic Treatment", Description: "Full orthodontic treatment (braces)", CoverageType: models.CoverageOrthodontic, TypicalCost: 5000},
	} {
		s.AddProcedure(p)
	}

	for _, c := range []models.Claim{
		{
			ClaimID: "CLM001", MemberID: "MEM001", PatientName: "John Smith",
			ProviderName: "Dr. Sarah Johnson, DDS", ProviderNPI: "1234567890",
			ServiceDate: date(2024, 6, 15), SubmissionDate: time.Date(2024, 6, 16, 10, 30, 0, 0, time.UTC),
			ProcedureCode: "D1110", ProcedureDescription: "Prophylaxis - Adult",
			BilledAmount: 100, AllowedAmount: 100, CoveredAmount: 100, PatientResponsibility: 0,
			Status: models.ClaimPaid, PaymentDate: datePtr(2024, 6, 25),
		},
		{
			ClaimID: "CLM002", MemberID: "MEM001", PatientName: "John Smith",
			ProviderName: "Dr. Sarah Johnson, DDS", ProviderNPI: "1234567890",
			ServiceDate: date(2024, 6, 15), SubmissionDate: time.Date(2024, 6, 16, 10, 30, 0, 0, time.UTC),
			ProcedureCode: "D0120", ProcedureDescription: "Periodic Oral Evaluation",
			BilledAmount: 75, AllowedAmount: 75, CoveredAmount: 75, PatientResponsibility: 0,
			Status: models.ClaimPaid, PaymentDate: datePtr(2024, 6, 25),
		},
		{
			ClaimID: "CLM003", MemberID: "MEM001", PatientName: "Jane Smith",
			ProviderName: "Dr. Sarah Johnson, DDS", ProviderNPI: "1234567890",
			ServiceDate: date(2024, 7, 10), SubmissionDate: time.Date(2024, 7, 11, 14, 15, 0, 0, time.UTC),
			ProcedureCode: "D2391", ProcedureDescription: "Composite Filling (One Surface)",
			BilledAmount: 175, AllowedAmount: 175, CoveredAmount: 140, PatientResponsibility: 35,
			Status: models.ClaimPaid, PaymentDate: datePtr(2024, 7, 20),
		},
		{
			ClaimID: "CLM004", MemberID: "MEM001", PatientName: "Emily Smith",
			ProviderName: "Dr. Michael Lee, DDS", ProviderNPI: "0987654321",
			ServiceDate: date(2024, 8, 5), SubmissionDate: time.Date(2024, 8, 6, 9, 0, 0, 0, time.UTC),
			ProcedureCode: "D1120", ProcedureDescription: "Prophylaxis - Child",
			BilledAmount: 75, AllowedAmount: 75, CoveredAmount: 75, PatientResponsibility: 0,
			Status: models.ClaimPaid, PaymentDate: datePtr(2024, 8, 15),
		},
		{
			ClaimID: "CLM005", MemberID: "MEM001", PatientName: "John Smith",
			ProviderName: "Dr. Sarah Johnson, DDS", ProviderNPI: "1234567890",
			ServiceDate: date(2024, 9, 20), SubmissionDate: time.Date(2024, 9, 21, 11, 45, 0, 0, time.UTC),
			ProcedureCode: "D2740", ProcedureDescription: "Crown - Porcelain Fused to Metal",
			BilledAmount: 1200, AllowedAmount: 1200, CoveredAmount: 600, PatientResponsibility: 600,
			Status: models.ClaimApproved,
		},
		{
			ClaimID: "CLM006", MemberID: "MEM001", PatientName: "Michael Smith",
			ProviderName: "Dr. Michael Lee, DDS", ProviderNPI: "0987654321",
			ServiceDate: date(2024, 10, 12), SubmissionDate: time.Date(2024, 10, 13, 8, 30, 0, 0, time.UTC),
			ProcedureCode: "D1208", ProcedureDescription: "Fluoride Treatment",
			BilledAmount: 35, AllowedAmount: 35, CoveredAmount: 35, PatientResponsibility: 0,
			Status: models.ClaimProcessing,
		},
	} {
		s.AddClaim(c)
	}

	s.AddIDCard(models.IDCard{
		MemberID: "MEM001", MemberName: "John Smith", GroupNumber: "GRP12345",
		PlanID: "PLAN001", PlanName: "Comprehensive Dental PPO", EffectiveDate: date(2024, 1, 1),
		MemberIDDisplay:      "MEM001-001",
		CustomerServicePhone: "1-800-DENTAL-1 (1-800-336-8251)",
		ClaimsAddress:        "Dental Insurance Claims, PO Box 12345, Insurance City, ST 54321",
	})

	s.AddBenefitUsage(models.BenefitUsage{
		MemberID: "MEM001", PlanYear: 2024,
		AnnualMaximum: 2000, UsedAmount: 915, RemainingAmount: 1085,
		Deductible: 50, DeductibleMet: 50, DeductibleRemaining: 0,
		LastUpdated: time.Date(2024, 10, 13, 8, 30, 0, 0, time.UTC),
	})
}
