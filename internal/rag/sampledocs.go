package rag

import (
	"time"

	"github.com/SatyaDevireddy/dental-insurance-chatbot/models"
)

// SampleDocuments returns the bundled plan document set used when no external
// document source is configured.
func SampleDocuments() []models.PlanDocument {
	updated := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []models.PlanDocument{
		{
			DocumentID:   "DOC001",
			PlanID:       "PLAN001",
			DocumentType: "benefits_summary",
			Title:        "Dental Benefits Summary",
			LastUpdated:  updated,
			Content: `Your dental insurance plan provides comprehensive coverage for preventive, basic, and major dental services.

PREVENTIVE CARE (100% Coverage):
- Routine cleanings and exams (twice per year)
- X-rays (bitewings once per year, full mouth every 3 years)
- Fluoride treatments (for children under 18)
- Sealants (for children under 18)

BASIC SERVICES (80% Coverage after deductible):
- Fillings (amalgam and composite)
- Simple extractions
- Emergency care
- Root canals

MAJOR SERVICES (50% Coverage after deductible):
- Crowns and bridges
- Dentures and partials
- Implants
- Complex oral surgery

ORTHODONTIC SERVICES (50% Coverage):
- Braces for children and adults
- Lifetime maximum of $2,000

ANNUAL MAXIMUM: $2,000 per person (does not include preventive care)
ANNUAL DEDUCTIBLE: $50 per person, $150 per family`,
		},
		{
			DocumentID:   "DOC002",
			PlanID:       "PLAN001",
			DocumentType: "policy",
			Title:        "Waiting Periods and Limitations",
			LastUpdated:  updated,
			Content: `WAITING PERIODS:
- No waiting period for preventive and basic services
- 6 months waiting period for major services
- 12 months waiting period for orthodontic services

FREQUENCY LIMITATIONS:
- Cleanings: Maximum 2 per calendar year
- Exams: Maximum 2 per calendar year
- Fluoride: Once per calendar year (children only)
- Bitewing X-rays: Once per calendar year
- Full mouth X-rays: Once every 3 years
- Crowns: Once every 5 years per tooth

EXCLUSIONS:
- Cosmetic procedures (teeth whitening, veneers for appearance only)
- Services primarily for cosmetic purposes
- Lost or stolen appliances
- Services covered by workers' compensation
- Services not dentally necessary

PRE-AUTHORIZATION:
Required for any treatment over $300. Submit treatment plan to insurance
before proceeding with major services.`,
		},
		{
			DocumentID:   "DOC003",
			PlanID:       "PLAN001",
			DocumentType: "faq",
			Title:        "Frequently Asked Questions",
			LastUpdated:  updated,
			Content: `Q: How do I file a claim?
A: Most dentists will file claims directly with your insurance. If you need to file
yourself, complete a claim form and submit with itemized receipts to the claims address
on your ID card within 90 days of service.

Q: Can I go to any dentist?
A: Yes, this is a PPO plan. You can see any licensed dentist, but you'll save more with
in-network providers who have agreed to discounted fees.

Q: What if I need a crown?
A: Crowns are considered major services and are covered at 50% after your deductible.
Pre-authorization is required. The waiting period is 6 months from your effective date.

Q: Are implants covered?
A: Yes, dental implants are covered at 50% as a major service, subject to your annual
maximum and after the 6-month waiting period.

Q: What about emergency dental care?
A: Emergency care is covered as a basic service at 80% after deductible. No waiting
period applies for emergency services.

Q: How do I add a dependent?
A: Contact member services within 31 days of a qualifying event (birth, adoption, marriage).
Coverage will be effective from the date of the event.

Q: What is the appeals process?
A: If a claim is denied, you have 180 days to file an appeal. Submit a written request
with supporting documentation to the appeals department.`,
		},
		{
			DocumentID:   "DOC004",
			PlanID:       "PLAN001",
			DocumentType: "provider_directory",
			Title:        "Finding a Dentist",
			LastUpdated:  updated,
			Content: `FINDING IN-NETWORK PROVIDERS:
Use our online provider directory at www.dentalinsurance.com/find-dentist
or call customer service at 1-800-DENTAL-1.

IN-NETWORK BENEFITS:
- Lower out-of-pocket costs
- No claim forms to file
- Pre-negotiated fees
- Direct payment to provider

OUT-OF-NETWORK BENEFITS:
- You may need to pay upfront and file claims
- Reimbursed based on usual and customary rates
- May have higher out-of-pocket costs

CHANGING DENTISTS:
You can change dentists at any time. No referrals needed. Simply call to make an
appointment and provide your member ID.

SPECIALTY CARE:
Coverage includes specialists such as:
- Endodontists (root canals)
- Periodontists (gum disease)
- Oral surgeons
- Orthodontists (braces)
- Pediatric dentists`,
		},
	}
}
