package agent

import (
	"fmt"
	"sort"
	"strings"

	"github.com/SatyaDevireddy/dental-insurance-chatbot/internal/rag"
	"github.com/SatyaDevireddy/dental-insurance-chatbot/internal/store"
	"github.com/SatyaDevireddy/dental-insurance-chatbot/models"
)

const dateLayout = "01/02/06"

const baseSystem = `You are a helpful dental insurance assistant.

Common dental insurance coverage:
- Preventive care: Cleanings, exams (typically 100% covered)
- Basic procedures: Fillings, extractions (typically 80% covered)
- Major procedures: Crowns, bridges (typically 50% covered)
- Annual maximums typically range from $1,500 to $3,000
- Waiting periods may apply for major procedures`

// claimsContext serializes every candidate claim's full field set verbatim,
// newest first, followed by the instruction grammar and the required output
// shape. The model chooses which claims to show; it never restates values.
func claimsContext(candidates []models.Claim) string {
	sorted := make([]models.Claim, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ServiceDate.After(sorted[j].ServiceDate)
	})

	var b strings.Builder
	b.WriteString("\n\nAVAILABLE CLAIMS DATA FOR THIS MEMBER:\n")
	for _, c := range sorted {
		fmt.Fprintf(&b, `
- Claim ID: %s
  Status: %s
  Date: %s
  Amount: $%g
  Covered: $%g
  Your Cost: $%g
  Procedure: %s - %s
  Provider: %s
  Submitted: %s
`, c.ClaimID, c.Status, c.ServiceDate.Format(dateLayout),
			c.BilledAmount, c.CoveredAmount, c.PatientResponsibility,
			c.ProcedureCode, c.ProcedureDescription,
			c.ProviderName, c.SubmissionDate.Format(dateLayout))
	}
	b.WriteString(`
INSTRUCTIONS: Based on the user's question, decide which claims to show:
- If they ask for "paid claims" or "claims that are paid", only include claims with Status: paid
- If they ask for "not paid", "unpaid", "not yet paid", "pending", include claims with Status: approved, processing, or denied (anything except paid)
- If they ask for "approved claims", only include claims with Status: approved
- If they ask for "processing" or "in process", only include claims with Status: processing
- If they ask for "denied claims", only include claims with Status: denied
- If they ask for "recent" or "last month", only include recent claims
- If they ask for "expensive" or "over $X", filter by amount
- If they ask for specific procedures (cleanings, crowns, fillings), filter by procedure description
- If they just ask "show my claims" or "all claims", include ALL claims listed above

Respond with ONLY:
1. A brief 1-2 sentence introduction
2. On a new line, write: SHOW_CLAIMS: followed by comma-separated claim IDs you want displayed
   Example: SHOW_CLAIMS: CLM001, CLM005, CLM002

Do not create any tables or lists yourself. Just provide the intro and SHOW_CLAIMS line.
`)
	return b.String()
}

func memberContext(identity store.Identity) string {
	if identity.Relationship == "" {
		return fmt.Sprintf("\n\nCurrent member: %s (ID: %s)", identity.Name, identity.ID)
	}
	return fmt.Sprintf("\n\nCurrent dependent: %s (ID: %s, Relationship: %s)",
		identity.Name, identity.ID, identity.Relationship)
}

// composeClaimsSystem builds the system message for the structured path.
func composeClaimsSystem(identity store.Identity, candidates []models.Claim) string {
	return fmt.Sprintf(`%s
%s
%s

CRITICAL INSTRUCTIONS FOR CLAIMS:
- You are currently helping %s.
- When the user asks about claims, you have access to all their claims data above.
- Based on their question, decide which claims to show using the SHOW_CLAIMS format explained above.
- Provide a brief 1-2 sentence introduction, then the SHOW_CLAIMS line with the claim IDs.
- DO NOT create tables, lists, or include specific claim details in your text.
- If the user wants claims for a different family member, tell them to switch members first.`,
		baseSystem, memberContext(identity), claimsContext(candidates), identity.Name)
}

// composeDocumentSystem builds the system message for the document path. The
// retrieved passages are free grounding context; there is no output grammar.
func composeDocumentSystem(identity store.Identity, passages []rag.Result) string {
	var b strings.Builder
	b.WriteString(baseSystem)
	b.WriteString(memberContext(identity))
	if len(passages) > 0 {
		b.WriteString("\n\nRELEVANT PLAN DOCUMENTS:\n")
		for _, r := range passages {
			fmt.Fprintf(&b, "\n[%s]\n%s\n", r.Passage.Title, r.Passage.Content)
		}
	}
	b.WriteString("\n\nFor non-claims questions, provide helpful, accurate information about dental insurance plans, coverage, and procedures. Answer from the plan documents above when they are relevant.")
	return b.String()
}
