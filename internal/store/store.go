package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/SatyaDevireddy/dental-insurance-chatbot/models"
)

// ErrNotFound indicates a requested member, dependent, procedure or claim is
// not in the store. It is a normal result, not a turn-aborting failure.
var ErrNotFound = errors.New("not found")

// Store is the in-memory record store for members, dependents, claims,
// coverage and procedures. It is append-only: Add* operations run during
// data load, after which any number of readers may query it concurrently.
type Store struct {
	mu             sync.RWMutex
	members        map[string]models.Member
	memberOrder    []string
	dependents     map[string][]models.Dependent
	claims         map[string][]models.Claim
	coverages      map[string][]models.Coverage // keyed by plan ID
	procedures     map[string]models.Procedure
	procedureOrder []string
	idCards        map[string]models.IDCard
	usage          map[string]models.BenefitUsage
	documents      []models.PlanDocument
}

// New creates an empty store.
func New() *Store {
	return &Store{
		members:    make(map[string]models.Member),
		dependents: make(map[string][]models.Dependent),
		claims:     make(map[string][]models.Claim),
		coverages:  make(map[string][]models.Coverage),
		procedures: make(map[string]models.Procedure),
		idCards:    make(map[string]models.IDCard),
		usage:      make(map[string]models.BenefitUsage),
	}
}

func (s *Store) AddMember(m models.Member) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[m.MemberID]; !ok {
		s.memberOrder = append(s.memberOrder, m.MemberID)
	}
	s.members[m.MemberID] = m
}

func (s *Store) AddDependent(d models.Dependent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dependents[d.PrimaryMemberID] = append(s.dependents[d.PrimaryMemberID], d)
}

func (s *Store) AddClaim(c models.Claim) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.claims[c.MemberID] = append(s.claims[c.MemberID], c)
}

func (s *Store) AddCoverage(c models.Coverage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coverages[c.PlanID] = append(s.coverages[c.PlanID], c)
}

func (s *Store) AddProcedure(p models.Procedure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.procedures[p.ProcedureCode]; !ok {
		s.procedureOrder = append(s.procedureOrder, p.ProcedureCode)
	}
	s.procedures[p.ProcedureCode] = p
}

func (s *Store) AddIDCard(c models.IDCard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idCards[c.MemberID] = c
}

func (s *Store) AddBenefitUsage(u models.BenefitUsage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usage[u.MemberID] = u
}

func (s *Store) AddPlanDocument(d models.PlanDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = append(s.documents, d)
}

// PlanDocuments returns the loaded plan documents in insertion order. The
// result is empty when the store was populated without a document source.
func (s *Store) PlanDocuments() []models.PlanDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.PlanDocument, len(s.documents))
	copy(out, s.documents)
	return out
}

// GetMember looks up a primary member by ID.
func (s *Store) GetMember(memberID string) (models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.members[memberID]
	if !ok {
		return models.Member{}, fmt.Errorf("member %s: %w", memberID, ErrNotFound)
	}
	return m, nil
}

// ListMembers returns all primary members in insertion order.
func (s *Store) ListMembers() []models.Member {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Member, 0, len(s.memberOrder))
	for _, id := range s.memberOrder {
		out = append(out, s.members[id])
	}
	return out
}

// GetDependents returns the dependents of a primary member, in insertion
// order. A member with no dependents yields an empty slice.
func (s *Store) GetDependents(primaryMemberID string) []models.Dependent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	deps := s.dependents[primaryMemberID]
	out := make([]models.Dependent, len(deps))
	copy(out, deps)
	return out
}

// ClaimQuery holds the optional conjunctive filters for QueryClaims.
// Date bounds are inclusive and compare against the claim's service date.
type ClaimQuery struct {
	Status    models.ClaimStatus
	StartDate *time.Time
	EndDate   *time.Time
}

// QueryClaims returns the claims filed under memberID matching every set
// filter, preserving insertion order. Callers needing a different order
// (e.g. most-recent-first) sort the result themselves.
func (s *Store) QueryClaims(memberID string, q ClaimQuery) []models.Claim {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Claim
	for _, c := range s.claims[memberID] {
		if q.Status != "" && c.Status != q.Status {
			continue
		}
		if q.StartDate != nil && c.ServiceDate.Before(*q.StartDate) {
			continue
		}
		if q.EndDate != nil && c.ServiceDate.After(*q.EndDate) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// FindClaim scans all members' claims for the given claim ID.
func (s *Store) FindClaim(claimID string) (models.Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, claims := range s.claims {
		for _, c := range claims {
			if c.ClaimID == claimID {
				return c, nil
			}
		}
	}
	return models.Claim{}, fmt.Errorf("claim %s: %w", claimID, ErrNotFound)
}

// GetCoverage returns the coverage rows of a plan in insertion order.
func (s *Store) GetCoverage(planID string) []models.Coverage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := s.coverages[planID]
	out := make([]models.Coverage, len(rows))
	copy(out, rows)
	return out
}

// CoverageForMember resolves a member's plan and returns its coverage rows.
func (s *Store) CoverageForMember(memberID string) ([]models.Coverage, error) {
	m, err := s.GetMember(memberID)
	if err != nil {
		return nil, err
	}
	return s.GetCoverage(m.PlanID), nil
}

// GetProcedure looks up a procedure by code.
func (s *Store) GetProcedure(code string) (models.Procedure, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.procedures[code]
	if !ok {
		return models.Procedure{}, fmt.Errorf("procedure %s: %w", code, ErrNotFound)
	}
	return p, nil
}

// SearchProcedures does a case-insensitive substring match of term against
// procedure names and descriptions (either field matching suffices).
func (s *Store) SearchProcedures(term string) []models.Procedure {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(term)
	var out []models.Procedure
	for _, code := range s.procedureOrder {
		p := s.procedures[code]
		if strings.Contains(strings.ToLower(p.ProcedureName), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) {
			out = append(out, p)
		}
	}
	return out
}

// GetIDCard looks up a member's ID card.
func (s *Store) GetIDCard(memberID string) (models.IDCard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.idCards[memberID]
	if !ok {
		return models.IDCard{}, fmt.Errorf("id card for %s: %w", memberID, ErrNotFound)
	}
	return c, nil
}

// GetBenefitUsage looks up a member's benefit usage for the current plan year.
func (s *Store) GetBenefitUsage(memberID string) (models.BenefitUsage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.usage[memberID]
	if !ok {
		return models.BenefitUsage{}, fmt.Errorf("benefit usage for %s: %w", memberID, ErrNotFound)
	}
	return u, nil
}

// Identity resolves a member or dependent ID to the display name claims are
// correlated by, plus the primary member whose ID the claims are filed under.
type Identity struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	PrimaryMemberID string `json:"primary_member_id"`
	Relationship    string `json:"relationship,omitempty"` // empty for primary members
}

// ResolveIdentity accepts either a primary member ID or a dependent ID.
// Claims are always stored under the primary member's ID; the identity's
// Name is the patient-name correlation key.
func (s *Store) ResolveIdentity(id string) (Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if m, ok := s.members[id]; ok {
		return Identity{ID: id, Name: m.Name(), PrimaryMemberID: id}, nil
	}
	for primary, deps := range s.dependents {
		for _, d := range deps {
			if d.DependentID == id {
				return Identity{ID: id, Name: d.Name(), PrimaryMemberID: primary, Relationship: d.Relationship}, nil
			}
		}
	}
	return Identity{}, fmt.Errorf("member or dependent %s: %w", id, ErrNotFound)
}
