package agent

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/SatyaDevireddy/dental-insurance-chatbot/config"
	"github.com/SatyaDevireddy/dental-insurance-chatbot/internal/agent/telemetry"
	"github.com/SatyaDevireddy/dental-insurance-chatbot/internal/rag"
	"github.com/SatyaDevireddy/dental-insurance-chatbot/internal/store"
	"github.com/SatyaDevireddy/dental-insurance-chatbot/models"
	"github.com/SatyaDevireddy/dental-insurance-chatbot/provider"
	"github.com/SatyaDevireddy/dental-insurance-chatbot/session/inmemory"
)

// stubLLM scripts completion responses and records the prompts it saw.
type stubLLM struct {
	response      string
	err           error
	completeCalls int
	lastSystem    string
	embedErr      error
}

func (s *stubLLM) Complete(ctx context.Context, model string, messages []provider.Message) (string, error) {
	text, _, _, err := s.CompleteWithTokens(ctx, model, messages)
	return text, err
}

func (s *stubLLM) CompleteWithTokens(ctx context.Context, model string, messages []provider.Message) (string, int64, int64, error) {
	s.completeCalls++
	if len(messages) > 0 && messages[0].Role == "system" {
		s.lastSystem = messages[0].Content
	}
	if s.err != nil {
		return "", 0, 0, s.err
	}
	return s.response, 10, 20, nil
}

func (s *stubLLM) Embed(ctx context.Context, model string, input []string) ([][]float32, error) {
	if s.embedErr != nil {
		return nil, s.embedErr
	}
	out := make([][]float32, len(input))
	for i := range input {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func (s *stubLLM) GetAvailableModels() []string { return []string{"chat"} }

func (s *stubLLM) GetModelInfo(model string) (provider.ModelInfo, error) {
	return provider.ModelInfo{}, nil
}

func (s *stubLLM) CalculateCost(inputTokens, outputTokens int64, model string) float64 { return 0 }

func testConfig() *config.Config {
	return &config.Config{
		General: config.GeneralConfig{DefaultTimeout: 5 * time.Second},
		LLM: config.LLMConfig{
			Routing: config.LLMRoutingConfig{Chat: "chat", Embedding: "embed"},
		},
		RAG:     config.RAGConfig{ChunkSize: 1000, ChunkOverlap: 200, TopK: 4, KeywordFallback: true},
		Session: config.SessionConfig{Store: "inmemory", HistoryLimit: 10, TTL: time.Hour},
	}
}

func newTestAgent(t *testing.T, llm *stubLLM) (*Agent, *store.Store) {
	t.Helper()
	cfg := testConfig()
	st := store.New()
	store.LoadSampleData(st)

	ix, err := rag.NewIndex("")
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	pipeline := rag.NewPipeline(cfg.RAG, llm, "embed", ix)
	docs := []models.PlanDocument{{
		DocumentID: "DOC002", PlanID: "PLAN001", DocumentType: "benefits_summary",
		Title:   "Benefits Summary",
		Content: "Root canal therapy is covered as a basic procedure at 80% after deductible.",
	}}
	if err := pipeline.IngestAll(context.Background(), docs); err != nil {
		t.Fatalf("IngestAll: %v", err)
	}

	sessions := inmemory.NewStore(cfg.Session.TTL)
	return New(cfg, st, pipeline, llm, sessions, telemetry.New(cfg.Telemetry)), st
}

func TestClaimsTurnPaidClaims(t *testing.T) {
	llm := &stubLLM{response: "Here are your paid claims.\nSHOW_CLAIMS: CLM001, CLM002"}
	ag, _ := newTestAgent(t, llm)

	turn, err := ag.ProcessTurn(context.Background(), "", "show my paid claims")
	if err != nil {
		t.Fatalf("ProcessTurn: %v", err)
	}
	if turn.MemberID != "MEM001" {
		t.Errorf("expected default member MEM001, got %s", turn.MemberID)
	}
	if len(turn.Claims) != 2 {
		t.Fatalf("expected 2 claims, got %v", turn.Claims)
	}
	got := map[string]bool{turn.Claims[0].ClaimID: true, turn.Claims[1].ClaimID: true}
	if !got["CLM001"] || !got["CLM002"] {
		t.Errorf("unexpected claims: %v", turn.Claims)
	}
	if strings.Contains(turn.Reply, SelectionMarker) {
		t.Errorf("marker leaked into reply: %q", turn.Reply)
	}
	// candidate set covers John Smith only
	block := claimDataBlock(t, llm.lastSystem)
	if strings.Contains(block, "CLM003") || strings.Contains(block, "CLM004") {
		t.Error("dependent claims leaked into candidate prompt")
	}
	if !strings.Contains(block, "CLM005") {
		t.Error("candidate CLM005 missing from prompt")
	}
}

func TestClaimsTurnFabricatedIDDropped(t *testing.T) {
	llm := &stubLLM{response: "Found these.\nSHOW_CLAIMS: CLM001, CLM998, CLM999"}
	ag, _ := newTestAgent(t, llm)

	turn, err := ag.ProcessTurn(context.Background(), "", "show my claims")
	if err != nil {
		t.Fatalf("ProcessTurn: %v", err)
	}
	if len(turn.Claims) != 1 || turn.Claims[0].ClaimID != "CLM001" {
		t.Fatalf("expected exactly CLM001, got %v", turn.Claims)
	}
}

func TestClaimsTurnDependentCandidates(t *testing.T) {
	llm := &stubLLM{response: "Jane's claims.\nSHOW_CLAIMS: CLM003"}
	ag, _ := newTestAgent(t, llm)
	ctx := context.Background()

	sess, err := ag.SelectMember(ctx, "", "DEP001")
	if err != nil {
		t.Fatalf("SelectMember: %v", err)
	}
	turn, err := ag.ProcessTurn(ctx, sess.ID, "show my claims")
	if err != nil {
		t.Fatalf("ProcessTurn: %v", err)
	}
	if len(turn.Claims) != 1 || turn.Claims[0].ClaimID != "CLM003" {
		t.Fatalf("expected CLM003 for Jane, got %v", turn.Claims)
	}
	// the candidate set is filtered by patient name before prompting; the
	// instruction grammar below the data block carries fixed example IDs, so
	// only the data block is checked
	block := claimDataBlock(t, llm.lastSystem)
	if strings.Contains(block, "CLM001") || strings.Contains(block, "CLM005") {
		t.Error("John's claims leaked into Jane's candidate prompt")
	}
	if !strings.Contains(block, "CLM003") {
		t.Error("Jane's claim missing from candidate prompt")
	}
}

// claimDataBlock cuts the claims data section out of a system prompt,
// excluding the instruction grammar that follows it.
func claimDataBlock(t *testing.T, system string) string {
	t.Helper()
	_, rest, ok := strings.Cut(system, "AVAILABLE CLAIMS DATA FOR THIS MEMBER:")
	if !ok {
		t.Fatal("claims data block missing from system prompt")
	}
	block, _, ok := strings.Cut(rest, "INSTRUCTIONS:")
	if !ok {
		t.Fatal("instruction grammar missing from system prompt")
	}
	return block
}

func TestClaimsTurnEmptyCandidatesSkipsGeneration(t *testing.T) {
	llm := &stubLLM{response: "should never be used"}
	ag, _ := newTestAgent(t, llm)
	ctx := context.Background()

	sess, err := ag.SelectMember(ctx, "", "MEM002")
	if err != nil {
		t.Fatalf("SelectMember: %v", err)
	}
	turn, err := ag.ProcessTurn(ctx, sess.ID, "show my claims")
	if err != nil {
		t.Fatalf("ProcessTurn: %v", err)
	}
	if llm.completeCalls != 0 {
		t.Errorf("generation must be skipped for empty candidates, got %d calls", llm.completeCalls)
	}
	if len(turn.Claims) != 0 || !strings.Contains(turn.Reply, "no claims") {
		t.Errorf("unexpected turn: %+v", turn)
	}
}

func TestClaimsTurnMissingMarkerDegrades(t *testing.T) {
	llm := &stubLLM{response: "You have several claims on file, ask me about a specific one."}
	ag, _ := newTestAgent(t, llm)

	turn, err := ag.ProcessTurn(context.Background(), "", "show my claims")
	if err != nil {
		t.Fatalf("ProcessTurn: %v", err)
	}
	if len(turn.Claims) != 0 {
		t.Errorf("expected zero claims without marker, got %v", turn.Claims)
	}
	if turn.Reply != llm.response {
		t.Errorf("expected raw response as reply, got %q", turn.Reply)
	}
}

func TestClaimsTurnEmptyIntersectionReportsNoMatch(t *testing.T) {
	llm := &stubLLM{response: "Here is what I found.\nSHOW_CLAIMS: CLM998"}
	ag, _ := newTestAgent(t, llm)

	turn, err := ag.ProcessTurn(context.Background(), "", "show my claims")
	if err != nil {
		t.Fatalf("ProcessTurn: %v", err)
	}
	if len(turn.Claims) != 0 {
		t.Errorf("expected zero claims, got %v", turn.Claims)
	}
	if !strings.Contains(turn.Reply, "No matching claims") {
		t.Errorf("expected explicit no-match reply, got %q", turn.Reply)
	}
}

func TestDocumentTurn(t *testing.T) {
	llm := &stubLLM{response: "A root canal removes infected pulp and is covered at 80%."}
	ag, _ := newTestAgent(t, llm)

	turn, err := ag.ProcessTurn(context.Background(), "", "what is a root canal")
	if err != nil {
		t.Fatalf("ProcessTurn: %v", err)
	}
	if len(turn.Claims) != 0 {
		t.Errorf("document path must not render claims, got %v", turn.Claims)
	}
	if strings.Contains(turn.Reply, SelectionMarker) {
		t.Errorf("document path reply contains marker: %q", turn.Reply)
	}
	if !strings.Contains(llm.lastSystem, "Benefits Summary") {
		t.Error("retrieved passage missing from prompt")
	}
	if strings.Contains(llm.lastSystem, "AVAILABLE CLAIMS DATA") {
		t.Error("claims context leaked into document path prompt")
	}
}

func TestProviderFailureDegradesTurn(t *testing.T) {
	llm := &stubLLM{err: fmt.Errorf("llm down: %w", provider.ErrUnavailable)}
	ag, _ := newTestAgent(t, llm)

	turn, err := ag.ProcessTurn(context.Background(), "", "show my claims")
	if err != nil {
		t.Fatalf("upstream failure must not error the turn: %v", err)
	}
	if turn.Reply != degradedReply {
		t.Errorf("expected degraded reply, got %q", turn.Reply)
	}
	// a later turn still works once the provider recovers
	llm.err = nil
	llm.response = "Recovered.\nSHOW_CLAIMS: CLM001"
	turn, err = ag.ProcessTurn(context.Background(), turn.SessionID, "show my claims")
	if err != nil || len(turn.Claims) != 1 {
		t.Fatalf("expected recovery, got turn=%+v err=%v", turn, err)
	}
}

func TestHistoryBounded(t *testing.T) {
	llm := &stubLLM{response: "ok"}
	ag, _ := newTestAgent(t, llm)
	ctx := context.Background()

	sessionID := ""
	for i := 0; i < 12; i++ {
		turn, err := ag.ProcessTurn(ctx, sessionID, fmt.Sprintf("question number %d about coverage", i))
		if err != nil {
			t.Fatalf("turn %d: %v", i, err)
		}
		sessionID = turn.SessionID
	}

	sess, err := ag.sessions.Get(ctx, sessionID)
	if err != nil {
		t.Fatalf("Get session: %v", err)
	}
	if len(sess.History) > ag.cfg.Session.HistoryLimit {
		t.Fatalf("history exceeds limit: %d > %d", len(sess.History), ag.cfg.Session.HistoryLimit)
	}
}

func TestSelectMemberUnknownID(t *testing.T) {
	llm := &stubLLM{}
	ag, _ := newTestAgent(t, llm)
	if _, err := ag.SelectMember(context.Background(), "", "MEM999"); err == nil {
		t.Fatal("expected error for unknown member")
	}
}

func TestSelectMemberClearsHistory(t *testing.T) {
	llm := &stubLLM{response: "ok"}
	ag, _ := newTestAgent(t, llm)
	ctx := context.Background()

	turn, err := ag.ProcessTurn(ctx, "", "what is my annual maximum")
	if err != nil {
		t.Fatalf("ProcessTurn: %v", err)
	}
	sess, err := ag.SelectMember(ctx, turn.SessionID, "DEP001")
	if err != nil {
		t.Fatalf("SelectMember: %v", err)
	}
	if len(sess.History) != 0 {
		t.Fatalf("history must reset on member switch, got %d entries", len(sess.History))
	}
}

// deadlineLLM fails the chat model after consuming its context deadline and
// records how much budget the fallback call arrives with.
type deadlineLLM struct {
	stubLLM
	fallbackRemaining time.Duration
}

func (d *deadlineLLM) Complete(ctx context.Context, model string, messages []provider.Message) (string, error) {
	text, _, _, err := d.CompleteWithTokens(ctx, model, messages)
	return text, err
}

func (d *deadlineLLM) CompleteWithTokens(ctx context.Context, model string, messages []provider.Message) (string, int64, int64, error) {
	d.completeCalls++
	if model == "chat" {
		<-ctx.Done()
		return "", 0, 0, ctx.Err()
	}
	if deadline, ok := ctx.Deadline(); ok {
		d.fallbackRemaining = time.Until(deadline)
	}
	return d.response, 10, 20, nil
}

func TestCompleteFallbackGetsFreshDeadline(t *testing.T) {
	llm := &deadlineLLM{stubLLM: stubLLM{response: "Recovered.\nSHOW_CLAIMS: CLM001"}}
	cfg := testConfig()
	cfg.LLM.Routing.Fallback = "chat_fallback"
	cfg.General.DefaultTimeout = 100 * time.Millisecond

	st := store.New()
	store.LoadSampleData(st)
	ix, err := rag.NewIndex("")
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	pipeline := rag.NewPipeline(cfg.RAG, llm, "embed", ix)
	sessions := inmemory.NewStore(cfg.Session.TTL)
	ag := New(cfg, st, pipeline, llm, sessions, telemetry.New(cfg.Telemetry))

	turn, err := ag.ProcessTurn(context.Background(), "", "show my claims")
	if err != nil {
		t.Fatalf("ProcessTurn: %v", err)
	}
	if llm.completeCalls != 2 {
		t.Fatalf("expected primary plus fallback call, got %d", llm.completeCalls)
	}
	if len(turn.Claims) != 1 || turn.Claims[0].ClaimID != "CLM001" {
		t.Fatalf("fallback response not used: %v", turn.Claims)
	}
	// the fallback must not inherit the primary call's spent deadline
	if llm.fallbackRemaining < cfg.General.DefaultTimeout/2 {
		t.Errorf("fallback deadline nearly spent: %v remaining", llm.fallbackRemaining)
	}
}
