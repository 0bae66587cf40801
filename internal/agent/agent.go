package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/SatyaDevireddy/dental-insurance-chatbot/config"
	"github.com/SatyaDevireddy/dental-insurance-chatbot/internal/agent/telemetry"
	"github.com/SatyaDevireddy/dental-insurance-chatbot/internal/rag"
	"github.com/SatyaDevireddy/dental-insurance-chatbot/internal/store"
	"github.com/SatyaDevireddy/dental-insurance-chatbot/models"
	"github.com/SatyaDevireddy/dental-insurance-chatbot/provider"
	"github.com/SatyaDevireddy/dental-insurance-chatbot/session"
)

const degradedReply = "I'm having trouble reaching the assistant service right now. Please try again in a moment."

// documentTopK bounds how many passages ground a document-path answer.
const documentTopK = 4

// Turn is the outcome of one processed user message: the reply text plus the
// verified claims to render. Claims carry only values already present in the
// store; nothing in them comes from generated text.
type Turn struct {
	SessionID string         `json:"session_id"`
	MemberID  string         `json:"member_id"`
	Reply     string         `json:"reply"`
	Claims    []models.Claim `json:"claims"`
}

// Agent orchestrates a turn: classify the query, fetch candidates, compose a
// bounded prompt, call the model once, and reconcile its selection against
// the store. The model picks which records to show; it never restates values.
type Agent struct {
	cfg        *config.Config
	store      *store.Store
	pipeline   *rag.Pipeline
	llm        provider.LLMProvider
	sessions   session.Store
	classifier Classifier
	telemetry  *telemetry.Telemetry
	logger     *log.Logger
}

func New(cfg *config.Config, st *store.Store, pipeline *rag.Pipeline, llm provider.LLMProvider, sessions session.Store, tel *telemetry.Telemetry) *Agent {
	return &Agent{
		cfg:        cfg,
		store:      st,
		pipeline:   pipeline,
		llm:        llm,
		sessions:   sessions,
		classifier: NewKeywordClassifier(),
		telemetry:  tel,
		logger:     log.New(log.Writer(), "[AGENT] ", log.LstdFlags),
	}
}

// SelectMember binds the session to a member or dependent identity. Unknown
// ids surface as store.ErrNotFound.
func (a *Agent) SelectMember(ctx context.Context, sessionID, memberID string) (session.Session, error) {
	if _, err := a.store.ResolveIdentity(memberID); err != nil {
		return session.Session{}, err
	}
	sess, err := a.sessions.Ensure(ctx, sessionID)
	if err != nil {
		return session.Session{}, err
	}
	sess.MemberID = memberID
	// switching identity resets the conversation so history from one family
	// member never grounds answers for another
	sess.History = nil
	if err := a.sessions.Save(ctx, sess); err != nil {
		return session.Session{}, err
	}
	return sess, nil
}

// Reset clears the session's conversation history, keeping the member binding.
func (a *Agent) Reset(ctx context.Context, sessionID string) error {
	sess, err := a.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	sess.History = nil
	return a.sessions.Save(ctx, sess)
}

// ProcessTurn handles one user message end to end. Upstream failures degrade
// to a friendly reply for the turn; they never corrupt session state or
// surface as an error to the caller.
func (a *Agent) ProcessTurn(ctx context.Context, sessionID, message string) (Turn, error) {
	started := time.Now()

	sess, err := a.sessions.Ensure(ctx, sessionID)
	if err != nil {
		return Turn{}, fmt.Errorf("ensure session: %w", err)
	}
	memberID := sess.MemberID
	if memberID == "" {
		memberID = a.defaultMemberID()
		sess.MemberID = memberID
	}

	identity, err := a.store.ResolveIdentity(memberID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Turn{SessionID: sess.ID, MemberID: memberID,
				Reply: fmt.Sprintf("I couldn't find a member with ID %s. Please select a valid member.", memberID)}, nil
		}
		return Turn{}, err
	}

	sess.Append(session.Message{Role: "user", Content: message, CreatedAt: time.Now()}, a.cfg.Session.HistoryLimit)

	intent := a.classifier.Classify(message)
	var turn Turn
	var ok bool
	switch intent {
	case IntentClaims:
		turn, ok = a.claimsTurn(ctx, sess, identity)
	default:
		turn, ok = a.documentTurn(ctx, sess, identity, message)
	}
	turn.SessionID = sess.ID
	turn.MemberID = memberID

	sess.Append(session.Message{Role: "assistant", Content: turn.Reply, CreatedAt: time.Now()}, a.cfg.Session.HistoryLimit)
	if err := a.sessions.Save(ctx, sess); err != nil {
		a.logger.Printf("save session %s: %v", sess.ID, err)
	}

	a.telemetry.RecordTurn(intent.String(), ok, time.Since(started))
	return turn, nil
}

// claimsTurn runs the structured path: candidates come from the primary
// member's claims narrowed to the active identity's patient name, and the
// model only chooses identifiers out of that set.
func (a *Agent) claimsTurn(ctx context.Context, sess session.Session, identity store.Identity) (Turn, bool) {
	all := a.store.QueryClaims(identity.PrimaryMemberID, store.ClaimQuery{})
	candidates := make([]models.Claim, 0, len(all))
	for _, c := range all {
		if c.PatientName == identity.Name {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		// nothing to select from, skip generation entirely
		return Turn{Reply: fmt.Sprintf("There are no claims on file for %s.", identity.Name)}, true
	}

	system := composeClaimsSystem(identity, candidates)
	response, err := a.complete(ctx, system, sess.History)
	if err != nil {
		a.logger.Printf("claims completion for %s: %v", identity.ID, err)
		return Turn{Reply: degradedReply}, false
	}

	sel := ParseSelection(response)
	if !sel.HasMarker {
		// model ignored the output grammar; show its text with zero records
		return Turn{Reply: sel.Lead}, true
	}
	claims, fabricated := Reconcile(sel, candidates)
	a.telemetry.RecordFabricated(fabricated)
	if len(claims) == 0 {
		reply := sel.Lead
		if reply != "" {
			reply += "\n\n"
		}
		return Turn{Reply: reply + "No matching claims found."}, true
	}
	return Turn{Reply: sel.Lead, Claims: claims}, true
}

// documentTurn runs the retrieval path. Retrieval failures fall back to
// answering without passages rather than failing the turn.
func (a *Agent) documentTurn(ctx context.Context, sess session.Session, identity store.Identity, message string) (Turn, bool) {
	retrStart := time.Now()
	passages, err := a.pipeline.Retrieve(ctx, message, documentTopK, nil)
	a.telemetry.RecordRetrieval(time.Since(retrStart))
	if err != nil {
		a.logger.Printf("retrieve for %q: %v", message, err)
		passages = nil
	}

	system := composeDocumentSystem(identity, passages)
	response, err := a.complete(ctx, system, sess.History)
	if err != nil {
		a.logger.Printf("document completion for %s: %v", identity.ID, err)
		return Turn{Reply: degradedReply}, false
	}
	return Turn{Reply: response}, true
}

// complete makes the single blocking generation call for a turn, bounded by
// the configured timeout.
func (a *Agent) complete(ctx context.Context, system string, history []session.Message) (string, error) {
	timeout := a.cfg.General.DefaultTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	messages := make([]provider.Message, 0, len(history)+1)
	messages = append(messages, provider.Message{Role: "system", Content: system})
	for _, m := range history {
		messages = append(messages, provider.Message{Role: m.Role, Content: m.Content})
	}

	call := func(model string) (string, error) {
		callCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		started := time.Now()
		response, inTok, outTok, err := a.llm.CompleteWithTokens(callCtx, model, messages)
		cost := a.llm.CalculateCost(inTok, outTok, model)
		a.telemetry.RecordLLMCall(model, time.Since(started), inTok, outTok, cost, err)
		return response, err
	}

	model := a.cfg.LLM.Routing.Chat
	response, err := call(model)
	// the fallback model gets its own deadline: a primary call that spent the
	// whole budget would otherwise make the retry fail immediately
	if err != nil && a.cfg.LLM.Routing.Fallback != "" && a.cfg.LLM.Routing.Fallback != model {
		response, err = call(a.cfg.LLM.Routing.Fallback)
	}
	return response, err
}

func (a *Agent) defaultMemberID() string {
	members := a.store.ListMembers()
	if len(members) == 0 {
		return ""
	}
	return members[0].MemberID
}
