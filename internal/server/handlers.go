package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/SatyaDevireddy/dental-insurance-chatbot/internal/agent"
	"github.com/SatyaDevireddy/dental-insurance-chatbot/internal/agent/telemetry"
	"github.com/SatyaDevireddy/dental-insurance-chatbot/internal/store"
	"github.com/SatyaDevireddy/dental-insurance-chatbot/session"
)

// ChatHandler exposes the conversation API plus direct record lookups.
type ChatHandler struct {
	Store     *store.Store
	Agent     *agent.Agent
	Telemetry *telemetry.Telemetry
}

func (h *ChatHandler) Register(g *echo.Group) {
	g.GET("/members", h.members)
	g.POST("/select-member", h.selectMember)
	g.POST("/chat", h.chat)
	g.POST("/reset", h.reset)
	g.GET("/claims/:id", h.claim)
	g.GET("/members/:id/coverage", h.coverage)
	g.GET("/members/:id/id-card", h.idCard)
	g.GET("/members/:id/benefits", h.benefits)
	g.GET("/procedures", h.procedures)
	g.GET("/costs", h.costs)
}

// memberOption is one entry in the member selector.
type memberOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

func (h *ChatHandler) members(c echo.Context) error {
	var out []memberOption
	for _, m := range h.Store.ListMembers() {
		out = append(out, memberOption{ID: m.MemberID, Name: m.Name(), Type: "Primary Member"})
		for _, d := range h.Store.GetDependents(m.MemberID) {
			out = append(out, memberOption{ID: d.DependentID, Name: d.Name(), Type: "Dependent (" + d.Relationship + ")"})
		}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"members": out})
}

func (h *ChatHandler) selectMember(c echo.Context) error {
	var req struct {
		SessionID string `json:"session_id"`
		MemberID  string `json:"member_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.MemberID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "member_id required")
	}
	sess, err := h.Agent.SelectMember(c.Request().Context(), req.SessionID, req.MemberID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid member_id")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	identity, _ := h.Store.ResolveIdentity(req.MemberID)
	return c.JSON(http.StatusOK, map[string]string{
		"session_id":  sess.ID,
		"member_id":   req.MemberID,
		"member_name": identity.Name,
	})
}

func (h *ChatHandler) chat(c echo.Context) error {
	var req struct {
		SessionID string `json:"session_id"`
		Message   string `json:"message"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.Message) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message required")
	}
	turn, err := h.Agent.ProcessTurn(c.Request().Context(), req.SessionID, req.Message)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, turn)
}

func (h *ChatHandler) reset(c echo.Context) error {
	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.Agent.Reset(c.Request().Context(), req.SessionID); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "unknown session")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "reset"})
}

func (h *ChatHandler) claim(c echo.Context) error {
	claim, err := h.Store.FindClaim(c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "claim not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"claim": claim})
}

func (h *ChatHandler) coverage(c echo.Context) error {
	cov, err := h.Store.CoverageForMember(c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "member not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"coverage": cov})
}

func (h *ChatHandler) idCard(c echo.Context) error {
	card, err := h.Store.GetIDCard(c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "id card not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"id_card": card})
}

func (h *ChatHandler) benefits(c echo.Context) error {
	usage, err := h.Store.GetBenefitUsage(c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "benefit usage not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"benefits": usage})
}

func (h *ChatHandler) procedures(c echo.Context) error {
	term := c.QueryParam("q")
	if strings.TrimSpace(term) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q required")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"procedures": h.Store.SearchProcedures(term)})
}

func (h *ChatHandler) costs(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"total_cost":   h.Telemetry.TotalCost(),
		"total_tokens": h.Telemetry.TotalTokens(),
		"model_costs":  h.Telemetry.ModelCosts(),
	})
}
