package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"goldraid/internal/app/ports"
	"goldraid/internal/app/sandbox"
	"goldraid/internal/domain/realm"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const sessionHeader = "X-Session-Token"

const defaultDirectoryCount = 98

var ErrMissingSessionToken = errors.New("missing x-session-token header")

type Handler struct {
	RealmUC sandbox.UseCase
	KPI     kpiSnapshotProvider
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	api := s.Group("/api")
	api.POST("/session", h.login)
	api.DELETE("/session", h.logout)
	api.GET("/players", h.directory)
	api.GET("/players/:name", h.profile)
	api.POST("/attacks", h.attack)
	api.GET("/weapons", h.weapons)
	api.POST("/weapons/repair", h.repair)
	api.GET("/chest", h.chest)
	api.POST("/chest/deposits", h.deposit)

	s.GET("/ops/kpi", h.kpi)
}

type attackRequest struct {
	Target string `json:"target"`
}

type depositRequest struct {
	Amount int `json:"amount"`
}

func (h Handler) login(c context.Context, ctx *app.RequestContext) {
	var body sandbox.LoginRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.RealmUC.Login(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) logout(c context.Context, ctx *app.RequestContext) {
	token := sessionToken(ctx)
	if token == "" {
		writeError(ctx, ErrMissingSessionToken)
		return
	}
	if err := h.RealmUC.Logout(c, token); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.SetStatusCode(consts.StatusNoContent)
}

func (h Handler) directory(c context.Context, ctx *app.RequestContext) {
	if _, err := h.requireSession(c, ctx); err != nil {
		writeError(ctx, err)
		return
	}
	startRank, err := strconv.Atoi(ctx.Query("start_rank"))
	if err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "start_rank must be an integer")
		return
	}
	count := defaultDirectoryCount
	if raw := ctx.Query("count"); raw != "" {
		if count, err = strconv.Atoi(raw); err != nil {
			writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "count must be an integer")
			return
		}
	}
	resp, err := h.RealmUC.Directory(c, sandbox.DirectoryRequest{StartRank: startRank, Count: count})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) profile(c context.Context, ctx *app.RequestContext) {
	if _, err := h.requireSession(c, ctx); err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.RealmUC.Profile(c, ctx.Param("name"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) attack(c context.Context, ctx *app.RequestContext) {
	name, err := h.requireSession(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body attackRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.RealmUC.Attack(c, sandbox.AttackRequest{Attacker: name, Target: body.Target})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) weapons(c context.Context, ctx *app.RequestContext) {
	name, err := h.requireSession(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.RealmUC.Weapons(c, name)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) repair(c context.Context, ctx *app.RequestContext) {
	name, err := h.requireSession(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.RealmUC.Repair(c, name)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) chest(c context.Context, ctx *app.RequestContext) {
	name, err := h.requireSession(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.RealmUC.Chest(c, name)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) deposit(c context.Context, ctx *app.RequestContext) {
	name, err := h.requireSession(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body depositRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.RealmUC.Deposit(c, sandbox.DepositRequest{Name: name, Amount: body.Amount})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func sessionToken(ctx *app.RequestContext) string {
	return strings.TrimSpace(string(ctx.GetHeader(sessionHeader)))
}

func (h Handler) requireSession(c context.Context, ctx *app.RequestContext) (string, error) {
	token := sessionToken(ctx)
	if token == "" {
		return "", ErrMissingSessionToken
	}
	return h.RealmUC.Authenticate(c, token)
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, ErrMissingSessionToken):
		writeErrorBody(ctx, consts.StatusUnauthorized, "missing_session", err.Error())
	case errors.Is(err, sandbox.ErrUnknownSession):
		writeErrorBody(ctx, consts.StatusUnauthorized, "invalid_session", err.Error())
	case errors.Is(err, sandbox.ErrInvalidCredentials):
		writeErrorBody(ctx, consts.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, realm.ErrSelfAttack):
		writeErrorBody(ctx, consts.StatusBadRequest, "self_attack", err.Error())
	case errors.Is(err, realm.ErrNoTurnsLeft):
		writeErrorBody(ctx, consts.StatusConflict, "no_turns_left", err.Error())
	case errors.Is(err, realm.ErrInsufficientGold):
		writeErrorBody(ctx, consts.StatusConflict, "insufficient_gold", err.Error())
	case errors.Is(err, sandbox.ErrInvalidRequest),
		errors.Is(err, realm.ErrInvalidAmount):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
