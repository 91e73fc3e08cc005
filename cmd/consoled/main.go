// Package main runs the claim review console daemon: it polls the OCR
// backend for unconfirmed claims and serves the console API the browser
// frontend talks to.
package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/suya12/ocr-claim-review/internal/api"
	"github.com/suya12/ocr-claim-review/internal/authz"
	"github.com/suya12/ocr-claim-review/internal/backend"
	"github.com/suya12/ocr-claim-review/internal/claims"
	"github.com/suya12/ocr-claim-review/internal/config"
	"github.com/suya12/ocr-claim-review/internal/hidden"
	"github.com/suya12/ocr-claim-review/internal/httpx"
	"github.com/suya12/ocr-claim-review/internal/listview"
	"github.com/suya12/ocr-claim-review/internal/review"
	"github.com/suya12/ocr-claim-review/internal/validate"
)

// App holds the application state shared by the console handlers.
type App struct {
	env      config.Env
	client   *backend.Client
	engine   *listview.Engine
	sessions *review.Sessions
}

// openStore builds the hidden-key store selected by configuration.
func openStore(ctx context.Context, env config.Env) (hidden.Store, error) {
	switch env.HiddenStore {
	case "memory":
		return hidden.NewMemStore(), nil
	case "dynamo":
		if env.Table == "" {
			return nil, errors.New("HIDDEN_STORE=dynamo requires DDB_TABLE")
		}
		return hidden.OpenDDB(ctx, env.Region, env.Table)
	case "leveldb":
		return hidden.OpenLevel(env.HiddenPath)
	}
	return nil, errors.New("unknown HIDDEN_STORE " + env.HiddenStore)
}

// listClaims returns the current list-view state.
func (a *App) listClaims(c *fiber.Ctx) error {
	return httpx.JSON(c, fiber.StatusOK, api.ListResponse{
		Loading: a.engine.Loading(),
		Active:  a.engine.Active(),
		Items:   a.engine.Rows(),
	})
}

// setActive records the hovered row index.
func (a *App) setActive(c *fiber.Ctx) error {
	var req api.ActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.Error(c, fiber.StatusBadRequest, "bad request body")
	}
	a.engine.SetActive(req.Index)
	return httpx.OK(c)
}

// confirmClaim optimistically confirms one claim; a backend failure has
// already rolled the list back by the time the error surfaces here.
func (a *App) confirmClaim(c *fiber.Ctx) error {
	err := a.engine.Confirm(c.Context(), c.Params("key"))
	if errors.Is(err, listview.ErrUnknownClaim) {
		return httpx.Error(c, fiber.StatusNotFound, err.Error())
	}
	if err != nil {
		log.Printf("confirm failed: %v", err)
		return httpx.Error(c, fiber.StatusBadGateway, "확정 처리에 실패했습니다. 잠시 후 다시 시도해주세요.")
	}
	return httpx.OK(c)
}

// cropView serves the crop-image comparison payload for one field.
func (a *App) cropView(c *fiber.Ctx) error {
	row, ok := a.engine.Row(c.Params("key"))
	if !ok {
		return httpx.Error(c, fiber.StatusNotFound, "unknown claim")
	}
	view, ok := claims.Crop(row, c.Params("field"), a.client.BaseURL())
	if !ok {
		return httpx.Error(c, fiber.StatusNotFound, "no crop image for field")
	}
	return httpx.JSON(c, fiber.StatusOK, view)
}

// resetHidden clears the persisted confirmed-claim keys.
func (a *App) resetHidden(c *fiber.Ctx) error {
	if err := a.engine.ResetHidden(); err != nil {
		log.Printf("reset hidden keys: %v", err)
		return httpx.Error(c, fiber.StatusInternalServerError, "store error")
	}
	return httpx.OK(c)
}

// sessionView renders the full session state after every mutation.
func sessionView(s *review.Session) api.SessionResponse {
	return api.SessionResponse{
		SessionID:  s.ID,
		Key:        claims.Key(s.Original),
		Form:       s.Form(),
		Errors:     s.Errors(),
		Suggestion: s.Suggestion(),
		HistoryLen: s.HistoryLen(),
	}
}

// openSession starts editing a claim from the list view.
func (a *App) openSession(c *fiber.Ctx) error {
	row, ok := a.engine.Row(c.Params("key"))
	if !ok {
		return httpx.Error(c, fiber.StatusNotFound, "unknown claim")
	}
	return httpx.JSON(c, fiber.StatusCreated, sessionView(a.sessions.Open(row)))
}

// session resolves the session id parameter.
func (a *App) session(c *fiber.Ctx) (*review.Session, error) {
	s, err := a.sessions.Get(c.Params("id"))
	if err != nil {
		return nil, httpx.Error(c, fiber.StatusNotFound, err.Error())
	}
	return s, nil
}

// getSession returns the current session state.
func (a *App) getSession(c *fiber.Ctx) error {
	s, err := a.session(c)
	if s == nil {
		return err
	}
	return httpx.JSON(c, fiber.StatusOK, sessionView(s))
}

// setField applies one keystroke to a form field.
func (a *App) setField(c *fiber.Ctx) error {
	s, err := a.session(c)
	if s == nil {
		return err
	}
	var req api.SetFieldRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.Error(c, fiber.StatusBadRequest, "bad request body")
	}
	if err := s.SetField(c.Params("name"), req.Value); err != nil {
		return httpx.Error(c, fiber.StatusBadRequest, err.Error())
	}
	return httpx.JSON(c, fiber.StatusOK, sessionView(s))
}

// commitField reformats a field on focus loss.
func (a *App) commitField(c *fiber.Ctx) error {
	s, err := a.session(c)
	if s == nil {
		return err
	}
	if err := s.CommitField(c.Params("name")); err != nil {
		return httpx.Error(c, fiber.StatusBadRequest, err.Error())
	}
	return httpx.JSON(c, fiber.StatusOK, sessionView(s))
}

// undo restores the previous form snapshot.
func (a *App) undo(c *fiber.Ctx) error {
	s, err := a.session(c)
	if s == nil {
		return err
	}
	if err := s.Undo(); err != nil {
		return httpx.Error(c, fiber.StatusConflict, "되돌릴 변경사항이 없습니다.")
	}
	return httpx.JSON(c, fiber.StatusOK, sessionView(s))
}

// copyInsured copies insured identity fields onto the beneficiary.
func (a *App) copyInsured(c *fiber.Ctx) error {
	s, err := a.session(c)
	if s == nil {
		return err
	}
	s.CopyInsured()
	return httpx.JSON(c, fiber.StatusOK, sessionView(s))
}

// applyBank fills the bank-name field from the current suggestion chip.
func (a *App) applyBank(c *fiber.Ctx) error {
	s, err := a.session(c)
	if s == nil {
		return err
	}
	if err := s.ApplySuggestion(); err != nil {
		return httpx.Error(c, fiber.StatusConflict, err.Error())
	}
	return httpx.JSON(c, fiber.StatusOK, sessionView(s))
}

// saveSession runs the save protocol and, on success, merges the updated
// claim back into the list and ends the edit session.
func (a *App) saveSession(c *fiber.Ctx) error {
	s, err := a.session(c)
	if s == nil {
		return err
	}
	updated, err := s.Save(c.Context(), a.client)
	switch {
	case errors.Is(err, review.ErrValidation), errors.Is(err, validate.ErrContactFormat), errors.Is(err, validate.ErrNationalIDFormat):
		return httpx.Error(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, review.ErrNoIdentity):
		return httpx.Error(c, fiber.StatusPreconditionFailed, err.Error())
	case err != nil:
		log.Printf("save failed: %v", err)
		return httpx.Error(c, fiber.StatusBadGateway, "저장에 실패했습니다. 잠시 후 다시 시도해주세요.")
	}
	a.engine.ApplyUpdated(updated)
	a.sessions.Close(s.ID)
	return httpx.JSON(c, fiber.StatusOK, api.SaveResponse{OK: true, Claim: updated})
}

// closeSession discards a session when the operator navigates away.
func (a *App) closeSession(c *fiber.Ctx) error {
	a.sessions.Close(c.Params("id"))
	return httpx.OK(c)
}

// routes registers the console API.
func (a *App) routes(app *fiber.App) {
	g := app.Group("/api", authz.Middleware(a.env.ConsoleKey))

	g.Get("/claims", a.listClaims)
	g.Post("/claims/active", a.setActive)
	g.Post("/claims/:key/confirm", a.confirmClaim)
	g.Post("/claims/:key/edit", a.openSession)
	g.Get("/claims/:key/crops/:field", a.cropView)
	g.Post("/hidden/reset", a.resetHidden)

	g.Get("/sessions/:id", a.getSession)
	g.Patch("/sessions/:id/fields/:name", a.setField)
	g.Post("/sessions/:id/fields/:name/commit", a.commitField)
	g.Post("/sessions/:id/undo", a.undo)
	g.Post("/sessions/:id/copy-insured", a.copyInsured)
	g.Post("/sessions/:id/bank", a.applyBank)
	g.Post("/sessions/:id/save", a.saveSession)
	g.Delete("/sessions/:id", a.closeSession)
}

// main initializes the application and runs the poller and console server.
func main() {
	env := config.MustLoad()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, env)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	client := backend.New(env.BackendBaseURL, env.APIKey)
	app := &App{
		env:    env,
		client: client,
		engine: listview.New(client, store, listview.Config{
			PollInterval: env.PollInterval,
			PageLimit:    env.PageLimit,
		}),
		sessions: review.NewSessions(),
	}

	go app.engine.Run(ctx)

	srv := fiber.New(fiber.Config{AppName: "ocr-claim-review"})
	srv.Use(recover.New())
	srv.Use(logger.New())
	app.routes(srv)

	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("console listening on %s (backend %s, poll %s)", env.ListenAddr, env.BackendBaseURL, env.PollInterval)
	if err := srv.Listen(env.ListenAddr); err != nil {
		log.Fatal(err)
	}
}
