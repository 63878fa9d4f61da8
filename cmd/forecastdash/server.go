package main

import (
	"bytes"
	"errors"
	"log"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/google/uuid"

	forecastdash "github.com/maslow-group/forecastdash"
	"github.com/maslow-group/forecastdash/report"
	"github.com/maslow-group/forecastdash/sales"
)

const sessionCookie = "forecastdash_session"

// sessionStore keeps the last request per browser session so a reload
// re-renders with the user's previous controls. Each update overwrites
// the whole request synchronously.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]forecastdash.Request
	initial  forecastdash.Request
}

func newSessionStore(initial forecastdash.Request) *sessionStore {
	return &sessionStore{
		sessions: make(map[string]forecastdash.Request),
		initial:  initial,
	}
}

func (s *sessionStore) get(id string) forecastdash.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if req, ok := s.sessions[id]; ok {
		return req
	}
	return s.initial
}

func (s *sessionStore) put(id string, req forecastdash.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = req
}

func sessionID(c *fiber.Ctx) string {
	if id := c.Cookies(sessionCookie); id != "" {
		return id
	}
	id := uuid.NewString()
	c.Cookie(&fiber.Cookie{Name: sessionCookie, Value: id})
	return id
}

// applyQuery folds the recognized query parameters into the session's
// request.
func applyQuery(c *fiber.Ctx, req forecastdash.Request) forecastdash.Request {
	if v := c.Query("brand"); v != "" {
		req.ProfileKey = v
	}
	if v := c.QueryInt("horizon", 0); v != 0 {
		req.Horizon = v
	}
	if v := c.Query("confidence"); v != "" {
		if conf, err := strconv.ParseFloat(v, 64); err == nil {
			req.Confidence = conf
		}
	}
	if v := c.Query("strategy"); v != "" {
		req.Strategy = forecastdash.StrategyKind(v)
	}
	if v := c.Query("view"); v != "" {
		req.View = forecastdash.ViewMode(v)
	}
	if v := c.Query("seed"); v != "" {
		if seed, err := strconv.ParseUint(v, 10, 64); err == nil {
			req.Seed = seed
		}
	}
	if v := c.Query("bands"); v != "" {
		req.ShowBands = v == "1" || v == "true"
	}
	if v := c.Query("components"); v != "" {
		req.ShowComponents = v == "1" || v == "true"
	}
	return req
}

func statusFor(err error) int {
	var ve *sales.ValidationError
	if errors.As(err, &ve) {
		return fiber.StatusBadRequest
	}
	switch {
	case errors.Is(err, sales.ErrBadDate),
		errors.Is(err, sales.ErrBadNumber),
		errors.Is(err, sales.ErrEmptyFile),
		errors.Is(err, sales.ErrNoObservations):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func runServer(addr string, initial forecastdash.Request) error {
	dash := forecastdash.New(nil)
	store := newSessionStore(initial)

	app := fiber.New(fiber.Config{AppName: "forecastdash"})
	app.Use(logger.New())

	render := func(c *fiber.Ctx) (*forecastdash.Snapshot, error) {
		id := sessionID(c)
		req := applyQuery(c, store.get(id))
		snap, err := dash.Render(req)
		if err != nil {
			return nil, err
		}
		store.put(id, req)
		return snap, nil
	}

	app.Get("/", func(c *fiber.Ctx) error {
		snap, err := render(c)
		if err != nil {
			return c.Status(statusFor(err)).SendString(err.Error())
		}
		var buf bytes.Buffer
		if err := snap.WritePage(&buf); err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString(err.Error())
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Send(buf.Bytes())
	})

	app.Get("/api/snapshot", func(c *fiber.Ctx) error {
		snap, err := render(c)
		if err != nil {
			return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
		}
		var buf bytes.Buffer
		if err := report.WriteJSON(&buf, snap); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(buf.Bytes())
	})

	app.Post("/upload", func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).SendString("missing upload file")
		}
		f, err := fh.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).SendString(err.Error())
		}
		defer f.Close()

		var series *sales.Series
		switch filepath.Ext(fh.Filename) {
		case ".xlsx", ".xlsm":
			series, err = sales.LoadXLSX(f)
		default:
			series, err = sales.LoadCSV(f)
		}
		if err != nil {
			return c.Status(statusFor(err)).SendString(err.Error())
		}

		id := sessionID(c)
		req := store.get(id)
		req.Source = forecastdash.SourceUpload
		req.Upload = series
		store.put(id, req)
		return c.Redirect("/")
	})

	app.Post("/reset", func(c *fiber.Ctx) error {
		id := sessionID(c)
		req := store.get(id)
		req.Source = forecastdash.SourceSample
		req.Upload = nil
		store.put(id, req)
		return c.Redirect("/")
	})

	app.Get("/export", func(c *fiber.Ctx) error {
		snap, err := render(c)
		if err != nil {
			return c.Status(statusFor(err)).SendString(err.Error())
		}
		var buf bytes.Buffer
		if err := report.WriteXLSX(&buf, snap); err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString(err.Error())
		}
		name := report.Filename(snap.Profile.Key, snap.GeneratedAt)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		return c.Send(buf.Bytes())
	})

	log.Printf("forecastdash listening on %s", addr)
	return app.Listen(addr)
}
