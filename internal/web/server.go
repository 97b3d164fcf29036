// Package web is the intake surface: a JSON endpoint that turns a booking
// link into a PENDING watch task, plus the LINE webhook callback. It is a
// thin wrapper over the store; all real invariants live below it.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/example/inline-waitlist/internal/inline"
	"github.com/example/inline-waitlist/internal/line"
	"github.com/example/inline-waitlist/internal/store"
)

type Server struct {
	Store store.Store
	Line  *line.Client

	// ChannelSecret verifies webhook signatures. When empty the webhook
	// accepts anything, which is only acceptable in local development.
	ChannelSecret string
}

func (s *Server) Routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok\n")
	})
	e.POST("/api/watchlist", s.handleWatchCreate)
	e.GET("/api/watchlist", s.handleWatchList)
	e.POST("/callback", s.handleWebhook)

	return e
}

func Start(ctx context.Context, addr string, e *echo.Echo) error {
	go func() {
		<-ctx.Done()
		_ = e.Shutdown(context.Background())
	}()
	if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type watchRequest struct {
	UserID     string `json:"userId"`
	BookingURL string `json:"bookingUrl"`
	TargetDate string `json:"targetDate"`
	PartySize  int    `json:"partySize"`
}

func (s *Server) handleWatchCreate(c echo.Context) error {
	var req watchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json body"})
	}
	if req.UserID == "" || req.BookingURL == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "userId and bookingUrl are required"})
	}
	if !dateRe.MatchString(req.TargetDate) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "targetDate must be YYYY-MM-DD"})
	}
	if req.PartySize < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "partySize must be positive"})
	}

	companyID, branchID, err := inline.ParseBookingURL(req.BookingURL)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking url"})
	}

	ctx := c.Request().Context()
	restaurantID, err := s.Store.UpsertRestaurant(ctx, companyID, branchID, "Unknown", req.BookingURL)
	if err != nil {
		log.Printf("web: upsert restaurant: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "storage error"})
	}
	taskID, err := s.Store.InsertTask(ctx, req.UserID, restaurantID, req.TargetDate, req.PartySize)
	if err != nil {
		log.Printf("web: insert task: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "storage error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "taskId": taskID})
}

func (s *Server) handleWatchList(c echo.Context) error {
	userID := c.QueryParam("userId")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "userId is required"})
	}
	tasks, err := s.Store.ListByUser(c.Request().Context(), userID)
	if err != nil {
		log.Printf("web: list by user: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "storage error"})
	}

	type taskView struct {
		ID         int64  `json:"id"`
		TargetDate string `json:"targetDate"`
		PartySize  int    `json:"partySize"`
		Status     string `json:"status"`
	}
	out := make([]taskView, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskView{ID: t.ID, TargetDate: t.TargetDate, PartySize: t.PartySize, Status: t.Status})
	}
	return c.JSON(http.StatusOK, echo.Map{"tasks": out})
}

type webhookEvent struct {
	Type       string `json:"type"`
	ReplyToken string `json:"replyToken"`
	Source     struct {
		UserID string `json:"userId"`
	} `json:"source"`
	Message struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"message"`
}

type webhookPayload struct {
	Events []webhookEvent `json:"events"`
}

// handleWebhook answers LINE platform events. The bot's only job is to
// hand users their opaque ID so they can register watches with it.
func (s *Server) handleWebhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}
	if s.ChannelSecret != "" {
		sig := c.Request().Header.Get("X-Line-Signature")
		if !line.ValidateSignature(s.ChannelSecret, body, sig) {
			return c.NoContent(http.StatusBadRequest)
		}
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return c.NoContent(http.StatusBadRequest)
	}

	ctx := c.Request().Context()
	for _, ev := range payload.Events {
		switch {
		case ev.Type == "follow":
			msg := "Welcome! Your user ID is:\n" + ev.Source.UserID + "\n\nEnter it in the app settings to enable notifications."
			if err := s.Line.Reply(ctx, ev.ReplyToken, msg); err != nil {
				log.Printf("web: webhook reply: %v", err)
			}
		case ev.Type == "message" && ev.Message.Type == "text" && isIDRequest(ev.Message.Text):
			if err := s.Line.Reply(ctx, ev.ReplyToken, "Your user ID:\n"+ev.Source.UserID); err != nil {
				log.Printf("web: webhook reply: %v", err)
			}
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func isIDRequest(text string) bool {
	switch strings.ToUpper(strings.TrimSpace(text)) {
	case "ID", "USERID":
		return true
	}
	return false
}
