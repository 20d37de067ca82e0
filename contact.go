package main

import (
	"context"
	"errors"
	"html"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/mila-vasiutynska/portfolio/internal/contact"
)

const sessionCookie = "contact_session"

// Banner copy for the contact form.
const (
	bannerSuccess      = "Thank you! Your message has been sent successfully."
	bannerInvalidInput = "Please fill in all required fields."
	bannerDelivery     = "Sorry, your message could not be sent. Please try again later."
	bannerRateLimited  = "Too many messages. Please wait a moment and try again."
)

// banner is what the contact templates render above the form.
type banner struct {
	Kind string // "success" or "error"
	Text string
}

func bannerFor(snap contact.Snapshot) *banner {
	switch snap.Status {
	case contact.StatusSucceeded:
		return &banner{Kind: "success", Text: bannerSuccess}
	case contact.StatusFailed:
		if errors.Is(snap.Err, contact.ErrInvalidInput) {
			return &banner{Kind: "error", Text: bannerInvalidInput}
		}
		return &banner{Kind: "error", Text: bannerDelivery}
	}
	return nil
}

// limiterCache hands out one token bucket per key.
type limiterCache struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
	maxSize  int
}

func newLimiterCache(perMinute int) *limiterCache {
	return &limiterCache{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
		maxSize:  10000,
	}
}

func (lc *limiterCache) allow(key string) bool {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	limiter, ok := lc.limiters[key]
	if !ok {
		if len(lc.limiters) >= lc.maxSize {
			lc.limiters = make(map[string]*rate.Limiter)
		}
		limiter = rate.NewLimiter(lc.rate, lc.burst)
		lc.limiters[key] = limiter
	}
	return limiter.Allow()
}

var sanitizer = bluemonday.StrictPolicy()

// stripTags removes markup from visitor input and returns plain text. The
// templates escape it again on output.
func stripTags(v string) string {
	return html.UnescapeString(sanitizer.Sanitize(v))
}

func sanitizeForm(f contact.FormData) contact.FormData {
	return contact.FormData{
		FirstName: stripTags(f.FirstName),
		LastName:  stripTags(f.LastName),
		Email:     stripTags(f.Email),
		Subject:   stripTags(f.Subject),
		Message:   stripTags(f.Message),
	}
}

// session returns the contact controller bound to the request's cookie. A
// missing or malformed cookie is replaced with a freshly minted id.
func (a *app) session(c *gin.Context) *contact.Controller {
	id, err := c.Cookie(sessionCookie)
	if err != nil || !contact.ValidSessionID(id) {
		id = a.contacts.NewSessionID()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(sessionCookie, id, 0, "/", "", !a.cfg.IsDevelopment(), true)
	}
	return a.contacts.Get(id)
}

// peekSession snapshots the request's session for rendering. Unknown
// sessions render as an empty idle form and are not created; only routes
// that change the form do that.
func (a *app) peekSession(c *gin.Context) contact.Snapshot {
	id, err := c.Cookie(sessionCookie)
	if err != nil || !contact.ValidSessionID(id) {
		return contact.Snapshot{}
	}
	ctrl, ok := a.contacts.Lookup(id)
	if !ok {
		return contact.Snapshot{}
	}
	return ctrl.Snapshot()
}

func (a *app) contactView(snap contact.Snapshot) gin.H {
	return gin.H{
		"form":       snap.Form,
		"banner":     bannerFor(snap),
		"submitting": snap.Status == contact.StatusSubmitting,
		"status":     snap.Status.String(),
	}
}

func (a *app) recordAttempt(c *gin.Context, outcome string) {
	if err := recordContactAttempt(c.Request.Context(), a.db, a.hashIP(c.ClientIP()), outcome, time.Now()); err != nil {
		a.log.Error("recording contact attempt", zap.Error(err))
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeSucceeded
	case errors.Is(err, contact.ErrInvalidInput):
		return outcomeInvalidInput
	case errors.Is(err, contact.ErrBusy):
		return outcomeBusy
	default:
		return outcomeDeliveryFailed
	}
}

func (a *app) setupContactRoutes(r *gin.Engine) {
	// HTMX contact form fragment
	r.GET("/contact-form", func(c *gin.Context) {
		c.HTML(http.StatusOK, "contact.html", a.contactView(a.peekSession(c)))
	})

	// Banner fragment polled while a notification is showing
	r.GET("/contact/status", func(c *gin.Context) {
		c.HTML(http.StatusOK, "contact-banner.html", a.contactView(a.peekSession(c)))
	})

	// Field update sent by HTMX on change, e.g. firstName=Ada
	r.POST("/contact/field", func(c *gin.Context) {
		if err := c.Request.ParseForm(); err != nil || len(c.Request.PostForm) == 0 {
			c.String(http.StatusBadRequest, "malformed form")
			return
		}
		values := make(map[string]string, len(c.Request.PostForm))
		for name := range c.Request.PostForm {
			values[name] = stripTags(c.Request.PostForm.Get(name))
		}
		err := a.session(c).SetFields(values)
		switch {
		case err == nil:
			c.Status(http.StatusNoContent)
		case errors.Is(err, contact.ErrUnknownField):
			c.String(http.StatusBadRequest, "unknown field")
		case errors.Is(err, contact.ErrBusy):
			c.String(http.StatusConflict, "submission in progress")
		default:
			c.String(http.StatusGone, "session closed")
		}
	})

	r.POST("/contact", func(c *gin.Context) {
		if !a.limiter.allow(a.hashIP(c.ClientIP())) {
			a.recordAttempt(c, outcomeRateLimited)
			view := a.contactView(a.peekSession(c))
			view["banner"] = &banner{Kind: "error", Text: bannerRateLimited}
			c.HTML(http.StatusTooManyRequests, "contact.html", view)
			return
		}

		var form contact.FormData
		if err := c.ShouldBind(&form); err != nil {
			c.String(http.StatusBadRequest, "malformed form")
			return
		}

		ctrl := a.session(c)
		err := ctrl.SetForm(sanitizeForm(form))
		if err == nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), a.cfg.ContactSendTimeout)
			err = ctrl.Submit(ctx)
			cancel()
		}
		if errors.Is(err, contact.ErrClosed) {
			c.String(http.StatusGone, "session closed")
			return
		}
		a.recordAttempt(c, outcomeOf(err))
		if err != nil && !errors.Is(err, contact.ErrInvalidInput) {
			a.log.Warn("contact submission failed", zap.Error(err))
		}

		c.HTML(http.StatusOK, "contact.html", a.contactView(ctrl.Snapshot()))
	})
}
