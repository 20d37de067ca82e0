// admin.go - privacy-conscious visitor tracking and admin dashboard
package main

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Privacy-conscious visitor tracking struct
type VisitorMetric struct {
	ID        int       `json:"id"`
	HashedIP  string    `json:"hashed_ip"` // Hashed instead of raw IP for privacy
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

type ContactOutcomeStat struct {
	Outcome string `json:"outcome"`
	Count   int64  `json:"count"`
}

type AdminStats struct {
	TotalVisitors     int64                `json:"total_visitors"`
	UniqueVisitors    int64                `json:"unique_visitors"`
	VisitorsToday     int64                `json:"visitors_today"`
	VisitorsThisWeek  int64                `json:"visitors_this_week"`
	ContactAttempts   int64                `json:"contact_attempts"`
	ContactsDelivered int64                `json:"contacts_delivered"`
	ContactOutcomes   []ContactOutcomeStat `json:"contact_outcomes"`
	ActiveSessions    int                  `json:"active_sessions"`
	RecentVisitors    []VisitorMetric      `json:"recent_visitors"`
}

func generateAdminToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// Hash IP address for privacy compliance (consistent per IP)
func (a *app) hashIP(ip string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + a.hashingSalt))
	return hex.EncodeToString(hash.Sum(nil))[:16]
}

func (a *app) adminCredentials() (string, string) {
	username, password := a.cfg.AdminUsername, a.cfg.AdminPassword
	if username == "" {
		username = "admin"
		a.log.Warn("using default admin username; set ADMIN_USERNAME")
	}
	if password == "" {
		password = "admin123"
		a.log.Warn("using default admin password; set ADMIN_PASSWORD")
	}
	return username, password
}

// Middleware to check admin authentication
func (a *app) adminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("admin_token")
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(a.adminToken)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Privacy-conscious visitor tracking middleware
func (a *app) visitorTrackingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet ||
			strings.HasPrefix(path, "/static/") ||
			strings.HasPrefix(path, "/images/") ||
			strings.HasPrefix(path, "/admin/") ||
			strings.HasPrefix(path, "/contact") ||
			strings.HasPrefix(path, "/favicon") ||
			strings.HasPrefix(path, "/privacy") {
			c.Next()
			return
		}

		// Respect Do Not Track header
		if c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		hashed := a.hashIP(c.ClientIP())
		if err := recordVisitor(c.Request.Context(), a.db, hashed, c.GetHeader("User-Agent"), path, time.Now()); err != nil {
			a.log.Error("recording visitor", zap.Error(err))
		}
		c.Next()
	}
}

// cleanupOldVisitorData removes tracking rows past the retention window.
func (a *app) cleanupOldVisitorData(ctx context.Context) {
	removed, err := pruneOlderThan(ctx, a.db, time.Now().Add(-a.cfg.VisitorRetention))
	if err != nil {
		a.log.Error("privacy cleanup failed", zap.Error(err))
		return
	}
	if removed > 0 {
		a.log.Info("privacy cleanup", zap.Int64("removed", removed), zap.Duration("retention", a.cfg.VisitorRetention))
	}
}

// Get comprehensive admin statistics
func (a *app) getAdminStats(ctx context.Context) (*AdminStats, error) {
	stats := &AdminStats{ActiveSessions: a.contacts.Len()}
	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, "SELECT COUNT(*) FROM visitors", nil},
		{&stats.UniqueVisitors, "SELECT COUNT(DISTINCT hashed_ip) FROM visitors", nil},
		{&stats.VisitorsToday, "SELECT COUNT(*) FROM visitors WHERE timestamp >= ?", []any{dayStart}},
		{&stats.VisitorsThisWeek, "SELECT COUNT(*) FROM visitors WHERE timestamp >= ?", []any{now.AddDate(0, 0, -7)}},
		{&stats.ContactAttempts, "SELECT COUNT(*) FROM contact_attempts", nil},
		{&stats.ContactsDelivered, "SELECT COUNT(*) FROM contact_attempts WHERE outcome = ?", []any{outcomeSucceeded}},
	}
	for _, q := range counts {
		if err := a.db.QueryRowContext(ctx, q.query, q.args...).Scan(q.dst); err != nil {
			return nil, err
		}
	}

	rows, err := a.db.QueryContext(ctx, `
		SELECT outcome, COUNT(*) FROM contact_attempts
		GROUP BY outcome
		ORDER BY COUNT(*) DESC, outcome
	`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var s ContactOutcomeStat
		if err := rows.Scan(&s.Outcome, &s.Count); err != nil {
			continue
		}
		stats.ContactOutcomes = append(stats.ContactOutcomes, s)
	}
	rows.Close()

	stats.RecentVisitors, err = a.recentVisitors(ctx, 50)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (a *app) recentVisitors(ctx context.Context, limit int) ([]VisitorMetric, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), timestamp
		FROM visitors
		ORDER BY timestamp DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visitors []VisitorMetric
	for rows.Next() {
		var visitor VisitorMetric
		if err := rows.Scan(&visitor.ID, &visitor.HashedIP, &visitor.UserAgent, &visitor.Path, &visitor.Timestamp); err != nil {
			continue
		}
		visitors = append(visitors, visitor)
	}
	return visitors, rows.Err()
}

// Setup all admin routes
func (a *app) setupAdminRoutes(r *gin.Engine) {
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title":     "Privacy Policy",
			"retention": a.cfg.VisitorRetention.String(),
		})
	})

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")
		wantUser, wantPass := a.adminCredentials()

		userOK := subtle.ConstantTimeCompare([]byte(username), []byte(wantUser)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(password), []byte(wantPass)) == 1
		if userOK && passOK {
			c.SetCookie("admin_token", a.adminToken, 3600*24, "/admin", "", !a.cfg.IsDevelopment(), true)
			a.log.Info("admin login", zap.String("client", a.hashIP(c.ClientIP())))
			c.Redirect(http.StatusFound, "/admin/dashboard")
			return
		}
		a.log.Warn("failed admin login", zap.String("client", a.hashIP(c.ClientIP())))
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
			"title": "Admin Login",
			"error": "Invalid credentials",
		})
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie("admin_token", "", -1, "/admin", "", !a.cfg.IsDevelopment(), true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	adminGroup := r.Group("/admin")
	adminGroup.Use(a.adminAuthMiddleware())

	adminGroup.GET("/dashboard", func(c *gin.Context) {
		stats, err := a.getAdminStats(c.Request.Context())
		if err != nil {
			a.log.Error("loading admin stats", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats": stats,
		})
	})

	adminGroup.GET("/api/stats", func(c *gin.Context) {
		stats, err := a.getAdminStats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	adminGroup.GET("/visitors", func(c *gin.Context) {
		visitors, err := a.recentVisitors(c.Request.Context(), 200)
		if err != nil {
			a.log.Error("loading visitors", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load visitors",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{
			"visitors": visitors,
		})
	})

	adminGroup.POST("/privacy/cleanup", func(c *gin.Context) {
		a.cleanupOldVisitorData(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup finished"})
	})

	adminGroup.GET("/export/stats", func(c *gin.Context) {
		stats, err := a.getAdminStats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		a.log.Info("admin stats exported", zap.String("client", a.hashIP(c.ClientIP())))
		c.JSON(http.StatusOK, stats)
	})
}
