package main

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mila-vasiutynska/portfolio/internal/contact"
)

//go:embed templates/*.html
var templateFS embed.FS

// app carries the shared dependencies of the HTTP handlers.
type app struct {
	cfg         *Config
	db          *sql.DB
	log         *zap.Logger
	contacts    *contact.Registry
	limiter     *limiterCache
	adminToken  string
	hashingSalt string
}

func newApp(cfg *Config, db *sql.DB, logger *zap.Logger, sender contact.Sender) (*app, error) {
	token, err := generateAdminToken()
	if err != nil {
		return nil, fmt.Errorf("generating admin token: %w", err)
	}
	salt, err := generateAdminToken()
	if err != nil {
		return nil, fmt.Errorf("generating hashing salt: %w", err)
	}
	return &app{
		cfg: cfg,
		db:  db,
		log: logger,
		contacts: contact.NewRegistry(sender, contact.Options{
			ToName:      cfg.ContactToName,
			ResetDelay:  cfg.ContactResetDelay,
			Logger:      logger.Named("contact"),
			MaxSessions: cfg.SessionMax,
		}),
		limiter:     newLimiterCache(cfg.ContactRatePerMin),
		adminToken:  token,
		hashingSalt: salt,
	}, nil
}

// newSender builds the mail transport selected by MAIL_TRANSPORT.
func newSender(cfg *Config, logger *zap.Logger) (contact.Sender, error) {
	if cfg.MailTransport == "smtp" {
		return contact.NewSMTP(contact.SMTPConfig{
			Host:    cfg.SMTPHost,
			Port:    cfg.SMTPPort,
			User:    cfg.SMTPUser,
			Pass:    cfg.SMTPPass,
			ToEmail: cfg.ToEmail,
		}, logger), nil
	}
	sender, err := contact.NewEmailJS(contact.EmailJSConfig{
		Endpoint:   cfg.EmailJSEndpoint,
		ServiceID:  cfg.EmailJSServiceID,
		TemplateID: cfg.EmailJSTemplateID,
		PublicKey:  cfg.EmailJSPublicKey,
		PrivateKey: cfg.EmailJSPrivateKey,
		Timeout:    cfg.ContactSendTimeout,
	}, nil, logger)
	if err != nil {
		return nil, err
	}
	return sender, nil
}

func (a *app) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), a.requestLogger(), a.visitorTrackingMiddleware())
	r.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	r.Static("/images", "./images")
	r.Static("/static", "./static")

	// Home page route
	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", gin.H{
			"profile":        profile,
			"experience":     experience,
			"education":      education,
			"certifications": certifications,
			"projects":       projects,
			"modelEmbedURL":  modelEmbedURL,
			"contact":        a.contactView(a.peekSession(c)),
		})
	})

	a.setupContactRoutes(r)
	a.setupAdminRoutes(r)
	return r
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "portfolio",
		Short:         "Personal portfolio site with a contact form",
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	root.AddCommand(newServeCmd(), newSendCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the portfolio page",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.DBPath)
	if err != nil {
		logger.Fatal("opening database", zap.Error(err))
	}
	defer db.Close()

	sender, err := newSender(cfg, logger)
	if err != nil {
		logger.Fatal("configuring mail transport", zap.Error(err))
	}

	a, err := newApp(cfg, db, logger, sender)
	if err != nil {
		logger.Fatal("initialising", zap.Error(err))
	}
	defer a.contacts.Close()
	if cfg.IsDevelopment() {
		logger.Debug("admin token (dev only)", zap.String("token", a.adminToken))
	}

	sched, err := a.startScheduler()
	if err != nil {
		logger.Fatal("starting scheduler", zap.Error(err))
	}
	defer func() { <-sched.Stop().Done() }()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           a.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.String("mail_transport", cfg.MailTransport))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
	}
	return nil
}

func newSendCmd() *cobra.Command {
	var form contact.FormData
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send one contact message through the configured mail transport",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			sender, err := newSender(cfg, logger)
			if err != nil {
				return err
			}
			return sendOnce(cmd.Context(), cmd, sender, cfg, form)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&form.FirstName, "first", "", "sender first name (required)")
	flags.StringVar(&form.LastName, "last", "", "sender last name (required)")
	flags.StringVar(&form.Email, "email", "", "sender email address (required)")
	flags.StringVar(&form.Subject, "subject", "", "subject line")
	flags.StringVar(&form.Message, "message", "", "message body (required)")
	return cmd
}

// sendOnce runs a single submission through a throwaway controller.
func sendOnce(ctx context.Context, cmd *cobra.Command, sender contact.Sender, cfg *Config, form contact.FormData) error {
	ctrl := contact.NewController(sender, contact.Options{ToName: cfg.ContactToName})
	defer ctrl.Close()

	if err := ctrl.SetForm(form); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.ContactSendTimeout)
	defer cancel()

	if err := ctrl.Submit(ctx); err != nil {
		if errors.Is(err, contact.ErrInvalidInput) {
			return errors.New("--first, --last, --email and --message are required")
		}
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "message sent")
	return nil
}
