package contact

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultResetDelay is how long a success or error banner stays visible.
const DefaultResetDelay = 5 * time.Second

// Sender delivers a contact message to the site owner.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, msg Message) error

func (f SenderFunc) Send(ctx context.Context, msg Message) error { return f(ctx, msg) }

// Options configures a Controller.
type Options struct {
	ToName     string
	ResetDelay time.Duration
	Clock      Clock
	Logger     *zap.Logger

	// MaxSessions bounds a Registry; zero means unbounded. Controllers
	// ignore it.
	MaxSessions int
}

// Snapshot is a copy of the controller state for rendering.
type Snapshot struct {
	Form   FormData
	Status Status
	Err    error
}

// Controller owns the form of one page session: the field values, the
// submission status and the timer that clears the banner.
type Controller struct {
	sender Sender
	toName string
	delay  time.Duration
	clock  Clock
	logger *zap.Logger

	mu       sync.Mutex
	form     FormData
	status   Status
	lastErr  error
	gen      uint64
	timer    Timer
	closed   bool
	lastSeen time.Time
}

// NewController returns an idle controller delivering through sender.
func NewController(sender Sender, opts Options) *Controller {
	if opts.ResetDelay <= 0 {
		opts.ResetDelay = DefaultResetDelay
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Controller{
		sender:   sender,
		toName:   opts.ToName,
		delay:    opts.ResetDelay,
		clock:    opts.Clock,
		logger:   opts.Logger,
		lastSeen: opts.Clock.Now(),
	}
}

// Form returns the current field values.
func (c *Controller) Form() FormData {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// Status returns the current submission status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Snapshot returns the form, status and last error together.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastSeen = c.clock.Now()
	return Snapshot{Form: c.form, Status: c.status, Err: c.lastErr}
}

// SetField updates one field by its wire name and leaves the others alone.
func (c *Controller) SetField(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editableLocked(); err != nil {
		return err
	}
	return c.form.set(name, value)
}

// SetFields updates several fields by wire name at once. Either all of them
// are applied or, when a name is unknown, none are.
func (c *Controller) SetFields(values map[string]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editableLocked(); err != nil {
		return err
	}
	next, err := c.form.withFields(values)
	if err != nil {
		return err
	}
	c.form = next
	return nil
}

// SetForm replaces all five fields.
func (c *Controller) SetForm(data FormData) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editableLocked(); err != nil {
		return err
	}
	c.form = data
	return nil
}

func (c *Controller) editableLocked() error {
	if c.closed {
		return ErrClosed
	}
	if c.status == StatusSubmitting {
		return ErrBusy
	}
	c.lastSeen = c.clock.Now()
	return nil
}

// Submit validates the current form and delivers it. It blocks until the
// sender returns. The returned error matches ErrInvalidInput,
// ErrDeliveryFailed, ErrBusy or ErrClosed.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.status == StatusSubmitting {
		c.mu.Unlock()
		return ErrBusy
	}
	c.lastSeen = c.clock.Now()
	data := c.form
	if !Validate(data) {
		c.settleLocked(StatusFailed, ErrInvalidInput)
		c.mu.Unlock()
		c.logger.Debug("contact form rejected", zap.Error(ErrInvalidInput))
		return ErrInvalidInput
	}
	c.transitionLocked(StatusSubmitting, nil)
	gen := c.gen
	c.mu.Unlock()

	msg := NewMessage(data, c.toName)
	sendErr := c.sender.Send(ctx, msg)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.gen != gen {
		c.logger.Debug("discarding submission result", zap.Bool("closed", c.closed))
		if sendErr != nil {
			return fmt.Errorf("%w: %w", ErrDeliveryFailed, sendErr)
		}
		return nil
	}
	if sendErr != nil {
		err := fmt.Errorf("%w: %w", ErrDeliveryFailed, sendErr)
		c.settleLocked(StatusFailed, err)
		c.logger.Warn("contact message delivery failed", zap.Error(sendErr))
		return err
	}
	c.form = FormData{}
	c.settleLocked(StatusSucceeded, nil)
	c.logger.Info("contact message delivered", zap.String("subject", msg.Subject))
	return nil
}

// transitionLocked moves to status and invalidates any pending reset.
func (c *Controller) transitionLocked(status Status, err error) {
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.status = status
	c.lastErr = err
}

// settleLocked enters a banner status and arms a reset scoped to it.
func (c *Controller) settleLocked(status Status, err error) {
	c.transitionLocked(status, err)
	gen := c.gen
	c.timer = c.clock.AfterFunc(c.delay, func() { c.reset(gen) })
}

func (c *Controller) reset(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.gen != gen {
		return
	}
	c.gen++
	c.timer = nil
	c.status = StatusIdle
	c.lastErr = nil
}

// IdleSince reports when the session last touched the controller.
func (c *Controller) IdleSince() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSeen
}

// Close discards the controller. Pending timers and in-flight submissions
// no longer change its state.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
