package relay

import (
	"errors"
	"regexp"
	"sync"

	"github.com/overlaykit/streamrelay/internal/ierr"
	"go.uber.org/zap"
)

// UsernameValidator checks streamer usernames against the platform's
// charset before they reach the registry.
type UsernameValidator struct {
	usernameRegex *regexp.Regexp
}

func NewUsernameValidator() *UsernameValidator {
	return &UsernameValidator{
		usernameRegex: regexp.MustCompile(`^[\w.]{1,24}$`),
	}
}

func (v *UsernameValidator) Validate(username string) error {
	if !v.usernameRegex.MatchString(username) {
		return ierr.New(ierr.ErrorCodeInvalidArgument, errors.New("invalid streamer username"))
	}

	return nil
}

// Controller drives the per-subscriber session lifecycle: it binds
// watch requests to shared upstream sessions and tears sessions down
// when their last subscriber leaves. Watch and Close are serialized so
// acquire-and-associate and drain-and-release stay atomic.
type Controller struct {
	logger    *zap.Logger
	validator *UsernameValidator
	registry  *Registry
	directory *Directory

	mu sync.Mutex
}

func NewController(
	logger *zap.Logger,
	validator *UsernameValidator,
	registry *Registry,
	directory *Directory,
) *Controller {
	return &Controller{
		logger:    logger,
		validator: validator,
		registry:  registry,
		directory: directory,
	}
}

// Watch binds subscriber to streamer, opening the shared upstream
// session on first use. A repeated watch for the same streamer is a
// no-op; a watch for a different streamer while already bound fails.
func (c *Controller) Watch(subscriber *Subscriber, streamer string) error {
	if err := c.validator.Validate(streamer); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if current, ok := c.directory.StreamerOf(subscriber.Id); ok {
		if current == streamer {
			return nil
		}

		return ierr.New(ierr.ErrorCodeFailedPrecondition,
			errors.New("subscriber already watching "+current))
	}

	// Associate before acquiring so the connect outcome of a fresh
	// session always reaches the subscriber that triggered it.
	if err := c.directory.Associate(subscriber, streamer); err != nil {
		return err
	}

	c.registry.Acquire(streamer)

	c.logger.Info("subscriber watching streamer",
		zap.String("subscriberId", subscriber.Id),
		zap.String("streamer", streamer))

	return nil
}

// Close finishes the subscriber's session: it leaves the directory, and
// the upstream session is released once no subscribers remain for its
// streamer.
func (c *Controller) Close(subscriber *Subscriber) {
	c.mu.Lock()
	defer c.mu.Unlock()

	subscriber.Close()

	streamer, ok := c.directory.Disassociate(subscriber)
	if !ok {
		return
	}

	c.logger.Info("subscriber left streamer",
		zap.String("subscriberId", subscriber.Id),
		zap.String("streamer", streamer))

	if c.directory.Count(streamer) == 0 {
		c.registry.Release(streamer)
	}
}
