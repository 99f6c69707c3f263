package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"note-keeper/internal/domain"
	"note-keeper/internal/repository"
)

// ErrInvalidSession is returned when a token does not resolve to a live session.
var ErrInvalidSession = errors.New("invalid session")

// Manager issues, resolves and revokes cookie session tokens and sweeps expired sessions.
type Manager interface {
	Issue(ctx context.Context, userID string) (Ticket, error)
	Resolve(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
	Start(ctx context.Context) error
	Shutdown()
}

// Ticket is a freshly issued session token.
type Ticket struct {
	Token     string
	ExpiresAt time.Time
}

type Config struct {
	Secret        []byte
	TTL           time.Duration
	SweepInterval time.Duration
	Logger        *logrus.Logger
	Now           func() time.Time
}

type claims struct {
	jwt.RegisteredClaims
}

type manager struct {
	cfg      Config
	sessions repository.SessionRepository

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func NewManager(cfg Config, sessions repository.SessionRepository) Manager {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = 15 * time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &manager{
		cfg:      cfg,
		sessions: sessions,
	}
}

func (m *manager) Issue(ctx context.Context, userID string) (Ticket, error) {
	now := m.cfg.Now()
	sess := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: now.Add(m.cfg.TTL).Truncate(time.Second),
		CreatedAt: now.UTC(),
	}
	if err := m.sessions.Create(ctx, sess); err != nil {
		return Ticket{}, err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	})
	signed, err := token.SignedString(m.cfg.Secret)
	if err != nil {
		return Ticket{}, fmt.Errorf("sign session token: %w", err)
	}
	return Ticket{Token: signed, ExpiresAt: sess.ExpiresAt}, nil
}

// Resolve returns the user id bound to token.
func (m *manager) Resolve(ctx context.Context, token string) (string, error) {
	c, err := m.parse(token, jwt.WithExpirationRequired(), jwt.WithTimeFunc(m.cfg.Now))
	if err != nil {
		return "", ErrInvalidSession
	}

	sess, err := m.sessions.Get(ctx, c.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", ErrInvalidSession
		}
		return "", err
	}
	if sess.Expired(m.cfg.Now()) {
		if err := m.sessions.Delete(ctx, sess.ID); err != nil {
			m.cfg.Logger.WithError(err).Warn("delete expired session")
		}
		return "", ErrInvalidSession
	}
	return sess.UserID, nil
}

// Revoke destroys the session named by token. Unparseable tokens are ignored.
func (m *manager) Revoke(ctx context.Context, token string) error {
	c, err := m.parse(token, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil
	}
	return m.sessions.Delete(ctx, c.ID)
}

func (m *manager) parse(token string, opts ...jwt.ParserOption) (*claims, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	c := &claims{}
	parsed, err := jwt.ParseWithClaims(token, c, func(*jwt.Token) (any, error) {
		return m.cfg.Secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || c.ID == "" {
		return nil, ErrInvalidSession
	}
	return c, nil
}

// Start launches the background sweeper that removes expired sessions.
func (m *manager) Start(ctx context.Context) error {
	sweepCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.cfg.SweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				m.sweep(sweepCtx)
			}
		}
	}()

	m.cfg.Logger.Infof("session sweeper started, interval %s", m.cfg.SweepInterval)
	return nil
}

func (m *manager) sweep(ctx context.Context) {
	n, err := m.sessions.DeleteExpired(ctx, m.cfg.Now())
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			m.cfg.Logger.WithError(err).Warn("sweep expired sessions")
		}
		return
	}
	if n > 0 {
		m.cfg.Logger.Debugf("removed %d expired sessions", n)
	}
}

func (m *manager) Shutdown() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
	m.cfg.Logger.Info("session sweeper stopped")
}
