// Package sessions keeps server-side login state keyed by a cookie.
//
// The backing fiber.Storage is treated as a plain key-value service: reads
// and writes for one session key are last-write-wins and no locking is done
// in process.
package sessions

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const (
	CookieName = "session_id"

	keyCompanyID     = "companyID"
	keyUserID        = "userID"
	keyUserCompanyID = "userCompanyID"
)

type Config struct {
	Expiration   time.Duration
	Storage      fiber.Storage // nil uses fiber's in-memory storage
	CookieSecure bool
}

// UserIdentity is the user bound to a session by user login.
type UserIdentity struct {
	UserID    string
	CompanyID string
}

type Manager struct {
	store *session.Store
}

func NewManager(cfg Config) *Manager {
	if cfg.Expiration <= 0 {
		cfg.Expiration = 24 * time.Hour
	}
	return &Manager{
		store: session.New(session.Config{
			Expiration:     cfg.Expiration,
			Storage:        cfg.Storage,
			KeyLookup:      "cookie:" + CookieName,
			CookieSecure:   cfg.CookieSecure,
			CookieHTTPOnly: true,
			CookieSameSite: "Lax",
		}),
	}
}

// CompanyID returns the company logged in on this session, or "".
func (m *Manager) CompanyID(c *fiber.Ctx) (string, error) {
	sess, err := m.store.Get(c)
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	return stringValue(sess, keyCompanyID), nil
}

// User returns the user logged in on this session, if any.
func (m *Manager) User(c *fiber.Ctx) (UserIdentity, bool, error) {
	sess, err := m.store.Get(c)
	if err != nil {
		return UserIdentity{}, false, fmt.Errorf("load session: %w", err)
	}
	id := UserIdentity{
		UserID:    stringValue(sess, keyUserID),
		CompanyID: stringValue(sess, keyUserCompanyID),
	}
	return id, id.UserID != "", nil
}

// StartCompany binds a fresh session id to the company.
func (m *Manager) StartCompany(c *fiber.Ctx, companyID string) error {
	return m.start(c, map[string]string{keyCompanyID: companyID})
}

// StartUser binds a fresh session id to the user. It does not carry over a
// company login held by the previous session.
func (m *Manager) StartUser(c *fiber.Ctx, userID, companyID string) error {
	return m.start(c, map[string]string{
		keyUserID:        userID,
		keyUserCompanyID: companyID,
	})
}

// Destroy ends the session. Destroying a session that does not exist is not
// an error.
func (m *Manager) Destroy(c *fiber.Ctx) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if err := sess.Destroy(); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

func (m *Manager) start(c *fiber.Ctx, values map[string]string) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if !sess.Fresh() {
		// New id and empty data, so a previous principal never leaks through.
		if err := sess.Reset(); err != nil {
			return fmt.Errorf("reset session: %w", err)
		}
	}
	for k, v := range values {
		sess.Set(k, v)
	}
	if err := sess.Save(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func stringValue(sess *session.Session, key string) string {
	v, _ := sess.Get(key).(string)
	return v
}

// CookieKey derives the encryptcookie key from the session secret.
func CookieKey(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return base64.StdEncoding.EncodeToString(sum[:])
}
