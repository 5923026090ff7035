package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"okrtracker/utils"
)

type PrincipalKind string

const (
	PrincipalCompany PrincipalKind = "company"
	PrincipalUser    PrincipalKind = "user"
)

// CredentialSource is where a principal was read from.
type CredentialSource string

const (
	SourceToken   CredentialSource = "token"
	SourceSession CredentialSource = "session"
)

const principalKey = "principal"

// Principal is the authenticated caller, whatever credential it presented.
type Principal struct {
	Kind      PrincipalKind
	ID        string
	CompanyID string
	Email     string
	Source    CredentialSource
}

// SessionReader exposes the company bound to the request's session.
type SessionReader interface {
	CompanyID(c *fiber.Ctx) (string, error)
}

type TokenVerifier interface {
	Verify(token string) (*utils.Claims, error)
}

// Guard gates company-scoped routes in two stages: resolve who is calling,
// then check the caller owns the company named in the path.
type Guard struct {
	sessions SessionReader
	tokens   TokenVerifier
	log      *logrus.Entry
}

func NewGuard(sessions SessionReader, tokens TokenVerifier) *Guard {
	return &Guard{
		sessions: sessions,
		tokens:   tokens,
		log:      logrus.WithField("component", "guard"),
	}
}

// Session admits only callers with a company session.
func (g *Guard) Session(param string) fiber.Handler {
	return g.handler(param, SourceSession)
}

// Token admits only callers presenting a company bearer token.
func (g *Guard) Token(param string) fiber.Handler {
	return g.handler(param, SourceToken)
}

// Company admits a bearer token or a company session. A presented
// Authorization header takes precedence over the session cookie.
func (g *Guard) Company(param string) fiber.Handler {
	return g.handler(param, SourceToken, SourceSession)
}

func (g *Guard) handler(param string, sources ...CredentialSource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, err := g.ResolvePrincipal(c, sources...)
		if err != nil {
			g.reject(c, err)
			return err
		}
		if err := AuthorizeCompany(principal, c.Params(param)); err != nil {
			g.reject(c, err)
			return err
		}
		g.log.WithFields(logrus.Fields{
			"path":       c.Path(),
			"company_id": principal.CompanyID,
			"source":     principal.Source,
		}).Debug("request authorized")
		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// ResolvePrincipal tries each source in order and returns the first
// principal found. A bearer token that is present but does not verify is
// rejected outright instead of falling through to the next source.
func (g *Guard) ResolvePrincipal(c *fiber.Ctx, sources ...CredentialSource) (*Principal, error) {
	for _, source := range sources {
		switch source {
		case SourceToken:
			raw, err := utils.ExtractBearerToken(c.Get(fiber.HeaderAuthorization))
			if errors.Is(err, utils.ErrNoToken) {
				continue
			}
			if err != nil {
				return nil, utils.Unauthorized(utils.ReasonInvalidToken, "Invalid token")
			}
			claims, err := g.tokens.Verify(raw)
			if err != nil {
				return nil, utils.Unauthorized(utils.ReasonInvalidToken, "Invalid token")
			}
			return &Principal{
				Kind:      PrincipalCompany,
				ID:        claims.CompanyID,
				CompanyID: claims.CompanyID,
				Email:     claims.Email,
				Source:    SourceToken,
			}, nil

		case SourceSession:
			companyID, err := g.sessions.CompanyID(c)
			if err != nil {
				return nil, utils.Internal(err)
			}
			if companyID == "" {
				continue
			}
			return &Principal{
				Kind:      PrincipalCompany,
				ID:        companyID,
				CompanyID: companyID,
				Source:    SourceSession,
			}, nil
		}
	}
	return nil, missingCredential(sources)
}

// AuthorizeCompany admits principal only when it is the company companyID.
func AuthorizeCompany(principal *Principal, companyID string) error {
	if principal == nil {
		return utils.Unauthorized(utils.ReasonNoCredentials, "Authentication required")
	}
	if principal.Kind != PrincipalCompany || principal.CompanyID == "" || principal.CompanyID != companyID {
		return utils.Forbidden(utils.ReasonIdentityMismatch, "Forbidden: You can only access your own company resources")
	}
	return nil
}

// PrincipalFrom returns the principal a guard attached to the request.
func PrincipalFrom(c *fiber.Ctx) (*Principal, bool) {
	p, ok := c.Locals(principalKey).(*Principal)
	return p, ok && p != nil
}

func missingCredential(sources []CredentialSource) error {
	if len(sources) == 1 {
		switch sources[0] {
		case SourceSession:
			return utils.Unauthorized(utils.ReasonNoSession, "Unauthorized: Please log in as a company")
		case SourceToken:
			return utils.Unauthorized(utils.ReasonNoToken, "Access denied. No token provided.")
		}
	}
	return utils.Unauthorized(utils.ReasonNoCredentials, "Authentication required")
}

func (g *Guard) reject(c *fiber.Ctx, err error) {
	appErr := utils.AsAppError(err)
	g.log.WithFields(logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
		"status": appErr.Status,
		"reason": appErr.Reason,
	}).Debug("request rejected")
}
