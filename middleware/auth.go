package middleware

import (
	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"

	"github.com/JuniorCarti/aws-restart-tracker-api/services"
	"github.com/JuniorCarti/aws-restart-tracker-api/shared"
)

type tokenVerifier interface {
	ExtractTokenFromHeader(header string) (string, error)
	VerifyJWTToken(token string) (string, error)
}

type userValidator interface {
	ValidateUser(userID string) error
}

type AuthMiddleware struct {
	context.DefaultService

	jwtSvc  tokenVerifier
	authSvc userValidator
}

const AUTH_MIDDLEWARE_SVC = "auth"

func (svc AuthMiddleware) Id() string {
	return AUTH_MIDDLEWARE_SVC
}

func (svc *AuthMiddleware) Configure(ctx *context.Context) error {
	svc.jwtSvc = ctx.Service(services.JWT_SVC).(*services.JWTService)
	svc.authSvc = ctx.Service(services.AUTH_SVC).(*services.AuthService)
	return svc.DefaultService.Configure(ctx)
}

func (svc *AuthMiddleware) Start() error {
	return nil
}

// RequiredAuth rejects requests without a valid bearer token.
func (svc *AuthMiddleware) RequiredAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		token, err := svc.jwtSvc.ExtractTokenFromHeader(authHeader)
		if err != nil {
			return shared.ResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", err.Error())
		}

		userID, err := svc.jwtSvc.VerifyJWTToken(token)
		if err != nil {
			return shared.ResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "Invalid JWT token")
		}

		if userID == "" {
			return shared.ResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "Invalid user ID in token")
		}

		// A token can outlive its account. Reject ids with no backing user.
		if err := svc.authSvc.ValidateUser(userID); err != nil {
			return shared.ResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "Unknown user")
		}

		c.Locals(shared.UserID, userID)
		return c.Next()
	}
}

// OptionalAuth extracts the identity when a valid token is present and passes
// the request through either way. This is the ambient "is there a signed-in
// user" check the progress store consults per call.
func (svc *AuthMiddleware) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if authHeader := c.Get("Authorization"); authHeader != "" {
			if token, err := svc.jwtSvc.ExtractTokenFromHeader(authHeader); err == nil {
				if userID, err := svc.jwtSvc.VerifyJWTToken(token); err == nil && userID != "" {
					c.Locals(shared.UserID, userID)
				}
			}
		}
		return c.Next()
	}
}

// DeviceID records the caller's device identifier. Guests without the header
// share the "unknown" device bucket; the web client always sends one.
func (svc *AuthMiddleware) DeviceID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		deviceID := c.Get("X-Device-ID")
		if deviceID == "" {
			deviceID = "unknown"
		}
		c.Locals(shared.DeviceID, deviceID)
		return c.Next()
	}
}
