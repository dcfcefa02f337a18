package user

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/claimdesk/claimdesk/internal/platform/notify"
)

type Handler struct {
	svc    *Service
	logger zerolog.Logger
	codes  *notify.Dispatcher
}

// NewHandler builds the auth handler. codes may be nil, in which case
// verification codes are only logged.
func NewHandler(svc *Service, logger zerolog.Logger, codes *notify.Dispatcher) *Handler {
	return &Handler{svc: svc, logger: logger, codes: codes}
}

// RegisterRoutes mounts the auth endpoints. These are public: the bearer
// middleware's skipper exempts every /auth/* path registered here.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/auth/register", h.Register)
	api.POST("/auth/verify", h.Verify)
	api.POST("/auth/login", h.Login)
	api.POST("/auth/federated", h.FederatedLogin)
}

func (h *Handler) Register(c echo.Context) error {
	var in RegisterInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	u, code, err := h.svc.Register(c.Request().Context(), in)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// The code goes out through a delivery channel, never in the response.
	// A failed send does not undo the registration; the user can re-register
	// once the soft-deleted cleanup frees the address, or support can retry.
	h.logger.Info().Int64("user_id", u.ID).Msg("verification code issued")
	if h.codes != nil {
		recipient := u.Email
		if u.PhoneNumber != nil && *u.PhoneNumber != "" {
			recipient = *u.PhoneNumber
		}
		if err := h.codes.SendVerificationCode(c.Request().Context(), recipient, u.Name, code); err != nil {
			h.logger.Warn().Err(err).Int64("user_id", u.ID).Msg("could not deliver verification code")
		}
	}

	return c.JSON(http.StatusCreated, u)
}

func (h *Handler) Verify(c echo.Context) error {
	var in VerifyInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Verify(c.Request().Context(), in); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		case errors.Is(err, ErrInvalidCode):
			return echo.NewHTTPError(http.StatusBadRequest, "invalid verification code")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "verified"})
}

func (h *Handler) Login(c echo.Context) error {
	var in LoginInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	res, err := h.svc.Login(c.Request().Context(), in)
	if err != nil {
		return mapAuthError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) FederatedLogin(c echo.Context) error {
	var in FederatedInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if in.IDToken == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "id_token is required")
	}
	res, err := h.svc.FederatedLogin(c.Request().Context(), in)
	if err != nil {
		return mapAuthError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func mapAuthError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, ErrNotActivated):
		return echo.NewHTTPError(http.StatusForbidden, "account not activated")
	case errors.Is(err, ErrEmailTaken):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
