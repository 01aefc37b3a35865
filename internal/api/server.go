package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"convertforge/app/internal/config"
	"convertforge/app/internal/domain"
	"convertforge/app/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"
)

// Server exposes the catalog and theme-mutation operations over HTTP for
// the embedded dashboard.
type Server struct {
	echo    *echo.Echo
	service *service.Service
	addr    string
}

func NewServer(cfg config.ServerConfig, svc *service.Service) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	s := &Server{
		echo:    e,
		service: svc,
		addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
	}
	s.routes()

	return s
}

func (s *Server) routes() {
	s.echo.GET("/healthz", s.health)

	api := s.echo.Group("/api")
	api.GET("/sections", s.listSections)
	api.GET("/sections/:id", s.getSection)
	api.GET("/categories", s.listCategories)

	shops := api.Group("/shops/:shop")
	shops.GET("/blocks", s.listBlocks)
	shops.GET("/customizations", s.listCustomizations)
	shops.POST("/install", s.install)
	shops.POST("/replace", s.replace)
}

func (s *Server) Start() error {
	log.Infof("HTTP server listening on %s", s.addr)
	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) listSections(c echo.Context) error {
	listings, err := s.service.ListSections(c.Request().Context())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, listings)
}

func (s *Server) getSection(c echo.Context) error {
	var id int64
	if err := echo.PathParamsBinder(c).Int64("id", &id).BindError(); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid section id", nil))
	}

	section, err := s.service.GetSection(c.Request().Context(), id)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, section)
}

func (s *Server) listCategories(c echo.Context) error {
	categories, err := s.service.ListCategories(c.Request().Context())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, categories)
}

func (s *Server) listBlocks(c echo.Context) error {
	templateKey := c.QueryParam("template")
	if templateKey == "" {
		templateKey = domain.PlacementHome.TemplateKey()
	}

	blocks, err := s.service.ListTemplateBlocks(c.Request().Context(), c.Param("shop"), templateKey)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, blocks)
}

func (s *Server) listCustomizations(c echo.Context) error {
	customizations, err := s.service.GetCustomizations(c.Request().Context(), c.Param("shop"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, customizations)
}

type installRequest struct {
	SectionID      int64                 `json:"section_id"`
	Customizations domain.Customizations `json:"customizations"`
	Placement      domain.Placement      `json:"placement"`
}

func (s *Server) install(c echo.Context) error {
	var req installRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body", nil))
	}

	result, err := s.service.InstallSection(c.Request().Context(), c.Param("shop"), req.SectionID, req.Customizations, req.Placement)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

type replaceRequest struct {
	SectionID      int64                 `json:"section_id"`
	TemplateKey    string                `json:"template_key"`
	BlockID        string                `json:"block_id"`
	Customizations domain.Customizations `json:"customizations"`
}

func (s *Server) replace(c echo.Context) error {
	var req replaceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body", nil))
	}
	if req.BlockID == "" {
		return c.JSON(http.StatusBadRequest, errorBody("block_id is required", nil))
	}

	result, err := s.service.ReplaceBlock(c.Request().Context(), c.Param("shop"), req.SectionID, req.TemplateKey, req.BlockID, req.Customizations)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// fail maps the error taxonomy onto HTTP statuses. Every failure carries a
// short operator-facing message plus the underlying detail; nothing is
// swallowed into a silent no-op.
func (s *Server) fail(c echo.Context, err error) error {
	var remote *domain.RemoteError

	switch {
	case errors.Is(err, domain.ErrSubscriptionRequired):
		return c.JSON(http.StatusPaymentRequired, errorBody("a premium subscription is required for this section", err))
	case errors.Is(err, domain.ErrShopNotFound),
		errors.Is(err, domain.ErrSectionNotFound),
		errors.Is(err, domain.ErrAssetNotFound):
		return c.JSON(http.StatusNotFound, errorBody("not found", err))
	case errors.Is(err, domain.ErrBlockNotFound):
		return c.JSON(http.StatusConflict, errorBody("the targeted block no longer exists; refresh the layout and retry", err))
	case errors.Is(err, domain.ErrNoActiveTheme):
		return c.JSON(http.StatusUnprocessableEntity, errorBody("the shop has no published theme; publish a theme first", err))
	case errors.Is(err, domain.ErrMalformedTemplate):
		return c.JSON(http.StatusBadGateway, errorBody("the theme template could not be parsed", err))
	case errors.As(err, &remote):
		return c.JSON(http.StatusBadGateway, errorBody("the platform API rejected the request", err))
	default:
		log.Errorf("Unhandled error on %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
		return c.JSON(http.StatusInternalServerError, errorBody("internal error", nil))
	}
}

func errorBody(message string, err error) map[string]string {
	body := map[string]string{"error": message}
	if err != nil {
		body["detail"] = err.Error()
	}
	return body
}
