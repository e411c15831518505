package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/statusdesk/status-admin/internal/config"
	"github.com/statusdesk/status-admin/internal/matcher"
	"github.com/statusdesk/status-admin/internal/model"
	"github.com/statusdesk/status-admin/internal/semexpr"
	"github.com/statusdesk/status-admin/internal/service"
)

// Server wires HTTP handlers.
type Server struct {
	app       *fiber.App
	statusSvc *service.StatusService
	logSvc    *service.StatusLogService
	authSvc   *service.AuthService
	cfg       *config.Config
	logger    *zap.Logger
}

// New builds a server instance.
func New(cfg *config.Config, statusSvc *service.StatusService, logSvc *service.StatusLogService, authSvc *service.AuthService, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	app := fiber.New(fiber.Config{
		IdleTimeout:           cfg.HTTP.ReadTimeout,
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		AppName:               "status-admin",
		DisableStartupMessage: true,
	})
	s := &Server{
		app:       app,
		statusSvc: statusSvc,
		logSvc:    logSvc,
		authSvc:   authSvc,
		cfg:       cfg,
		logger:    logger,
	}
	s.registerRoutes()
	return s
}

// App exposes the underlying fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start listens and serves HTTP traffic.
func (s *Server) Start() error {
	return s.app.Listen(s.cfg.HTTP.Addr)
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) registerRoutes() {
	s.app.Use(recover.New())

	s.app.Get("/healthz", s.handleHealth)
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	s.app.Post("/auth/login", s.handleLogin)
	s.app.Get("/auth/profile", s.handleProfile)

	// Public lookup used by clients on launch
	s.app.Get("/status/check", s.handleCheck)

	api := s.app.Group("/api/status", s.requireAuth)
	api.Get("/list", s.handleList)
	api.Post("/validate", s.handleValidate)
	api.Get("/log/list", s.handleLogList)
	api.Get("/log/count/action", s.handleLogCountAction)
	api.Get("/log/count/date", s.handleLogCountDate)
	api.Post("/", s.handleCreate)
	api.Get("/:id", s.handleGet)
	api.Put("/:id", s.handleUpdate)
	api.Post("/:id/activate", s.handleActivate)
	api.Post("/:id/deactivate", s.handleDeactivate)
	api.Delete("/:id", s.handleDelete)

	s.serveFrontend()
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(model.Error("malformed request body"))
	}
	if s.authSvc == nil || !s.authSvc.Enabled() {
		return c.JSON(model.Success("login not required", fiber.Map{
			"token":    "",
			"enabled":  false,
			"username": "guest",
		}))
	}
	token, err := s.authSvc.Login(req.Username, req.Password)
	if err != nil {
		return c.Status(http.StatusUnauthorized).JSON(model.Error(err.Error()))
	}
	return c.JSON(model.Success("logged in", fiber.Map{
		"token":      token.Value,
		"expires_at": token.ExpiresAt,
		"enabled":    true,
		"username":   s.authSvc.Username(),
	}))
}

func (s *Server) handleProfile(c *fiber.Ctx) error {
	if s.authSvc == nil || !s.authSvc.Enabled() {
		return c.JSON(model.Success("ok", fiber.Map{
			"enabled":  false,
			"username": "guest",
		}))
	}
	token := extractBearerToken(c.Get("Authorization"))
	if token == "" {
		return c.Status(http.StatusUnauthorized).JSON(model.Error("not logged in"))
	}
	claims, err := s.authSvc.Validate(token)
	if err != nil {
		return c.Status(http.StatusUnauthorized).JSON(model.Error("session expired"))
	}
	return c.JSON(model.Success("ok", fiber.Map{
		"enabled":  true,
		"username": claims.Operator(),
	}))
}

type checkRequest struct {
	DeviceType    string `query:"device_type" validate:"omitempty,max=64,devicetype"`
	DeviceVersion string `query:"device_version" validate:"omitempty,max=64,semversion"`
	AppVersion    string `query:"app_version" validate:"omitempty,max=64,semversion"`
}

func (s *Server) handleCheck(c *fiber.Ctx) error {
	var req checkRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(model.Error("malformed query"))
	}
	if err := service.V().Struct(req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(model.Error("invalid query: " + err.Error()))
	}

	ctx, cancel := s.checkContext(c)
	defer cancel()
	statuses, err := s.statusSvc.LookupCheck(ctx, req.DeviceType, req.DeviceVersion, req.AppVersion)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(model.Success("ok", statuses))
}

func (s *Server) checkContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	if s.cfg.HTTP.CheckTimeout <= 0 {
		return context.WithCancel(c.UserContext())
	}
	return context.WithTimeout(c.UserContext(), s.cfg.HTTP.CheckTimeout)
}

func (s *Server) handleList(c *fiber.Ctx) error {
	query, err := parseStatusQuery(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(model.Error(err.Error()))
	}
	page, err := s.statusSvc.List(c.UserContext(), query)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(model.Success("ok", page))
}

func (s *Server) handleGet(c *fiber.Ctx) error {
	status, err := s.statusSvc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(model.Success("ok", status))
}

func (s *Server) handleCreate(c *fiber.Ctx) error {
	var req service.CreateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(model.Error("malformed request body"))
	}
	status, err := s.statusSvc.Add(c.UserContext(), operator(c), req)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(model.Success("created", status))
}

func (s *Server) handleUpdate(c *fiber.Ctx) error {
	var req service.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(model.Error("malformed request body"))
	}
	status, err := s.statusSvc.Update(c.UserContext(), operator(c), c.Params("id"), req)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(model.Success("updated", status))
}

func (s *Server) handleActivate(c *fiber.Ctx) error {
	return s.setActivated(c, true)
}

func (s *Server) handleDeactivate(c *fiber.Ctx) error {
	return s.setActivated(c, false)
}

func (s *Server) setActivated(c *fiber.Ctx, activated bool) error {
	status, err := s.statusSvc.SetActivated(c.UserContext(), operator(c), c.Params("id"), activated)
	if err != nil {
		return s.writeError(c, err)
	}
	msg := "deactivated"
	if activated {
		msg = "activated"
	}
	return c.JSON(model.Success(msg, status))
}

func (s *Server) handleDelete(c *fiber.Ctx) error {
	if err := s.statusSvc.Delete(c.UserContext(), operator(c), c.Params("id")); err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(model.Success("deleted", nil))
}

func (s *Server) handleValidate(c *fiber.Ctx) error {
	var req struct {
		Expression string `json:"expression"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(model.Error("malformed request body"))
	}
	parsed, err := semexpr.ParseExpression(req.Expression)
	if err != nil {
		resp := model.Error(err.Error())
		var exprErr *semexpr.ExpressionError
		if errors.As(err, &exprErr) {
			resp.Data = fiber.Map{
				"group":  exprErr.Group,
				"offset": exprErr.Offset,
				"token":  exprErr.Token,
			}
		}
		return c.Status(http.StatusBadRequest).JSON(resp)
	}
	return c.JSON(model.Success("ok", fiber.Map{
		"expression": parsed.String(),
		"groups":     len(parsed.Groups),
	}))
}

func (s *Server) handleLogList(c *fiber.Ctx) error {
	page, err := s.logSvc.Query(c.UserContext(), parseLogFilter(c))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(model.Success("ok", page))
}

func (s *Server) handleLogCountAction(c *fiber.Ctx) error {
	begin, end := parseTimeRange(c)
	data, err := s.logSvc.CountByAction(c.UserContext(), begin, end)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(model.Success("ok", data))
}

func (s *Server) handleLogCountDate(c *fiber.Ctx) error {
	begin, end := parseTimeRange(c)
	data, err := s.logSvc.CountByDate(c.UserContext(), c.Query("date_type", "day"), begin, end)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(model.Success("ok", data))
}

// writeError maps service errors onto HTTP status codes.
func (s *Server) writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidStatus), errors.Is(err, service.ErrInvalidQuery):
		return c.Status(http.StatusBadRequest).JSON(model.Error(err.Error()))
	case errors.Is(err, service.ErrStatusNotFound):
		return c.Status(http.StatusNotFound).JSON(model.Error(err.Error()))
	case errors.Is(err, context.DeadlineExceeded):
		s.logger.Warn("request timed out", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(http.StatusServiceUnavailable).JSON(model.Error("storage unavailable"))
	}
	s.logger.Error("request failed", zap.String("method", c.Method()), zap.String("path", c.Path()), zap.Error(err))
	return c.Status(http.StatusInternalServerError).JSON(model.Error("internal error"))
}

func (s *Server) serveFrontend() {
	dir := strings.TrimSpace(s.cfg.Frontend.Dir)
	if dir == "" {
		return
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return
	}
	s.app.Static("/", dir, fiber.Static{
		Index:    "index.html",
		Compress: true,
	})
}

func parseStatusQuery(c *fiber.Ctx) (service.StatusQuery, error) {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "10"))
	window, err := matcher.ParseWindow(c.Query("window"))
	if err != nil {
		return service.StatusQuery{}, err
	}
	q := service.StatusQuery{
		Page:     page,
		PageSize: pageSize,
		Window:   window,
		Type:     c.Query("type"),
		Keyword:  c.Query("keyword"),
		SortBy:   model.FieldCreateTime,
	}
	if raw := c.Query("activated"); raw != "" {
		activated, err := strconv.ParseBool(raw)
		if err != nil {
			return service.StatusQuery{}, errors.New("activated must be a boolean")
		}
		q.Activated = &activated
	}
	if raw := c.Query("sort_by"); raw != "" {
		field, err := model.ParseStatusField(raw)
		if err != nil {
			return service.StatusQuery{}, err
		}
		if field != model.FieldCreateTime && field != model.FieldStartTime {
			return service.StatusQuery{}, errors.New("sort_by must be create_time or start_time")
		}
		q.SortBy = field
	}
	return q, nil
}

func parseLogFilter(c *fiber.Ctx) model.StatusLogFilter {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "10"))
	begin, end := parseTimeRange(c)
	return model.StatusLogFilter{
		StatusID:  c.Query("status_id"),
		Action:    c.Query("action"),
		Operator:  c.Query("operator"),
		BeginTime: begin,
		EndTime:   end,
		Page:      page,
		PageSize:  pageSize,
	}
}

func parseTimeRange(c *fiber.Ctx) (*time.Time, *time.Time) {
	begin := parseTime(c.Query("begin_time"))
	end := parseTime(c.Query("end_time"))
	return begin, end
}

func parseTime(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return &t
		}
	}
	return nil
}

func (s *Server) requireAuth(c *fiber.Ctx) error {
	if s.authSvc == nil || !s.authSvc.Enabled() {
		return c.Next()
	}
	token := extractBearerToken(c.Get("Authorization"))
	if token == "" {
		return c.Status(http.StatusUnauthorized).JSON(model.Error("not logged in"))
	}
	claims, err := s.authSvc.Validate(token)
	if err != nil {
		return c.Status(http.StatusUnauthorized).JSON(model.Error("session expired"))
	}
	c.Locals("username", claims.Operator())
	return c.Next()
}

func operator(c *fiber.Ctx) string {
	if name, ok := c.Locals("username").(string); ok && name != "" {
		return name
	}
	return "anonymous"
}

func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
