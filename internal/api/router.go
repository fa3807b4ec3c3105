package api

import (
	"net/http"
	"net/netip"

	"github.com/gorilla/mux"

	"mimoapp/internal/auth/service"
	"mimoapp/internal/controller"
	customerrors "mimoapp/internal/customErrors"
	"mimoapp/internal/logging"
	"mimoapp/internal/middleware"
)

type Controllers struct {
	Auth       *controller.AuthController
	System     *controller.SystemController
	Course     *controller.CourseController
	Lesson     *controller.LessonController
	Enrollment *controller.EnrollmentController
}

type routes struct {
	router      *mux.Router
	logger      logging.Logger
	requireUser func(middleware.HandlerFunc) middleware.HandlerFunc
	loginLimit  *middleware.RateLimiter
	trustProxy  func(middleware.HandlerFunc) middleware.HandlerFunc
}

func SetupRoutes(
	c Controllers,
	authService service.AuthService,
	loginLimit *middleware.RateLimiter,
	trustedProxies []netip.Prefix,
	logger logging.Logger,
) *mux.Router {
	rt := &routes{
		router:      mux.NewRouter(),
		logger:      logger.With("module", "http"),
		requireUser: middleware.RequireUser(authService),
		loginLimit:  loginLimit,
		trustProxy:  middleware.TrustProxyMiddleware(trustedProxies),
	}

	rt.router.NotFoundHandler = rt.applyMiddleware(func(http.ResponseWriter, *http.Request) error {
		return customerrors.ErrNotFound
	})
	rt.router.MethodNotAllowedHandler = rt.applyMiddleware(func(http.ResponseWriter, *http.Request) error {
		return &customerrors.Error{Code: http.StatusMethodNotAllowed, Message: "method not allowed"}
	})

	rt.setupSystemRoutes(c.System)
	rt.setupAuthRoutes(c.Auth)
	rt.setupCourseRoutes(c.Course)
	rt.setupLessonRoutes(c.Lesson)
	rt.setupEnrollmentRoutes(c.Enrollment)

	return rt.router
}

func (rt *routes) applyMiddleware(h middleware.HandlerFunc) http.HandlerFunc {
	return middleware.ErrorHandler(rt.logger,
		rt.trustProxy(
			middleware.LoggingMiddleware(rt.logger)(h),
		),
	)
}

func (rt *routes) authenticated(h middleware.HandlerFunc) http.HandlerFunc {
	return rt.applyMiddleware(rt.requireUser(h))
}

func (rt *routes) setupSystemRoutes(c *controller.SystemController) {
	rt.router.Handle("/", rt.applyMiddleware(c.Root)).Methods(http.MethodGet)
	rt.router.Handle("/healthz", rt.applyMiddleware(c.HealthCheck)).Methods(http.MethodGet)
}

func (rt *routes) setupAuthRoutes(c *controller.AuthController) {
	rt.router.Handle("/auth/register", rt.applyMiddleware(c.Register)).Methods(http.MethodPost)
	rt.router.Handle("/auth/login", rt.applyMiddleware(rt.loginLimit.Middleware(c.Login))).Methods(http.MethodPost)
	rt.router.Handle("/users/me", rt.authenticated(c.Me)).Methods(http.MethodGet)
	rt.router.Handle("/users/me/password", rt.authenticated(c.ChangePassword)).Methods(http.MethodPut)
}

func (rt *routes) setupCourseRoutes(c *controller.CourseController) {
	rt.router.Handle("/courses", rt.applyMiddleware(c.List)).Methods(http.MethodGet)
	rt.router.Handle("/courses", rt.authenticated(c.Create)).Methods(http.MethodPost)
	rt.router.Handle("/courses/{id}", rt.applyMiddleware(c.Get)).Methods(http.MethodGet)
	rt.router.Handle("/courses/{id}", rt.authenticated(c.Update)).Methods(http.MethodPut)
	rt.router.Handle("/courses/{id}", rt.authenticated(c.Delete)).Methods(http.MethodDelete)
	rt.router.Handle("/courses/{id}/lessons", rt.applyMiddleware(c.Lessons)).Methods(http.MethodGet)
}

func (rt *routes) setupLessonRoutes(c *controller.LessonController) {
	rt.router.Handle("/lessons", rt.applyMiddleware(c.List)).Methods(http.MethodGet)
	rt.router.Handle("/lessons", rt.authenticated(c.Create)).Methods(http.MethodPost)
	rt.router.Handle("/lessons/{id}", rt.applyMiddleware(c.Get)).Methods(http.MethodGet)
	rt.router.Handle("/lessons/{id}", rt.authenticated(c.Update)).Methods(http.MethodPut)
	rt.router.Handle("/lessons/{id}", rt.authenticated(c.Delete)).Methods(http.MethodDelete)
}

func (rt *routes) setupEnrollmentRoutes(c *controller.EnrollmentController) {
	rt.router.Handle("/enrollments", rt.authenticated(c.List)).Methods(http.MethodGet)
	rt.router.Handle("/enrollments", rt.authenticated(c.Create)).Methods(http.MethodPost)
	rt.router.Handle("/enrollments/{id}", rt.authenticated(c.Get)).Methods(http.MethodGet)
	rt.router.Handle("/enrollments/{id}", rt.authenticated(c.Update)).Methods(http.MethodPut)
	rt.router.Handle("/enrollments/{id}", rt.authenticated(c.Delete)).Methods(http.MethodDelete)
}
