package http

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/scamadvisory/verify-api/internal/business/diagnostics"
	"github.com/scamadvisory/verify-api/internal/business/directory"
	"github.com/scamadvisory/verify-api/internal/business/enrich"
	"github.com/scamadvisory/verify-api/internal/platform/emailcheck"
	"github.com/scamadvisory/verify-api/internal/platform/ipqs"
	"github.com/scamadvisory/verify-api/internal/platform/numverify"
)

// Router wires HTTP handlers.
type Router struct {
	email     *emailcheck.Client
	phone     *numverify.Client
	ipqs      *ipqs.Client
	enrich    *enrich.Service
	diags     *diagnostics.Service
	directory *directory.Service
	origins   string
}

// Deps carries the services the router exposes.
type Deps struct {
	Email     *emailcheck.Client
	Phone     *numverify.Client
	IPQS      *ipqs.Client
	Enrich    *enrich.Service
	Diags     *diagnostics.Service
	Directory *directory.Service
}

func NewRouter(deps Deps, allowedOrigins string) *gin.Engine {
	r := &Router{
		email:     deps.Email,
		phone:     deps.Phone,
		ipqs:      deps.IPQS,
		enrich:    deps.Enrich,
		diags:     deps.Diags,
		directory: deps.Directory,
		origins:   allowedOrigins,
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), requestIDMiddleware(), r.corsMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.GET("/validate/email", r.validateEmail)
		api.POST("/validate/phone", r.validatePhone)

		api.GET("/ipqs/ip/:ip", r.ipqsIP)
		api.GET("/ipqs/email/:email", r.ipqsEmail)
		api.GET("/ipqs/phone/:phone", r.ipqsPhone)
		api.GET("/ipqs/url", r.ipqsURL)

		api.GET("/geo/:domain", r.geoEnrich)
		api.GET("/diagnostics/email", r.emailDiagnostics)

		api.GET("/directory/countrycode/:code", r.directoryByCountryCode)
		api.GET("/directory/num/:number", r.directoryByNumber)
	}

	return router
}

// requestIDMiddleware tags every request with an X-Request-ID, keeping any
// ID the caller supplied.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func (r *Router) corsMiddleware() gin.HandlerFunc {
	origins := strings.Split(r.origins, ",")
	trimmed := make([]string, 0, len(origins))
	for _, o := range origins {
		if t := strings.TrimSpace(o); t != "" {
			trimmed = append(trimmed, t)
		}
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowed := "*"
		if origin != "" {
			for _, o := range trimmed {
				if o == "*" || o == origin {
					allowed = origin
					break
				}
			}
		}
		c.Header("Access-Control-Allow-Origin", allowed)
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (r *Router) validateEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}

	result := r.email.Validate(c.Request.Context(), email)
	if !result.OK() {
		c.JSON(http.StatusBadGateway, gin.H{"error": result.Error})
		return
	}
	c.JSON(http.StatusOK, result.Body)
}

type validatePhoneReq struct {
	Number      string `json:"number"`
	CountryCode string `json:"country_code"`
}

func (r *Router) validatePhone(c *gin.Context) {
	var req validatePhoneReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if req.Number == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "number is required"})
		return
	}

	validation, err := r.phone.ValidateModern(c.Request.Context(), req.Number, req.CountryCode)
	if errors.Is(err, numverify.ErrNoCredential) {
		validation, err = r.phone.ValidateLegacy(c.Request.Context(), req.Number, req.CountryCode)
	}
	if errors.Is(err, numverify.ErrNoCredential) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "phone validation is not configured"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if info, failed := numverify.ProviderErrorInfo(validation.Data); failed {
		c.JSON(http.StatusBadGateway, gin.H{"error": info})
		return
	}
	c.JSON(http.StatusOK, validation)
}

func (r *Router) ipqsIP(c *gin.Context) {
	data, err := r.ipqs.IP(c.Request.Context(), c.Param("ip"), ipqs.IPOptions{
		Strictness:              1,
		AllowPublicAccessPoints: true,
	})
	r.writeIPQS(c, data, err)
}

func (r *Router) ipqsEmail(c *gin.Context) {
	data, err := r.ipqs.Email(c.Request.Context(), c.Param("email"), ipqs.EmailOptions{
		LookupTimeout: 20,
	})
	r.writeIPQS(c, data, err)
}

func (r *Router) ipqsPhone(c *gin.Context) {
	data, err := r.ipqs.Phone(c.Request.Context(), c.Param("phone"), ipqs.PhoneOptions{
		Countries:      c.QueryArray("country"),
		LineTypeDetect: true,
	})
	r.writeIPQS(c, data, err)
}

func (r *Router) ipqsURL(c *gin.Context) {
	target := c.Query("url")
	if target == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}
	data, err := r.ipqs.URL(c.Request.Context(), target, ipqs.URLOptions{})
	r.writeIPQS(c, data, err)
}

func (r *Router) writeIPQS(c *gin.Context, data map[string]any, err error) {
	switch {
	case errors.Is(err, ipqs.ErrNoCredential):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "ipqs is not configured"})
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, data)
	}
}

func (r *Router) geoEnrich(c *gin.Context) {
	if !r.enrich.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "geolocation is not configured"})
		return
	}
	enrichment, err := r.enrich.Enrich(c.Request.Context(), c.Param("domain"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, enrichment)
}

func (r *Router) emailDiagnostics(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}
	verbose := c.Query("verbose") == "true" || c.Query("verbose") == "1"

	report, err := r.diags.Run(c.Request.Context(), email, verbose)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (r *Router) directoryByCountryCode(c *gin.Context) {
	r.writeDirectory(c, func() (string, error) {
		return r.directory.ByCountryCode(c.Param("code"))
	})
}

func (r *Router) directoryByNumber(c *gin.Context) {
	r.writeDirectory(c, func() (string, error) {
		return r.directory.ByNumber(c.Param("number"))
	})
}

func (r *Router) writeDirectory(c *gin.Context, fn func() (string, error)) {
	out, err := fn()
	switch {
	case errors.Is(err, directory.ErrNotFound), errors.Is(err, os.ErrNotExist):
		c.JSON(http.StatusNotFound, gin.H{"error": "no match"})
	case errors.Is(err, directory.ErrMissingColumn):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(out))
	}
}
