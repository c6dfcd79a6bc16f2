// Package server exposes the filter engine over HTTP. Each request is one
// client-thread submission to the shared engine; concurrent requests are
// the real-world instance of the engine's "no data race under K client
// threads" guarantee.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/MBatuhanOzer/filter/pkg/cache"
	"github.com/MBatuhanOzer/filter/pkg/engine"
	apperrors "github.com/MBatuhanOzer/filter/pkg/errors"
	"github.com/MBatuhanOzer/filter/pkg/imageio"
	"github.com/MBatuhanOzer/filter/pkg/logger"
)

// Server wires a gin router to a shared *engine.Engine, fronted by an
// optional result cache keyed on input bytes + filter kind.
type Server struct {
	engine  *engine.Engine
	cache   *cache.Cache
	router  *gin.Engine
	metrics *metrics
}

// New builds a Server over engine e. The engine is shared with any other
// caller (batch CLI, other server instances); Server never calls
// e.Destroy — lifecycle ownership stays with whoever constructed e. c may
// be nil, in which case every request runs the filter uncached.
func New(e *engine.Engine, c *cache.Cache) *Server {
	reg := prometheus.NewRegistry()
	s := &Server{
		engine:  e,
		cache:   c,
		router:  gin.New(),
		metrics: newMetrics(reg),
	}
	s.router.Use(gin.Recovery())
	s.router.GET("/healthz", s.handleHealthz)
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	s.router.POST("/v1/filter/:kind", s.handleFilter)
	return s
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleFilter(c *gin.Context) {
	kindName := strings.ToLower(c.Param("kind"))
	kind, ok := engine.ParseKind(kindName)
	requestID := uuid.NewString()

	if !ok {
		s.metrics.jobErrors.WithLabelValues(kindName, string(apperrors.UnsupportedKindError)).Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported filter kind %q", kindName), "request_id": requestID})
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing multipart field \"image\"", "request_id": requestID})
		return
	}
	defer file.Close()

	ext := strings.ToLower(c.Query("ext"))
	if ext != ".jpg" && ext != ".jpeg" {
		ext = ".png"
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "request_id": requestID})
		return
	}
	cacheKey := cache.Key(raw, kind.String())

	if s.cache != nil {
		if out, hit := s.cache.Get(cacheKey); hit {
			c.Header("X-Request-ID", requestID)
			c.Header("X-Cache", "hit")
			if err := imageio.Encode(c.Writer, ext, out); err != nil {
				logger.WithError(err).Error("failed to encode cached response", "request_id", requestID)
			}
			return
		}
	}

	in, err := imageio.Decode(bytes.NewReader(raw), header.Filename)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "request_id": requestID})
		return
	}
	out := imageio.Blank(in)

	start := time.Now()
	err = s.submit(kind, in, out)
	if err == nil {
		s.engine.Wait()
	}
	s.metrics.jobLatencies.WithLabelValues(kind.String()).Observe(time.Since(start).Seconds())
	s.metrics.jobsTotal.WithLabelValues(kind.String()).Inc()
	s.refreshEngineGauges()

	if err != nil {
		var appErr *apperrors.AppError
		status := http.StatusInternalServerError
		errType := apperrors.InternalError
		if errors.As(err, &appErr) {
			errType = appErr.Type
			if errType == apperrors.ShapeMismatchError || errType == apperrors.UnsupportedKindError {
				status = http.StatusBadRequest
			} else if errType == apperrors.ShutdownError {
				status = http.StatusServiceUnavailable
			}
		}
		s.metrics.jobErrors.WithLabelValues(kind.String(), string(errType)).Inc()
		logger.WithError(err).Warn("filter request failed", "request_id", requestID, "kind", kind.String())
		c.JSON(status, gin.H{"error": err.Error(), "request_id": requestID})
		return
	}

	if s.cache != nil {
		if err := s.cache.Put(cacheKey, kind.String(), out); err != nil {
			logger.WithError(err).Warn("failed to populate filter cache", "request_id", requestID)
		}
	}

	c.Header("X-Request-ID", requestID)
	c.Header("X-Cache", "miss")
	if err := imageio.Encode(c.Writer, ext, out); err != nil {
		logger.WithError(err).Error("failed to encode filter response", "request_id", requestID)
	}
}

func (s *Server) submit(kind engine.Kind, in, out engine.ImageView) error {
	switch kind {
	case engine.Invert:
		return s.engine.Invert(in, out)
	case engine.Grayscale:
		return s.engine.Grayscale(in, out)
	case engine.Sepia:
		return s.engine.Sepia(in, out)
	default:
		return engine.ErrUnsupportedKind(kind)
	}
}

func (s *Server) refreshEngineGauges() {
	stats := s.engine.Stats()
	s.metrics.arenaFree.Set(float64(stats.ArenaFree))
	if stats.QueueBusy {
		s.metrics.queueDepth.Set(1)
	} else {
		s.metrics.queueDepth.Set(0)
	}
}

// Run starts the HTTP listener on addr and blocks until ctx is canceled,
// at which point it shuts the listener down gracefully. Coordinated with
// errgroup so a canceled context and a listener error are reported through
// the same channel.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{Addr: addr, Handler: s.router}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("imgfilter server listening on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
