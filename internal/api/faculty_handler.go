package api

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"facultysite/app"
	"facultysite/domain/core"
	"facultysite/domain/faculty"
	"facultysite/internal"
	apperrors "facultysite/internal/errors"

	"github.com/gin-gonic/gin"
)

// SecretHeader carries the refresh shared secret.
const SecretHeader = "X-Refresh-Secret"

// FacultyService is what the HTTP layer needs from the refresh service.
type FacultyService interface {
	Snapshot() *app.Snapshot
	Lookup(id string) (faculty.Document, error)
	Refresh(ctx context.Context) (*app.RefreshResult, error)
}

// FacultyHandler serves faculty documents and the protected refresh trigger.
type FacultyHandler struct {
	service FacultyService
	secret  string
	logger  *internal.Logger
}

// NewFacultyHandler creates a new faculty handler. An empty secret disables
// the refresh endpoint.
func NewFacultyHandler(service FacultyService, secret string, logger *internal.Logger) *FacultyHandler {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &FacultyHandler{service: service, secret: secret, logger: logger}
}

// Health is the liveness probe
func (h *FacultyHandler) Health(c *gin.Context) {
	snap := h.service.Snapshot()
	body := gin.H{
		"status":    "ok",
		"documents": len(snap.Documents),
	}
	if !snap.RefreshedAt.IsZero() {
		body["refreshedAt"] = snap.RefreshedAt.UTC().Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, body)
}

// ListFaculty returns every document, or one document when ?id= is given
func (h *FacultyHandler) ListFaculty(c *gin.Context) {
	if id := c.Query("id"); id != "" {
		h.writeOne(c, id)
		return
	}

	snap := h.service.Snapshot()
	if notModified(c, snap.Fingerprint) {
		return
	}
	c.JSON(http.StatusOK, snap.Documents)
}

// GetFaculty returns one document by path id
func (h *FacultyHandler) GetFaculty(c *gin.Context) {
	h.writeOne(c, c.Param("id"))
}

func (h *FacultyHandler) writeOne(c *gin.Context, id string) {
	doc, err := h.service.Lookup(id)
	if err != nil {
		var nf *core.FacultyNotFoundError
		if errors.As(err, &nf) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":        "Faculty not found",
				"facultyId":    nf.ID,
				"availableIds": nf.Known,
			})
			return
		}
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, doc)
}

// Refresh triggers a full re-assembly. The caller must present the shared
// secret in the X-Refresh-Secret header or the secret query parameter.
func (h *FacultyHandler) Refresh(c *gin.Context) {
	if h.secret == "" {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Refresh endpoint is disabled"})
		return
	}
	given := c.GetHeader(SecretHeader)
	if given == "" {
		given = c.Query("secret")
	}
	if subtle.ConstantTimeCompare([]byte(given), []byte(h.secret)) != 1 {
		h.logger.Warn("[FacultyHandler] refresh rejected from %s", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	// A dropped client must not cancel a run other callers may share
	result, err := h.service.Refresh(context.WithoutCancel(c.Request.Context()))
	if err != nil {
		h.logger.Error("[FacultyHandler] refresh failed: %v", err)
		c.JSON(apperrors.HTTPStatus(err), gin.H{
			"success": false,
			"message": "Failed to refresh faculty data",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Faculty data refreshed",
		"count":       result.Count,
		"facultyIds":  result.FacultyIDs,
		"runId":       result.RunID.String(),
		"fingerprint": result.Fingerprint.String(),
		"durationMs":  result.Duration.Milliseconds(),
	})
}

// notModified writes 304 when the client already holds this collection.
func notModified(c *gin.Context, fp core.Hash) bool {
	if fp.IsEmpty() {
		return false
	}
	etag := `"` + fp.Short() + `"`
	c.Header("ETag", etag)
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return true
	}
	return false
}
