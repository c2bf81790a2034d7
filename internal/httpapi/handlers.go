package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Skufu/heartcheck/internal/assessment"
	"github.com/Skufu/heartcheck/internal/coach"
	"github.com/Skufu/heartcheck/internal/importer"
	"github.com/Skufu/heartcheck/internal/store"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
	actionCalculate  = "calculate"
)

type SpreadsheetImporter interface {
	ProcessURL(ctx context.Context, url string, mode importer.Mode) (*importer.Result, error)
	Process(data []byte, mode importer.Mode) (*importer.Result, error)
}

type ChatCompleter interface {
	Enabled() bool
	Complete(ctx context.Context, messages []coach.Message) (coach.Message, error)
}

// Handler serves the /api routes. repo is nil when persistence is disabled.
type Handler struct {
	importer SpreadsheetImporter
	repo     store.AssessmentRepository
	coach    ChatCompleter
	logger   *zap.Logger
}

func NewHandler(im SpreadsheetImporter, repo store.AssessmentRepository, chat ChatCompleter, logger *zap.Logger) *Handler {
	return &Handler{importer: im, repo: repo, coach: chat, logger: logger}
}

type importRequest struct {
	URL    string                         `json:"url"`
	Mode   string                         `json:"mode"`
	Action string                         `json:"action"`
	Data   []assessment.PatientAssessment `json:"data"`
}

// Import handles both the sheet URL import and the recalculation of
// already-normalized records.
func (h *Handler) Import(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if isTooLarge(err) {
			respondError(c, http.StatusRequestEntityTooLarge, err)
			return
		}
		respondError(c, http.StatusBadRequest, errors.New("invalid JSON payload"))
		return
	}

	if req.Action != "" && req.Action != actionCalculate {
		respondError(c, http.StatusBadRequest, errors.New("unknown action: "+req.Action))
		return
	}
	if req.Action == actionCalculate || (req.URL == "" && req.Data != nil) {
		if req.Data == nil {
			respondError(c, http.StatusBadRequest, errors.New("data is required for calculate"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": assessment.CalculateAll(req.Data)})
		return
	}

	if req.URL == "" {
		respondError(c, http.StatusBadRequest, errors.New("url or data is required"))
		return
	}
	if u, err := url.Parse(req.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		respondError(c, http.StatusBadRequest, errors.New("url must be an absolute http(s) URL"))
		return
	}
	mode, err := importer.ParseMode(req.Mode)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	res, err := h.importer.ProcessURL(c.Request.Context(), req.URL, mode)
	if err != nil {
		respondImportError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ImportUpload accepts a multipart "file" field holding an .xlsx or .csv.
func (h *Handler) ImportUpload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		if isTooLarge(err) {
			respondError(c, http.StatusRequestEntityTooLarge, err)
			return
		}
		respondError(c, http.StatusBadRequest, errors.New("multipart field \"file\" is required"))
		return
	}
	mode, err := importer.ParseMode(c.PostForm("mode"))
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	f, err := fh.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	res, err := h.importer.Process(data, mode)
	if err != nil {
		respondImportError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// CreateAssessment scores one questionnaire and stores it when persistence
// is enabled.
func (h *Handler) CreateAssessment(c *gin.Context) {
	var p assessment.PatientAssessment
	if err := c.ShouldBindJSON(&p); err != nil {
		if isTooLarge(err) {
			respondError(c, http.StatusRequestEntityTooLarge, err)
			return
		}
		respondError(c, http.StatusBadRequest, errors.New("invalid JSON payload"))
		return
	}
	assessment.Calculate(&p)

	if h.repo == nil {
		c.JSON(http.StatusCreated, gin.H{"data": p})
		return
	}

	rec := &store.Record{UserID: c.GetString(userIDKey), Assessment: p}
	if err := h.repo.Save(c.Request.Context(), rec); err != nil {
		h.logger.Error("save assessment failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": rec.ID, "data": rec.Assessment})
}

func (h *Handler) GetAssessment(c *gin.Context) {
	if h.repo == nil {
		respondError(c, http.StatusServiceUnavailable, errors.New("persistence is disabled"))
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, errors.New("invalid assessment id"))
		return
	}

	rec, err := h.repo.GetByID(c.Request.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(c, http.StatusNotFound, err)
	case err != nil:
		respondError(c, http.StatusInternalServerError, err)
	default:
		c.JSON(http.StatusOK, rec)
	}
}

func (h *Handler) ListAssessments(c *gin.Context) {
	if h.repo == nil {
		respondError(c, http.StatusServiceUnavailable, errors.New("persistence is disabled"))
		return
	}
	limit := defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(c, http.StatusBadRequest, errors.New("limit must be a positive integer"))
			return
		}
		limit = min(n, maxListLimit)
	}

	recs, err := h.repo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	if recs == nil {
		recs = []*store.Record{}
	}
	c.JSON(http.StatusOK, gin.H{"data": recs})
}

type chatRequest struct {
	Messages []coach.Message `json:"messages"`
}

func (h *Handler) Chat(c *gin.Context) {
	if h.coach == nil || !h.coach.Enabled() {
		respondError(c, http.StatusServiceUnavailable, coach.ErrNotConfigured)
		return
	}
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, errors.New("invalid JSON payload"))
		return
	}

	reply, err := h.coach.Complete(c.Request.Context(), req.Messages)
	switch {
	case errors.Is(err, coach.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, err)
	case errors.Is(err, coach.ErrNotConfigured):
		respondError(c, http.StatusServiceUnavailable, err)
	case errors.Is(err, coach.ErrUpstream):
		respondError(c, http.StatusBadGateway, err)
	case err != nil:
		respondError(c, http.StatusInternalServerError, err)
	default:
		c.JSON(http.StatusOK, gin.H{"message": reply})
	}
}

func respondImportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, importer.ErrFetch):
		respondError(c, http.StatusBadGateway, err)
	case errors.Is(err, importer.ErrUnreadable):
		respondError(c, http.StatusUnprocessableEntity, err)
	default:
		respondError(c, http.StatusInternalServerError, err)
	}
}

// respondError writes the {error} envelope. 5xx errors go to Sentry and
// internal error details stay out of the response.
func respondError(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		sentry.CaptureException(err)
	}
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
