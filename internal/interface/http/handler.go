package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/faq-matcher/internal/domain/faq"
	apperrors "github.com/yanqian/faq-matcher/pkg/errors"
)

// Handler wires the HTTP transport to the comparison service.
type Handler struct {
	faqSvc    faq.Service
	questions *faq.TestQuestionSet
	logger    *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(faqSvc faq.Service, questions *faq.TestQuestionSet, logger *slog.Logger) *Handler {
	return &Handler{
		faqSvc:    faqSvc,
		questions: questions,
		logger:    logger.With("component", "http.handler"),
	}
}

type indexPage struct {
	UserQuestion      string
	Results           []faq.Result
	Error             string
	TestQuestionTotal int
}

// Index renders the form with blank result blocks.
func (h *Handler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", indexPage{
		Results:           h.faqSvc.Blank().Results(),
		TestQuestionTotal: h.questions.Len(),
	})
}

// Ask compares the submitted form question and renders the three results.
func (h *Handler) Ask(c *gin.Context) {
	question := c.PostForm("user_question")
	page := indexPage{
		UserQuestion:      question,
		TestQuestionTotal: h.questions.Len(),
	}

	resp, err := h.faqSvc.Compare(c.Request.Context(), question)
	if err != nil {
		httpErr := compareError(err)
		h.logger.Warn("compare failed", "code", httpErr.Code, "status", httpErr.Status, "error", err)
		page.Results = h.faqSvc.Blank().Results()
		page.Error = httpErr.Message
		c.HTML(httpErr.Status, "index.html", page)
		return
	}
	page.Results = resp.Results()
	c.HTML(http.StatusOK, "index.html", page)
}

// TestQuestion serves one sample question by position.
func (h *Handler) TestQuestion(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		abortWithError(c, NewHTTPError(http.StatusNotFound, apperrors.CodeNotFound, "test question index must be a non-negative integer", err))
		return
	}
	c.JSON(http.StatusOK, h.questions.Lookup(index))
}

// Compare is the JSON flavour of Ask.
func (h *Handler) Compare(c *gin.Context) {
	var req faq.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.faqSvc.Compare(c.Request.Context(), req.Question)
	if err != nil {
		abortWithError(c, compareError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// FAQs lists the catalog.
func (h *Handler) FAQs(c *gin.Context) {
	entries := h.faqSvc.Entries()
	c.JSON(http.StatusOK, gin.H{
		"faqs":  entries,
		"total": len(entries),
	})
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
