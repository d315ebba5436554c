package handler

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"agencydesk/internal/middleware"
	"agencydesk/internal/service"
	"agencydesk/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OverdueSweeper enqueues an overdue sweep run; satisfied by *queue.Queue.
type OverdueSweeper interface {
	EnqueueOverdueSweep(cutoff time.Time) error
}

type PaymentHandler struct {
	svc     *service.PaymentService
	uploads cloudinary.Client
	sweeper OverdueSweeper
}

func NewPaymentHandler(svc *service.PaymentService, uploads cloudinary.Client, sweeper OverdueSweeper) *PaymentHandler {
	return &PaymentHandler{svc: svc, uploads: uploads, sweeper: sweeper}
}

// parseDate accepts YYYY-MM-DD or RFC3339.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", s)
	}
	return &t, nil
}

// List returns the role-scoped payment page. Filters arrive as query params:
// status (comma-separated), client_id, due_start, due_end, page, page_size.
func (h *PaymentHandler) List(c *gin.Context) {
	actor := middleware.GetActor(c)

	var f service.Filter
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				f.Statuses = append(f.Statuses, s)
			}
		}
	}
	f.ClientID = c.Query("client_id")
	start, err := parseDate(c.Query("due_start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	end, err := parseDate(c.Query("due_end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f.DueStart, f.DueEnd = start, end

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result, err := h.svc.List(c.Request.Context(), actor, f, page, pageSize)
	if err != nil {
		respondErr(c, "list payments", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *PaymentHandler) Create(c *gin.Context) {
	var in service.CreatePaymentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	actor := middleware.GetActor(c)
	p, err := h.svc.Create(c.Request.Context(), actor, in)
	warning, ok := deliveryWarning("create payment", err)
	if !ok {
		respondErr(c, "create payment", err)
		return
	}
	body := gin.H{"payment": p}
	if warning != "" {
		body["warning"] = warning
	}
	c.JSON(http.StatusCreated, body)
}

func (h *PaymentHandler) Update(c *gin.Context) {
	var in service.UpdatePaymentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	actor := middleware.GetActor(c)
	p, err := h.svc.Update(c.Request.Context(), actor, c.Param("id"), in)
	warning, ok := deliveryWarning("update payment", err)
	if !ok {
		respondErr(c, "update payment", err)
		return
	}
	body := gin.H{"payment": p}
	if warning != "" {
		body["warning"] = warning
	}
	c.JSON(http.StatusOK, body)
}

func (h *PaymentHandler) Delete(c *gin.Context) {
	actor := middleware.GetActor(c)
	if err := h.svc.SoftDelete(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondErr(c, "delete payment", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// MarkPaid settles a payment from a multipart form: transaction_id, an
// optional document_type (pdf | image) and an optional document file. The
// form is validated in full before the document is uploaded anywhere.
func (h *PaymentHandler) MarkPaid(c *gin.Context) {
	actor := middleware.GetActor(c)
	id := c.Param("id")

	in := service.MarkPaidInput{
		TransactionID: c.PostForm("transaction_id"),
		DocumentType:  c.PostForm("document_type"),
	}
	fileHeader, ferr := c.FormFile("document")
	if ferr == nil && fileHeader != nil {
		in.DocumentFilename = fileHeader.Filename
	}
	if err := service.ValidateMarkPaidInput(in); err != nil {
		respondErr(c, "mark paid", err)
		return
	}

	if fileHeader != nil && h.uploads != nil {
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read document"})
			return
		}
		defer file.Close()
		url, err := h.uploads.UploadDocument(c.Request.Context(), file, "payment-documents", uuid.New().String(), in.DocumentType)
		if err != nil {
			log.Printf("[Payments] document upload failed payment_id=%s: %v", id, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "document upload failed"})
			return
		}
		in.DocumentURL = url
	}

	res, err := h.svc.MarkPaid(c.Request.Context(), actor, id, in)
	warning, ok := deliveryWarning("mark paid", err)
	if !ok {
		respondErr(c, "mark paid", err)
		return
	}
	body := gin.H{
		"payment":     res.Payment,
		"client_name": res.ClientName,
		"task_title":  res.TaskTitle,
	}
	if warning != "" {
		body["warning"] = warning
	}
	c.JSON(http.StatusOK, body)
}

// SweepOverdue queues an immediate overdue sweep instead of waiting for the
// hourly schedule. Accepts an optional cutoff (YYYY-MM-DD or RFC3339);
// defaults to now.
func (h *PaymentHandler) SweepOverdue(c *gin.Context) {
	if h.sweeper == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "background queue not configured"})
		return
	}
	cutoff := time.Now()
	if raw := c.Query("cutoff"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		cutoff = *t
	}
	if err := h.sweeper.EnqueueOverdueSweep(cutoff); err != nil {
		log.Printf("[Payments] enqueue overdue sweep failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not queue sweep"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"queued": true, "cutoff": cutoff})
}

func (h *PaymentHandler) Reminders(c *gin.Context) {
	actor := middleware.GetActor(c)
	reminders, err := h.svc.Reminders(c.Request.Context(), actor)
	if err != nil {
		respondErr(c, "list reminders", err)
		return
	}
	if reminders == nil {
		reminders = []service.Reminder{}
	}
	c.JSON(http.StatusOK, gin.H{"reminders": reminders})
}
