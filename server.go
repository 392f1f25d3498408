package main

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	summaryMinChars = 10
	summaryMaxChars = 1000
)

type classifyRequest struct {
	TicketID   string     `json:"ticket_id"`
	CustomerID string     `json:"customer_id"`
	Channel    string     `json:"channel" binding:"required"`
	Severity   string     `json:"severity" binding:"required"`
	Summary    string     `json:"summary" binding:"required"`
	Tags       []string   `json:"tags"`
	Priority   string     `json:"priority"`
	Timestamp  *time.Time `json:"timestamp"`
}

type classifyResponse struct {
	ClassificationResult
	ProcessingMS int64  `json:"processing_ms"`
	Timestamp    string `json:"timestamp"`
}

// ticketFromRequest normalizes and validates the raw request: channel and
// severity lowercased and trimmed, tags lowercased, timestamp defaulted to
// the request time. The core below assumes these canonical values.
func ticketFromRequest(req classifyRequest, now time.Time) (Ticket, error) {
	channel := Channel(strings.ToLower(strings.TrimSpace(req.Channel)))
	if !ValidChannel(channel) {
		return Ticket{}, fmt.Errorf("unknown channel '%s'", req.Channel)
	}

	severity := Severity(strings.ToLower(strings.TrimSpace(req.Severity)))
	if !ValidSeverity(severity) {
		return Ticket{}, fmt.Errorf("unknown severity '%s'", req.Severity)
	}

	summary := strings.TrimSpace(req.Summary)
	if len(summary) < summaryMinChars || len(summary) > summaryMaxChars {
		return Ticket{}, fmt.Errorf("summary must be between %d and %d characters, got %d",
			summaryMinChars, summaryMaxChars, len(summary))
	}

	var tags []string
	for _, tag := range req.Tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			tags = append(tags, tag)
		}
	}

	receivedAt := now
	if req.Timestamp != nil {
		receivedAt = *req.Timestamp
	}

	return Ticket{
		TicketID:   strings.TrimSpace(req.TicketID),
		CustomerID: strings.TrimSpace(req.CustomerID),
		Channel:    channel,
		Severity:   severity,
		Summary:    summary,
		Tags:       tags,
		Priority:   strings.TrimSpace(req.Priority),
		ReceivedAt: receivedAt,
	}, nil
}

type ClassifyHandler struct {
	classifier *Classifier
	store      *UsageStore
	notifier   *Notifier
}

func (h *ClassifyHandler) Classify(c *gin.Context) {
	start := time.Now()

	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ticket, err := ticketFromRequest(req, start)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, usage, err := h.classifier.Classify(c.Request.Context(), ticket)
	if err != nil {
		// Internal detail stays in the log; the caller gets a generic message.
		log.Printf("classification failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal classification error"})
		return
	}

	if h.store != nil {
		day := start.Format("2006-01-02")
		if err := h.store.RecordClassification(day, result.Decision, result.Metadata.ExternalAssessmentUsed, usage); err != nil {
			log.Printf("usage record error (non-fatal): %v", err)
		}
	}
	h.notifier.NotifyCritical(ticket, result)

	c.JSON(http.StatusOK, classifyResponse{
		ClassificationResult: result,
		ProcessingMS:         time.Since(start).Milliseconds(),
		Timestamp:            time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *ClassifyHandler) Stats(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "usage store unavailable"})
		return
	}

	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 90 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be an integer between 1 and 90"})
			return
		}
		days = parsed
	}

	usage, err := h.store.RecentUsage(days)
	if err != nil {
		log.Printf("stats query error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if usage == nil {
		usage = []DailyUsage{}
	}
	c.JSON(http.StatusOK, gin.H{"days": days, "usage": usage})
}

func NewRouter(h *ClassifyHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.POST("/classify", h.Classify)
	api.GET("/stats", h.Stats)

	return r
}
