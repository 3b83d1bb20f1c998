package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	ratingdomain "github.com/playlistlab/pairwise/internal/rating/domain"
)

type createRatingRequest struct {
	First     string `json:"first"`
	Second    string `json:"second"`
	Score     *int   `json:"score"`
	SessionID string `json:"sessionId"`
}

func (s *Server) CreateRating(c *gin.Context) {
	var req createRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if strings.TrimSpace(req.First) == "" || strings.TrimSpace(req.Second) == "" || req.Score == nil {
		AbortWithError(c, newValidationError("request", "missing_fields", "first, second and score are required"))
		return
	}

	resp, err := s.ratingSvc.Submit(c.Request.Context(), ratingdomain.SubmitRequest{
		First:     strings.TrimSpace(req.First),
		Second:    strings.TrimSpace(req.Second),
		Score:     *req.Score,
		SessionID: strings.TrimSpace(req.SessionID),
		Client: ratingdomain.ClientMeta{
			UserAgent: c.Request.UserAgent(),
			IPAddress: clientAddress(c),
		},
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "rating": resp})
}

func (s *Server) ExportRatings(c *gin.Context) {
	resp, err := s.ratingSvc.Export(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// clientAddress prefers the first forwarded hop over the socket peer.
func clientAddress(c *gin.Context) string {
	if forwarded := strings.TrimSpace(c.GetHeader("X-Forwarded-For")); forwarded != "" {
		return strings.TrimSpace(strings.SplitN(forwarded, ",", 2)[0])
	}
	if realIP := strings.TrimSpace(c.GetHeader("X-Real-Ip")); realIP != "" {
		return realIP
	}
	return c.ClientIP()
}
