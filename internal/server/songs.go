package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	songdomain "github.com/playlistlab/pairwise/internal/song/domain"
)

// RandomSongs returns two distinct songs to rate. A session identifier in
// the X-Session-Id header steers selection away from already-rated pairs.
func (s *Server) RandomSongs(c *gin.Context) {
	resp, err := s.songSvc.RandomPair(c.Request.Context(), songdomain.RandomPairRequest{
		SessionID: strings.TrimSpace(c.GetHeader("X-Session-Id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
