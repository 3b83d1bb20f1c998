package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RunSync triggers a corpus sync on demand and returns its summary.
func (s *Server) RunSync(c *gin.Context) {
	summary, err := s.syncer.Sync(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
