package middleware

import (
	"time" // Request duration

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// RequestLogger logs every request with method, path, status and duration.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logrus.WithFields(logrus.Fields{
			"method":   c.Request.Method,          // HTTP method
			"path":     c.Request.URL.Path,        // Request path
			"status":   c.Writer.Status(),         // Response status code
			"duration": time.Since(start).String(), // Handling time
			"client":   c.ClientIP(),              // Caller address
		}).Info("Request handled")
	}
}
