package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/campus-events/internal/application"
	"github.com/oksasatya/campus-events/pkg/response"
)

// Chatbot answers ?message= with a canned reply.
func Chatbot(c *gin.Context) {
	msg := c.Query("message")
	response.Success(c, http.StatusOK, gin.H{"reply": application.ChatReply(msg)}, "chatbot", nil)
}
