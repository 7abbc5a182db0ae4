package chat_controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rountana/page1/clients/gemini"
	"github.com/rountana/page1/logger"
	"github.com/rountana/page1/models/chat_models"
	"github.com/rountana/page1/models/hotel_models"
	"github.com/rountana/page1/utils"
)

// Generator is the model surface the controller needs. Satisfied by
// *gemini.Client.
type Generator interface {
	Configured() bool
	Generate(ctx context.Context, systemPrompt string, history []gemini.Message, userInput string) (string, error)
}

// ChatController serves the travel assistant overlay. The assistant never
// breaks the page: any model failure degrades to a canned reply.
type ChatController struct {
	Model    Generator
	Sessions chat_models.SessionStore
}

func NewChatController(model Generator, sessions chat_models.SessionStore) *ChatController {
	return &ChatController{Model: model, Sessions: sessions}
}

type ChatRequest struct {
	SessionID string                      `json:"session_id"`
	Message   string                      `json:"message" binding:"required"`
	Hotels    []hotel_models.HotelSummary `json:"hotels"`
}

type ChatResponse struct {
	SessionID string                      `json:"session_id"`
	Reply     string                      `json:"reply"`
	Hotels    []hotel_models.HotelSummary `json:"hotels,omitempty"`
	Filtered  bool                        `json:"filtered"`
}

const basePrompt = `You are a friendly travel assistant for a hotel booking site.
Help the user compare hotels, explain amenities and prices, and suggest options.
Keep answers short and conversational.`

const filterInstruction = `
When the user asks you to narrow down or filter the listed hotels, end your reply
with a JSON object on its own line of the form {"hotel_ids": ["ID1", "ID2"]}
containing only the ids of hotels that match. Do not mention the JSON in your prose.`

const unavailableReply = "Sorry, the travel assistant is unavailable right now. Please try again later."

// Chat handles POST /api/chat.
func (cc *ChatController) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat request: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	session := cc.loadSession(ctx, req.SessionID)

	if cc.Model == nil || !cc.Model.Configured() {
		utils.EnrichmentDone("chat", utils.EnrichmentSkipped, "gemini api key not configured")
		c.JSON(http.StatusOK, ChatResponse{SessionID: session.ID, Reply: unavailableReply})
		return
	}

	reply, err := cc.Model.Generate(ctx, cc.systemPrompt(req.Hotels), session.History, req.Message)
	if err != nil {
		utils.EnrichmentDone("chat", utils.EnrichmentError, err.Error())
		c.JSON(http.StatusOK, ChatResponse{SessionID: session.ID, Reply: unavailableReply})
		return
	}
	utils.EnrichmentDone("chat", utils.EnrichmentOK, "")

	text, filter, filtered := gemini.ParseHotelFilter(reply)
	resp := ChatResponse{SessionID: session.ID, Reply: strings.TrimSpace(text)}
	if filtered && len(req.Hotels) > 0 {
		resp.Hotels = filterHotels(req.Hotels, filter.HotelIDs)
		resp.Filtered = true
	}

	session.Append(gemini.RoleUser, req.Message)
	session.Append(gemini.RoleModel, reply)
	if err := cc.Sessions.Save(ctx, session); err != nil {
		logger.WarnLogger.Warnf("Failed to save chat session %s: %v", session.ID, err)
	}

	c.JSON(http.StatusOK, resp)
}

func (cc *ChatController) loadSession(ctx context.Context, id string) *chat_models.Session {
	if id == "" {
		return chat_models.NewSession()
	}
	session, err := cc.Sessions.Load(ctx, id)
	if err != nil {
		// Expired or unknown session; start over rather than erroring out.
		return chat_models.NewSession()
	}
	return session
}

func (cc *ChatController) systemPrompt(hotels []hotel_models.HotelSummary) string {
	var sb strings.Builder
	sb.WriteString(basePrompt)
	if len(hotels) > 0 {
		sb.WriteString("\n\nThe user is currently looking at these hotels:\n")
		if doc, err := json.Marshal(hotels); err == nil {
			sb.Write(doc)
		}
		sb.WriteString(filterInstruction)
	}
	return sb.String()
}

func filterHotels(hotels []hotel_models.HotelSummary, ids []string) []hotel_models.HotelSummary {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	kept := make([]hotel_models.HotelSummary, 0, len(ids))
	for _, h := range hotels {
		if want[h.HotelID] {
			kept = append(kept, h)
		}
	}
	return kept
}
