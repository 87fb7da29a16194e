package websockets

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/chris/donation-ledger/pkg/websockets"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// CampaignQueryParam selects the campaign a client subscribes to.
const CampaignQueryParam = "campaignId"

// Handler subscribes WebSocket clients to campaign progress.
type Handler struct {
	connManager websockets.ConnectionManager
	hub         *websockets.Hub
}

// NewHandler creates a Handler for API Gateway deployments. The connection
// manager records which campaign each connection watches.
func NewHandler(connManager websockets.ConnectionManager) *Handler {
	return &Handler{connManager: connManager}
}

// NewLocalHandler creates a Handler that serves WebSockets in-process through hub.
func NewLocalHandler(hub *websockets.Hub) *Handler {
	return &Handler{hub: hub}
}

// HandleConnect registers a new subscription. The campaign comes from the
// connect request's query string.
func (h *Handler) HandleConnect(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	connectionID := request.RequestContext.ConnectionID
	campaignID := strings.TrimSpace(request.QueryStringParameters[CampaignQueryParam])
	if campaignID == "" {
		slog.Warn("rejected connection without campaign", "connectionId", connectionID)
		return events.APIGatewayProxyResponse{StatusCode: http.StatusBadRequest, Body: "campaignId is required"}, nil
	}

	slog.Info("client connected", "connectionId", connectionID, "campaignId", campaignID)
	if err := h.connManager.AddConnection(ctx, connectionID, campaignID); err != nil {
		slog.Error("failed to save connection ID", "connectionId", connectionID, "error", err)
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, err
	}

	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK}, nil
}

// HandleDisconnect handles client disconnections.
func (h *Handler) HandleDisconnect(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	slog.Info("client disconnected", "connectionId", request.RequestContext.ConnectionID)

	if err := h.connManager.RemoveConnection(ctx, request.RequestContext.ConnectionID); err != nil {
		slog.Error("failed to delete connection ID", "error", err)
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, err
	}

	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK}, nil
}

// HandleDefault handles messages sent from a client. Progress is push only.
func (h *Handler) HandleDefault(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	slog.Debug("ignoring client message", "connectionId", request.RequestContext.ConnectionID)
	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK}, nil
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ServeHTTP upgrades a local connection and keeps it subscribed until the
// client goes away.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	campaignID := strings.TrimSpace(r.URL.Query().Get(CampaignQueryParam))
	if campaignID == "" {
		http.Error(w, "campaignId is required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	connectionID := uuid.New().String()
	// The request context ends with the handler; unregistering must outlive it.
	ctx := context.WithoutCancel(r.Context())
	if err := h.hub.Register(ctx, connectionID, campaignID, conn); err != nil {
		slog.Error("failed to save local connection ID", "error", err)
		return
	}
	slog.Info("client connected locally", "connectionId", connectionID, "campaignId", campaignID)

	defer func() {
		slog.Info("client disconnected locally", "connectionId", connectionID)
		h.hub.Unregister(ctx, connectionID)
	}()

	// Reads only detect the close; clients never send anything meaningful.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("unexpected close error", "error", err)
			}
			break
		}
	}
}
