package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/pratikbuilds/account-socket/internal/domain"
	"github.com/pratikbuilds/account-socket/internal/version"
	"github.com/pratikbuilds/account-socket/internal/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Subscribers are anonymous; any origin may connect.
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (s *Server) handleWebSocket(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.WarnContext(c.Request().Context(), "Failed to upgrade websocket", "error", err)
		return nil
	}

	s.hub.ServeConn(c.Request().Context(), conn)
	return nil
}

func (s *Server) handleGetAccount(c echo.Context) error {
	pubkey := c.Param("pubkey")
	if pubkey == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "pubkey is required"})
	}

	account, source, err := s.resolver.Resolve(c.Request().Context(), pubkey)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "account not found"})
	}
	if err != nil {
		slog.ErrorContext(c.Request().Context(), "Failed to resolve account", "pubkey", pubkey, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, ws.AccountUpdateMessage{Pubkey: pubkey, Account: account, Source: source})
}

func (s *Server) handleVersion(c echo.Context) error {
	return c.JSON(http.StatusOK, version.Get())
}
