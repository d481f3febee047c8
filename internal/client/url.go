package client

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/lox/pokerroom/internal/session"
)

// RoomURL builds the websocket endpoint for a room, converting http(s) server
// URLs to ws(s).
func RoomURL(server, room string, role session.Role) (string, error) {
	u, err := url.Parse(server)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("invalid server URL %q: unsupported scheme %q", server, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid server URL %q: missing host", server)
	}

	room = strings.TrimSpace(room)
	if room == "" || strings.ContainsAny(room, "/?#") {
		return "", fmt.Errorf("invalid room id %q", room)
	}
	if _, err := session.ParseRole(string(role)); err != nil {
		return "", err
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws/room/" + room + "/"
	u.RawQuery = url.Values{"role": {string(role)}}.Encode()
	u.Fragment = ""
	return u.String(), nil
}
