package leaderboard

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	readLimit    = 4096
	pongWait     = 60 * time.Second
	pingPeriod   = 25 * time.Second
	writeTimeout = 10 * time.Second
)

// Server exposes a Board over websockets.
type Server struct {
	board    Board
	logger   *log.Logger
	upgrader websocket.Upgrader

	pongWait   time.Duration
	pingPeriod time.Duration
}

// NewServer creates a websocket handler for board.
func NewServer(board Board, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		board:  board,
		logger: logger,
		upgrader: websocket.Upgrader{
			// Game clients are not browsers.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		pongWait:   pongWait,
		pingPeriod: pingPeriod,
	}
}

// ServeHTTP upgrades the connection and answers requests until it closes.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(s.pongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(s.pongWait))
		return nil
	})

	done := make(chan struct{})
	defer close(done)
	go s.pingLoop(conn, done)

	s.logger.Debug("client connected", "remote", r.RemoteAddr)
	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("read failed", "remote", r.RemoteAddr, "err", err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(s.pongWait))

		resp := s.Handle(req)
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(resp); err != nil {
			s.logger.Warn("write failed", "remote", r.RemoteAddr, "err", err)
			return
		}
	}
}

// pingLoop keeps idle connections alive.
func (s *Server) pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(s.pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// Handle answers a single request.
func (s *Server) Handle(req Request) Response {
	if req.Player == "" {
		return Response{Type: TypeError, Error: "missing player"}
	}

	switch req.Type {
	case TypeSubmit:
		if req.Score < 0 {
			return Response{Type: TypeError, Error: "negative score"}
		}
		best, err := s.board.Submit(req.Player, req.Score)
		if err != nil {
			s.logger.Error("submit failed", "player", req.Player, "err", err)
			return Response{Type: TypeError, Error: "submit failed"}
		}
		s.logger.Info("score submitted", "player", req.Player, "score", req.Score, "best", best)
		return Response{Type: TypeSubmit, Found: true, Score: best}

	case TypeTop:
		best, found, err := s.board.Best(req.Player)
		if err != nil {
			s.logger.Error("lookup failed", "player", req.Player, "err", err)
			return Response{Type: TypeError, Error: "lookup failed"}
		}
		return Response{Type: TypeTop, Found: found, Score: best}

	case TypeRank:
		rank, found, err := s.board.Rank(req.Player)
		if err != nil {
			s.logger.Error("rank failed", "player", req.Player, "err", err)
			return Response{Type: TypeError, Error: "rank failed"}
		}
		return Response{Type: TypeRank, Found: found, Rank: rank}

	default:
		return Response{Type: TypeError, Error: "unknown request type"}
	}
}
