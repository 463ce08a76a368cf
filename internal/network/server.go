package network

import (
	"io"
	"net"

	"github.com/cockroachdb/errors"
	"github.com/vskvj3/geomys-sequence/internal/core"
	"github.com/vskvj3/geomys-sequence/internal/utils"
)

const defaultMaxRequestBytes = 4096

type Server struct {
	CommandHandler  *core.CommandHandler
	Port            string
	MaxRequestBytes int
}

func NewServer(port string, handler *core.CommandHandler) (*Server, error) {
	logger := utils.GetLogger()

	if handler == nil || handler.Database == nil {
		return nil, errors.New("database is not initialized")
	}

	maxRequestBytes := defaultMaxRequestBytes
	if config, err := utils.GetConfig(); err == nil {
		maxRequestBytes = config.MaxRequestBytes
	} else {
		logger.Warn("Config not loaded, using default request size: " + err.Error())
	}

	logger.Info("TCP server initialized on port " + port)
	return &Server{CommandHandler: handler, Port: port, MaxRequestBytes: maxRequestBytes}, nil
}

// Start the TCP server and listen for client connections
func (s *Server) Start() error {
	logger := utils.GetLogger()

	// Attempt to bind to the configured port
	listener, err := net.Listen("tcp", ":"+s.Port)
	if err != nil {
		logger.Warn("Port " + s.Port + " unavailable. Selecting a random port...")
		listener, err = net.Listen("tcp", ":0")
		if err != nil {
			return errors.Wrap(err, "start server")
		}
	}
	return s.Serve(listener)
}

// Serve accepts connections on listener until it is closed
func (s *Server) Serve(listener net.Listener) error {
	logger := utils.GetLogger()
	defer listener.Close()
	logger.Info("Server is listening on " + listener.Addr().String())

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				logger.Info("Listener closed: " + listener.Addr().String())
				return nil
			}
			logger.Error("Error accepting connection: " + err.Error())
			continue
		}
		logger.Infow("Accepted client", "client", conn.RemoteAddr().String())
		go s.HandleConnection(conn)
	}
}

// Handle an incoming client connection
func (s *Server) HandleConnection(conn net.Conn) {
	logger := utils.GetLogger()
	client := conn.RemoteAddr().String()
	served := 0
	defer func() {
		logger.Infow("Client disconnected", "client", client, "requests", served)
		conn.Close()
	}()

	size := s.MaxRequestBytes
	if size <= 0 {
		size = defaultMaxRequestBytes
	}
	decoder := utils.NewRequestDecoder(conn, size)

	for {
		request, err := decoder.Decode()
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				logger.Info("Client closed the connection: " + client)
				return
			case errors.Is(err, utils.ErrRequestTooLarge), errors.Is(err, utils.ErrEmptyRequest):
				// The whole message was consumed, so the stream is still aligned.
				logger.Warn("Rejected request from " + client + ": " + err.Error())
				s.sendError(conn, err)
				served++
				continue
			case errors.Is(err, net.ErrClosed):
				return
			}
			// A malformed message leaves no boundary to resume from.
			logger.Error("Failed to decode request: " + err.Error())
			s.sendError(conn, err)
			return
		}
		served++

		if command, ok := core.CommandName(request); ok && core.IsWriteCommand(command) {
			logger.Debugw("Write request", "command", command, "key", request["key"], "client", client)
		}

		response, err := s.CommandHandler.HandleCommand(request)
		if err != nil {
			s.sendError(conn, err)
			continue
		}
		s.sendResponse(conn, response)
	}
}

// sendResponse serializes the response and sends it to the client
func (s *Server) sendResponse(conn net.Conn, response map[string]interface{}) {
	logger := utils.GetLogger()
	data, err := utils.EncodeResponse(response)
	if err != nil {
		logger.Error("Failed to encode response: " + err.Error())
		return
	}
	_, err = conn.Write(data)
	if err != nil {
		logger.Error("Failed to send response: " + err.Error())
	}
}

// sendError sends an error message to the client
func (s *Server) sendError(conn net.Conn, err error) {
	utils.GetLogger().Debug("Request failed: " + err.Error())
	s.sendResponse(conn, core.ErrorResponse(err))
}
