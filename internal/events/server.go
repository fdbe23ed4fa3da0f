// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package events

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/nats-io/nats-server/v2/server"

	"github.com/tomtom215/jobrec/internal/config"
)

// EmbeddedServer is an in-process NATS server with JetStream for
// single-instance deployments.
type EmbeddedServer struct {
	server    *server.Server
	clientURL string
}

// readyTimeout bounds how long startup waits for the server to accept
// connections.
const readyTimeout = 30 * time.Second

// NewEmbeddedServer starts a JetStream-enabled NATS server listening on the
// host and port of cfg.URL. Port -1 picks a random free port.
func NewEmbeddedServer(cfg *config.NATSConfig) (*EmbeddedServer, error) {
	host, port, err := listenAddress(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts := &server.Options{
		ServerName:         "jobrec-events",
		Host:               host,
		Port:               port,
		JetStream:          true,
		StoreDir:           cfg.StoreDir,
		JetStreamMaxMemory: cfg.MaxMemory,
		JetStreamMaxStore:  cfg.MaxStore,
		MaxPayload:         1024 * 1024,
		NoSigs:             true,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("create NATS server: %w", err)
	}
	ns.ConfigureLogger()

	go ns.Start()

	if !ns.ReadyForConnections(readyTimeout) {
		ns.Shutdown()
		return nil, errors.New("NATS server not ready within timeout")
	}

	return &EmbeddedServer{
		server:    ns,
		clientURL: ns.ClientURL(),
	}, nil
}

// listenAddress extracts host and port from a nats:// URL. A missing port
// means the NATS default; -1 asks for a random port.
func listenAddress(rawURL string) (string, int, error) {
	_, hostPort, ok := strings.Cut(rawURL, "://")
	if !ok {
		return "", 0, fmt.Errorf("NATS url %q has no scheme", rawURL)
	}
	if i := strings.LastIndex(hostPort, "@"); i >= 0 {
		hostPort = hostPort[i+1:]
	}
	if i := strings.IndexByte(hostPort, '/'); i >= 0 {
		hostPort = hostPort[:i]
	}
	if hostPort == "" {
		return "", 0, fmt.Errorf("NATS url %q has no host", rawURL)
	}
	host, portStr, err := net.SplitHostPort(hostPort)
	if err != nil {
		return hostPort, server.DEFAULT_PORT, nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("NATS url %q: invalid port: %w", rawURL, err)
	}
	return host, port, nil
}

// ClientURL returns the connection URL for clients.
func (s *EmbeddedServer) ClientURL() string {
	return s.clientURL
}

// IsRunning returns server health status.
func (s *EmbeddedServer) IsRunning() bool {
	return s.server.Running()
}

// JetStreamEnabled returns whether JetStream is enabled.
func (s *EmbeddedServer) JetStreamEnabled() bool {
	return s.server.JetStreamEnabled()
}

// Shutdown stops the server and waits for it to exit.
func (s *EmbeddedServer) Shutdown() {
	s.server.Shutdown()
	s.server.WaitForShutdown()
}
