package singleinstance

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net"
	"strings"
	"sync"
	"time"
)

const (
	residentHost    = "127.0.0.1"
	pingRequest     = "PING\n"
	pongResponse    = "PONG\n"
	successResponse = "SUCCESS\n"
	errorResponse   = "ERROR\n"
)

// tcpServer implements Server over TCP loopback.
type tcpServer struct {
	ports     PortRange
	lis       net.Listener
	incoming  chan *tcpConn
	port      int
	closeOnce sync.Once
}

func newTcpServer(r PortRange) Server {
	return &tcpServer{ports: r.Normalize(), incoming: make(chan *tcpConn, 8)}
}

// Start binds ONLY the start port of the range. If occupied, fail.
func (s *tcpServer) Start(ctx context.Context) error {
	if s.lis != nil {
		return nil
	}
	addr := residentAddr(s.ports.Start)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		log.Printf("singleinstance: failed to bind %s: %v", addr, err)
		return err
	}
	s.lis = lis
	s.port = s.ports.Start
	log.Printf("singleinstance: listening on %s", addr)
	go s.acceptLoop(ctx)
	return nil
}

// Port returns the bound port (0 if not started).
func (s *tcpServer) Port() int { return s.port }

func (s *tcpServer) acceptLoop(ctx context.Context) {
	for {
		c, err := s.lis.Accept()
		if err != nil {
			return
		}
		remote := c.RemoteAddr().String()
		_ = c.SetDeadline(time.Now().Add(3 * time.Second))
		br := bufio.NewReader(c)
		line, _ := br.ReadString('\n')
		bw := bufio.NewWriter(c)

		req, err := parseRequest(line)
		switch {
		case line == pingRequest:
			log.Printf("singleinstance: PING from %s -> PONG", remote)
			_, _ = bw.WriteString(pongResponse)
			_ = bw.Flush()
			_ = c.Close()
			continue
		case err != nil:
			log.Printf("singleinstance: rejecting request from %s: %v", remote, err)
			_, _ = bw.WriteString(errorResponse + err.Error())
			_ = bw.Flush()
			_ = c.Close()
			continue
		}

		log.Printf("singleinstance: %s request from %s", req.Kind, remote)
		select {
		case s.incoming <- &tcpConn{c: c, r: req, w: bw}:
		case <-ctx.Done():
			_ = c.Close()
			return
		}
	}
}

func parseRequest(line string) (Request, error) {
	switch strings.TrimSpace(line) {
	case Capture.String():
		return Request{Kind: Capture}, nil
	case Quit.String():
		return Request{Kind: Quit}, nil
	}
	return Request{}, fmt.Errorf("unknown request %q", strings.TrimSpace(line))
}

func (s *tcpServer) Next(ctx context.Context) (Conn, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case tc := <-s.incoming:
		return tc, nil
	}
}

func (s *tcpServer) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.lis != nil {
			err = s.lis.Close()
		}
	})
	return err
}

type tcpConn struct {
	c net.Conn
	r Request
	w *bufio.Writer
}

func (tc *tcpConn) Request() Request { return tc.r }

func (tc *tcpConn) RespondSuccess(msg string) error {
	if _, err := tc.w.WriteString(successResponse + msg); err != nil {
		return err
	}
	return tc.w.Flush()
}

func (tc *tcpConn) RespondError(msg string) error {
	if _, err := tc.w.WriteString(errorResponse + msg); err != nil {
		return err
	}
	return tc.w.Flush()
}

func (tc *tcpConn) Close() error { return tc.c.Close() }
