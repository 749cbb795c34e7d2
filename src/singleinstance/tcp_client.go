package singleinstance

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

type tcpClient struct {
	ports PortRange
}

func newTcpClient(r PortRange) Client { return &tcpClient{ports: r.Normalize()} }

func (c *tcpClient) Send(ctx context.Context, kind Kind) (bool, string, error) {
	timeout := 2 * time.Second
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 {
			timeout = d
		}
	}

	port, ok := DetectResidentPort(ctx, c.ports)
	if !ok {
		return false, "", nil
	}

	conn, err := net.DialTimeout("tcp", residentAddr(port), timeout)
	if err != nil {
		return false, "", nil
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(timeout))

	w := bufio.NewWriter(conn)
	if _, err := w.WriteString(kind.String() + "\n"); err != nil {
		return true, "", err
	}
	if err := w.Flush(); err != nil {
		return true, "", err
	}

	br := bufio.NewReader(conn)
	status, err := br.ReadString('\n')
	if err != nil {
		return true, "", fmt.Errorf("resident did not answer: %w", err)
	}
	body, _ := io.ReadAll(br)
	msg := strings.TrimSpace(string(body))
	switch status {
	case successResponse:
		return true, msg, nil
	case errorResponse:
		return true, "", errors.New(msg)
	}
	return true, "", fmt.Errorf("unexpected resident response %q", strings.TrimSpace(status))
}
