package services

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMTPMailer_NoopWithoutHost(t *testing.T) {
	mailer := NewSMTPMailer("", "587", "", "", "no-reply@test.local")
	assert.NoError(t, mailer.SendOTP("a@b.com", "123456"))
}

func TestSMTPMailer_TimesOutOnSilentRelay(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	// Accept the connection but never send the SMTP greeting.
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		io.Copy(io.Discard, conn)
	}()

	mailer := NewSMTPMailer("127.0.0.1", listenerPort(ln), "", "", "no-reply@test.local")
	mailer.timeout = 200 * time.Millisecond

	start := time.Now()
	err = mailer.SendOTP("a@b.com", "123456")
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.Less(t, elapsed, 2*time.Second, "delivery attempt did not respect the deadline")

	var gatewayErr *GatewayError
	require.True(t, errors.As(err, &gatewayErr))
	assert.Equal(t, "smtp", gatewayErr.Provider)
}

func TestSMTPMailer_DeliversThroughRelay(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	var received strings.Builder
	done := make(chan struct{})
	go fakeSMTPRelay(ln, &received, done)

	mailer := NewSMTPMailer("127.0.0.1", listenerPort(ln), "", "", "no-reply@test.local")
	require.NoError(t, mailer.SendOTP("a@b.com", "654321"))

	<-done
	body := received.String()
	assert.Contains(t, body, "To: a@b.com")
	assert.Contains(t, body, "654321")
	assert.Contains(t, body, "expires in 10 minutes")
}

func listenerPort(ln net.Listener) string {
	return strconv.Itoa(ln.Addr().(*net.TCPAddr).Port)
}

// fakeSMTPRelay speaks just enough SMTP to accept one message and
// record its DATA section.
func fakeSMTPRelay(ln net.Listener, received *strings.Builder, done chan struct{}) {
	defer close(done)

	conn, err := ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	reply := func(s string) { fmt.Fprintf(conn, "%s\r\n", s) }
	reply("220 test.local ESMTP")

	reader := bufio.NewReader(conn)
	inData := false
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, "\r\n")

		if inData {
			if line == "." {
				inData = false
				reply("250 OK")
			} else {
				received.WriteString(line + "\n")
			}
			continue
		}

		switch cmd := strings.ToUpper(line); {
		case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
			reply("250 test.local")
		case strings.HasPrefix(cmd, "MAIL"), strings.HasPrefix(cmd, "RCPT"):
			reply("250 OK")
		case strings.HasPrefix(cmd, "DATA"):
			inData = true
			reply("354 go ahead")
		case strings.HasPrefix(cmd, "QUIT"):
			reply("221 bye")
			return
		default:
			reply("250 OK")
		}
	}
}
