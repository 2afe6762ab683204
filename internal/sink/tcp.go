package sink

import (
	"bufio"
	"errors"
	"io"
	"net"
	"strings"

	"go.uber.org/zap"
)

// ServeLine accepts plaintext-protocol connections on ln and feeds every
// decoded record into the store. It returns when the listener is closed.
func ServeLine(ln net.Listener, st *Store, log *zap.Logger) {
	serve(ln, log, func(conn net.Conn) {
		sc := bufio.NewScanner(conn)
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" {
				continue
			}
			smp, err := ParseLine(line)
			if err != nil {
				log.Warn("drop plaintext record", zap.Error(err))
				continue
			}
			st.Add(smp)
		}
	})
}

// ServePickle accepts pickle-protocol connections on ln, reading one framed
// message at a time until the peer disconnects.
func ServePickle(ln net.Listener, st *Store, log *zap.Logger) {
	serve(ln, log, func(conn net.Conn) {
		for {
			batch, err := ReadFrame(conn)
			if err != nil {
				if !errors.Is(err, io.EOF) {
					log.Warn("drop pickle frame", zap.Error(err))
				}
				return
			}
			st.Add(batch...)
		}
	})
}

func serve(ln net.Listener, log *zap.Logger, handle func(net.Conn)) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				log.Warn("accept failed", zap.Error(err))
			}
			return
		}
		log.Debug("peer connected", zap.String("remote", conn.RemoteAddr().String()))
		go func() {
			defer conn.Close()
			handle(conn)
		}()
	}
}
