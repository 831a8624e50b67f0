package server

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/popsearch/popsearch/internal/channel"
	"github.com/popsearch/popsearch/internal/daemon/action"
)

// contentConn is one attached content process.
type contentConn struct {
	stream channel.ContentAttachServer
	window string
	role   channel.Role

	sendMu sync.Mutex
}

func (c *contentConn) send(op channel.Op, body any) error {
	env, err := channel.NewEnvelope(op, c.window, body)
	if err != nil {
		return err
	}
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	return c.stream.Send(env)
}

// SendSelectedText implements overlay.Sink.
func (c *contentConn) SendSelectedText(text string) error {
	return c.send(channel.OpSelectedText, channel.SelectedText{Text: text})
}

// SendReload implements primary.Sink.
func (c *contentConn) SendReload() error {
	return c.send(channel.OpReload, nil)
}

func (c *contentConn) sendMenu(menu channel.Menu) error {
	return c.send(channel.OpMenu, menu)
}

type contentService struct {
	server *Server
}

// Attach serves one content stream. The first frame must be hello.
func (cs *contentService) Attach(stream channel.ContentAttachServer) error {
	first, err := stream.Recv()
	if err != nil {
		return err
	}
	if first.Op != channel.OpHello {
		return status.Errorf(codes.FailedPrecondition, "expected hello, got %s", first.Op)
	}
	var hello channel.Hello
	if err := first.Decode(&hello); err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}

	conn := &contentConn{stream: stream, window: first.Window, role: hello.Role}
	s := cs.server
	if !cs.attach(conn) {
		log.Printf("[channel] %s %s is not live, dropping", hello.Role, first.Window)
		return nil
	}
	defer cs.detach(conn)

	for {
		env, err := stream.Recv()
		if errors.Is(err, io.EOF) || status.Code(err) == codes.Canceled {
			return nil
		}
		if err != nil {
			return err
		}
		if env.Window != conn.window {
			continue
		}
		s.handle(stream.Context(), conn, env)
	}
}

func (cs *contentService) attach(conn *contentConn) bool {
	s := cs.server
	switch conn.role {
	case channel.RoleOverlay:
		if !s.overlays.ContentReady(conn.window, conn) {
			return false
		}
	case channel.RoleSettings:
		s.primary.Attach(conn)
	default:
		return false
	}
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()
	return true
}

func (cs *contentService) detach(conn *contentConn) {
	s := cs.server
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	if conn.role == channel.RoleSettings {
		s.primary.Detach(conn)
	}
}

// live reports whether conn's window can still act.
func (s *Server) live(conn *contentConn) bool {
	if conn.role == channel.RoleOverlay {
		return s.overlays.IsLive(conn.window)
	}
	return true
}

func (s *Server) handle(ctx context.Context, conn *contentConn, env *channel.Envelope) {
	if env.Op == channel.OpLog {
		var msg channel.Log
		if err := env.Decode(&msg); err == nil {
			log.Printf("[content] %s %s: %s", conn.role, conn.window, msg.Text)
		}
		return
	}
	if !s.live(conn) {
		return
	}

	switch env.Op {
	case channel.OpResize:
		var msg channel.Resize
		if err := env.Decode(&msg); err != nil {
			log.Printf("[channel] %v", err)
			return
		}
		if conn.role != channel.RoleOverlay {
			return
		}
		if err := s.overlays.Resize(ctx, conn.window, msg.Width, msg.Height); err != nil {
			log.Printf("[overlay] resize %s: %v", conn.window, err)
		}

	case channel.OpDispatch:
		var msg channel.Dispatch
		if err := env.Decode(&msg); err != nil {
			log.Printf("[channel] %v", err)
			return
		}
		if msg.Destination == nil {
			s.overlays.DismissWindow(conn.window)
			return
		}
		_ = s.executor.Execute(action.Request{
			Window:          conn.window,
			Destination:     *msg.Destination,
			Query:           msg.Query,
			CopyToClipboard: msg.Copy,
		})

	case channel.OpClose:
		s.closeWindow(conn)

	case channel.OpContextMenu:
		if err := conn.sendMenu(channel.DefaultMenu); err != nil {
			log.Printf("[channel] menu %s: %v", conn.window, err)
		}

	case channel.OpMenuAction:
		var msg channel.MenuAction
		if err := env.Decode(&msg); err != nil {
			log.Printf("[channel] %v", err)
			return
		}
		s.menuAction(ctx, conn, msg.ID)

	case channel.OpReload:
		s.Reload()

	case channel.OpMinimize:
		if err := s.primary.Minimize(); err != nil {
			log.Printf("[settings] minimize: %v", err)
		}

	case channel.OpSettings:
		s.showSettings(ctx)

	default:
		log.Printf("[channel] unknown op %q from %s", env.Op, conn.window)
	}
}

func (s *Server) closeWindow(conn *contentConn) {
	if conn.role == channel.RoleOverlay {
		s.overlays.DismissWindow(conn.window)
		return
	}
	if err := s.primary.Hide(); err != nil {
		log.Printf("[settings] hide: %v", err)
	}
}

func (s *Server) showSettings(ctx context.Context) {
	if err := s.primary.Show(context.WithoutCancel(ctx)); err != nil {
		log.Printf("[settings] show: %v", err)
	}
}

func (s *Server) menuAction(ctx context.Context, conn *contentConn, id string) {
	switch id {
	case channel.MenuReload:
		s.Reload()
	case channel.MenuSettings:
		if conn.role == channel.RoleOverlay {
			s.overlays.DismissWindow(conn.window)
		}
		s.showSettings(ctx)
	case channel.MenuQuit:
		s.RequestShutdown()
	default:
		log.Printf("[channel] unknown menu action %q", id)
	}
}
