package ipc

import (
	"context"
	"encoding/json"
	"net"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

type recordingHandler struct {
	mu   sync.Mutex
	reqs []*Request
}

func (h *recordingHandler) HandleRequest(_ context.Context, req *Request) *Response {
	h.mu.Lock()
	h.reqs = append(h.reqs, req)
	h.mu.Unlock()

	switch req.Command {
	case CommandGetStatus:
		resp, _ := NewOKResponse(StatusData{CurrentDesktop: 2, MaxDesktops: 5, ClientCount: 3, DaemonRunning: true})
		return resp
	case CommandListClients:
		resp, _ := NewOKResponse(ClientsData{Clients: []ClientInfo{{Window: 7, Desktop: "2", Layer: 5}}})
		return resp
	case CommandSetLayer:
		var p LayerPayload
		if err := req.DecodePayload(&p); err != nil {
			return NewErrorResponse(err.Error())
		}
		if p.Layer > 9 {
			return NewErrorResponse("invalid layer")
		}
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (h *recordingHandler) last() *Request {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.reqs) == 0 {
		return nil
	}
	return h.reqs[len(h.reqs)-1]
}

func startServer(t *testing.T, h Handler) (*Server, *Client) {
	t.Helper()
	// Unix socket paths are limited in length; keep the name short.
	path := filepath.Join(t.TempDir(), "wm.sock")
	srv := NewServer(path, h, nil)
	if err := srv.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(srv.Stop)
	return srv, NewClientForSocket(path)
}

func TestServer_StatusRoundTrip(t *testing.T) {
	h := &recordingHandler{}
	_, client := startServer(t, h)

	status, err := client.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if status.CurrentDesktop != 2 || status.MaxDesktops != 5 || !status.DaemonRunning {
		t.Fatalf("unexpected status: %+v", status)
	}

	clients, err := client.ListClients()
	if err != nil {
		t.Fatalf("ListClients: %v", err)
	}
	if len(clients.Clients) != 1 || clients.Clients[0].Window != 7 {
		t.Fatalf("unexpected clients: %+v", clients)
	}
}

func TestServer_PayloadsReachHandler(t *testing.T) {
	h := &recordingHandler{}
	_, client := startServer(t, h)

	if err := client.SetLayer(42, 7); err != nil {
		t.Fatalf("SetLayer: %v", err)
	}
	req := h.last()
	if req == nil || req.Command != CommandSetLayer {
		t.Fatalf("last request = %+v", req)
	}
	var p LayerPayload
	if err := json.Unmarshal(req.Payload, &p); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if p.Window != 42 || p.Layer != 7 {
		t.Fatalf("payload = %+v", p)
	}

	if err := client.Quit(); err != nil {
		t.Fatalf("Quit: %v", err)
	}
	if req := h.last(); req.Command != CommandQuit || len(req.Payload) != 0 {
		t.Fatalf("quit request = %+v", req)
	}
}

func TestServer_ErrorResponse(t *testing.T) {
	_, client := startServer(t, &recordingHandler{})

	err := client.SetLayer(1, 12)
	if err == nil || !strings.Contains(err.Error(), "invalid layer") {
		t.Fatalf("expected daemon error, got %v", err)
	}
}

func TestServer_InvalidRequest(t *testing.T) {
	srv, _ := startServer(t, &recordingHandler{})

	conn, err := net.Dial("unix", srv.SocketPath())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	if _, err := conn.Write([]byte("not json\n")); err != nil {
		t.Fatalf("write: %v", err)
	}

	var resp Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != StatusError || !strings.Contains(resp.Error, "Invalid request") {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestClient_NoDaemon(t *testing.T) {
	client := NewClientForSocket(filepath.Join(t.TempDir(), "missing.sock"))
	if err := client.Ping(); err == nil || !strings.Contains(err.Error(), "is layerwm running") {
		t.Fatalf("expected connection error, got %v", err)
	}
}

func TestParseRequest(t *testing.T) {
	if _, err := ParseRequest([]byte(`{"payload":{}}`)); err == nil {
		t.Fatal("expected error for missing command")
	}
	req, err := ParseRequest([]byte(`{"command":"FOCUS","payload":{"window":9}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var p WindowPayload
	if err := req.DecodePayload(&p); err != nil || p.Window != 9 {
		t.Fatalf("payload = %+v, %v", p, err)
	}

	empty := &Request{Command: CommandFocus}
	p = WindowPayload{Window: 3}
	if err := empty.DecodePayload(&p); err != nil || p.Window != 3 {
		t.Fatalf("absent payload should leave target untouched: %+v, %v", p, err)
	}
}
