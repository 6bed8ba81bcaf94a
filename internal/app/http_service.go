package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"
)

const httpReadHeaderTimeout = 10 * time.Second

// HTTPService 对外 HTTP 服务
type HTTPService struct {
	server *http.Server

	mu       sync.Mutex
	listener net.Listener
	ready    chan struct{}
}

// NewHTTPService 创建 HTTP 服务
func NewHTTPService(addr string, handler http.Handler) *HTTPService {
	return &HTTPService{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: httpReadHeaderTimeout,
		},
		ready: make(chan struct{}),
	}
}

// Name 服务名称
func (s *HTTPService) Name() string {
	return "http"
}

// Ready 端口监听成功后关闭
func (s *HTTPService) Ready() <-chan struct{} {
	return s.ready
}

// Addr 实际监听地址，未启动时返回配置地址
func (s *HTTPService) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.server.Addr
}

// Start 监听端口并处理请求，直到 Stop 被调用
func (s *HTTPService) Start(ctx context.Context) error {
	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", s.server.Addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()
	close(s.ready)

	if err := s.server.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop 停止接收新连接并等待进行中的请求完成
func (s *HTTPService) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
