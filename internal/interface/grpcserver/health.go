// Package grpcserver 提供gRPC健康检查服务,供负载均衡和编排系统探活
package grpcserver

import (
	"context"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName 健康检查中的服务名,空字符串代表整体状态
const ServiceName = "library.api"

// Pinger 依赖探测,返回错误表示不可用
type Pinger func(ctx context.Context) error

// HealthServer gRPC健康检查服务器
type HealthServer struct {
	server   *grpc.Server
	health   *health.Server
	pingers  map[string]Pinger
	interval time.Duration
	logger   *zap.Logger
	stop     chan struct{}
}

// NewHealthServer 创建健康检查服务器
// pingers按名称探测依赖(如database),任一失败时状态为NOT_SERVING
func NewHealthServer(pingers map[string]Pinger, interval time.Duration, enableReflection bool, logger *zap.Logger) *HealthServer {
	server := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(server, hs)
	if enableReflection {
		reflection.Register(server)
	}

	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &HealthServer{
		server:   server,
		health:   hs,
		pingers:  pingers,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
	}
}

// Serve 在listener上提供服务,阻塞直到Stop
func (s *HealthServer) Serve(lis net.Listener) error {
	s.check(context.Background())
	go s.loop()
	return s.server.Serve(lis)
}

// ListenAndServe 监听端口并提供服务
func (s *HealthServer) ListenAndServe(port int) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("监听gRPC端口失败: %w", err)
	}
	return s.Serve(lis)
}

// Stop 标记为NOT_SERVING并等待现有请求完成
func (s *HealthServer) Stop() {
	close(s.stop)
	s.health.Shutdown()
	s.server.GracefulStop()
}

func (s *HealthServer) loop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.check(context.Background())
		case <-s.stop:
			return
		}
	}
}

func (s *HealthServer) check(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	for name, ping := range s.pingers {
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := ping(pctx)
		cancel()
		if err != nil {
			s.logger.Warn("依赖不可用", zap.String("dependency", name), zap.Error(err))
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}
