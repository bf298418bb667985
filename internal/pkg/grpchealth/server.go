package grpchealth

import (
	"errors"
	"fmt"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"marketplace/pkg/logger"
)

const (
	KeepaliveTime    = 5 * time.Minute
	KeepaliveTimeout = 3 * time.Second

	// ServiceName - имя, под которым отвечает проверка конкретного сервиса.
	// Пустое имя в запросе означает состояние сервера целиком.
	ServiceName = "marketplace.Deliveries"
)

// Server отдает grpc.health.v1 для оркестратора. Перед остановкой статус
// переводится в NOT_SERVING, чтобы балансировщик успел снять трафик.
type Server struct {
	log    logger.Logger
	server *grpc.Server
	health *health.Server
}

func New(log logger.Logger) *Server {
	grpcServer := grpc.NewServer(
		grpc.KeepaliveParams(keepalive.ServerParameters{
			Time:    KeepaliveTime,
			Timeout: KeepaliveTimeout,
		}),
	)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	return &Server{
		log:    log.With(logger.NewField("component", "grpc-health")),
		server: grpcServer,
		health: healthServer,
	}
}

// ListenAndServe блокируется до Stop.
func (s *Server) ListenAndServe(port string) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", port))
	if err != nil {
		return fmt.Errorf("listen grpc health port %s: %w", port, err)
	}
	return s.Serve(lis)
}

func (s *Server) Serve(lis net.Listener) error {
	s.log.Info("grpc health server starting", logger.NewField("addr", lis.Addr().String()))

	err := s.server.Serve(lis)
	if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve grpc health: %w", err)
	}
	return nil
}

// SetNotServing помечает сервер и сервис как недоступные. Повторные вызовы безопасны.
func (s *Server) SetNotServing() {
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	s.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
}

// Stop переводит статусы в NOT_SERVING и дожидается завершения активных вызовов.
func (s *Server) Stop() {
	s.SetNotServing()
	s.health.Shutdown()
	s.server.GracefulStop()
	s.log.Info("grpc health server stopped")
}
