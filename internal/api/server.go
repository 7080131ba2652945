package api

import (
	"context"
	"fmt"
	"net"
	"time"

	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/miradorstack/natal-engine/internal/config"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "natal.v1.NatalChart"

// Full method names, usable with grpc.ClientConn.Invoke.
const (
	MethodComputePositions = "/" + ServiceName + "/ComputePositions"
	MethodComputeSchedule  = "/" + ServiceName + "/ComputeSchedule"
	MethodRenderChart      = "/" + ServiceName + "/RenderChart"
)

// NatalChartServer is the gRPC surface of the engine. Requests and responses
// travel as well-known types so no generated stubs are required.
type NatalChartServer interface {
	ComputePositions(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ComputeSchedule(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RenderChart(context.Context, *emptypb.Empty) (*wrapperspb.BytesValue, error)
}

// NatalChartServiceDesc describes natal.v1.NatalChart for grpc.Server.RegisterService.
var NatalChartServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*NatalChartServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ComputePositions", Handler: computePositionsHandler},
		{MethodName: "ComputeSchedule", Handler: computeScheduleHandler},
		{MethodName: "RenderChart", Handler: renderChartHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "natal/v1/natal.proto",
}

// RegisterNatalChartServer attaches the service implementation to s.
func RegisterNatalChartServer(s grpc.ServiceRegistrar, srv NatalChartServer) {
	s.RegisterService(&NatalChartServiceDesc, srv)
}

func computePositionsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NatalChartServer).ComputePositions(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodComputePositions}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(NatalChartServer).ComputePositions(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func computeScheduleHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NatalChartServer).ComputeSchedule(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodComputeSchedule}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(NatalChartServer).ComputeSchedule(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func renderChartHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NatalChartServer).RenderChart(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodRenderChart}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(NatalChartServer).RenderChart(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// Server wraps the gRPC server implementation and lifecycle helpers.
type Server struct {
	cfg        config.ServerConfig
	grpcServer *grpc.Server
	listener   net.Listener
}

// NewServer constructs a gRPC server bound to the configured address.
func NewServer(cfg config.ServerConfig, service NatalChartServer, opts ...grpc.ServerOption) (*Server, error) {
	lis, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", cfg.Address, err)
	}
	return NewServerWithListener(cfg, lis, service, opts...), nil
}

// NewServerWithListener builds the server on an existing listener, such as
// an in-memory one in tests.
func NewServerWithListener(cfg config.ServerConfig, lis net.Listener, service NatalChartServer, opts ...grpc.ServerOption) *Server {
	grpc_prometheus.EnableHandlingTimeHistogram()
	serverOpts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(grpc_prometheus.UnaryServerInterceptor),
		grpc.ChainStreamInterceptor(grpc_prometheus.StreamServerInterceptor),
	}
	serverOpts = append(serverOpts, opts...)
	grpcServer := grpc.NewServer(serverOpts...)

	RegisterNatalChartServer(grpcServer, service)
	grpc_prometheus.Register(grpcServer)

	healthSrv := health.NewServer()
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthSrv.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthSrv)

	reflection.Register(grpcServer)

	return &Server{
		cfg:        cfg,
		grpcServer: grpcServer,
		listener:   lis,
	}
}

// Start serves incoming gRPC requests until Stop/Shutdown is invoked.
func (s *Server) Start() error {
	if s.grpcServer == nil || s.listener == nil {
		return fmt.Errorf("server not initialised")
	}
	return s.grpcServer.Serve(s.listener)
}

// Shutdown attempts a graceful shutdown, falling back to Stop after timeout.
func (s *Server) Shutdown(ctx context.Context) {
	if s.grpcServer == nil {
		return
	}

	stopped := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(stopped)
	}()

	select {
	case <-ctx.Done():
		s.grpcServer.Stop()
		<-stopped
	case <-stopped:
	}
}

// Address exposes the bound listener address (useful for tests).
func (s *Server) Address() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// GracefulTimeout returns the configured graceful timeout duration.
func (s *Server) GracefulTimeout() time.Duration {
	return s.cfg.GracefulTimeout
}
