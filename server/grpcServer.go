package server

import (
	"context"
	"net"

	logger "github.com/zerok-ai/zk-utils-go/logs"
	pb "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"

	"github.com/zerok-ai/zk-otlp-verifier/config"
	"github.com/zerok-ai/zk-otlp-verifier/handler"
	promMetrics "github.com/zerok-ai/zk-otlp-verifier/metrics"
	"github.com/zerok-ai/zk-otlp-verifier/utils"
	"github.com/zerok-ai/zk-otlp-verifier/verify"
)

var grpcServerLogTag = "grpcServer"

type GrpcServer struct {
	pb.UnimplementedTraceServiceServer
	VerifyHandler *handler.VerifyHandler
	OtlpConfig    *config.OtlpConfig
}

func (s *GrpcServer) Export(ctx context.Context, req *pb.ExportTraceServiceRequest) (*pb.ExportTraceServiceResponse, error) {
	logger.Debug(grpcServerLogTag, "Export method invoked.")
	promMetrics.TotalExportRequests.WithLabelValues(podIp).Inc()

	remoteAddr := ""
	if peerInfo, ok := peer.FromContext(ctx); ok {
		remoteAddr = utils.GetClientIP(peerInfo.Addr.String())
	}
	logger.Debug(grpcServerLogTag, "Export call from ", remoteAddr)

	s.checkMetadata(ctx)

	s.VerifyHandler.ProcessTraceData(req.ResourceSpans)
	err := s.VerifyHandler.PushVerdicts()
	if err != nil {
		logger.Error(grpcServerLogTag, "Error while pushing verdicts to redis ", err)
	}
	return &pb.ExportTraceServiceResponse{}, nil
}

// checkMetadata compares the incoming call metadata with the configured
// expectation. Transport-injected headers are not part of the exporter
// contract, so only the configured keys are carried into the comparison.
func (s *GrpcServer) checkMetadata(ctx context.Context) {
	if len(s.OtlpConfig.Grpc.ExpectedMetadata) == 0 {
		return
	}

	incoming, _ := metadata.FromIncomingContext(ctx)
	expected := metadata.New(s.OtlpConfig.Grpc.ExpectedMetadata)
	actual := metadata.MD{}
	for key := range expected {
		if values, ok := incoming[key]; ok {
			actual[key] = values
		}
	}
	if err := verify.CompareMetadata(actual, expected); err != nil {
		promMetrics.TotalMetadataMismatches.WithLabelValues(podIp).Inc()
		logger.Info(grpcServerLogTag, "Export call metadata mismatch: ", err)
	}
}

// RunGrpcServer serves the TraceService on the configured grpc port,
// blocking until the listener fails.
func RunGrpcServer(otlpConfig *config.OtlpConfig, verifyHandler *handler.VerifyHandler) error {
	listener, err := net.Listen("tcp", ":"+otlpConfig.Grpc.Port)
	if err != nil {
		logger.Error(grpcServerLogTag, "Error while starting grpc listener ", err)
		return err
	}

	grpcServer := grpc.NewServer()
	pb.RegisterTraceServiceServer(grpcServer, &GrpcServer{
		VerifyHandler: verifyHandler,
		OtlpConfig:    otlpConfig,
	})

	logger.Info(grpcServerLogTag, "Grpc server started on port ", otlpConfig.Grpc.Port)
	return grpcServer.Serve(listener)
}
