package grpc

// Hand-written service definition for maintenance.risk.v1.RiskService. The
// messages are plain structs carried by the JSON codec in codec.go.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const riskServiceName = "maintenance.risk.v1.RiskService"

// Full method names.
const (
	RiskServiceAssessMethod      = "/" + riskServiceName + "/Assess"
	RiskServiceGetBaselineMethod = "/" + riskServiceName + "/GetBaseline"
)

// AssessRequest carries one sensor record keyed by feature name.
type AssessRequest struct {
	Features map[string]any `json:"features"`
}

// AssessResponse is the scored record.
type AssessResponse struct {
	RawInputs         map[string]float64 `json:"raw_inputs"`
	ZScores           map[string]float64 `json:"z_scores"`
	AssessmentID      string             `json:"assessment_id"`
	Status            string             `json:"status"`
	Classifier        string             `json:"classifier"`
	Warnings          []string           `json:"warnings"`
	ProbWithin2Months float64            `json:"prob_within_2months"`
	MaxAbsZ           float64            `json:"max_abs_z"`
	ClassifierUsed    bool               `json:"classifier_used"`
}

// GetBaselineRequest is empty.
type GetBaselineRequest struct{}

// StatisticsMsg is one feature's learned statistics.
type StatisticsMsg struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// GetBaselineResponse maps feature names to their statistics.
type GetBaselineResponse struct {
	Features map[string]StatisticsMsg `json:"features"`
}

// RiskServiceServer is the server API for RiskService.
type RiskServiceServer interface {
	Assess(context.Context, *AssessRequest) (*AssessResponse, error)
	GetBaseline(context.Context, *GetBaselineRequest) (*GetBaselineResponse, error)
	mustEmbedUnimplementedRiskServiceServer()
}

// UnimplementedRiskServiceServer provides forward-compatible default implementations.
type UnimplementedRiskServiceServer struct{}

func (UnimplementedRiskServiceServer) Assess(context.Context, *AssessRequest) (*AssessResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Assess not implemented")
}
func (UnimplementedRiskServiceServer) GetBaseline(context.Context, *GetBaselineRequest) (*GetBaselineResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetBaseline not implemented")
}
func (UnimplementedRiskServiceServer) mustEmbedUnimplementedRiskServiceServer() {}

// RegisterRiskServiceServer registers the RiskServiceServer with the gRPC server.
func RegisterRiskServiceServer(s grpclib.ServiceRegistrar, srv RiskServiceServer) {
	s.RegisterService(&riskServiceDesc, srv)
}

var riskServiceDesc = grpclib.ServiceDesc{
	ServiceName: riskServiceName,
	HandlerType: (*RiskServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "Assess", Handler: riskServiceAssessHandler},
		{MethodName: "GetBaseline", Handler: riskServiceGetBaselineHandler},
	},
	Streams: []grpclib.StreamDesc{},
}

func riskServiceAssessHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(AssessRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RiskServiceServer).Assess(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: RiskServiceAssessMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RiskServiceServer).Assess(ctx, req.(*AssessRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func riskServiceGetBaselineHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(GetBaselineRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RiskServiceServer).GetBaseline(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: RiskServiceGetBaselineMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RiskServiceServer).GetBaseline(ctx, req.(*GetBaselineRequest))
	}
	return interceptor(ctx, req, info, handler)
}

// RiskServiceClient is the client API for RiskService.
type RiskServiceClient struct {
	cc grpclib.ClientConnInterface
}

// NewRiskServiceClient creates a client that speaks the JSON codec.
func NewRiskServiceClient(cc grpclib.ClientConnInterface) *RiskServiceClient {
	return &RiskServiceClient{cc: cc}
}

func (c *RiskServiceClient) Assess(ctx context.Context, in *AssessRequest, opts ...grpclib.CallOption) (*AssessResponse, error) {
	out := new(AssessResponse)
	opts = append([]grpclib.CallOption{grpclib.CallContentSubtype(codecName)}, opts...)
	if err := c.cc.Invoke(ctx, RiskServiceAssessMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *RiskServiceClient) GetBaseline(ctx context.Context, in *GetBaselineRequest, opts ...grpclib.CallOption) (*GetBaselineResponse, error) {
	out := new(GetBaselineResponse)
	opts = append([]grpclib.CallOption{grpclib.CallContentSubtype(codecName)}, opts...)
	if err := c.cc.Invoke(ctx, RiskServiceGetBaselineMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
