package codec

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// #region service-contract

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "stubenhancer.v1.Predictor"

const (
	PredictMethod = "/" + ServiceName + "/Predict"
	NetworkMethod = "/" + ServiceName + "/Network"
)

// PredictorServiceClient is the client API for the Predictor service.
type PredictorServiceClient interface {
	Predict(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Network(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type predictorServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewPredictorServiceClient binds the service to a connection.
func NewPredictorServiceClient(cc grpc.ClientConnInterface) PredictorServiceClient {
	return &predictorServiceClient{cc: cc}
}

func (c *predictorServiceClient) Predict(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, PredictMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *predictorServiceClient) Network(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, NetworkMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// PredictorServiceServer is the server API for the Predictor service.
type PredictorServiceServer interface {
	Predict(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Network(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterPredictorServiceServer registers srv on s.
func RegisterPredictorServiceServer(s grpc.ServiceRegistrar, srv PredictorServiceServer) {
	s.RegisterService(&PredictorServiceDesc, srv)
}

// PredictorServiceDesc describes the Predictor service. Messages are google.protobuf.Struct.
var PredictorServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PredictorServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Predict", Handler: predictHandler},
		{MethodName: "Network", Handler: networkHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "stubenhancer/v1/predictor.proto",
}

func predictHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PredictorServiceServer).Predict(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PredictMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PredictorServiceServer).Predict(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func networkHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PredictorServiceServer).Network(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: NetworkMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PredictorServiceServer).Network(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// #endregion service-contract
