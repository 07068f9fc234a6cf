package codec

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// #region client-struct
// Client wraps the gRPC connection to a predictor server.
type Client struct {
	conn   *grpc.ClientConn
	client PredictorServiceClient
}

// #endregion client-struct

// #region constructor
// NewClient connects to the predictor gRPC server at addr.
func NewClient(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{
		conn:   conn,
		client: NewPredictorServiceClient(conn),
	}, nil
}

// NewClientWithService creates a Client with an injected service implementation.
// Used for testing without a real gRPC connection.
func NewClientWithService(svc PredictorServiceClient) *Client {
	return &Client{client: svc}
}

// #endregion constructor

// #region close
// Close shuts down the gRPC connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// #endregion close

// #region predict
// Predict requests a single salary prediction.
func (c *Client) Predict(ctx context.Context, req PredictRequest) (PredictResult, error) {
	resp, err := c.client.Predict(ctx, EncodePredictRequest(req))
	if err != nil {
		return PredictResult{}, fmt.Errorf("predict rpc: %w", err)
	}
	return DecodePredictResult(resp), nil
}

// #endregion predict

// #region network
// Network requests the annotated network for the current dropdown state.
func (c *Client) Network(ctx context.Context, req NetworkRequest) (NetworkResult, error) {
	resp, err := c.client.Network(ctx, EncodeNetworkRequest(req))
	if err != nil {
		return NetworkResult{}, fmt.Errorf("network rpc: %w", err)
	}
	return DecodeNetworkResult(resp)
}

// #endregion network
