package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"k8s.io/klog/v2"

	"github.com/stub-enhancer/predictor/internal/codec"
	"github.com/stub-enhancer/predictor/internal/encoding"
	"github.com/stub-enhancer/predictor/internal/logging"
	"github.com/stub-enhancer/predictor/internal/predict"
	"github.com/stub-enhancer/predictor/internal/report"
	"github.com/stub-enhancer/predictor/internal/visual"
)

// #region server

// Server implements the Predictor gRPC service over one shared predictor.
type Server struct {
	predictor *predict.Predictor
	logDB     *sql.DB
}

// Option configures a Server.
type Option func(*Server)

// WithPredictionLog records every Predict call and every ready Network call in db,
// rejected ones included.
func WithPredictionLog(db *sql.DB) Option {
	return func(s *Server) { s.logDB = db }
}

// New creates a server for p.
func New(p *predict.Predictor, opts ...Option) *Server {
	s := &Server{predictor: p}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Register attaches the service to g.
func (s *Server) Register(g grpc.ServiceRegistrar) {
	codec.RegisterPredictorServiceServer(g, s)
}

// Serve runs a gRPC server on lis until ctx is cancelled, then stops gracefully.
func (s *Server) Serve(ctx context.Context, lis net.Listener, opts ...grpc.ServerOption) error {
	g := grpc.NewServer(opts...)
	s.Register(g)

	errCh := make(chan error, 1)
	go func() { errCh <- g.Serve(lis) }()
	klog.Infof("serving %s on %s (model %s)", codec.ServiceName, lis.Addr(), s.predictor.Version())

	select {
	case <-ctx.Done():
		klog.Info("shutting down")
		g.GracefulStop()
		return <-errCh
	case err := <-errCh:
		return err
	}
}

// #endregion server

// #region handlers

// Predict handles a single prediction.
func (s *Server) Predict(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r, err := codec.DecodePredictRequest(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	requestID := uuid.New().String()
	cred, err := encoding.ParseCredential(r.Credential)
	var out float64
	if err == nil {
		out, err = s.predictor.Predict(cred, r.Field, r.Years)
	}
	s.record(requestID, r.Credential, r.Field, r.Years, out, err)
	if err != nil {
		return nil, toStatus(err)
	}

	in := encoding.Input{Credential: cred, Field: r.Field, Years: r.Years}
	return codec.EncodePredictResult(codec.PredictResult{
		Output:       out,
		Formatted:    report.Currency(out),
		Sentence:     report.Sentence(in, out),
		ModelVersion: s.predictor.Version(),
		RequestID:    requestID,
	}), nil
}

// Network returns the annotated network for the dropdown state. An incomplete selection
// gets the prompt and the bare topology.
func (s *Server) Network(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r := codec.DecodeNetworkRequest(req)
	sel := predict.Selection{Credential: r.Credential, Field: r.Field, Years: r.Years}

	outcome, err := s.predictor.PredictSelection(sel)
	if err != nil {
		if sel.Ready() {
			years, _ := strconv.Atoi(strings.TrimSpace(r.Years))
			s.record(uuid.New().String(), r.Credential, r.Field, years, 0, err)
		}
		return nil, toStatus(err)
	}

	m := s.predictor.Model()
	res := codec.NetworkResult{ModelVersion: m.Version, Prompt: outcome.Prompt}
	if !outcome.Ready {
		res.Elements = visual.Elements(m.Topology, nil, nil)
		return codec.EncodeNetworkResult(res)
	}

	ex := outcome.Explanation
	res.Ready = true
	res.Output = ex.Output()
	res.Formatted = report.Currency(res.Output)
	res.CredentialSlot = ex.CredentialSlot
	res.Elements = visual.Elements(m.Topology, ex.Result, &visual.Marker{
		Slot:       ex.CredentialSlot,
		Credential: ex.Input.Credential,
	})
	s.record(uuid.New().String(), r.Credential, r.Field, ex.Input.Years, res.Output, nil)
	return codec.EncodeNetworkResult(res)
}

// #endregion handlers

// #region helpers

func (s *Server) record(requestID, cred, field string, years int, out float64, predErr error) {
	if s.logDB == nil {
		return
	}
	entry := logging.PredictionEntry{
		RequestID:    requestID,
		ModelVersion: s.predictor.Version(),
		Credential:   cred,
		Field:        field,
		Years:        years,
		Outcome:      logging.OutcomePredicted,
	}
	if predErr != nil {
		entry.Outcome = logging.OutcomeRejected
		entry.Reason = predErr.Error()
	} else {
		entry.Output = &out
	}
	if err := logging.LogPrediction(s.logDB, entry); err != nil {
		klog.Errorf("prediction log: %v", err)
	}
}

func toStatus(err error) error {
	if encoding.IsInputError(err) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	if errors.Is(err, context.Canceled) {
		return status.Error(codes.Canceled, err.Error())
	}
	return status.Error(codes.Internal, fmt.Sprintf("predict: %v", err))
}

// #endregion helpers
