package instance

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/popsearch/popsearch/internal/daemon/trigger"
)

// Full method names of the instance service.
const (
	ForwardMethod = "/popsearch.Instance/Forward"
	StatusMethod  = "/popsearch.Instance/Status"
)

// InstanceServer is the server side of the instance service.
type InstanceServer interface {
	Forward(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	Status(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

func forwardHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(InstanceServer).Forward(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ForwardMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(InstanceServer).Forward(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func statusHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(InstanceServer).Status(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: StatusMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(InstanceServer).Status(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// InstanceServiceDesc describes the instance service.
var InstanceServiceDesc = grpc.ServiceDesc{
	ServiceName: "popsearch.Instance",
	HandlerType: (*InstanceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Forward", Handler: forwardHandler},
		{MethodName: "Status", Handler: statusHandler},
	},
	Metadata: "popsearch/instance",
}

// RegisterInstanceServer registers srv with s.
func RegisterInstanceServer(s grpc.ServiceRegistrar, srv InstanceServer) {
	s.RegisterService(&InstanceServiceDesc, srv)
}

// Forwarder applies forwarded launch arguments.
type Forwarder interface {
	Forwarded(ctx context.Context, req trigger.Request) trigger.Ack
}

// Status describes the running primary.
type Status struct {
	PID          int
	Version      string
	TriggerAddr  string
	TriggerBound bool
	StartedAt    time.Time
	Overlay      string
}

// Service implements InstanceServer.
type Service struct {
	Forwarder Forwarder
	Status    func() Status
}

// Forward applies a secondary's launch arguments.
func (s *Service) Forward(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error) {
	s.Forwarder.Forwarded(ctx, DecodeRequest(in))
	return &emptypb.Empty{}, nil
}

// Status reports the primary's state.
func (s *Service) Status(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return EncodeStatus(s.Status())
}

// EncodeRequest converts req for the wire.
func EncodeRequest(req trigger.Request) (*structpb.Struct, error) {
	fields := map[string]any{"settings": req.Settings}
	if req.Search != nil {
		fields["search"] = *req.Search
	}
	return structpb.NewStruct(fields)
}

// DecodeRequest reads a request from the wire. Unknown fields are
// ignored.
func DecodeRequest(in *structpb.Struct) trigger.Request {
	var req trigger.Request
	fields := in.GetFields()
	if v, ok := fields["search"]; ok {
		search := v.GetStringValue()
		req.Search = &search
	}
	req.Settings = fields["settings"].GetBoolValue()
	return req
}

// EncodeStatus converts st for the wire.
func EncodeStatus(st Status) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(map[string]any{
		"pid":           st.PID,
		"version":       st.Version,
		"trigger_addr":  st.TriggerAddr,
		"trigger_bound": st.TriggerBound,
		"started_at":    st.StartedAt.UTC().Format(time.RFC3339),
		"overlay":       st.Overlay,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode status: %w", err)
	}
	return s, nil
}

// DecodeStatus reads a status from the wire.
func DecodeStatus(in *structpb.Struct) Status {
	fields := in.GetFields()
	st := Status{
		PID:          int(fields["pid"].GetNumberValue()),
		Version:      fields["version"].GetStringValue(),
		TriggerAddr:  fields["trigger_addr"].GetStringValue(),
		TriggerBound: fields["trigger_bound"].GetBoolValue(),
		Overlay:      fields["overlay"].GetStringValue(),
	}
	if t, err := time.Parse(time.RFC3339, fields["started_at"].GetStringValue()); err == nil {
		st.StartedAt = t
	}
	return st
}
