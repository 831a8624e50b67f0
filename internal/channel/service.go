package channel

import (
	"google.golang.org/grpc"
)

// AttachMethod is the full method name of the content stream.
const AttachMethod = "/popsearch.Content/Attach"

// ContentServer is the server side of the content channel.
type ContentServer interface {
	Attach(ContentAttachServer) error
}

// ContentAttachServer is one attached content stream as seen by the daemon.
type ContentAttachServer interface {
	Send(*Envelope) error
	Recv() (*Envelope, error)
	grpc.ServerStream
}

type contentAttachServer struct {
	grpc.ServerStream
}

func (x *contentAttachServer) Send(m *Envelope) error {
	return x.ServerStream.SendMsg(m)
}

func (x *contentAttachServer) Recv() (*Envelope, error) {
	m := new(Envelope)
	if err := x.ServerStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func attachHandler(srv any, stream grpc.ServerStream) error {
	return srv.(ContentServer).Attach(&contentAttachServer{stream})
}

// ContentServiceDesc describes the content service. Messages are
// Envelope values carried by the CBOR codec.
var ContentServiceDesc = grpc.ServiceDesc{
	ServiceName: "popsearch.Content",
	HandlerType: (*ContentServer)(nil),
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Attach",
			Handler:       attachHandler,
			ServerStreams: true,
			ClientStreams: true,
		},
	},
	Metadata: "popsearch/content",
}

// RegisterContentServer registers srv with s.
func RegisterContentServer(s grpc.ServiceRegistrar, srv ContentServer) {
	s.RegisterService(&ContentServiceDesc, srv)
}
