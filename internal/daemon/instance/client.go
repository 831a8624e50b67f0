package instance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/popsearch/popsearch/internal/config"
	"github.com/popsearch/popsearch/internal/daemon/trigger"
)

// ErrNoPrimary is returned when no primary answered in time.
var ErrNoPrimary = errors.New("primary instance not reachable")

// Retry limits while a starting primary publishes its socket.
const (
	WaitTimeout  = 5 * time.Second
	PollInterval = 100 * time.Millisecond
)

// Dial connects to the primary's socket.
func Dial(socketPath string) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient("unix://"+socketPath,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to primary: %w", err)
	}
	return conn, nil
}

// Forward sends req over cc.
func Forward(ctx context.Context, cc grpc.ClientConnInterface, req trigger.Request) error {
	in, err := EncodeRequest(req)
	if err != nil {
		return err
	}
	return cc.Invoke(ctx, ForwardMethod, in, new(emptypb.Empty))
}

// QueryStatus asks the primary behind cc for its status.
func QueryStatus(ctx context.Context, cc grpc.ClientConnInterface) (Status, error) {
	out := new(structpb.Struct)
	if err := cc.Invoke(ctx, StatusMethod, new(emptypb.Empty), out); err != nil {
		return Status{}, err
	}
	return DecodeStatus(out), nil
}

// ForwardToPrimary delivers req to the primary named in instance.yaml,
// retrying until WaitTimeout while the primary starts up.
func ForwardToPrimary(ctx context.Context, req trigger.Request) error {
	return withPrimary(ctx, func(ctx context.Context, cc grpc.ClientConnInterface) error {
		return Forward(ctx, cc, req)
	})
}

// StatusOfPrimary queries the primary named in instance.yaml.
func StatusOfPrimary(ctx context.Context) (Status, error) {
	var st Status
	err := withPrimary(ctx, func(ctx context.Context, cc grpc.ClientConnInterface) error {
		var err error
		st, err = QueryStatus(ctx, cc)
		return err
	})
	return st, err
}

func withPrimary(ctx context.Context, call func(context.Context, grpc.ClientConnInterface) error) error {
	ctx, cancel := context.WithTimeout(ctx, WaitTimeout)
	defer cancel()

	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	var lastErr error
	for {
		if lastErr = tryPrimary(ctx, call); lastErr == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrNoPrimary, lastErr)
		case <-ticker.C:
		}
	}
}

func tryPrimary(ctx context.Context, call func(context.Context, grpc.ClientConnInterface) error) error {
	info, err := config.LoadInstanceInfo()
	if err != nil {
		return err
	}
	if info == nil || info.Socket == "" {
		return errors.New("instance.yaml not written yet")
	}
	conn, err := Dial(info.Socket)
	if err != nil {
		return err
	}
	defer conn.Close()

	callCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	return call(callCtx, conn)
}
