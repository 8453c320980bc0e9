package server

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"tetrimino/highscore"
)

// Client talks to a scoreboard server. It is a highscore.Recorder.
type Client struct {
	cc   grpc.ClientConnInterface
	conn *grpc.ClientConn
}

// Dial creates a client for the scoreboard at addr. The connection is made lazily on the
// first call.
func Dial(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create gRPC client: %w", err)
	}
	return &Client{cc: conn, conn: conn}, nil
}

// NewClient uses an existing connection, which the caller keeps ownership of.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Close closes the connection opened by Dial.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// Record submits the game and returns where it stands on the scoreboard.
func (c *Client) Record(ctx context.Context, e highscore.Entry) (highscore.Standing, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, submitMethod, entryToStruct(e), out); err != nil {
		return highscore.Standing{}, fmt.Errorf("submit game: %w", err)
	}
	st, err := structToStanding(out)
	if err != nil {
		return highscore.Standing{}, fmt.Errorf("decode standing: %w", err)
	}
	return st, nil
}

// Top returns the scoreboard table.
func (c *Client) Top(ctx context.Context) (highscore.Table, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, topMethod, &emptypb.Empty{}, out); err != nil {
		return highscore.Table{}, fmt.Errorf("fetch top: %w", err)
	}
	t, err := structToTable(out)
	if err != nil {
		return highscore.Table{}, fmt.Errorf("decode table: %w", err)
	}
	return t, nil
}
