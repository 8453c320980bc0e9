package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName = "tetrimino.scoreboard.v1.Scoreboard"

	submitMethod = "/" + ServiceName + "/Submit"
	topMethod    = "/" + ServiceName + "/Top"
)

// ScoreboardServer is the server API for the scoreboard service. Messages are protobuf
// well known types so no generated code is needed on either side.
type ScoreboardServer interface {
	// Submit records a finished game: {id, score, lines, level}. It answers with the table and
	// whether the game made it into each list: {scores, lines, new_score, new_lines}.
	Submit(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// Top answers with the current table: {scores, lines}.
	Top(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// ServiceDesc describes the scoreboard service for grpc.ServiceRegistrar.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ScoreboardServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Submit", Handler: submitHandler},
		{MethodName: "Top", Handler: topHandler},
	},
	Streams: []grpc.StreamDesc{},
}

// Register adds srv to s.
func Register(s grpc.ServiceRegistrar, srv ScoreboardServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func submitHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScoreboardServer).Submit(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: submitMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ScoreboardServer).Submit(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func topHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScoreboardServer).Top(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: topMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ScoreboardServer).Top(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}
