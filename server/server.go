// Package server serves a shared high score table over gRPC and provides the client that
// records finished games into it.
package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"tetrimino/highscore"
	"tetrimino/tetris"
)

type scoreboardServer struct {
	store  highscore.Store
	logger *slog.Logger
	// games holds the ids already recorded.
	games map[string]struct{}
	mu    sync.Mutex
}

// New returns a scoreboard keeping its table in store.
func New(store highscore.Store, l *slog.Logger) ScoreboardServer {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	return &scoreboardServer{
		store:  store,
		logger: l,
		games:  make(map[string]struct{}),
	}
}

func (s *scoreboardServer) Submit(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	e, err := structToEntry(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if _, err := uuid.Parse(e.ID); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid game id %q", e.ID)
	}
	if e.Level < 1 || e.Level > tetris.MaxLevel {
		return nil, status.Errorf(codes.InvalidArgument, "level must be between 1 and %d, got %d", tetris.MaxLevel, e.Level)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[e.ID]; ok {
		return nil, status.Errorf(codes.AlreadyExists, "game %s already recorded", e.ID)
	}
	st, err := highscore.Record(ctx, s.store, e)
	if err != nil {
		s.logger.Error("unable to record game", slog.String("game", e.ID), slog.String("error", err.Error()))
		return nil, status.Error(codes.Internal, "unable to record game")
	}
	s.games[e.ID] = struct{}{}
	s.logger.Info("game recorded",
		slog.String("game", e.ID),
		slog.Any("score", e.Score),
		slog.Any("lines", e.Lines),
		slog.Bool("new_score", st.NewScore),
		slog.Bool("new_lines", st.NewLines),
	)
	return standingToStruct(st), nil
}

func (s *scoreboardServer) Top(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Error("unable to load highscores", slog.String("error", err.Error()))
		return nil, status.Error(codes.Internal, "unable to load highscores")
	}
	return tableToStruct(t), nil
}
