package server

import (
	"context"
	"errors"
	"log"
	"net"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"tetrimino/highscore"
)

type failingStore struct{}

func (failingStore) Load(context.Context) (highscore.Table, error) {
	return highscore.Table{}, errors.New("disk on fire")
}
func (failingStore) Save(context.Context, highscore.Table) error { return errors.New("disk on fire") }

func testServer(t *testing.T, store highscore.Store) (*Client, *grpc.ClientConn) {
	t.Helper()
	buffer := 101024 * 1024
	lis := bufconn.Listen(buffer)

	s := grpc.NewServer()
	Register(s, New(store, nil))
	go func() {
		if err := s.Serve(lis); err != nil {
			log.Printf("unable to serve: %v", err)
		}
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet", grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) {
		return lis.Dial()
	}), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)

	t.Cleanup(func() {
		if err := conn.Close(); err != nil {
			log.Printf("error closing client: %v", err)
		}
		if err := lis.Close(); err != nil {
			log.Printf("error closing listener: %v", err)
		}
		s.Stop()
	})
	return NewClient(conn), conn
}

func fileStore(t *testing.T) *highscore.FileStore {
	return highscore.NewFileStore(filepath.Join(t.TempDir(), "scores.txt"), nil)
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()
	client, _ := testServer(t, fileStore(t))

	got, err := client.Record(ctx, highscore.Entry{ID: uuid.NewString(), Score: 120, Lines: 4, Level: 1})
	require.NoError(t, err)
	assert.Equal(t, highscore.Standing{
		Table:    highscore.Table{Scores: []uint32{120}, Lines: []uint32{4}},
		NewScore: true,
		NewLines: true,
	}, got)

	got, err = client.Record(ctx, highscore.Entry{ID: uuid.NewString(), Score: 80, Lines: 6, Level: 1})
	require.NoError(t, err)
	assert.Equal(t, []uint32{80, 120}, got.Table.Scores)
	assert.Equal(t, []uint32{4, 6}, got.Table.Lines)

	top, err := client.Top(ctx)
	require.NoError(t, err)
	assert.Equal(t, got.Table, top)
}

func TestSubmitFullTable(t *testing.T) {
	ctx := context.Background()
	client, _ := testServer(t, fileStore(t))
	for _, score := range []uint32{10, 20, 30, 40, 50} {
		_, err := client.Record(ctx, highscore.Entry{ID: uuid.NewString(), Score: score, Lines: score, Level: 2})
		require.NoError(t, err)
	}

	got, err := client.Record(ctx, highscore.Entry{ID: uuid.NewString(), Score: 5, Lines: 60, Level: 2})
	require.NoError(t, err)
	assert.False(t, got.NewScore)
	assert.True(t, got.NewLines)
	assert.Equal(t, []uint32{10, 20, 30, 40, 50}, got.Table.Scores)
	assert.Equal(t, []uint32{20, 30, 40, 50, 60}, got.Table.Lines)
}

func TestSubmitInvalidArgument(t *testing.T) {
	ctx := context.Background()
	_, conn := testServer(t, fileStore(t))
	id := uuid.NewString()

	tests := []struct {
		name   string
		fields map[string]any
	}{
		{name: "missing id", fields: map[string]any{"score": 1, "lines": 1, "level": 1}},
		{name: "bad id", fields: map[string]any{"id": "game-1", "score": 1, "lines": 1, "level": 1}},
		{name: "missing score", fields: map[string]any{"id": id, "lines": 1, "level": 1}},
		{name: "negative score", fields: map[string]any{"id": id, "score": -1, "lines": 1, "level": 1}},
		{name: "fractional lines", fields: map[string]any{"id": id, "score": 1, "lines": 1.5, "level": 1}},
		{name: "string level", fields: map[string]any{"id": id, "score": 1, "lines": 1, "level": "1"}},
		{name: "level zero", fields: map[string]any{"id": id, "score": 1, "lines": 1, "level": 0}},
		{name: "level too high", fields: map[string]any{"id": id, "score": 1, "lines": 1, "level": 11}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := structpb.NewStruct(tt.fields)
			require.NoError(t, err)
			err = conn.Invoke(ctx, submitMethod, in, new(structpb.Struct))
			assert.Equal(t, codes.InvalidArgument, status.Code(err), "got %v", err)
		})
	}
}

func TestSubmitTwice(t *testing.T) {
	ctx := context.Background()
	client, _ := testServer(t, fileStore(t))
	e := highscore.Entry{ID: uuid.NewString(), Score: 1, Lines: 0, Level: 1}

	_, err := client.Record(ctx, e)
	require.NoError(t, err)
	_, err = client.Record(ctx, e)
	assert.Equal(t, codes.AlreadyExists, status.Code(err))
}

func TestStoreFailure(t *testing.T) {
	ctx := context.Background()
	client, _ := testServer(t, failingStore{})

	_, err := client.Record(ctx, highscore.Entry{ID: uuid.NewString(), Score: 1, Level: 1})
	assert.Equal(t, codes.Internal, status.Code(err))
	_, err = client.Top(ctx)
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestConcurrentSubmit(t *testing.T) {
	ctx := context.Background()
	client, _ := testServer(t, fileStore(t))

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.Record(ctx, highscore.Entry{ID: uuid.NewString(), Score: uint32(i), Lines: uint32(i), Level: 1})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	top, err := client.Top(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint32{15, 16, 17, 18, 19}, top.Scores)
	assert.Equal(t, []uint32{15, 16, 17, 18, 19}, top.Lines)
}
