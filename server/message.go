package server

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"

	"tetrimino/highscore"
)

const (
	fieldID       = "id"
	fieldScore    = "score"
	fieldLines    = "lines"
	fieldLevel    = "level"
	fieldScores   = "scores"
	fieldNewScore = "new_score"
	fieldNewLines = "new_lines"
)

func entryToStruct(e highscore.Entry) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldID:    structpb.NewStringValue(e.ID),
		fieldScore: structpb.NewNumberValue(float64(e.Score)),
		fieldLines: structpb.NewNumberValue(float64(e.Lines)),
		fieldLevel: structpb.NewNumberValue(float64(e.Level)),
	}}
}

func structToEntry(s *structpb.Struct) (highscore.Entry, error) {
	var (
		e   highscore.Entry
		err error
	)
	id, ok := s.GetFields()[fieldID].GetKind().(*structpb.Value_StringValue)
	if !ok {
		return e, fmt.Errorf("%s must be a string", fieldID)
	}
	e.ID = id.StringValue
	if e.Score, err = uint32Field(s, fieldScore); err != nil {
		return e, err
	}
	if e.Lines, err = uint32Field(s, fieldLines); err != nil {
		return e, err
	}
	if e.Level, err = uint32Field(s, fieldLevel); err != nil {
		return e, err
	}
	return e, nil
}

func tableToStruct(t highscore.Table) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldScores: numbers(t.Scores),
		fieldLines:  numbers(t.Lines),
	}}
}

func standingToStruct(s highscore.Standing) *structpb.Struct {
	out := tableToStruct(s.Table)
	out.Fields[fieldNewScore] = structpb.NewBoolValue(s.NewScore)
	out.Fields[fieldNewLines] = structpb.NewBoolValue(s.NewLines)
	return out
}

func structToTable(s *structpb.Struct) (highscore.Table, error) {
	var (
		t   highscore.Table
		err error
	)
	if t.Scores, err = uint32List(s, fieldScores); err != nil {
		return t, err
	}
	if t.Lines, err = uint32List(s, fieldLines); err != nil {
		return t, err
	}
	return t, nil
}

func structToStanding(s *structpb.Struct) (highscore.Standing, error) {
	t, err := structToTable(s)
	if err != nil {
		return highscore.Standing{}, err
	}
	return highscore.Standing{
		Table:    t,
		NewScore: s.GetFields()[fieldNewScore].GetBoolValue(),
		NewLines: s.GetFields()[fieldNewLines].GetBoolValue(),
	}, nil
}

func numbers(list []uint32) *structpb.Value {
	values := make([]*structpb.Value, len(list))
	for i, v := range list {
		values[i] = structpb.NewNumberValue(float64(v))
	}
	return structpb.NewListValue(&structpb.ListValue{Values: values})
}

func uint32Field(s *structpb.Struct, key string) (uint32, error) {
	n, ok := s.GetFields()[key].GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("%s must be a number", key)
	}
	return toUint32(key, n.NumberValue)
}

func uint32List(s *structpb.Struct, key string) ([]uint32, error) {
	l, ok := s.GetFields()[key].GetKind().(*structpb.Value_ListValue)
	if !ok {
		return nil, fmt.Errorf("%s must be a list", key)
	}
	var out []uint32
	for _, v := range l.ListValue.GetValues() {
		n, ok := v.GetKind().(*structpb.Value_NumberValue)
		if !ok {
			return nil, fmt.Errorf("%s must only hold numbers", key)
		}
		u, err := toUint32(key, n.NumberValue)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

func toUint32(key string, f float64) (uint32, error) {
	if f < 0 || f > math.MaxUint32 || f != math.Trunc(f) {
		return 0, fmt.Errorf("%s must be an unsigned 32 bit integer, got %v", key, f)
	}
	return uint32(f), nil
}
