package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorString(t *testing.T) {
	cause := errors.New("boom")
	wrapped := Wrap(LoadFailed, "workspace.Acquire", cause, "loading %s", "./foo")
	require.Equal(t, "workspace.Acquire: loading ./foo: boom", wrapped.Error())

	bare := Errorf(NotFound, "resolver.resolveSymbol", "no symbol named %s", "Foo")
	require.Equal(t, "resolver.resolveSymbol: no symbol named Foo", bare.Error())
	require.Nil(t, bare.Unwrap())
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	wrapped := Wrap(AnalysisFailed, "smell.Run", cause, "scanning")
	require.ErrorIs(t, wrapped, cause)
}

func TestKindOf(t *testing.T) {
	require.Equal(t, Ambiguous, KindOf(Errorf(Ambiguous, "op", "msg")))
	require.Equal(t, AnalysisFailed, KindOf(errors.New("untyped")))
}

func TestKindString(t *testing.T) {
	cases := []struct {
		k    Kind
		want string
	}{
		{NotFound, "not_found"},
		{InvalidInput, "invalid_input"},
		{Ambiguous, "ambiguous"},
		{LoadFailed, "load_failed"},
		{ConflictFailed, "conflict_failed"},
		{AnalysisFailed, "analysis_failed"},
		{TooLarge, "too_large"},
		{Kind(99), "unknown"},
	}
	for _, c := range cases {
		require.Equal(t, c.want, c.k.String())
	}
}
