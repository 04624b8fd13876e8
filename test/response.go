package test

import (
	"innovation-challenge-system/internal/global/response"
	"testing"

	"github.com/stretchr/testify/require"
)

func ErrorEqual(t *testing.T, expected *response.Error, resp response.ResponseBody) {
	t.Helper()
	require.Equal(t, expected.Code, resp.Code)
}

func NoError(t *testing.T, resp response.ResponseBody) {
	t.Helper()
	require.Equal(t, int32(200), resp.Code)
}
