package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"bpi.backend/pkg/crypto"
)

func TestRunPinHash(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runPinHash([]string{"--pin", "4821"}, strings.NewReader(""), &out))
	hash := strings.TrimSpace(out.String())
	require.NotEmpty(t, hash)
	require.True(t, crypto.CheckPin("4821", hash))

	out.Reset()
	require.NoError(t, runPinHash(nil, strings.NewReader("908172\n"), &out))
	require.True(t, crypto.CheckPin("908172", strings.TrimSpace(out.String())))
}

func TestRunPinHash_RejectsBadPin(t *testing.T) {
	var out bytes.Buffer
	require.Error(t, runPinHash([]string{"--pin", "12ab"}, strings.NewReader(""), &out))
	require.Error(t, runPinHash(nil, strings.NewReader("\n"), &out))
	require.Empty(t, out.String())
}
