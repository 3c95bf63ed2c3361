package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCommand(t *testing.T) {
	// GIVEN: "next tuesday" on stdin and a fixed reference
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader(`{"op": "the_nth_not_immediate", "n": 0,
		"args": [{"op": "day_of_week", "text": "tuesday"}]}`))
	cmd.SetArgs([]string{"resolve", "--reference", "2013-02-12T04:30:00Z", "--tz", "UTC", "-"})

	// WHEN: running the command
	err := cmd.Execute()

	// THEN: the resolved interval is printed as JSON
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"start": "2013-02-19T00:00:00Z"`)
	assert.Contains(t, out.String(), `"grain": "day"`)
}

func TestResolveCommand_Rejected(t *testing.T) {
	cmd := rootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(`{"op": "latent", "args": [{"op": "today"}]}`))
	cmd.SetArgs([]string{"resolve", "--reference", "2013-02-12T04:30:00Z"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rejected")
}

func TestResolveCommand_BadReference(t *testing.T) {
	cmd := rootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(`{"op": "today"}`))
	cmd.SetArgs([]string{"resolve", "--reference", "yesterday"})

	assert.Error(t, cmd.Execute())
}
