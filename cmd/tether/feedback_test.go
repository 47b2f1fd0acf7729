package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/HendryAvila/tether/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintFeedback(t *testing.T) {
	var buf bytes.Buffer
	err := printFeedback(&buf, []profile.Feedback{
		{ID: 2, CreatedAt: "2026-04-01T08:00:00Z", Category: profile.FeedbackBug, Rating: 2, Message: "Crash\non   results", Email: "a@b.co"},
		{ID: 1, CreatedAt: "2026-03-31T08:00:00Z", Category: profile.FeedbackGeneral, Rating: 5, Message: "Love it"},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "Crash on results")
	assert.Contains(t, lines[1], "a@b.co")
	assert.Contains(t, lines[2], "Love it")
}

func TestPrintFeedback_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printFeedback(&buf, nil))
	assert.Equal(t, "No feedback yet.\n", buf.String())
}
