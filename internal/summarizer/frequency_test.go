package summarizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_PicksFrequentTopicSentences(t *testing.T) {
	s := NewFrequencySummarizer()
	text := "CRISPR edits genomes. CRISPR uses guide RNA. The weather was nice. CRISPR enables gene therapy."
	summary, err := s.Summarize(text, 2)
	require.NoError(t, err)
	assert.Contains(t, summary, "CRISPR")
	assert.NotContains(t, summary, "weather")
	assert.LessOrEqual(t, len(strings.Split(summary, ". ")), 3)
}

func TestSummarize_NoSentences(t *testing.T) {
	s := NewFrequencySummarizer()
	summary, err := s.Summarize("  fragment without terminator  ", 3)
	require.NoError(t, err)
	assert.Equal(t, "fragment without terminator", summary)
}

func TestSummarize_KeepsOriginalOrder(t *testing.T) {
	s := NewFrequencySummarizer()
	text := "Alpha protein binds receptors. Beta protein binds receptors. Gamma protein binds receptors."
	summary, err := s.Summarize(text, 3)
	require.NoError(t, err)
	alpha := strings.Index(summary, "Alpha")
	gamma := strings.Index(summary, "Gamma")
	require.GreaterOrEqual(t, alpha, 0)
	require.GreaterOrEqual(t, gamma, 0)
	assert.Less(t, alpha, gamma)
}
