package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "EMBEDDING_DIMENSION", "GITHUB_REQUESTS_PER_SEC", "ESTIMATOR_MAX_IN_FLIGHT", "MCP_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	require.Equal(t, "3001", cfg.Port)
	require.Equal(t, 1024, cfg.EmbeddingDimension)
	require.Equal(t, 10.0, cfg.GitHubRequestsPerSec)
	require.Equal(t, 16, cfg.EstimatorMaxInFlight)
	require.True(t, cfg.MCPEnabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("EMBEDDING_DIMENSION", "768")
	t.Setenv("GITHUB_REQUESTS_PER_SEC", "2.5")
	t.Setenv("MCP_ENABLED", "false")

	cfg := Load()
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, 768, cfg.EmbeddingDimension)
	require.Equal(t, 2.5, cfg.GitHubRequestsPerSec)
	require.False(t, cfg.MCPEnabled)
}

func TestLoad_SharedOllamaBaseURL(t *testing.T) {
	t.Setenv("OLLAMA_BASE_URL", "http://ollama:11434")

	cfg := Load()
	require.Equal(t, "http://ollama:11434", cfg.OllamaEmbedURL)
	require.Equal(t, "http://ollama:11434", cfg.OllamaChatURL)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("EMBEDDING_DIMENSION", "not-a-number")
	t.Setenv("GITHUB_BURST", "")

	cfg := Load()
	require.Equal(t, 1024, cfg.EmbeddingDimension)
	require.Equal(t, 20, cfg.GitHubBurst)
}
