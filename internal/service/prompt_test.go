package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gitchat-ai/gitchat/internal/domain"
)

func TestAssembleContext_Template(t *testing.T) {
	hits := []domain.RetrievalHit{
		{Filename: "a.go", SourceCode: "package a", Summary: "pkg a", Similarity: 0.9},
		{Filename: "b.go", SourceCode: "package b", Summary: "pkg b", Similarity: 0.7},
	}

	got := assembleContext(hits)
	want := "source: a.go\ncode content: package a\n summary of file: pkg a\n\n" +
		"source: b.go\ncode content: package b\n summary of file: pkg b\n\n"
	require.Equal(t, want, got)
}

func TestAssembleContext_Empty(t *testing.T) {
	require.Equal(t, "", assembleContext(nil))
	require.Equal(t, "", assembleContext([]domain.RetrievalHit{}))
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt("some context", "why is the sky blue?")

	require.Contains(t, prompt, "START CONTEXT BLOCK")
	require.Contains(t, prompt, "some context")
	require.Contains(t, prompt, "END OF CONTEXT BLOCK")
	require.Contains(t, prompt, "START QUESTION")
	require.Contains(t, prompt, "why is the sky blue?")
	require.Contains(t, prompt, `"I am sorry, but I dont know the answer of that question!!"`)
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	require.Equal(t,
		buildPrompt("ctx", "q"),
		buildPrompt("ctx", "q"),
	)
}
