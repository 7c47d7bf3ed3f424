package service

import (
	"fmt"
	"strings"

	"github.com/gitchat-ai/gitchat/internal/domain"
)

// Retrieval contract: rows at or below the similarity floor are irrelevant
// and excluded entirely; the row cap is the only bound on prompt size.
const (
	SimilarityFloor = 0.5
	MaxContextFiles = 10
)

// answerPromptTemplate is the fixed generation prompt. The context-fidelity
// instruction ("I am sorry, but I dont know...") is what produces the
// negative answer when retrieval comes back empty — generation is always
// attempted, never short-circuited in code.
const answerPromptTemplate = `You are a AI code assistant who answers questions about the codebase. Your target audience is a technical intern who is learning to work with the code
                 AI Assistant is a brand new, powerful, human-like artificial intelligence.
            The traits of AI include expert intelligence, helpfulness, cleverness and articulateness.
            AI is well-behaved and well mannered individual.
            AI is always friendly, kind and inspiring, and he is eager to provide vivid and thoughtful responses to the user.
            AI has the sum of all knowledge in their brain and is able to accurately answer nearly any question about any topic in the world.
            If the question is about code or a specific file, AI will provide the detailed answer, giving step by step instructions about the code
            START CONTEXT BLOCK
            %s
            END OF CONTEXT BLOCK

            START QUESTION
            %s
            END OF QUESTION
            AI Assistant will take into account any CONTEXT BLOCK that is provided in a conversation
            If the context does not provide the answer to the question, the AI will say "I am sorry, but I dont know the answer of that question!!"
            AI Assistant will not apologize for the previous responses, but instead will indicated new information was gained.
            AI Assistant will not invent anything that is not drawn directly from the context.
            Answer in markdown syntax, with code snippets if needed. Be as detailed as possible while answering, make sure there is no wrong answer.

            MOST IMPORTANT
            Give answers in points and new point should start from next line.
            Every point should have a serial number at the start
            `

// assembleContext concatenates ranked hits into the grounding block fed to
// the model: path, raw source, and the file summary per hit, in rank order.
// Empty input yields an empty block.
func assembleContext(hits []domain.RetrievalHit) string {
	var b strings.Builder
	for _, h := range hits {
		fmt.Fprintf(&b, "source: %s\ncode content: %s\n summary of file: %s\n\n", h.Filename, h.SourceCode, h.Summary)
	}
	return b.String()
}

// buildPrompt produces the full generation prompt for a question and its
// assembled context block. Pure string construction, no model calls.
func buildPrompt(contextBlock, question string) string {
	return fmt.Sprintf(answerPromptTemplate, contextBlock, question)
}
