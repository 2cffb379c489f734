package usecase

import (
	"fmt"
	"strings"

	"contractiq/internal/adapter/cache"
	"contractiq/internal/domain"
	"contractiq/internal/port"
)

const systemPrompt = "You are ContractIQ, a specialized AI assistant for contract analysis. " +
	"You help users understand their contracts by providing clear, accurate, and actionable insights."

// fallbackResponse is returned when the LLM call fails. Asking a question is
// a total operation: generation errors degrade to an apology, never an error.
const fallbackResponse = "I apologize, but I'm having trouble processing your request right now. " +
	"Please try asking your question again, or try rephrasing it."

// AskUseCase answers questions about stored contracts by retrieving relevant
// clauses and prompting the LLM with them.
type AskUseCase struct {
	retrieve *RetrieveUseCase
	llm      port.LLM
	cache    *cache.AnswerCache
}

func NewAskUseCase(retrieve *RetrieveUseCase, llm port.LLM, answerCache *cache.AnswerCache) *AskUseCase {
	return &AskUseCase{
		retrieve: retrieve,
		llm:      llm,
		cache:    answerCache,
	}
}

// Ask answers a question using the topK most relevant stored clauses as
// context. Retrieval failures surface as errors; generation failures do not.
func (u *AskUseCase) Ask(query string, topK int) (domain.Answer, error) {
	if u.cache != nil {
		if answer, hit := u.cache.Get(query, topK); hit {
			return answer, nil
		}
	}

	scored, err := u.retrieve.Retrieve(query, topK)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("retrieve clauses: %w", err)
	}

	context := make([]string, 0, len(scored))
	for _, s := range scored {
		context = append(context, s.Clause.Text)
	}

	response, err := u.llm.GenerateWithSystem(systemPrompt, buildPrompt(query, context))
	if err != nil {
		response = fallbackResponse
	}

	answer := domain.Answer{
		Query:           query,
		Response:        response,
		Context:         context,
		FoundClauses:    len(scored),
		RelevantClauses: len(context),
	}

	if u.cache != nil && err == nil {
		u.cache.Put(query, topK, answer)
	}

	return answer, nil
}

// buildPrompt assembles the user prompt. With context, the model is told to
// speak as if reading the contract directly; without it, to acknowledge the
// gap and give general guidance.
func buildPrompt(query string, context []string) string {
	if len(context) > 0 {
		var b strings.Builder
		b.WriteString("You are ContractIQ, an AI assistant specialized in contract analysis. ")
		b.WriteString("You have access to the user's uploaded contract document.\n\n")
		b.WriteString("**Relevant Contract Information:**\n")
		for _, clause := range context {
			b.WriteString("- ")
			b.WriteString(clause)
			b.WriteString("\n")
		}
		b.WriteString("\n**User Question:** ")
		b.WriteString(query)
		b.WriteString("\n\n**Instructions:**\n")
		b.WriteString("- Answer directly and naturally as if you're reading from the contract document\n")
		b.WriteString("- Use phrases like \"The contract states...\", \"This document shows...\", \"According to the agreement...\"\n")
		b.WriteString("- Quote specific parts when relevant, but integrate them naturally into your response\n")
		b.WriteString("- Be conversational and helpful, not robotic\n")
		b.WriteString("- Focus on practical implications for the user\n")
		b.WriteString("- Avoid saying \"based on provided clauses\" - instead speak as if you're directly analyzing their contract\n")
		b.WriteString("\n**Answer:**")
		return b.String()
	}

	var b strings.Builder
	b.WriteString("You are ContractIQ, an AI assistant specialized in contract analysis. ")
	b.WriteString("The user has uploaded a contract document, but I couldn't find specific information ")
	b.WriteString("that directly relates to their question in the document.\n\n")
	b.WriteString("**User Question:** ")
	b.WriteString(query)
	b.WriteString("\n\n**Instructions:**\n")
	b.WriteString("- Acknowledge that you couldn't find specific information in their uploaded contract\n")
	b.WriteString("- Provide general guidance about this topic in contract contexts\n")
	b.WriteString("- Suggest what clauses or sections they should look for in their contract\n")
	b.WriteString("- Be helpful and educational about contract terms\n")
	b.WriteString("- Encourage them to ask more specific questions or rephrase their query\n")
	b.WriteString("- Be conversational and natural, not robotic\n")
	b.WriteString("\n**Answer:**")
	return b.String()
}
