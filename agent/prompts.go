package agent

import (
	"fmt"
	"time"
)

// buildDecisionPrompt asks the model which tools (if any) a query needs.
// The model responds in JSON matching the decision struct.
func buildDecisionPrompt(query, conversation string) string {
	contextSection := ""
	if conversation != "" {
		contextSection = fmt.Sprintf(`

Conversation History:
%s

Use this context to:
- Understand references like "the company", "they", "it", etc.
- Recognize conversational patterns (jokes, follow-ups, continuations)
- Determine if the query continues a previous conversation thread`, conversation)
	}

	return fmt.Sprintf(`Analyze the query and make a decision with reasoning and confidence scores.

Query: "%s"%s

Available Tools:
- document_search: For questions about the company, its products, services, or enterprise documentation
- web_search: When the user explicitly asks to search the web or needs current/real-time information
- database_query: For database queries about users, orders, or structured data

Respond with JSON only, in this shape:
{"reasoning": "...", "confidence": 0.9, "direct_answer": false, "tool_calls": [{"tool_name": "document_search", "reasoning": "...", "confidence": 0.9}]}

Decision Process:
1. ANALYZE: Determine if the query needs tools or can be answered directly
2. PROVIDE REASONING: Explain your overall decision clearly
3. ASSIGN CONFIDENCE (0.0-1.0) to the decision and to each tool call
4. IF DIRECT ANSWER: set direct_answer=true with tool_calls=[] and confidence >0.7
5. IF TOOLS NEEDED: only include tools with confidence >0.5, each tool at most once

Decision Rules:
- Greetings and casual chat -> direct_answer=true (confidence >0.8)
- Questions about company documents or internal knowledge -> document_search
- Explicit web search requests or current events -> web_search
- Questions about structured records (users, orders) -> database_query
- If the user asks to "search all sources" or "check everywhere", include every tool
- Tools can be combined when the query spans sources

Make your decision:`, query, contextSection)
}

// buildDateExtractionPrompt asks the model to pull an ISO date range out of
// the query when it names a time period. Absent periods yield nulls.
func buildDateExtractionPrompt(query, conversation string, now time.Time) string {
	contextSection := ""
	if conversation != "" {
		contextSection = fmt.Sprintf(`

Conversation Context:
%s

Use this context to understand references like "the quarter", "that period", "it", etc.`, conversation)
	}

	year := now.Year()
	return fmt.Sprintf(`Extract a date range from the query ONLY if temporal filtering is needed (the query mentions a specific time period).

Current date context: Today is %s.

Query: "%s"%s

Respond with JSON only: {"date_start": "YYYY-MM-DD" or null, "date_end": "YYYY-MM-DD" or null}

Only extract dates if the query or context mentions:
- Years: "2024", "in 2024"
- Quarters: "Q4 2024"; a quarter without a year defaults to the most recent occurrence, e.g. "Q4" -> %d-10-01 to %d-12-31
- Months: "January 2024"
- Ranges: "between X and Y", "from X to Y"
- Periods: "last 6 months", "this year"

Conversions:
- Year: "2024" -> date_start="2024-01-01", date_end="2024-12-31"
- Quarter: "Q4 2024" -> date_start="2024-10-01", date_end="2024-12-31"
- Month: "January 2024" -> date_start="2024-01-01", date_end="2024-01-31"

If no time period is mentioned or inferable, return both fields as null.

Extract dates:`, now.Format("2006-01-02"), query, contextSection, year, year)
}

// buildSynthesisPrompt combines multiple tool outputs into one answer.
func buildSynthesisPrompt(query, toolResults string) string {
	return fmt.Sprintf(`Combine and synthesize the following tool results to answer the user's query.

User Query: "%s"

Tool Results:
%s

Instructions:
1. Synthesize all information into a coherent, comprehensive answer
2. Remove redundancy and contradictions
3. Organize information logically
4. Include relevant citations/sources
5. Be concise but complete
6. If information conflicts, prioritize the most relevant or recent source
7. DO NOT add disclaimers, notes, or explanations about source consistency at the end
8. Provide only the answer and sources - no meta-commentary

Final Answer:`, query, toolResults)
}

// buildSQLPrompt asks the model to translate a question into a single
// read-only SQL statement against the given schema.
func buildSQLPrompt(query, schema string) string {
	return fmt.Sprintf(`Translate the question into a single SQLite SELECT statement.

Schema:
%s

Question: "%s"

Rules:
- Respond with JSON only: {"sql": "SELECT ..."}
- SELECT statements only; never modify data
- Limit results to at most 50 rows
- If the question cannot be answered from the schema, return {"sql": ""}

SQL:`, schema, query)
}
