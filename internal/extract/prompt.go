package extract

import (
	"fmt"
	"strings"
)

const reasoningInstructions = `You are a financial data extraction assistant SPECIFICALLY FOR THE CLIENT (NOT THE ADVISER). Analyze the following conversation transcript between a financial advisor and client.

Each field has a business rule description that contains complete instructions for that field. Read each business rule carefully and follow it exactly as written. The business rule describes whether to use a fixed value or extract from the transcript, and what to do if information is not available.

=== CRITICAL: CLIENT vs ADVISER DISTINCTION ===

Before extracting, identify:
- CLIENT: the person receiving financial advice. Where a rule mentions family, spouse, or household, include relevant family members' information as well.
- ADVISER: the professional giving advice. Do NOT extract their personal info into client fields.

For each piece of information ask: "Is this relevant to the CLIENT's financial planning?"
- About the ADVISER's personal health, family, personal life: EXCLUDE
- About the advisory firm's internal operations (IT issues, staff matters): EXCLUDE
- About the CLIENT or their household: INCLUDE
- Adviser statements that directly affect the client's options (e.g. service limitations): INCLUDE
- Adviser explanations of financial concepts or rules given to the client: INCLUDE

=== COMPREHENSIVE EXTRACTION FOR SOFT NOTES ===

Soft Notes are the most important fields. They must be EXHAUSTIVE:

1. QUANTITATIVE DETAILS: extract ALL specific numbers mentioned: percentages, monetary amounts, time periods, rates and returns.
2. PLATFORMS & PROVIDERS: capture ALL financial platforms, providers and products mentioned by name.
3. HOUSEHOLD MEMBERS: include relevant details for all family members: spouse employment and pensions, children's location and financial needs, grandchildren's education and inheritance plans.
4. PLANNING CONCEPTS EXPLAINED: when the adviser explains a concept, rule or strategy, capture the explanation including specific rules (tax rules, trust mechanics, product features).
5. CONSTRAINTS & LIMITATIONS: service limitations, regulatory constraints, client-specific constraints.
6. FUTURE PLANS & INTENTIONS: retirement timelines, relocation plans, career changes, education plans.

Exclude small talk, personal anecdotes unrelated to finances, filler, repetition and the adviser's personal life.

Before finalizing any Soft Notes field, scan the ENTIRE transcript again for numerical values, family member details, adviser explanations and future plans you might have missed.

FORMATTING FOR SOFT NOTES: write complete, standalone sentences in plain continuous prose. Each sentence conveys one clear piece of information. No numbered lists, bullet points, markdown formatting or HTML tags.

=== OUTPUT FORMAT ===

For EVERY field, produce:

[Field #X.Y]
Section_name: **exact section name from the schema**
field_name: **exact field name from the schema**
Evidence: "short reasoning [exact quote 1]", "[exact quote 2]", ... OR "Not found"
Value: [extracted value, comprehensive for Soft Notes] | Reason: [clear explanation]

Key principles:
1. If the business rule provides a specific value, use that value.
2. If the business rule asks you to extract from the transcript, search thoroughly.
3. Extract ALL fields from the schema and add none of your own.
4. Do not calculate values yourself; only extract values specifically mentioned.
5. Do NOT assume or add information that is not in the transcript.

Start the extraction now in the strict output format above.`

// BuildReasoningPrompt creates the first-pass prompt: transcript plus the
// per-field business rules, asking for evidence-backed values.
func BuildReasoningPrompt(transcript, schemaLines string) string {
	var sb strings.Builder
	sb.WriteString(reasoningInstructions)
	sb.WriteString("\n\n---\nTRANSCRIPT:\n")
	sb.WriteString(transcript)
	sb.WriteString("\n---\nFIELD SCHEMA WITH BUSINESS RULES:\n")
	sb.WriteString(schemaLines)
	sb.WriteString("\n---\n")
	return sb.String()
}

// BuildConversionPrompt creates the second-pass prompt that converts the
// evidence-backed extraction into the report JSON document.
func BuildConversionPrompt(extracted string) string {
	return fmt.Sprintf(`Convert the extracted data to JSON format.

EXTRACTED DATA:
---
%s
---

STRICT RULES:
1. Use EXACT section and field names from the extracted data.
2. Output valid JSON only: double quotes, no markdown blocks, no commentary.
3. Include ALL sections: "Meeting" AND the numbered sections "1. Personal Details" through "13. Goals & Objectives".
4. Every value is a string, except array fields (e.g. "Assets", "Products", "Goals") which are arrays of objects with string values.

OUTPUT FORMAT:
{
  "Meeting": {
    "Meeting Objective": "<value>",
    "Adviser Name": "<value>",
    "Meeting Date": "<value>",
    "Meeting Format": "<value>",
    "Opportunity Value": "<value>",
    "Executive Summary": "<value>",
    "Summary of Discussion": "<value>",
    "Actions & Recommendations": "<value>",
    "Next Steps": "<value>"
  },
  "1. Personal Details": {
    "<field>": "<value>",
    "Personal Details Soft Notes": "<value>"
  },
  "2. Vulnerability": { ... },
  ... continue for all sections through "13. Goals & Objectives"
}`, extracted)
}
