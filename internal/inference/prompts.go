package inference

import "fmt"

const classifierPrompt = `You are an intelligent AI system specialized in classifying business communications.
Your task is to identify the primary business intent from the provided text.

Choose *only one* of the following categories: RFQ, Complaint, Invoice, Regulation, Fraud Risk, Other.
Provide your answer as a single word, which is the category name.

---
Examples:

Text: "Subject: Urgent issue with order #123. The product delivered is completely broken and unusable. I am very dissatisfied with the quality and demand a refund."
Intent: Complaint

Text: "Dear Vendor, we are requesting a detailed quote for 500 units of Model XYZ, part number M-123. Please include lead times and bulk discounts. We require delivery by October 1st."
Intent: RFQ

Text: "Invoice #2023-001\nDate: May 30, 2025\nTotal Amount Due: $5,500.00\nFor services rendered: Software Development Phase 1."
Intent: Invoice

Text: "This document outlines our company's adherence to the new GDPR regulations regarding data privacy and consent. It details our updated policies."
Intent: Regulation

Text: "Immediate action required: Suspicious activity detected on account 123456. An unauthorized large transfer of funds was attempted from an unknown IP address."
Intent: Fraud Risk

Text: "Hello team, just a quick update on the project status. We are on track for the next milestone."
Intent: Other

---
Text to classify:
%s

Intent:
`

const emailExtractionPrompt = `You are an expert AI assistant specializing in extracting structured information from email communications.
Your goal is to accurately identify and extract the following fields from the provided email content.
Respond ONLY with a JSON object.

Fields to extract:
- sender: The email address of the sender.
- urgency: Categorize the email's urgency as one of: "low", "medium", "high", "critical". Consider keywords like "urgent", "ASAP", "immediate", "critical issue", deadlines, or lack thereof.
- issue_request: A concise summary (1-3 sentences) of the main issue or request presented in the email.
- tone: Characterize the overall tone of the email as one of: "polite", "neutral", "escalation", "threatening", "frustrated", "inquiring".

---
Email Content:
%s

---
JSON Output:
`

const invoiceExtractionPrompt = `You are an expert financial assistant. Your task is to extract structured invoice data from the provided text.
The output MUST be a JSON object that strictly adheres to the following JSON schema.
If a field cannot be found, omit it or set it to null if the schema requires it.
For line items, infer them based on context if not explicitly listed as "description", "quantity", "unit_price".

JSON Schema:
%s

Invoice Text:
%s

Extracted Invoice Data (JSON):
`

const policyKeywordPrompt = `You are a compliance officer. Your task is to review the provided policy document text and identify if it explicitly mentions any of the following critical compliance terms: "GDPR", "FDA", "HIPAA", "PCI DSS", "ISO 27001", "NIST".
List all mentioned terms found. If no terms are found, state "None".

Policy Document Text:
%s

Mentioned Compliance Terms (comma-separated, e.g., GDPR, HIPAA):
`

// ClassifierPrompt builds the intent classification prompt for a text excerpt.
func ClassifierPrompt(excerpt string) string {
	return fmt.Sprintf(classifierPrompt, excerpt)
}

// EmailExtractionPrompt builds the structured field extraction prompt for
// email content.
func EmailExtractionPrompt(content string) string {
	return fmt.Sprintf(emailExtractionPrompt, content)
}

// InvoiceExtractionPrompt builds the structured invoice extraction prompt
// from a schema document and the invoice text.
func InvoiceExtractionPrompt(schemaJSON, invoiceText string) string {
	return fmt.Sprintf(invoiceExtractionPrompt, schemaJSON, invoiceText)
}

// PolicyKeywordPrompt builds the compliance keyword detection prompt for
// a policy document.
func PolicyKeywordPrompt(policyText string) string {
	return fmt.Sprintf(policyKeywordPrompt, policyText)
}
