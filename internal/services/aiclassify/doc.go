// Package aiclassify consults an OpenAI-compatible chat model for names
// the rule-based classifiers cannot settle. The client is optional:
// without an API key it reports unavailable and the caller keeps its
// rule-based label.
package aiclassify
