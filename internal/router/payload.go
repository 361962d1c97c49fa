package router

import "github.com/google/jsonschema-go/jsonschema"

// CallParams is the params object of an operations/call request.
type CallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// ReadParams is the params object of a resources/read request.
type ReadParams struct {
	URI string `json:"uri"`
}

// OperationInfo describes one registered operation in an operations/list
// result.
type OperationInfo struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	InputSchema *jsonschema.Schema `json:"inputSchema"`
}

// ListOperationsResult is the result payload of operations/list.
type ListOperationsResult struct {
	Operations []OperationInfo `json:"operations"`
}

// TextContent is one textual content block in a call or read result.
type TextContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// CallResult wraps an operation's output as textual content.
type CallResult struct {
	Content []TextContent `json:"content"`
}

// ResourceInfo describes one catalog entry in a resources/list result.
type ResourceInfo struct {
	URI         string `json:"uri"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	MIMEType    string `json:"mimeType,omitempty"`
}

// ListResourcesResult is the result payload of resources/list.
type ListResourcesResult struct {
	Resources []ResourceInfo `json:"resources"`
}

// ResourceContents is one resolved document in a resources/read result.
type ResourceContents struct {
	URI      string `json:"uri"`
	MIMEType string `json:"mimeType"`
	Text     string `json:"text"`
}

// ReadResourceResult is the result payload of resources/read.
type ReadResourceResult struct {
	Contents []ResourceContents `json:"contents"`
}

// ChangeParams is the params object of an operations/list_changed
// notification. Timestamp is wall-clock milliseconds.
type ChangeParams struct {
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	Timestamp int64  `json:"timestamp"`
}
