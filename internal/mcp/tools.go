package mcp

import "github.com/mark3labs/mcp-go/mcp"

// generateDiagramsTool defines the generate_diagrams MCP tool.
var generateDiagramsTool = mcp.NewTool("generate_diagrams",
	mcp.WithDescription("Turn a Markdown software specification into Mermaid class, architecture and use-case diagrams."),
	mcp.WithString("markdown",
		mcp.Required(),
		mcp.Description("The software specification in Markdown"),
	),
	mcp.WithString("diagram",
		mcp.Description("Return only this diagram"),
		mcp.Enum("class", "architecture", "use_case"),
	),
)

// listUseCasesTool defines the list_use_cases MCP tool.
var listUseCasesTool = mcp.NewTool("list_use_cases",
	mcp.WithDescription("List the use cases the service extracts from a Markdown specification."),
	mcp.WithString("markdown",
		mcp.Required(),
		mcp.Description("The software specification in Markdown"),
	),
)

// generateSequenceTool defines the generate_sequence_diagram MCP tool.
var generateSequenceTool = mcp.NewTool("generate_sequence_diagram",
	mcp.WithDescription("Generate a Mermaid sequence diagram for one use case of a Markdown specification."),
	mcp.WithString("markdown",
		mcp.Required(),
		mcp.Description("The software specification in Markdown"),
	),
	mcp.WithString("use_case_id",
		mcp.Required(),
		mcp.Description("Identifier of the use case, e.g. UC1"),
	),
)

// generateCodeTool defines the generate_code MCP tool.
var generateCodeTool = mcp.NewTool("generate_code",
	mcp.WithDescription("Generate source files from a Markdown specification."),
	mcp.WithString("markdown",
		mcp.Required(),
		mcp.Description("The software specification in Markdown"),
	),
)
