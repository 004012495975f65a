package main

import "github.com/a3eyherabide/starting-ragchatbot-codebase/knowledge"

type seedChunk struct {
	lesson  int
	content string
}

type seedCourse struct {
	course knowledge.Course
	chunks []seedChunk
}

var sampleCourses = []seedCourse{
	{
		course: knowledge.Course{
			Title:      "MCP: Build Rich-Context AI Apps with Anthropic",
			Link:       "https://www.deeplearning.ai/short-courses/mcp-build-rich-context-ai-apps-with-anthropic/",
			Instructor: "Elie Schoppik",
			Lessons: []knowledge.Lesson{
				{Number: 0, Title: "Introduction"},
				{Number: 1, Title: "Why MCP"},
				{Number: 2, Title: "MCP Architecture"},
				{Number: 3, Title: "Chatbot Example"},
				{Number: 4, Title: "Creating An MCP Server"},
				{Number: 5, Title: "Creating An MCP Client"},
			},
		},
		chunks: []seedChunk{
			{1, "MCP, the Model Context Protocol, standardises how AI applications connect to external tools and data sources."},
			{2, "MCP follows a client-server architecture: hosts embed clients that keep one-to-one connections with servers exposing tools, resources and prompts."},
			{3, "The chatbot example wires tool calls from the model to local Python functions before moving them behind an MCP server."},
			{4, "An MCP server is created with FastMCP, declaring tools with decorators and serving them over stdio or HTTP transports."},
			{5, "The MCP client launches the server, lists its tools and forwards the model's tool use requests to it."},
		},
	},
	{
		course: knowledge.Course{
			Title:      "Building Towards Computer Use with Anthropic",
			Link:       "https://www.deeplearning.ai/short-courses/building-toward-computer-use-with-anthropic/",
			Instructor: "Colt Steele",
			Lessons: []knowledge.Lesson{
				{Number: 1, Title: "Overview"},
				{Number: 2, Title: "Working With The API"},
				{Number: 3, Title: "Multi-Modal Requests"},
				{Number: 4, Title: "Prompt Caching"},
				{Number: 5, Title: "Tool Use"},
			},
		},
		chunks: []seedChunk{
			{2, "Requests to the Messages API carry a model name, a max tokens limit and an alternating list of user and assistant messages."},
			{3, "Images are sent as base64 encoded content blocks next to text blocks in the same user message."},
			{4, "Prompt caching stores long, stable prompt prefixes so later requests reuse them at lower cost and latency."},
			{5, "Tool use lets the model return tool_use blocks; the application runs the tool and answers with tool_result blocks."},
		},
	},
}

func seedCourses(store *knowledge.Store) error {
	for _, sc := range sampleCourses {
		if err := store.AddCourse(sc.course); err != nil {
			return err
		}
		for _, ch := range sc.chunks {
			if _, err := store.AddContent(sc.course.Title, ch.lesson, ch.content); err != nil {
				return err
			}
		}
	}
	return nil
}
