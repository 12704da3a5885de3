package model

// Role identifies the sender of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Fixed assistant texts shown in the conversation.
const (
	GreetingText = "Hi! I’m your AI FAQ Assistant. Ask me anything about " +
		"this product or project. I’ll search the knowledge base and " +
		"provide a clear answer."
	FallbackAnswerText = "I couldn't parse the answer from the backend response."
	ApologyText        = "Sorry, I had trouble retrieving the answer. You can try again."
)

// Message is a single entry in the conversation. Messages are never
// modified after they are created.
type Message struct {
	Role    Role
	Content string
}

// Greeting returns the assistant message that opens every conversation.
func Greeting() Message {
	return Message{Role: RoleAssistant, Content: GreetingText}
}

// IsUser reports whether the message was typed by the user.
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

// Suggestion is a related question offered by the search endpoint.
// Query is the text submitted when the suggestion is activated.
type Suggestion struct {
	Title string
	Query string
}
