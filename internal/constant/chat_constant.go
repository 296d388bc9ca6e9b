package constant

const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"

	// ConversationTitleMaxLen bounds titles derived from the first user
	// message.
	ConversationTitleMaxLen = 30

	// DefaultConversationTitle is used when the first message carries no
	// usable text (e.g. attachment only).
	DefaultConversationTitle = "New conversation"

	// WelcomeMessage is the fixed assistant greeting shown for the
	// "no active conversation" state. It is never persisted.
	WelcomeMessage = "Hi! I'm your investment assistant. Ask me anything about your portfolio, markets or planning."
)
