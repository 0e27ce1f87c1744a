package messages

// Role is the author role of a backend history entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// FromRole maps a backend history entry to a rendered message.
//
// Assistant content is classified by its tag, user content becomes
// [KindUser], system content [KindSystem], and any other role is treated as
// untagged assistant text.
func FromRole(role Role, content string) Message {
	switch role {
	case RoleAssistant:
		return ClassifyMessage(content)
	case RoleUser:
		return Message{Kind: KindUser, Text: content}
	case RoleSystem:
		return Message{Kind: KindSystem, Text: content}
	default:
		return Message{Kind: KindAssistant, Text: content}
	}
}
