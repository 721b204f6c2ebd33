package common

// Role identifies the speaker of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// KnownRoles lists the roles most chat templates branch on. Message roles
// are free-form; this is only consulted by strict validation.
func KnownRoles() []string {
	return []string{
		string(RoleSystem),
		string(RoleUser),
		string(RoleAssistant),
		string(RoleTool),
	}
}
