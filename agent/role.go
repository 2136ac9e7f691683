package agent

import "github.com/hupe1980/agentcrew/memory"

// RoleFunc derives role text from the shared memory at prompt time.
type RoleFunc func(*memory.Memory) (string, error)

// Role is the text placed after "You are <name>." in every prompt. It is
// either fixed or derived from memory.
type Role struct {
	text string
	fn   RoleFunc
}

// StaticRole returns a Role with fixed text.
func StaticRole(text string) Role { return Role{text: text} }

// DynamicRole returns a Role computed by fn for each prompt.
func DynamicRole(fn RoleFunc) Role { return Role{fn: fn} }

// Resolve returns the role text for mem.
func (r Role) Resolve(mem *memory.Memory) (string, error) {
	if r.fn != nil {
		return r.fn(mem)
	}
	return r.text, nil
}
