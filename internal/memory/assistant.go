package memory

import (
	"fmt"
	"strings"

	"github.com/cognisphere-server/internal/domain"
)

const (
	// FallbackReply is returned to the patient whenever the assistant cannot
	// be reached.
	FallbackReply = "I'm having trouble connecting to my brain right now. Please try again."

	// NotFoundReply is what the assistant is told to say when the vault has
	// no answer.
	NotFoundReply = "I don't have a record of that in your vault yet."
)

// VaultContext renders entries one per line for the assistant prompt.
func VaultContext(entries []*domain.MemoryEntry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("- [%s] %s (%s): %s (Tags: %s)",
			e.Date, e.Title, e.Category, e.Notes, strings.Join(e.Tags, ", ")))
	}
	return strings.Join(lines, "\n")
}

// AssistantPrompt builds the single-turn prompt sent to the completion model.
func AssistantPrompt(message string, entries []*domain.MemoryEntry) string {
	var b strings.Builder
	b.WriteString("You are a warm, nostalgic, and helpful Memory Assistant for the Cognisphere app.\n")
	b.WriteString("Your goal is to help the user reminisce about their past based *strictly* on the provided Memory Vault data.\n\n")
	fmt.Fprintf(&b, "USER QUERY: %q\n\n", message)
	b.WriteString("MEMORY VAULT CONTEXT:\n")
	b.WriteString(VaultContext(entries))
	b.WriteString("\n\nINSTRUCTIONS:\n")
	b.WriteString("1. Answer the user's question using the context.\n")
	b.WriteString("2. If the answer is found, be specific (mention dates, tags).\n")
	fmt.Fprintf(&b, "3. If the answer is NOT found in the context, say %q\n", NotFoundReply)
	b.WriteString("4. Keep the tone gentle, encouraging, and clear.\n")
	b.WriteString("5. Keep response under 100 words unless asked for a story.\n")
	return b.String()
}
