package conversation

// User-facing reply texts. Kept in one place so the engine logic reads as
// pure transitions.
const (
	msgWelcome = "👋 Welcome to Notes Bot!\n\nUse /help to see all commands."

	msgHelp = "📚 Notes Bot Help\n\n" +
		"Available commands:\n\n" +
		"/add - Add a new note\n" +
		"/list - Show all your notes\n" +
		"/cancel - Cancel the current operation\n" +
		"/help - Show this help\n\n" +
		"How to use:\n" +
		"1. Type /add to start\n" +
		"2. Enter the note title\n" +
		"3. Enter the note content\n" +
		"4. Use /list to see all your notes\n" +
		"5. Tap a title to view, edit, or delete"

	msgCancelled = "❌ Cancelled."

	msgAskTitle = "📝 Add a New Note\n\n" +
		"Please enter the note title:\n\n" +
		"(type /cancel to abort)"

	msgEmptyTitle   = "❌ The title cannot be empty. Try again:"
	msgEmptyContent = "❌ The content cannot be empty. Try again:"

	msgAddBroken = "❌ Something went wrong. Try /add again."

	msgCreateFailed    = "❌ Failed to save the note. Try again."
	msgListFailed      = "❌ Failed to load notes. Try again."
	msgLoadFailed      = "❌ Failed to load the note."
	msgUpdateFailed    = "❌ Failed to update the note."
	msgDeleteFailed    = "❌ Failed to delete the note."
	msgOperationFailed = "❌ Operation failed. Try again."

	msgNoNotes   = "📝 No notes yet. Use /add to create one."
	msgListNotes = "📝 Your Notes:\n\nTap a title to view details."
	msgNotFound  = "❌ Note not found."
	msgDeleted   = "✅ Note deleted!"

	labelEdit   = "✏️ Edit"
	labelDelete = "🗑️ Delete"
	labelBack   = "⬅️ Back"
)
