package config

const (
	// MaxGameNameLength is the maximum length for game names.
	// Limited to 255 to fit in VARCHAR(255).
	MaxGameNameLength = 255

	// MaxGameDescriptionLength bounds the free-text game description.
	MaxGameDescriptionLength = 4000

	// MaxNodeNameLength is the maximum length for folder and file names
	// in a structure tree.
	MaxNodeNameLength = 255

	// MaxStructureDepth is the deepest folder nesting accepted in a structure.
	MaxStructureDepth = 32

	// MaxStructureNodes bounds the total node count of one structure document.
	MaxStructureNodes = 10000

	// MaxTraitValue bounds the address, spirit and power a sheet may hold.
	MaxTraitValue = 1000

	// MaxNoteImgLength matches the img VARCHAR(40) column of the notes table.
	MaxNoteImgLength = 40

	// MaxNoteDataBytes bounds the freeform payload of a note.
	MaxNoteDataBytes = 1 << 20

	// MaxChatMessageLength is the maximum length of a chat message.
	MaxChatMessageLength = 2000

	// MaxChatAuthorLength bounds the display name attached to a message.
	MaxChatAuthorLength = 255

	// DefaultChatPageSize and MaxChatPageSize bound ListMessages.
	DefaultChatPageSize = 50
	MaxChatPageSize     = 200

	// MaxImageBytes is the largest accepted image upload.
	MaxImageBytes = 5 << 20
)
