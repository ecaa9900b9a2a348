package assets

import (
	"embed"
	"strings"
)

const (
	AgentName        = "root_agent"
	AgentDescription = "Agent to answer questions about the weather or time in a city."
)

//go:embed chat.html instruction.txt
var Dir embed.FS

//go:embed instruction.txt
var instruction string

// SystemInstruction is the instruction handed to the model on every chat.
var SystemInstruction = strings.TrimSpace(instruction)
