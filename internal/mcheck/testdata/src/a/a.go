package a

// Command is the type of the commands accepted by the contract.
type Command int

//go:generate stringer -type=Command -output=command_string.go -trimprefix=Command -linecomment extras
const (
	// CommandSet stores a value.
	CommandSet Command = iota

	// CommandGet reads a value.
	CommandGet
)

/* The contract refuses to overwrite a value when the transaction is not signed by the holder. */ // want `Comment too long`
var message = "you are not allowed to change this value"
