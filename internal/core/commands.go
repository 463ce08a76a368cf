package core

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/vskvj3/geomys-sequence/internal/datastructures"
	"github.com/vskvj3/geomys-sequence/internal/utils"
)

// ErrUnknownCommand is returned for a command name the handler does not know.
var ErrUnknownCommand = errors.New("unknown command")

// writeCommands lists the commands that change stored sequences.
var writeCommands = map[string]bool{
	"PUSHFRONT": true,
	"PUSHBACK":  true,
	"POPFRONT":  true,
	"POPBACK":   true,
	"ERASE":     true,
	"COPY":      true,
	"MOVE":      true,
	"SWAP":      true,
	"DEL":       true,
	"EXPIRE":    true,
}

// aliases maps the Redis-style names onto the canonical command names.
var aliases = map[string]string{
	"LPUSH": "PUSHFRONT",
	"RPUSH": "PUSHBACK",
	"PUSH":  "PUSHBACK",
	"LPOP":  "POPFRONT",
	"RPOP":  "POPBACK",
}

type CommandHandler struct {
	Database *Database
	// DefaultExpiry is the EXPIRE ttl in milliseconds used when a request carries no 'exp'.
	DefaultExpiry int64
}

// Create a new CommandHandler instance
func NewCommandHandler(db *Database) *CommandHandler {
	return &CommandHandler{Database: db}
}

// CommandName returns the canonical upper-case name of the command in request.
func CommandName(request map[string]interface{}) (string, bool) {
	command, ok := request["command"].(string)
	if !ok || command == "" {
		return "", false
	}
	command = strings.ToUpper(command)
	if canonical, ok := aliases[command]; ok {
		command = canonical
	}
	return command, true
}

// IsWriteCommand reports whether command changes stored sequences.
func IsWriteCommand(command string) bool {
	return writeCommands[command]
}

// HandleCommand processes a client request and returns the response to send
func (h *CommandHandler) HandleCommand(request map[string]interface{}) (map[string]interface{}, error) {
	command, ok := CommandName(request)
	if !ok {
		return nil, errors.New("invalid or missing 'command' field")
	}

	key, _ := request["key"].(string)
	value, _ := request["value"].(string)
	dest, _ := request["dest"].(string)

	if fields, keyed := commandArity[command]; keyed {
		if key == "" {
			return nil, errors.Newf("%s requires a 'key' field", command)
		}
		if fields.value && value == "" {
			return nil, errors.Newf("%s requires 'key', 'value' fields", command)
		}
		if fields.dest && dest == "" {
			return nil, errors.Newf("%s requires 'key', 'dest' fields", command)
		}
	}

	switch command {
	case "PING":
		return okResponse("message", "PONG"), nil

	case "ECHO":
		message, ok := request["message"].(string)
		if !ok {
			return nil, errors.New("ECHO requires a 'message' field")
		}
		return okResponse("message", message), nil

	case "PUSHFRONT":
		size, err := h.Database.PushFront(key, value)
		return valueOrError(size, err)

	case "PUSHBACK":
		size, err := h.Database.PushBack(key, value)
		return valueOrError(size, err)

	case "POPFRONT":
		v, err := h.Database.PopFront(key)
		return valueOrError(v, err)

	case "POPBACK":
		v, err := h.Database.PopBack(key)
		return valueOrError(v, err)

	case "FRONT":
		v, err := h.Database.Front(key)
		return valueOrError(v, err)

	case "BACK":
		v, err := h.Database.Back(key)
		return valueOrError(v, err)

	case "SIZE":
		size, err := h.Database.Size(key)
		return valueOrError(size, err)

	case "EMPTY":
		size, err := h.Database.Size(key)
		return valueOrError(size == 0, err)

	case "FIND":
		pos, err := h.Database.Find(key, value)
		return valueOrError(pos, err)

	case "COUNT":
		n, err := h.Database.Count(key, value)
		return valueOrError(n, err)

	case "ERASE":
		n, err := h.Database.Erase(key, value)
		return valueOrError(n, err)

	case "RANGE":
		values, err := h.Database.Range(key)
		if err != nil {
			return nil, err
		}
		return okResponse("values", values), nil

	case "DUMP":
		text, err := h.Database.Dump(key)
		if err != nil {
			return nil, err
		}
		return okResponse("message", text), nil

	case "COPY":
		return statusOrError(h.Database.Copy(key, dest))

	case "MOVE":
		return statusOrError(h.Database.Move(key, dest))

	case "SWAP":
		return statusOrError(h.Database.Swap(key, dest))

	case "DEL":
		existed, err := h.Database.Delete(key)
		return valueOrError(existed, err)

	case "EXPIRE":
		ttlMs, ok := utils.ToInt64(request["exp"])
		if _, given := request["exp"]; !given && h.DefaultExpiry > 0 {
			ttlMs, ok = h.DefaultExpiry, true
		}
		if !ok {
			return nil, errors.New("EXPIRE requires an integer 'exp' field")
		}
		return statusOrError(h.Database.Expire(key, ttlMs))

	case "KEYS":
		return okResponse("values", h.Database.Keys()), nil

	default:
		return nil, errors.Wrapf(ErrUnknownCommand, "%s", command)
	}
}

// ErrorResponse renders err for the client. Underflow gets its own status so a
// client can tell an empty sequence apart from a malformed request.
func ErrorResponse(err error) map[string]interface{} {
	status := "ERROR"
	if errors.Is(err, datastructures.ErrUnderflow) {
		status = "UNDERFLOW"
	}
	return map[string]interface{}{"status": status, "message": err.Error()}
}

type arity struct {
	value bool
	dest  bool
}

// commandArity lists the keyed commands and the extra fields they need.
var commandArity = map[string]arity{
	"PUSHFRONT": {value: true},
	"PUSHBACK":  {value: true},
	"POPFRONT":  {},
	"POPBACK":   {},
	"FRONT":     {},
	"BACK":      {},
	"SIZE":      {},
	"EMPTY":     {},
	"FIND":      {value: true},
	"COUNT":     {value: true},
	"ERASE":     {value: true},
	"RANGE":     {},
	"DUMP":      {},
	"COPY":      {dest: true},
	"MOVE":      {dest: true},
	"SWAP":      {dest: true},
	"DEL":       {},
	"EXPIRE":    {},
}

func okResponse(field string, v interface{}) map[string]interface{} {
	return map[string]interface{}{"status": "OK", field: v}
}

func valueOrError(v interface{}, err error) (map[string]interface{}, error) {
	if err != nil {
		return nil, err
	}
	return okResponse("value", v), nil
}

func statusOrError(err error) (map[string]interface{}, error) {
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"status": "OK"}, nil
}
