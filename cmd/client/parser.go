package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// argShapes lists the positional fields each command takes after its name.
var argShapes = map[string][]string{
	"PING":      nil,
	"KEYS":      nil,
	"PUSHFRONT": {"key", "value"},
	"LPUSH":     {"key", "value"},
	"PUSHBACK":  {"key", "value"},
	"RPUSH":     {"key", "value"},
	"PUSH":      {"key", "value"},
	"POPFRONT":  {"key"},
	"LPOP":      {"key"},
	"POPBACK":   {"key"},
	"RPOP":      {"key"},
	"FRONT":     {"key"},
	"BACK":      {"key"},
	"SIZE":      {"key"},
	"EMPTY":     {"key"},
	"RANGE":     {"key"},
	"DUMP":      {"key"},
	"DEL":       {"key"},
	"FIND":      {"key", "value"},
	"COUNT":     {"key", "value"},
	"ERASE":     {"key", "value"},
	"COPY":      {"key", "dest"},
	"MOVE":      {"key", "dest"},
	"SWAP":      {"key", "dest"},
	"EXPIRE":    {"key", "exp"},
}

// argParser parses and validates the command and its arguments
func argParser(input string) (map[string]interface{}, error) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil, errors.New("no command entered")
	}

	command := strings.ToUpper(parts[0])
	request := map[string]interface{}{
		"command": command,
	}

	if command == "ECHO" {
		// ECHO requires a message
		if len(parts) < 2 {
			return nil, errors.New("ECHO requires a message")
		}
		request["message"] = strings.Join(parts[1:], " ")
		return request, nil
	}

	fields, ok := argShapes[command]
	if !ok {
		return nil, errors.Newf("unknown command: %s", command)
	}
	args := parts[1:]
	if len(args) != len(fields) {
		if len(fields) == 0 {
			return nil, errors.Newf("%s does not require any arguments", command)
		}
		return nil, errors.Newf("%s requires %s", command, strings.Join(fields, " and "))
	}

	for i, field := range fields {
		if field == "exp" {
			exp, err := strconv.ParseInt(args[i], 10, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "%s requires an integer exp", command)
			}
			request[field] = exp
			continue
		}
		request[field] = args[i]
	}
	return request, nil
}

// formatResponse renders a server response for the terminal
func formatResponse(serverResponse map[string]interface{}) string {
	status, _ := serverResponse["status"].(string)
	switch status {
	case "OK":
		if message, ok := serverResponse["message"].(string); ok {
			return message
		}
		if values, ok := serverResponse["values"].([]interface{}); ok {
			if len(values) == 0 {
				return "(empty)"
			}
			lines := make([]string, len(values))
			for i, v := range values {
				lines[i] = fmt.Sprintf("%d) %v", i+1, v)
			}
			return strings.Join(lines, "\n")
		}
		if value, ok := serverResponse["value"]; ok {
			return fmt.Sprint(value)
		}
		return "OK"
	case "ERROR", "UNDERFLOW":
		return fmt.Sprintf("%s: %v", status, serverResponse["message"])
	default:
		return fmt.Sprintf("Unexpected server response: %v", serverResponse)
	}
}
