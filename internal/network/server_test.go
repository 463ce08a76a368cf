package network

import (
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/vskvj3/geomys-sequence/internal/core"
	"github.com/vskvj3/geomys-sequence/internal/utils"
)

type testClient struct {
	conn      net.Conn
	responses *utils.ResponseDecoder
}

// Helper function to send a serialized command and receive the deserialized response
func sendSerializedCommand(t *testing.T, c *testClient, command map[string]interface{}) map[string]interface{} {
	t.Helper()

	data, err := msgpack.Marshal(command)
	require.NoError(t, err)
	_, err = c.conn.Write(data)
	require.NoError(t, err)
	return readResponse(t, c)
}

func readResponse(t *testing.T, c *testClient) map[string]interface{} {
	t.Helper()

	require.NoError(t, c.conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	response, err := c.responses.Decode()
	require.NoError(t, err)
	return response
}

func startServer(t *testing.T) *testClient {
	t.Helper()
	utils.NewLogger(filepath.Join(t.TempDir(), "geomys.log"), false)

	server, err := NewServer("0", core.NewCommandHandler(core.NewDatabase()))
	require.NoError(t, err)
	server.MaxRequestBytes = 4096

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- server.Serve(listener) }()

	conn, err := net.Dial("tcp", listener.Addr().String())
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.Close()
		listener.Close()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("server did not stop after the listener closed")
		}
	})
	return &testClient{conn: conn, responses: utils.NewResponseDecoder(conn)}
}

func TestNewServerRequiresDatabase(t *testing.T) {
	utils.NewLogger(filepath.Join(t.TempDir(), "geomys.log"), false)

	_, err := NewServer("0", nil)
	assert.Error(t, err)
	_, err = NewServer("0", &core.CommandHandler{})
	assert.Error(t, err)
}

func TestIntegration(t *testing.T) {
	c := startServer(t)

	t.Run("PING", func(t *testing.T) {
		response := sendSerializedCommand(t, c, map[string]interface{}{"command": "PING"})
		assert.Equal(t, "OK", response["status"])
		assert.Equal(t, "PONG", response["message"])
	})

	t.Run("push, erase and pop", func(t *testing.T) {
		for _, v := range []string{"1", "2", "3"} {
			response := sendSerializedCommand(t, c, map[string]interface{}{"command": "PUSHBACK", "key": "seq", "value": v})
			require.Equal(t, "OK", response["status"])
		}

		response := sendSerializedCommand(t, c, map[string]interface{}{"command": "ERASE", "key": "seq", "value": "2"})
		assert.Equal(t, "OK", response["status"])
		assert.EqualValues(t, 1, response["value"])

		response = sendSerializedCommand(t, c, map[string]interface{}{"command": "RANGE", "key": "seq"})
		assert.Equal(t, []interface{}{"1", "3"}, response["values"])

		response = sendSerializedCommand(t, c, map[string]interface{}{"command": "POPFRONT", "key": "seq"})
		assert.Equal(t, "1", response["value"])

		response = sendSerializedCommand(t, c, map[string]interface{}{"command": "DUMP", "key": "seq"})
		assert.Equal(t, "head->S->3->S->0\ntail->S->3->S->0", response["message"])
	})

	t.Run("LPOP command with empty list should return UNDERFLOW", func(t *testing.T) {
		response := sendSerializedCommand(t, c, map[string]interface{}{"command": "LPOP", "key": "emptyList"})
		assert.Equal(t, "UNDERFLOW", response["status"])
	})

	t.Run("RPOP command with empty list should return UNDERFLOW", func(t *testing.T) {
		response := sendSerializedCommand(t, c, map[string]interface{}{"command": "RPOP", "key": "emptyList"})
		assert.Equal(t, "UNDERFLOW", response["status"])
	})

	t.Run("unknown command", func(t *testing.T) {
		response := sendSerializedCommand(t, c, map[string]interface{}{"command": "INCR", "key": "x"})
		assert.Equal(t, "ERROR", response["status"])
	})
}

func TestFraming(t *testing.T) {
	c := startServer(t)

	t.Run("oversized request gets one error", func(t *testing.T) {
		response := sendSerializedCommand(t, c, map[string]interface{}{"command": "PUSHBACK", "key": "big", "value": strings.Repeat("x", 5000)})
		assert.Equal(t, "ERROR", response["status"])
		assert.Contains(t, response["message"], "request too large")

		response = sendSerializedCommand(t, c, map[string]interface{}{"command": "PING"})
		assert.Equal(t, "PONG", response["message"])

		response = sendSerializedCommand(t, c, map[string]interface{}{"command": "SIZE", "key": "big"})
		assert.EqualValues(t, 0, response["value"])
	})

	t.Run("request split across writes", func(t *testing.T) {
		data, err := msgpack.Marshal(map[string]interface{}{"command": "PUSHBACK", "key": "split", "value": "v"})
		require.NoError(t, err)

		_, err = c.conn.Write(data[:4])
		require.NoError(t, err)
		time.Sleep(20 * time.Millisecond)
		_, err = c.conn.Write(data[4:])
		require.NoError(t, err)

		response := readResponse(t, c)
		assert.Equal(t, "OK", response["status"])
		assert.EqualValues(t, 1, response["value"])
	})

	t.Run("two requests in one write", func(t *testing.T) {
		first, err := msgpack.Marshal(map[string]interface{}{"command": "ECHO", "message": "one"})
		require.NoError(t, err)
		second, err := msgpack.Marshal(map[string]interface{}{"command": "ECHO", "message": "two"})
		require.NoError(t, err)

		_, err = c.conn.Write(append(first, second...))
		require.NoError(t, err)
		assert.Equal(t, "one", readResponse(t, c)["message"])
		assert.Equal(t, "two", readResponse(t, c)["message"])
	})

	t.Run("reply larger than a read buffer", func(t *testing.T) {
		value := strings.Repeat("y", 1000)
		for i := 0; i < 10; i++ {
			response := sendSerializedCommand(t, c, map[string]interface{}{"command": "PUSHBACK", "key": "wide", "value": value})
			require.Equal(t, "OK", response["status"])
		}

		response := sendSerializedCommand(t, c, map[string]interface{}{"command": "RANGE", "key": "wide"})
		values, ok := response["values"].([]interface{})
		require.True(t, ok)
		assert.Len(t, values, 10)

		response = sendSerializedCommand(t, c, map[string]interface{}{"command": "PING"})
		assert.Equal(t, "PONG", response["message"])
	})
}
