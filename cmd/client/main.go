package main

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/vskvj3/geomys-sequence/internal/utils"
)

func main() {
	addr := pflag.StringP("addr", "a", "localhost:6379", "Address of the geomys server")
	pflag.Parse()

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		fmt.Println("Error connecting to server:", err)
		return
	}
	defer conn.Close()

	fmt.Println("Connected to server. Type commands (e.g., PING, PUSHBACK key value, POPFRONT key, DUMP key) and press Enter.")
	reader := bufio.NewReader(os.Stdin)
	responses := utils.NewResponseDecoder(conn)

	for {
		fmt.Print(">> ")
		// Read user input
		input, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("Error reading input:", err)
			return
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		// Parse and validate the input
		request, err := argParser(input)
		if err != nil {
			fmt.Println("Error:", err)
			continue
		}

		// Serialize the request using MessagePack
		data, err := utils.EncodeRequest(request)
		if err != nil {
			fmt.Println("Error serializing request:", err)
			continue
		}

		// Send the serialized request to the server
		if _, err = conn.Write(data); err != nil {
			fmt.Println("Error sending to server:", err)
			return
		}

		// Read the server's response
		serverResponse, err := responses.Decode()
		if err != nil {
			fmt.Println("Error reading from server:", err)
			return
		}
		fmt.Println("Server:", formatResponse(serverResponse))
	}
}
